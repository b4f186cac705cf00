package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

// CachedEnricher memoizes enrichment results keyed on the exact input text.
// Two texts differing by even whitespace are distinct keys. A failed backend
// call is never stored, so the next lookup retries it.
type CachedEnricher struct {
	inner domain.Enricher
	cache domain.Cache
	ttl   time.Duration
}

var _ domain.Enricher = (*CachedEnricher)(nil)

// NewCached wraps an enricher with the TTL cache.
func NewCached(inner domain.Enricher, cache domain.Cache, ttl time.Duration) *CachedEnricher {
	if ttl <= 0 {
		ttl = 600 * time.Second
	}
	return &CachedEnricher{inner: inner, cache: cache, ttl: ttl}
}

// Summarize implements domain.Enricher.
func (c *CachedEnricher) Summarize(ctx context.Context, text string) (string, error) {
	value, cached, err := c.cache.GetOrCompute("summary:"+text, c.ttl, func() ([]byte, error) {
		summary, err := c.inner.Summarize(ctx, text)
		if err != nil {
			return nil, err
		}
		return []byte(summary), nil
	})
	observe("summarize", cached)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// ClassifySentiment implements domain.Enricher.
func (c *CachedEnricher) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	value, cached, err := c.cache.GetOrCompute("sentiment:"+text, c.ttl, func() ([]byte, error) {
		sentiment, err := c.inner.ClassifySentiment(ctx, text)
		if err != nil {
			return nil, err
		}
		return []byte(sentiment), nil
	})
	observe("classify_sentiment", cached)
	if err != nil {
		return "", err
	}
	return domain.Sentiment(value), nil
}

// KeyPhrases implements domain.Enricher.
func (c *CachedEnricher) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	value, cached, err := c.cache.GetOrCompute("phrases:"+text, c.ttl, func() ([]byte, error) {
		phrases, err := c.inner.KeyPhrases(ctx, text)
		if err != nil {
			return nil, err
		}
		return json.Marshal(phrases)
	})
	observe("key_phrases", cached)
	if err != nil {
		return nil, err
	}
	var phrases []string
	if err := json.Unmarshal(value, &phrases); err != nil {
		return nil, fmt.Errorf("decode cached phrases: %w", err)
	}
	return phrases, nil
}

func observe(operation string, cached bool) {
	if cached {
		metrics.EnrichmentCacheHits.WithLabelValues(operation).Inc()
		return
	}
	metrics.EnrichmentCacheMisses.WithLabelValues(operation).Inc()
}
