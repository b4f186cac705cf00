package enrich

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/cache"
)

type countingEnricher struct {
	summarizeCalls int
	classifyCalls  int
	phraseCalls    int
	err            error
}

func (c *countingEnricher) Summarize(ctx context.Context, text string) (string, error) {
	c.summarizeCalls++
	if c.err != nil {
		return "", c.err
	}
	return "summary of " + text, nil
}

func (c *countingEnricher) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	c.classifyCalls++
	if c.err != nil {
		return "", c.err
	}
	return domain.SentimentPositive, nil
}

func (c *countingEnricher) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	c.phraseCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"a", "b"}, nil
}

func TestSummarizeMemoized(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	inner := &countingEnricher{}
	cached := NewCached(inner, cache.NewMemoryWithClock(func() time.Time { return now }), 600*time.Second)

	first, err := cached.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected byte-identical results, got %q and %q", first, second)
	}
	if inner.summarizeCalls != 1 {
		t.Fatalf("expected 1 backend call, got %d", inner.summarizeCalls)
	}

	now = now.Add(601 * time.Second)
	if _, err := cached.Summarize(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.summarizeCalls != 2 {
		t.Fatalf("expected recompute after TTL, got %d calls", inner.summarizeCalls)
	}
}

func TestWhitespaceMakesDistinctKeys(t *testing.T) {
	inner := &countingEnricher{}
	cached := NewCached(inner, cache.NewMemory(), time.Minute)

	if _, err := cached.Summarize(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Summarize(context.Background(), "text "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.summarizeCalls != 2 {
		t.Fatalf("texts differing by whitespace must be distinct keys, got %d calls", inner.summarizeCalls)
	}
}

func TestFailureNotMemoized(t *testing.T) {
	inner := &countingEnricher{err: &domain.EnrichmentError{Op: "classify_sentiment", Err: errors.New("down")}}
	cached := NewCached(inner, cache.NewMemory(), time.Minute)

	if _, err := cached.ClassifySentiment(context.Background(), "text"); err == nil {
		t.Fatalf("expected error")
	}
	inner.err = nil
	sentiment, err := cached.ClassifySentiment(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sentiment != domain.SentimentPositive {
		t.Fatalf("expected retried result, got %s", sentiment)
	}
	if inner.classifyCalls != 2 {
		t.Fatalf("expected retry after failure, got %d calls", inner.classifyCalls)
	}
}

func TestKeyPhrasesRoundTrip(t *testing.T) {
	inner := &countingEnricher{}
	cached := NewCached(inner, cache.NewMemory(), time.Minute)

	first, err := cached.KeyPhrases(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.KeyPhrases(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical phrases, got %v and %v", first, second)
	}
	if inner.phraseCalls != 1 {
		t.Fatalf("expected 1 backend call, got %d", inner.phraseCalls)
	}
}
