package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of outbound network requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Number of outbound network requests",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Duration of LLM completions",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Tokens consumed by LLM calls",
	}, []string{"model", "type"})

	EnrichmentCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_cache_hits_total",
		Help: "Enrichment cache hits by operation",
	}, []string{"operation"})

	EnrichmentCacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_cache_misses_total",
		Help: "Enrichment cache misses by operation",
	}, []string{"operation"})

	BookmarkSavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmark_saves_total",
		Help: "Bookmark save attempts by outcome",
	}, []string{"outcome"})

	FeedRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_requests_total",
		Help: "Number of feed build requests",
	})

	FeedBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_build_seconds",
		Help:    "Time spent building one feed response",
		Buckets: prometheus.DefBuckets,
	})
)

// MustRegister registers all metrics with the given registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		EnrichmentCacheHits,
		EnrichmentCacheMisses,
		BookmarkSavesTotal,
		FeedRequestsTotal,
		FeedBuildSeconds,
	)
}

// ObserveNetworkRequest records one outbound request.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(elapsed)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration records duration and token usage of one completion.
func ObserveLLMGeneration(model string, elapsed time.Duration, promptTokens, completionTokens, totalTokens int) {
	LLMGenerationDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
}
