package domain

import (
	"context"
	"time"
)

// NewsGateway retrieves articles from the news search API.
type NewsGateway interface {
	Search(ctx context.Context, topics []string, freeText string) ([]Article, error)
	TopHeadlines(ctx context.Context) ([]Article, error)
}

// StandingsGateway retrieves F1 championship tables.
type StandingsGateway interface {
	DriverStandings(ctx context.Context, season string) ([]StandingRow, error)
	ConstructorStandings(ctx context.Context, season string) ([]StandingRow, error)
}

// DatasetGateway retrieves the charted statistical datasets.
type DatasetGateway interface {
	Dataset(ctx context.Context, source DatasetSource) (Table, error)
}

// Enricher runs the three language-model operations over one text blob.
type Enricher interface {
	Summarize(ctx context.Context, text string) (string, error)
	ClassifySentiment(ctx context.Context, text string) (Sentiment, error)
	KeyPhrases(ctx context.Context, text string) ([]string, error)
}

// Cache is a TTL store. Expiry is measured from insertion; there is no
// sliding renewal, no capacity bound and no single-flight coalescing.
type Cache interface {
	// GetOrCompute returns the cached value for key, or runs compute and
	// stores its result for ttl. A failed compute is never stored. The bool
	// reports whether the value came from the cache.
	GetOrCompute(key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error)
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

// BookmarkRepo persists user-selected articles, deduplicated on (title, link).
type BookmarkRepo interface {
	Save(ctx context.Context, title, link string) (SaveOutcome, error)
	ListAll(ctx context.Context) ([]Bookmark, error)
}

// UserRepo manages registered profiles and their interests.
type UserRepo interface {
	UpsertByEmail(ctx context.Context, email string) (UserProfile, error)
	SetInterests(ctx context.Context, email string, interests []string) error
	GetByEmail(ctx context.Context, email string) (UserProfile, error)
}
