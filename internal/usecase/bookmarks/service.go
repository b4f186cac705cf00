package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

// ErrEmptyBookmark is returned when title or link is missing.
var ErrEmptyBookmark = errors.New("bookmark requires both title and link")

// EnrichedBookmark is a saved article together with its model-derived view.
type EnrichedBookmark struct {
	Bookmark   domain.Bookmark
	Enrichment domain.Enrichment
	Degraded   bool
}

// Service persists bookmarks and rebuilds their enrichment for display.
type Service struct {
	repo     domain.BookmarkRepo
	enricher domain.Enricher
	log      zerolog.Logger
}

// NewService creates the bookmark service.
func NewService(repo domain.BookmarkRepo, enricher domain.Enricher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, enricher: enricher, log: logger}
}

// Save stores one (title, link) pair. Saving the same pair again reports
// AlreadyExists, never an error.
func (s *Service) Save(ctx context.Context, title, link string) (domain.SaveOutcome, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return "", ErrEmptyBookmark
	}
	outcome, err := s.repo.Save(ctx, title, link)
	if err != nil {
		return "", fmt.Errorf("save bookmark: %w", err)
	}
	metrics.BookmarkSavesTotal.WithLabelValues(string(outcome)).Inc()
	return outcome, nil
}

// ListAll returns all bookmarks, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Bookmark, error) {
	return s.repo.ListAll(ctx)
}

// ListEnriched returns all bookmarks with summary, sentiment and key phrases
// recomputed through the memoized enricher. Only the title is persisted, so
// enrichment runs over a placeholder content string derived from it.
func (s *Service) ListEnriched(ctx context.Context) ([]EnrichedBookmark, error) {
	saved, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	enriched := make([]EnrichedBookmark, 0, len(saved))
	for _, bookmark := range saved {
		item := EnrichedBookmark{Bookmark: bookmark}
		text := placeholderContent(bookmark.Title)

		if summary, err := s.enricher.Summarize(ctx, text); err != nil {
			s.log.Warn().Err(err).Str("link", bookmark.Link).Msg("bookmark summarize failed")
			item.Enrichment.Summary = "Summary unavailable"
			item.Degraded = true
		} else {
			item.Enrichment.Summary = summary
		}

		if sentiment, err := s.enricher.ClassifySentiment(ctx, text); err != nil {
			item.Enrichment.Sentiment = domain.SentimentNeutral
			item.Degraded = true
		} else {
			item.Enrichment.Sentiment = sentiment
		}

		if phrases, err := s.enricher.KeyPhrases(ctx, text); err != nil {
			item.Degraded = true
		} else {
			item.Enrichment.KeyPhrases = phrases
		}
		enriched = append(enriched, item)
	}
	return enriched, nil
}

func placeholderContent(title string) string {
	return fmt.Sprintf("Content of the article titled '%s'", title)
}
