package bookmarks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
)

type memoryRepo struct {
	bookmarks []domain.Bookmark
}

func (m *memoryRepo) Save(ctx context.Context, title, link string) (domain.SaveOutcome, error) {
	for _, b := range m.bookmarks {
		if b.Title == title && b.Link == link {
			return domain.OutcomeAlreadyExists, nil
		}
	}
	m.bookmarks = append(m.bookmarks, domain.Bookmark{
		Title:     title,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	})
	return domain.OutcomeSaved, nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]domain.Bookmark, error) {
	out := make([]domain.Bookmark, len(m.bookmarks))
	copy(out, m.bookmarks)
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

type stubEnricher struct {
	fail bool
}

func (s *stubEnricher) Summarize(ctx context.Context, text string) (string, error) {
	if s.fail {
		return "", &domain.EnrichmentError{Op: "summarize", Err: errors.New("down")}
	}
	return "summary", nil
}

func (s *stubEnricher) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	if s.fail {
		return "", &domain.EnrichmentError{Op: "classify_sentiment", Err: errors.New("down")}
	}
	return domain.SentimentPositive, nil
}

func (s *stubEnricher) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	if s.fail {
		return nil, &domain.EnrichmentError{Op: "key_phrases", Err: errors.New("down")}
	}
	return []string{"phrase"}, nil
}

func TestSaveIdempotent(t *testing.T) {
	svc := NewService(&memoryRepo{}, &stubEnricher{}, zerolog.Nop())

	outcome, err := svc.Save(context.Background(), "T", "U")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.OutcomeSaved {
		t.Fatalf("expected Saved, got %s", outcome)
	}

	outcome, err = svc.Save(context.Background(), "T", "U")
	if err != nil {
		t.Fatalf("duplicate save must not error: %v", err)
	}
	if outcome != domain.OutcomeAlreadyExists {
		t.Fatalf("expected AlreadyExists, got %s", outcome)
	}

	saved, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 1 || saved[0].Title != "T" || saved[0].Link != "U" {
		t.Fatalf("expected exactly one bookmark (T, U), got %v", saved)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	svc := NewService(&memoryRepo{}, &stubEnricher{}, zerolog.Nop())
	if _, err := svc.Save(context.Background(), "  ", "U"); !errors.Is(err, ErrEmptyBookmark) {
		t.Fatalf("expected ErrEmptyBookmark, got %v", err)
	}
	if _, err := svc.Save(context.Background(), "T", ""); !errors.Is(err, ErrEmptyBookmark) {
		t.Fatalf("expected ErrEmptyBookmark, got %v", err)
	}
}

func TestListEnriched(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, &stubEnricher{}, zerolog.Nop())
	if _, err := svc.Save(context.Background(), "T", "U"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enriched, err := svc.ListEnriched(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("expected 1 item, got %d", len(enriched))
	}
	item := enriched[0]
	if item.Enrichment.Summary != "summary" || item.Enrichment.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected enrichment: %+v", item.Enrichment)
	}
	if item.Degraded {
		t.Fatalf("expected non-degraded item")
	}
}

func TestListEnrichedDegrades(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, &stubEnricher{fail: true}, zerolog.Nop())
	if _, err := svc.Save(context.Background(), "T", "U"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enriched, err := svc.ListEnriched(context.Background())
	if err != nil {
		t.Fatalf("enrichment failure must not fail the listing: %v", err)
	}
	item := enriched[0]
	if !item.Degraded || item.Enrichment.Summary != "Summary unavailable" {
		t.Fatalf("expected degraded placeholders, got %+v", item)
	}
	if item.Enrichment.Sentiment != domain.SentimentNeutral {
		t.Fatalf("degraded sentiment must be Neutral")
	}
}
