package feed

import (
	"testing"
	"time"

	"news-dashboard/internal/domain"
)

func article(title string, published time.Time) domain.Article {
	return domain.Article{Title: title, URL: "https://example.com/" + title, PublishedAt: published}
}

func TestYesterdayBucket(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		article("A", now.Add(-48*time.Hour)),
		article("B", now.Add(-12*time.Hour)),
	}
	filtered := FilterByDate(articles, domain.BucketYesterday, now)
	if len(filtered) != 1 || filtered[0].Title != "B" {
		t.Fatalf("expected only B, got %v", filtered)
	}
}

func TestBucketBoundariesHalfOpen(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	start, end, ok := BucketRange(domain.BucketYesterday, now)
	if !ok {
		t.Fatalf("expected valid bucket")
	}
	articles := []domain.Article{
		article("at-start", start),
		article("at-end", end),
		article("just-before-end", end.Add(-time.Second)),
	}
	filtered := FilterByDate(articles, domain.BucketYesterday, now)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 articles, got %v", filtered)
	}
	for _, a := range filtered {
		if a.Title == "at-end" {
			t.Fatalf("article at end must be excluded")
		}
	}
}

func TestLastWeekBucket(t *testing.T) {
	// Friday 2024-05-10: previous ISO week is Mon 2024-04-29 .. Mon 2024-05-06.
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	start, end, ok := BucketRange(domain.BucketLastWeek, now)
	if !ok {
		t.Fatalf("expected valid bucket")
	}
	expectedStart := time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)
	expectedEnd := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expectedStart) || !end.Equal(expectedEnd) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", expectedStart, expectedEnd, start, end)
	}
}

func TestLastWeekBucketOnMonday(t *testing.T) {
	now := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	start, _, _ := BucketRange(domain.BucketLastWeek, now)
	if !start.Equal(time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
}

func TestLastMonthBucket(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	start, end, ok := BucketRange(domain.BucketLastMonth, now)
	if !ok {
		t.Fatalf("expected valid bucket")
	}
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestMissingPublishedAtFailsClosed(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "no-date", URL: "https://example.com/x"},
		article("ok", now.Add(-time.Hour)),
	}
	filtered := FilterByDate(articles, domain.BucketYesterday, now)
	if len(filtered) != 1 || filtered[0].Title != "ok" {
		t.Fatalf("article without date must be excluded, got %v", filtered)
	}
}
