package feed

import (
	"context"
	"time"

	"news-dashboard/internal/domain"
)

// BucketRange resolves a date bucket to its half-open [start, end) interval.
func BucketRange(bucket domain.DateBucket, now time.Time) (time.Time, time.Time, bool) {
	switch bucket {
	case domain.BucketYesterday:
		return now.Add(-24 * time.Hour), now, true
	case domain.BucketLastWeek:
		// Start of the previous ISO week: Monday, 7-13 days back.
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		start := startOfDay(now).AddDate(0, 0, -daysSinceMonday-7)
		return start, start.AddDate(0, 0, 7), true
	case domain.BucketLastMonth:
		firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return firstOfCurrent.AddDate(0, -1, 0), firstOfCurrent, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FilterByDate retains articles published within the bucket's interval.
// Articles with an absent publication time are excluded (fail closed).
func FilterByDate(articles []domain.Article, bucket domain.DateBucket, now time.Time) []domain.Article {
	start, end, ok := BucketRange(bucket, now)
	if !ok {
		return articles
	}
	filtered := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if article.PublishedAt.IsZero() {
			continue
		}
		if article.PublishedAt.Before(start) || !article.PublishedAt.Before(end) {
			continue
		}
		filtered = append(filtered, article)
	}
	return filtered
}

// FilterBySentiment retains articles whose classified sentiment matches. It
// classifies every candidate, so the cost is proportional to the unfiltered
// count; the enrichment cache is the only optimization. Articles whose
// classification fails are excluded.
func (s *Service) FilterBySentiment(ctx context.Context, articles []domain.Article, want domain.Sentiment) []domain.Article {
	filtered := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		sentiment, err := s.enricher.ClassifySentiment(ctx, article.Text())
		if err != nil {
			s.log.Warn().Err(err).Str("url", article.URL).Msg("sentiment classification failed, article excluded")
			continue
		}
		if sentiment == want {
			filtered = append(filtered, article)
		}
	}
	return filtered
}
