package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

// DegradedSummary marks an article whose enrichment call failed.
const DegradedSummary = "Summary unavailable"

// EnrichedArticle is one feed item together with its model-derived view.
type EnrichedArticle struct {
	Article    domain.Article
	Enrichment domain.Enrichment
	// Degraded is set when enrichment failed and placeholders are shown.
	Degraded bool
}

// Page is one rendered slice of the feed.
type Page struct {
	Items   []EnrichedArticle
	Total   int
	HasMore bool
}

// Service is the retrieval-filter-enrich pipeline behind every news view.
type Service struct {
	news     domain.NewsGateway
	enricher domain.Enricher
	users    domain.UserRepo
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates the feed service.
func NewService(news domain.NewsGateway, enricher domain.Enricher, users domain.UserRepo, logger zerolog.Logger) *Service {
	return &Service{news: news, enricher: enricher, users: users, log: logger, now: time.Now}
}

// WithClock substitutes the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Build runs the pipeline for one set of criteria: fetch, date filter,
// sentiment filter, paginate, enrich the visible slice.
func (s *Service) Build(ctx context.Context, criteria domain.FilterCriteria) (Page, error) {
	metrics.FeedRequestsTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.FeedBuildSeconds.Observe(time.Since(start).Seconds())
	}()

	articles, err := s.retrieve(ctx, criteria)
	if err != nil {
		return Page{}, err
	}

	// Date filter first: it is free and shrinks the set the sentiment
	// filter has to classify.
	if criteria.Date != "" {
		articles = FilterByDate(articles, criteria.Date, s.now())
	}
	if criteria.Sentiment != "" {
		articles = s.FilterBySentiment(ctx, articles, criteria.Sentiment)
	}

	total := len(articles)
	shown := pageEnd(criteria.Page)
	hasMore := total > shown
	if shown > total {
		shown = total
	}

	items := make([]EnrichedArticle, 0, shown)
	for _, article := range articles[:shown] {
		items = append(items, s.enrichOne(ctx, article))
	}
	return Page{Items: items, Total: total, HasMore: hasMore}, nil
}

// Personalized fetches articles for the stored interests of a profile.
func (s *Service) Personalized(ctx context.Context, email string) ([]domain.Article, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(user.Interests) == 0 {
		return nil, domain.ErrNoInterests
	}
	articles, err := s.news.Search(ctx, user.Interests, "")
	if err != nil {
		return nil, fmt.Errorf("personalized fetch: %w", err)
	}
	return articles, nil
}

func (s *Service) retrieve(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Article, error) {
	if len(criteria.Topics) == 0 && criteria.Query == "" {
		return s.news.TopHeadlines(ctx)
	}
	return s.news.Search(ctx, criteria.Topics, criteria.Query)
}

// enrichOne degrades to placeholders instead of failing the page: a broken
// enrichment backend must not take the whole feed down.
func (s *Service) enrichOne(ctx context.Context, article domain.Article) EnrichedArticle {
	item := EnrichedArticle{Article: article}
	text := article.Text()

	summary, err := s.enricher.Summarize(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Str("url", article.URL).Msg("summarize failed")
		item.Enrichment = domain.Enrichment{Summary: DegradedSummary, Sentiment: domain.SentimentNeutral}
		item.Degraded = true
		return item
	}
	item.Enrichment.Summary = summary

	sentiment, err := s.enricher.ClassifySentiment(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Str("url", article.URL).Msg("classify failed")
		item.Enrichment.Sentiment = domain.SentimentNeutral
		item.Degraded = true
	} else {
		item.Enrichment.Sentiment = sentiment
	}

	phrases, err := s.enricher.KeyPhrases(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Str("url", article.URL).Msg("key phrases failed")
		item.Degraded = true
	} else {
		item.Enrichment.KeyPhrases = phrases
	}
	return item
}

func pageEnd(page int) int {
	if page < 1 {
		page = 1
	}
	return page * domain.PageSize
}
