package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/usecase/bookmarks"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/users"
)

type fakeNews struct {
	articles []domain.Article
	err      error
}

func (f *fakeNews) Search(ctx context.Context, topics []string, freeText string) ([]domain.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func (f *fakeNews) TopHeadlines(ctx context.Context) ([]domain.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type fakeEnricher struct{}

func (fakeEnricher) Summarize(ctx context.Context, text string) (string, error) {
	return "summary", nil
}

func (fakeEnricher) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	return domain.SentimentNeutral, nil
}

func (fakeEnricher) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	return []string{"phrase"}, nil
}

type fakeBookmarks struct {
	saved []domain.Bookmark
}

func (f *fakeBookmarks) Save(ctx context.Context, title, link string) (domain.SaveOutcome, error) {
	for _, b := range f.saved {
		if b.Title == title && b.Link == link {
			return domain.OutcomeAlreadyExists, nil
		}
	}
	f.saved = append(f.saved, domain.Bookmark{ID: "1", Title: title, Link: link, CreatedAt: time.Now()})
	return domain.OutcomeSaved, nil
}

func (f *fakeBookmarks) ListAll(ctx context.Context) ([]domain.Bookmark, error) {
	return f.saved, nil
}

type fakeUsers struct {
	users map[string]domain.UserProfile
}

func (f *fakeUsers) UpsertByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	if email == "" {
		email = domain.GuestEmail
	}
	u := domain.UserProfile{ID: "u1", Email: email}
	if existing, ok := f.users[email]; ok {
		u = existing
	} else {
		f.users[email] = u
	}
	return u, nil
}

func (f *fakeUsers) SetInterests(ctx context.Context, email string, interests []string) error {
	u, ok := f.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Interests = interests
	f.users[email] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	u, ok := f.users[email]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeStandings struct{}

func (fakeStandings) DriverStandings(ctx context.Context, season string) ([]domain.StandingRow, error) {
	return []domain.StandingRow{{Position: 1, Name: "Max Verstappen", Points: 575}}, nil
}

func (fakeStandings) ConstructorStandings(ctx context.Context, season string) ([]domain.StandingRow, error) {
	return []domain.StandingRow{{Position: 1, Name: "Red Bull", Points: 860}}, nil
}

type fakeDatasets struct{}

func (fakeDatasets) Dataset(ctx context.Context, source domain.DatasetSource) (domain.Table, error) {
	if source != domain.DatasetInflation {
		return domain.Table{}, domain.ErrUnknownDataset
	}
	return domain.Table{Columns: []string{"date", "value"}, Rows: [][]string{{"2024-01", "308.4"}}}, nil
}

func newTestRouter(news domain.NewsGateway, userRepo domain.UserRepo) (chi.Router, *fakeBookmarks) {
	logger := zerolog.Nop()
	bookmarkRepo := &fakeBookmarks{}
	feedSvc := feed.NewService(news, fakeEnricher{}, userRepo, logger)
	bookmarkSvc := bookmarks.NewService(bookmarkRepo, fakeEnricher{}, logger)
	userSvc := users.NewService(userRepo)
	handler := NewHandler(feedSvc, bookmarkSvc, userSvc, fakeStandings{}, fakeDatasets{}, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r, bookmarkRepo
}

func TestGetNews(t *testing.T) {
	news := &fakeNews{articles: []domain.Article{
		{Title: "A", URL: "https://example.com/a", Content: "body", PublishedAt: time.Now().UTC()},
	}}
	router, _ := newTestRouter(news, &fakeUsers{users: map[string]domain.UserProfile{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/news?topics=Technology", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Articles []struct {
			Title      string `json:"title"`
			Enrichment struct {
				Summary string `json:"summary"`
			} `json:"enrichment"`
		} `json:"articles"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Articles) != 1 || resp.Articles[0].Enrichment.Summary != "summary" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetNewsInvalidDate(t *testing.T) {
	router, _ := newTestRouter(&fakeNews{}, &fakeUsers{users: map[string]domain.UserProfile{}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/news?date=tomorrow", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetNewsUpstreamError(t *testing.T) {
	news := &fakeNews{err: &domain.RemoteError{Service: "newsapi", StatusCode: 429, Body: "rate limited"}}
	router, _ := newTestRouter(news, &fakeUsers{users: map[string]domain.UserProfile{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/news?q=test", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "rate limited") {
		t.Fatalf("expected inline upstream message, got %s", rec.Body.String())
	}
}

func TestBookmarkSaveTwice(t *testing.T) {
	router, _ := newTestRouter(&fakeNews{}, &fakeUsers{users: map[string]domain.UserProfile{}})

	body := `{"title":"T","link":"U"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", strings.NewReader(body)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "saved") {
		t.Fatalf("expected saved outcome, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", strings.NewReader(body)))
	if !strings.Contains(rec.Body.String(), "already_exists") {
		t.Fatalf("expected already_exists outcome, got %s", rec.Body.String())
	}
}

func TestDatasetNotFound(t *testing.T) {
	router, _ := newTestRouter(&fakeNews{}, &fakeUsers{users: map[string]domain.UserProfile{}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPersonalFeedRequiresInterests(t *testing.T) {
	userRepo := &fakeUsers{users: map[string]domain.UserProfile{
		"ada@example.com": {ID: "u1", Email: "ada@example.com"},
	}}
	router, _ := newTestRouter(&fakeNews{}, userRepo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed/ada@example.com", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed/nobody@example.com", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStandings(t *testing.T) {
	router, _ := newTestRouter(&fakeNews{}, &fakeUsers{users: map[string]domain.UserProfile{}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/standings/drivers", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Max Verstappen") {
		t.Fatalf("unexpected standings response: %d %s", rec.Code, rec.Body.String())
	}
}
