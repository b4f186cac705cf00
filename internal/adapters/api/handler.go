package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/usecase/bookmarks"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/users"
)

// Handler exposes the dashboard data plane over HTTP.
type Handler struct {
	feed      *feed.Service
	bookmarks *bookmarks.Service
	users     *users.Service
	standings domain.StandingsGateway
	datasets  domain.DatasetGateway
	log       zerolog.Logger
}

// NewHandler creates the handler.
func NewHandler(feedSvc *feed.Service, bookmarkSvc *bookmarks.Service, userSvc *users.Service, standings domain.StandingsGateway, datasets domain.DatasetGateway, logger zerolog.Logger) *Handler {
	return &Handler{
		feed:      feedSvc,
		bookmarks: bookmarkSvc,
		users:     userSvc,
		standings: standings,
		datasets:  datasets,
		log:       logger,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/news", h.getNews)
		r.Get("/news/trending", h.getTrending)
		r.Get("/feed/{email}", h.getPersonalFeed)
		r.Get("/topics", h.getTopics)

		r.Post("/bookmarks", h.postBookmark)
		r.Get("/bookmarks", h.getBookmarks)

		r.Get("/standings/drivers", h.getDriverStandings)
		r.Get("/standings/constructors", h.getConstructorStandings)
		r.Get("/datasets/{source}", h.getDataset)

		r.Post("/users", h.postUser)
		r.Get("/users/{email}", h.getUser)
		r.Put("/users/{email}/interests", h.putInterests)
	})
}

func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}
	page, err := h.feed.Build(r.Context(), criteria)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, toPageResponse(page))
}

func (h *Handler) getTrending(w http.ResponseWriter, r *http.Request) {
	page, err := h.feed.Build(r.Context(), domain.FilterCriteria{})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, toPageResponse(page))
}

func (h *Handler) getPersonalFeed(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	articles, err := h.feed.Personalized(r.Context(), email)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	items := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		items = append(items, toArticleResponse(article))
	}
	writeJSON(w, map[string]any{"articles": items})
}

func (h *Handler) getTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"topics": domain.Topics})
}

type bookmarkRequest struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

func (h *Handler) postBookmark(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outcome, err := h.bookmarks.Save(r.Context(), req.Title, req.Link)
	if err != nil {
		if errors.Is(err, bookmarks.ErrEmptyBookmark) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("bookmark save")
		writeError(w, http.StatusInternalServerError, "failed to save bookmark")
		return
	}
	writeJSON(w, map[string]string{"outcome": string(outcome)})
}

func (h *Handler) getBookmarks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("enriched") == "true" {
		enriched, err := h.bookmarks.ListEnriched(r.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("bookmark list")
			writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
			return
		}
		items := make([]enrichedBookmarkResponse, 0, len(enriched))
		for _, item := range enriched {
			items = append(items, enrichedBookmarkResponse{
				bookmarkResponse: toBookmarkResponse(item.Bookmark),
				Enrichment:       item.Enrichment,
				Degraded:         item.Degraded,
			})
		}
		writeJSON(w, map[string]any{"bookmarks": items})
		return
	}

	saved, err := h.bookmarks.ListAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("bookmark list")
		writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}
	items := make([]bookmarkResponse, 0, len(saved))
	for _, bookmark := range saved {
		items = append(items, toBookmarkResponse(bookmark))
	}
	writeJSON(w, map[string]any{"bookmarks": items})
}

func (h *Handler) getDriverStandings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.standings.DriverStandings(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]any{"standings": toStandingRows(rows)})
}

func (h *Handler) getConstructorStandings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.standings.ConstructorStandings(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]any{"standings": toStandingRows(rows)})
}

func (h *Handler) getDataset(w http.ResponseWriter, r *http.Request) {
	source := domain.DatasetSource(chi.URLParam(r, "source"))
	table, err := h.datasets.Dataset(r.Context(), source)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, table)
}

type userRequest struct {
	Email string `json:"email"`
}

func (h *Handler) postUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.users.Register(r.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("user register")
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}
	writeJSON(w, toUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, toUserResponse(user))
}

type interestsRequest struct {
	Interests []string `json:"interests"`
}

func (h *Handler) putInterests(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req interestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.users.SetInterests(r.Context(), chi.URLParam(r, "email"), req.Interests); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) parseCriteria(w http.ResponseWriter, r *http.Request) (domain.FilterCriteria, bool) {
	q := r.URL.Query()

	bucket, ok := domain.ParseDateBucket(q.Get("date"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date filter")
		return domain.FilterCriteria{}, false
	}
	sentiment, ok := domain.ParseSentiment(q.Get("sentiment"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid sentiment filter")
		return domain.FilterCriteria{}, false
	}
	page := 1
	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return domain.FilterCriteria{}, false
		}
		page = parsed
	}

	var topics []string
	if raw := strings.TrimSpace(q.Get("topics")); raw != "" {
		for _, topic := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(topic); trimmed != "" {
				topics = append(topics, trimmed)
			}
		}
	}

	return domain.FilterCriteria{
		Topics:    topics,
		Query:     strings.TrimSpace(q.Get("q")),
		Date:      bucket,
		Sentiment: sentiment,
		Page:      page,
	}, true
}

// writeDomainError maps domain errors to HTTP responses. Upstream failures
// are surfaced inline with their status, not swallowed.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var remoteErr *domain.RemoteError
	switch {
	case errors.As(err, &remoteErr):
		h.log.Warn().Err(remoteErr).Msg("upstream error")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":           remoteErr.Body,
			"service":         remoteErr.Service,
			"upstream_status": remoteErr.StatusCode,
		})
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrNoInterests):
		writeError(w, http.StatusConflict, "profile has no interests set")
	case errors.Is(err, domain.ErrUnknownDataset):
		writeError(w, http.StatusNotFound, "unknown dataset source")
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type articleResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type enrichedArticleResponse struct {
	articleResponse
	Enrichment domain.Enrichment `json:"enrichment"`
	Degraded   bool              `json:"degraded,omitempty"`
}

type pageResponse struct {
	Articles []enrichedArticleResponse `json:"articles"`
	Total    int                       `json:"total"`
	HasMore  bool                      `json:"has_more"`
}

func toArticleResponse(article domain.Article) articleResponse {
	resp := articleResponse{
		Title:       article.Title,
		Description: article.Description,
		Content:     article.Content,
		URL:         article.URL,
		SourceName:  article.SourceName,
		ImageURL:    article.ImageURL,
	}
	if !article.PublishedAt.IsZero() {
		resp.PublishedAt = article.PublishedAt.Format(time.RFC3339)
	}
	return resp
}

func toPageResponse(page feed.Page) pageResponse {
	items := make([]enrichedArticleResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, enrichedArticleResponse{
			articleResponse: toArticleResponse(item.Article),
			Enrichment:      item.Enrichment,
			Degraded:        item.Degraded,
		})
	}
	return pageResponse{Articles: items, Total: page.Total, HasMore: page.HasMore}
}

type bookmarkResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	CreatedAt string `json:"created_at"`
}

type enrichedBookmarkResponse struct {
	bookmarkResponse
	Enrichment domain.Enrichment `json:"enrichment"`
	Degraded   bool              `json:"degraded,omitempty"`
}

func toBookmarkResponse(bookmark domain.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:        bookmark.ID,
		Title:     bookmark.Title,
		Link:      bookmark.Link,
		CreatedAt: bookmark.CreatedAt.Format(time.RFC3339),
	}
}

type standingRowResponse struct {
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	Nationality string  `json:"nationality,omitempty"`
	Team        string  `json:"team,omitempty"`
}

func toStandingRows(rows []domain.StandingRow) []standingRowResponse {
	out := make([]standingRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingRowResponse{
			Position:    row.Position,
			Name:        row.Name,
			Points:      row.Points,
			Wins:        row.Wins,
			Nationality: row.Nationality,
			Team:        row.Team,
		})
	}
	return out
}

type userResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
}

func toUserResponse(user domain.UserProfile) userResponse {
	interests := user.Interests
	if interests == nil {
		interests = []string{}
	}
	return userResponse{ID: user.ID, Email: user.Email, Interests: interests}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
