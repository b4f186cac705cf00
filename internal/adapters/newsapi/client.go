package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

const publishedAtLayout = "2006-01-02T15:04:05Z"

// fallbackQuery is used when neither topics nor free text are selected.
const fallbackQuery = "trending"

// Client is the news search gateway over the NewsAPI HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

var _ domain.NewsGateway = (*Client)(nil)

// Config describes the client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates the gateway.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// BuildQuery combines topics and free text into one query expression:
// topics alone are OR-joined; free text is AND-joined with the AND-joined
// topic list.
func BuildQuery(topics []string, freeText string) string {
	topics = compact(topics)
	freeText = strings.TrimSpace(freeText)
	switch {
	case freeText != "" && len(topics) > 0:
		return freeText + " AND " + strings.Join(topics, " AND ")
	case freeText != "":
		return freeText
	case len(topics) > 0:
		return strings.Join(topics, " OR ")
	default:
		return fallbackQuery
	}
}

// Search implements domain.NewsGateway.
func (c *Client) Search(ctx context.Context, topics []string, freeText string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", BuildQuery(topics, freeText))
	return c.fetch(ctx, "everything", params)
}

// TopHeadlines implements domain.NewsGateway. It backs the trending view.
func (c *Client) TopHeadlines(ctx context.Context) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("country", "us")
	params.Set("pageSize", "10")
	return c.fetch(ctx, "top-headlines", params)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]domain.Article, error) {
	params.Set("apiKey", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, "articles", start, err)
		return nil, &domain.RemoteError{Service: "newsapi", Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, "articles", start, err)
		return nil, fmt.Errorf("newsapi: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := decodeError(resp.StatusCode, body)
		metrics.ObserveNetworkRequest("newsapi", endpoint, "articles", start, remoteErr)
		return nil, remoteErr
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, "articles", start, err)
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}
	metrics.ObserveNetworkRequest("newsapi", endpoint, "articles", start, nil)

	// The API can report an error envelope under a 200 as well.
	if payload.Status == "error" {
		return nil, &domain.RemoteError{Service: "newsapi", StatusCode: resp.StatusCode, Body: payload.Message}
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		articles = append(articles, item.toDomain())
	}
	return articles, nil
}

func decodeError(status int, body []byte) *domain.RemoteError {
	var envelope struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	msg := string(body)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		msg = envelope.Message
	}
	return &domain.RemoteError{Service: "newsapi", StatusCode: status, Body: msg}
}

type searchResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []articleItem `json:"articles"`
}

type articleItem struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (a articleItem) toDomain() domain.Article {
	article := domain.Article{
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		SourceName:  a.Source.Name,
		ImageURL:    a.URLToImage,
	}
	// An unparseable timestamp stays zero and is excluded by date filters.
	if ts, err := time.Parse(publishedAtLayout, a.PublishedAt); err == nil {
		article.PublishedAt = ts.UTC()
	}
	return article
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
