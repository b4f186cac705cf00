package domain

import (
	"strings"
	"time"
)

// Article represents one news item returned by the news gateway.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	SourceName  string
	PublishedAt time.Time
	ImageURL    string
}

// Text returns the body used for enrichment: content, falling back to the
// description when content is absent.
func (a Article) Text() string {
	if strings.TrimSpace(a.Content) != "" {
		return a.Content
	}
	return a.Description
}

// Sentiment is one of the three canonical sentiment labels.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// NormalizeSentiment coerces a free-form model reply to a canonical label.
// Anything that is not case-insensitively one of the three labels becomes
// Neutral.
func NormalizeSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ParseSentiment maps user input to a label. Empty input means no sentiment
// filter.
func ParseSentiment(raw string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "positive":
		return SentimentPositive, true
	case "negative":
		return SentimentNegative, true
	case "neutral":
		return SentimentNeutral, true
	default:
		return "", false
	}
}

// Enrichment holds the model-derived view of one article text.
type Enrichment struct {
	Summary    string    `json:"summary"`
	Sentiment  Sentiment `json:"sentiment"`
	KeyPhrases []string  `json:"key_phrases"`
}

// MaxKeyPhrases caps how many phrases the extractor may return.
const MaxKeyPhrases = 5

// DateBucket names a half-open publication-time interval.
type DateBucket string

const (
	BucketYesterday DateBucket = "yesterday"
	BucketLastWeek  DateBucket = "last_week"
	BucketLastMonth DateBucket = "last_month"
)

// ParseDateBucket maps user input to a bucket. Empty input means no date
// filter.
func ParseDateBucket(raw string) (DateBucket, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "yesterday":
		return BucketYesterday, true
	case "last_week", "last week", "lastweek":
		return BucketLastWeek, true
	case "last_month", "last month", "lastmonth":
		return BucketLastMonth, true
	default:
		return "", false
	}
}

// FilterCriteria is the request-scoped description of one feed query.
type FilterCriteria struct {
	Topics    []string
	Query     string
	Date      DateBucket
	Sentiment Sentiment
	Page      int
}

// Topics is the canonical list the dashboard offers.
var Topics = []string{
	"Technology", "Sports", "Politics", "Health", "Science",
	"Entertainment", "Business", "World", "Lifestyle", "Environment",
}

// PageSize is the fixed "show more" page size.
const PageSize = 10

// Bookmark is a persisted user-selected article.
type Bookmark struct {
	ID        string
	Title     string
	Link      string
	CreatedAt time.Time
}

// SaveOutcome reports what a bookmark save did.
type SaveOutcome string

const (
	OutcomeSaved         SaveOutcome = "saved"
	OutcomeAlreadyExists SaveOutcome = "already_exists"
)

// StandingRow is one line of an F1 championship table.
type StandingRow struct {
	Position    int
	Name        string
	Points      float64
	Wins        int
	Nationality string
	Team        string
}

// DatasetSource names one of the charted datasets.
type DatasetSource string

const (
	DatasetInflation DatasetSource = "inflation"
	DatasetApproval  DatasetSource = "approval"
	DatasetStocks    DatasetSource = "stocks"
	DatasetGaza      DatasetSource = "gaza"
)

// Table is a column-named tabular payload consumed read-only for charting.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// UserProfile stores a registered user and their topic interests.
type UserProfile struct {
	ID        string
	Email     string
	Interests []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuestEmail is the profile used when a visitor skips registration.
const GuestEmail = "guest"
