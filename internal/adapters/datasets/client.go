package datasets

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

const (
	blsSeriesID   = "CUSR0000SA0" // Consumer Price Index
	blsBaseURL    = "https://api.bls.gov/publicAPI/v2/timeseries/data"
	approvalURL   = "https://projects.fivethirtyeight.com/polls-page/data/president_polls.csv"
	stocksBaseURL = "https://www.alphavantage.co/query"
	stocksSymbol  = "AAPL"
	gazaURL       = "https://data.humdata.org/dataset/a02d750c-b2f7-4e22-b884-e9e495209a3a/resource/429619ed-8b50-4a01-a2b3-88601bc606ce/download/hostilities.csv"
)

// Client retrieves the charted statistical datasets. Payloads are memoized
// through the shared TTL cache so repeated renders within an hour reuse one
// upstream fetch.
type Client struct {
	http         *http.Client
	cache        domain.Cache
	ttl          time.Duration
	blsAPIKey    string
	stocksAPIKey string

	blsBaseURL    string
	approvalURL   string
	stocksBaseURL string
	gazaURL       string
}

var _ domain.DatasetGateway = (*Client)(nil)

// Config describes the client settings. The URL fields exist so tests can
// point at a local server; empty values use the public endpoints.
type Config struct {
	BLSAPIKey    string
	StocksAPIKey string
	Timeout      time.Duration
	TTL          time.Duration

	BLSBaseURL    string
	ApprovalURL   string
	StocksBaseURL string
	GazaURL       string
}

// NewClient creates the gateway.
func NewClient(cfg Config, cache domain.Cache) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	c := &Client{
		http:          &http.Client{Timeout: cfg.Timeout},
		cache:         cache,
		ttl:           cfg.TTL,
		blsAPIKey:     cfg.BLSAPIKey,
		stocksAPIKey:  cfg.StocksAPIKey,
		blsBaseURL:    cfg.BLSBaseURL,
		approvalURL:   cfg.ApprovalURL,
		stocksBaseURL: cfg.StocksBaseURL,
		gazaURL:       cfg.GazaURL,
	}
	if c.blsBaseURL == "" {
		c.blsBaseURL = blsBaseURL
	}
	if c.approvalURL == "" {
		c.approvalURL = approvalURL
	}
	if c.stocksBaseURL == "" {
		c.stocksBaseURL = stocksBaseURL
	}
	if c.gazaURL == "" {
		c.gazaURL = gazaURL
	}
	return c
}

// Dataset implements domain.DatasetGateway.
func (c *Client) Dataset(ctx context.Context, source domain.DatasetSource) (domain.Table, error) {
	var fetch func(context.Context) (domain.Table, error)
	switch source {
	case domain.DatasetInflation:
		fetch = c.fetchInflation
	case domain.DatasetApproval:
		fetch = c.fetchApproval
	case domain.DatasetStocks:
		fetch = c.fetchStocks
	case domain.DatasetGaza:
		fetch = c.fetchGaza
	default:
		return domain.Table{}, fmt.Errorf("%w: %s", domain.ErrUnknownDataset, source)
	}

	payload, _, err := c.cache.GetOrCompute("dataset:"+string(source), c.ttl, func() ([]byte, error) {
		table, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(table)
	})
	if err != nil {
		return domain.Table{}, err
	}
	var table domain.Table
	if err := json.Unmarshal(payload, &table); err != nil {
		return domain.Table{}, fmt.Errorf("datasets: decode cached table: %w", err)
	}
	return table, nil
}

func (c *Client) fetchInflation(ctx context.Context) (domain.Table, error) {
	reqURL := fmt.Sprintf("%s/%s?registrationkey=%s", c.blsBaseURL, blsSeriesID, c.blsAPIKey)
	body, err := c.get(ctx, "bls_inflation", reqURL)
	if err != nil {
		return domain.Table{}, err
	}

	var payload struct {
		Results struct {
			Series []struct {
				Data []struct {
					Year   string `json:"year"`
					Period string `json:"period"`
					Value  string `json:"value"`
				} `json:"data"`
			} `json:"series"`
		} `json:"Results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Table{}, fmt.Errorf("datasets: decode bls response: %w", err)
	}
	if len(payload.Results.Series) == 0 {
		return domain.Table{Columns: []string{"date", "value"}}, nil
	}

	rows := make([][]string, 0, len(payload.Results.Series[0].Data))
	for _, point := range payload.Results.Series[0].Data {
		month := strings.TrimPrefix(point.Period, "M")
		rows = append(rows, []string{point.Year + "-" + month, point.Value})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return domain.Table{Columns: []string{"date", "value"}, Rows: rows}, nil
}

var approvalCandidates = map[string]bool{
	"Donald Trump": true,
	"Joe Biden":    true,
}

func (c *Client) fetchApproval(ctx context.Context) (domain.Table, error) {
	body, err := c.get(ctx, "approval_polls", c.approvalURL)
	if err != nil {
		return domain.Table{}, err
	}

	records, err := readCSV(body)
	if err != nil {
		return domain.Table{}, fmt.Errorf("datasets: parse approval csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{Columns: []string{"end_date", "candidate_name", "pct"}}, nil
	}

	idx := columnIndex(records[0])
	dateCol, nameCol, pctCol := idx["end_date"], idx["candidate_name"], idx["pct"]
	if dateCol < 0 || nameCol < 0 || pctCol < 0 {
		return domain.Table{}, fmt.Errorf("datasets: approval csv lacks required columns")
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) <= dateCol || len(record) <= nameCol || len(record) <= pctCol {
			continue
		}
		endDate, ok := parsePollDate(record[dateCol])
		if !ok || endDate.Year() < 2020 || endDate.Year() > 2024 {
			continue
		}
		if !approvalCandidates[record[nameCol]] {
			continue
		}
		rows = append(rows, []string{endDate.Format("2006-01-02"), record[nameCol], record[pctCol]})
	}
	return domain.Table{Columns: []string{"end_date", "candidate_name", "pct"}, Rows: rows}, nil
}

func (c *Client) fetchStocks(ctx context.Context) (domain.Table, error) {
	reqURL := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s", c.stocksBaseURL, stocksSymbol, c.stocksAPIKey)
	body, err := c.get(ctx, "stock_daily", reqURL)
	if err != nil {
		return domain.Table{}, err
	}

	var payload struct {
		TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Table{}, fmt.Errorf("datasets: decode stock response: %w", err)
	}

	rows := make([][]string, 0, len(payload.TimeSeries))
	for date, values := range payload.TimeSeries {
		rows = append(rows, []string{
			date,
			values["1. open"],
			values["2. high"],
			values["3. low"],
			values["4. close"],
			values["5. volume"],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return domain.Table{Columns: []string{"date", "open", "high", "low", "close", "volume"}, Rows: rows}, nil
}

func (c *Client) fetchGaza(ctx context.Context) (domain.Table, error) {
	body, err := c.get(ctx, "gaza_hostilities", c.gazaURL)
	if err != nil {
		return domain.Table{}, err
	}

	records, err := readCSV(body)
	if err != nil {
		return domain.Table{}, fmt.Errorf("datasets: parse hostilities csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{}, nil
	}
	return domain.Table{Columns: records[0], Rows: records[1:]}, nil
}

func (c *Client) get(ctx context.Context, operation, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("datasets: build request: %w", err)
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("datasets", operation, "table", start, err)
		return nil, &domain.RemoteError{Service: "datasets/" + operation, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("datasets", operation, "table", start, err)
		return nil, fmt.Errorf("datasets: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &domain.RemoteError{Service: "datasets/" + operation, StatusCode: resp.StatusCode, Body: string(body)}
		metrics.ObserveNetworkRequest("datasets", operation, "table", start, remoteErr)
		return nil, remoteErr
	}
	metrics.ObserveNetworkRequest("datasets", operation, "table", start, nil)
	return body, nil
}

func readCSV(body []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func columnIndex(header []string) map[string]int {
	idx := map[string]int{"end_date": -1, "candidate_name": -1, "pct": -1}
	for i, name := range header {
		if _, ok := idx[name]; ok {
			idx[name] = i
		}
	}
	return idx
}

var pollDateLayouts = []string{"1/2/06", "1/2/2006", "2006-01-02"}

func parsePollDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range pollDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
