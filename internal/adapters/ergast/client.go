package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

// Client retrieves F1 standings from the Ergast API.
type Client struct {
	http    *http.Client
	baseURL string
}

var _ domain.StandingsGateway = (*Client)(nil)

// Config describes the client settings.
type Config struct {
	BaseURL string
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
	}
}

// DriverStandings implements domain.StandingsGateway.
func (c *Client) DriverStandings(ctx context.Context, season string) ([]domain.StandingRow, error) {
	list, err := c.fetchStandingsList(ctx, season, "driverStandings")
	if err != nil {
		return nil, err
	}
	rows := make([]domain.StandingRow, 0, len(list.DriverStandings))
	for _, d := range list.DriverStandings {
		rows = append(rows, domain.StandingRow{
			Position:    atoi(d.Position),
			Name:        strings.TrimSpace(d.Driver.GivenName + " " + d.Driver.FamilyName),
			Points:      atof(d.Points),
			Wins:        atoi(d.Wins),
			Nationality: d.Driver.Nationality,
			Team:        firstConstructor(d.Constructors),
		})
	}
	return rows, nil
}

// ConstructorStandings implements domain.StandingsGateway.
func (c *Client) ConstructorStandings(ctx context.Context, season string) ([]domain.StandingRow, error) {
	list, err := c.fetchStandingsList(ctx, season, "constructorStandings")
	if err != nil {
		return nil, err
	}
	rows := make([]domain.StandingRow, 0, len(list.ConstructorStandings))
	for _, con := range list.ConstructorStandings {
		rows = append(rows, domain.StandingRow{
			Position:    atoi(con.Position),
			Name:        con.Constructor.Name,
			Points:      atof(con.Points),
			Wins:        atoi(con.Wins),
			Nationality: con.Constructor.Nationality,
		})
	}
	return rows, nil
}

func (c *Client) fetchStandingsList(ctx context.Context, season, endpoint string) (standingsList, error) {
	if strings.TrimSpace(season) == "" {
		season = "current"
	}
	reqURL := fmt.Sprintf("%s/%s/%s.json", c.baseURL, season, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return standingsList{}, fmt.Errorf("ergast: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("ergast", endpoint, season, start, err)
		return standingsList{}, &domain.RemoteError{Service: "ergast", Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("ergast", endpoint, season, start, err)
		return standingsList{}, fmt.Errorf("ergast: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &domain.RemoteError{Service: "ergast", StatusCode: resp.StatusCode, Body: string(body)}
		metrics.ObserveNetworkRequest("ergast", endpoint, season, start, remoteErr)
		return standingsList{}, remoteErr
	}

	var payload standingsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.ObserveNetworkRequest("ergast", endpoint, season, start, err)
		return standingsList{}, fmt.Errorf("ergast: decode response: %w", err)
	}
	metrics.ObserveNetworkRequest("ergast", endpoint, season, start, nil)

	lists := payload.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return standingsList{}, nil
	}
	return lists[0], nil
}

type standingsResponse struct {
	MRData struct {
		StandingsTable struct {
			StandingsLists []standingsList `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

type standingsList struct {
	DriverStandings []struct {
		Position string `json:"position"`
		Points   string `json:"points"`
		Wins     string `json:"wins"`
		Driver   struct {
			GivenName   string `json:"givenName"`
			FamilyName  string `json:"familyName"`
			Nationality string `json:"nationality"`
		} `json:"Driver"`
		Constructors []struct {
			Name string `json:"name"`
		} `json:"Constructors"`
	} `json:"DriverStandings"`
	ConstructorStandings []struct {
		Position    string `json:"position"`
		Points      string `json:"points"`
		Wins        string `json:"wins"`
		Constructor struct {
			Name        string `json:"name"`
			Nationality string `json:"nationality"`
		} `json:"Constructor"`
	} `json:"ConstructorStandings"`
}

func firstConstructor(cons []struct {
	Name string `json:"name"`
}) string {
	if len(cons) == 0 {
		return ""
	}
	return cons[0].Name
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
