package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
)

const (
	oddsCacheKey = "nfl_lines"

	// Line feeds move slowly between polls; a short cache keeps repeated
	// pipeline runs from burning through the provider's request quota.
	oddsCacheTTL = 60 * time.Second
)

// OddsAPISource fetches current spread and total lines from The Odds API
type OddsAPISource struct {
	baseURL string
	apiKey  string
	enabled bool
	client  *RateLimitedHTTPClient
	cache   *cache.Cache
	log     *logrus.Logger
}

// NewOddsAPISource creates an odds source from configuration
func NewOddsAPISource(cfg config.DataSourceConfig, client *RateLimitedHTTPClient, log *logrus.Logger) *OddsAPISource {
	return &OddsAPISource{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled,
		client:  client,
		cache:   cache.New(oddsCacheTTL, 5*time.Minute),
		log:     log,
	}
}

// Name returns the data source name
func (s *OddsAPISource) Name() string {
	return config.OddsAPISourceName
}

// IsEnabled returns whether the source is enabled
func (s *OddsAPISource) IsEnabled() bool {
	return s.enabled
}

// oddsEvent mirrors the provider's event payload
type oddsEvent struct {
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []oddsBookmaker `json:"bookmakers"`
}

type oddsBookmaker struct {
	Key     string       `json:"key"`
	Markets []oddsMarket `json:"markets"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsOutcome struct {
	Name  string   `json:"name"`
	Point *float64 `json:"point"`
}

// FetchLines retrieves current spread and total lines for upcoming games.
// Responses are cached briefly so consecutive calls within one pipeline
// run hit the provider at most once.
func (s *OddsAPISource) FetchLines(ctx context.Context) ([]GameLine, error) {
	if cached, found := s.cache.Get(oddsCacheKey); found {
		return cached.([]GameLine), nil
	}

	if s.apiKey == "" {
		return nil, NewDataSourceError(s.Name(), ErrCodeAuthenticationFailed, "API key not configured", ErrAuthenticationFailed)
	}

	endpoint := fmt.Sprintf("%s/sports/americanfootball_nfl/odds", s.baseURL)
	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("regions", "us")
	params.Set("markets", "spreads,totals")
	params.Set("oddsFormat", "american")

	resp, err := s.client.Get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, "odds request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(s.Name(), ErrCodeAuthenticationFailed, "API key rejected", ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(s.Name(), ErrCodeRateLimitExceeded, "request quota exhausted", ErrRateLimitExceeded)
	default:
		return nil, NewDataSourceError(s.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrServerError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, "reading response body", err)
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeInvalidData, "decoding odds payload", err)
	}

	fetchedAt := time.Now().UTC()
	lines := make([]GameLine, 0, len(events))
	for _, event := range events {
		line := GameLine{
			HomeTeam:  event.HomeTeam,
			AwayTeam:  event.AwayTeam,
			Kickoff:   event.CommenceTime,
			FetchedAt: fetchedAt,
		}
		if len(event.Bookmakers) == 0 {
			continue
		}

		// Take the first bookmaker carrying each market rather than
		// averaging across books.
		for _, book := range event.Bookmakers {
			for _, market := range book.Markets {
				switch market.Key {
				case "spreads":
					if line.SpreadLine == nil {
						line.SpreadLine = spreadPoint(market.Outcomes, event.HomeTeam)
						if line.SpreadLine != nil {
							line.Bookmaker = book.Key
						}
					}
				case "totals":
					if line.TotalLine == nil {
						line.TotalLine = totalPoint(market.Outcomes)
					}
				}
			}
		}
		if line.SpreadLine == nil && line.TotalLine == nil {
			continue
		}
		lines = append(lines, line)
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"source": s.Name(),
			"events": len(events),
			"lines":  len(lines),
		}).Info("Fetched market lines")
	}

	s.cache.Set(oddsCacheKey, lines, cache.DefaultExpiration)
	return lines, nil
}

// spreadPoint extracts the home team's spread from a spreads market
func spreadPoint(outcomes []oddsOutcome, homeTeam string) *float64 {
	for _, outcome := range outcomes {
		if outcome.Name == homeTeam && outcome.Point != nil {
			point := *outcome.Point
			return &point
		}
	}
	return nil
}

// totalPoint extracts the over/under number from a totals market
func totalPoint(outcomes []oddsOutcome) *float64 {
	for _, outcome := range outcomes {
		if outcome.Name == "Over" && outcome.Point != nil {
			point := *outcome.Point
			return &point
		}
	}
	return nil
}
