package datasource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/models"
)

const oddsSourceName = "odds_provider"

// OddsClientConfig holds configuration for the odds provider client
type OddsClientConfig struct {
	BaseURL string
	APIKey  string
}

// OddsClient fetches game total lines from a bookmaker odds feed.
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewOddsClient creates a new odds feed client.
func NewOddsClient(httpClient *RateLimitedHTTPClient, cfg OddsClientConfig, logger *logrus.Logger) *OddsClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &OddsClient{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *OddsClient) Name() string { return oddsSourceName }

type oddsResponse struct {
	Games []struct {
		GamePK     int64   `json:"game_pk"`
		Total      *string `json:"total"`
		OverPrice  *string `json:"over_price"`
		UnderPrice *string `json:"under_price"`
	} `json:"games"`
}

// TotalsByGame returns the posted total line per game on the date.
// Games without a posted line are omitted; a malformed line drops
// only that game's entry.
func (c *OddsClient) TotalsByGame(ctx context.Context, date time.Time) (models.OddsMap, error) {
	params := url.Values{}
	params.Set("date", date.Format(dateLayout))
	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/totals?%s", c.baseURL, params.Encode())

	var resp oddsResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeNetworkError, "failed to fetch game totals", err)
	}

	odds := make(models.OddsMap, len(resp.Games))
	for _, g := range resp.Games {
		total := parsePrice(g.Total)
		if total == nil {
			if g.Total != nil {
				c.logger.WithField("game_pk", g.GamePK).Warn("Discarding malformed total line")
			}
			continue
		}
		odds[g.GamePK] = &models.GameOdds{
			GamePK:     g.GamePK,
			Total:      total,
			OverPrice:  parsePrice(g.OverPrice),
			UnderPrice: parsePrice(g.UnderPrice),
		}
	}
	return odds, nil
}

func parsePrice(raw *string) *decimal.Decimal {
	if raw == nil || *raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil
	}
	return &d
}
