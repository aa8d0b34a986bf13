package datasource

import (
	"context"
	"io"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/models"
)

const (
	xgSourceName    = "xg_provider"
	xgCacheKey      = "xg_shares"
	xgStaleCacheKey = "xg_shares_stale"
)

// XGClientConfig holds configuration for the expected-goals client
type XGClientConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// XGClient fetches 5v5 expected-goal shares from an external analytics
// provider. Shares are expensive to compute upstream so responses are
// cached aggressively.
type XGClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	ttl        time.Duration
	logger     *logrus.Logger
}

// NewXGClient creates a new expected-goals client.
func NewXGClient(httpClient *RateLimitedHTTPClient, cfg XGClientConfig, logger *logrus.Logger) *XGClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &XGClient{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		cache:      cache.New(cfg.CacheTTL, 30*time.Minute),
		ttl:        cfg.CacheTTL,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *XGClient) Name() string { return xgSourceName }

type xgResponse struct {
	Teams []struct {
		TeamID  int     `json:"team_id"`
		XGShare float64 `json:"xg_share"`
	} `json:"teams"`
}

// ShareByTeam returns each team's season 5v5 expected-goal share in
// [0,1]. A missing team simply has no entry; callers treat absence as
// signal unavailable.
func (c *XGClient) ShareByTeam(ctx context.Context) (models.XGShareMap, error) {
	if cached, found := c.cache.Get(xgCacheKey); found {
		if shares, ok := cached.(models.XGShareMap); ok {
			return shares, nil
		}
	}

	var resp xgResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/teams/xg", &resp); err != nil {
		if stale, found := c.cache.Get(xgStaleCacheKey); found {
			if shares, ok := stale.(models.XGShareMap); ok {
				c.logger.WithError(err).Warn("Serving stale xG shares after fetch failure")
				return shares, nil
			}
		}
		return nil, NewDataSourceError(xgSourceName, ErrCodeNetworkError, "failed to fetch xG shares", err)
	}

	shares := make(models.XGShareMap, len(resp.Teams))
	for _, t := range resp.Teams {
		if t.XGShare < 0 || t.XGShare > 1 {
			c.logger.WithFields(logrus.Fields{
				"team_id":  t.TeamID,
				"xg_share": t.XGShare,
			}).Warn("Discarding out-of-range xG share")
			continue
		}
		shares[t.TeamID] = t.XGShare
	}
	c.cache.Set(xgCacheKey, shares, c.ttl)
	c.cache.Set(xgStaleCacheKey, shares, cache.NoExpiration)
	return shares, nil
}
