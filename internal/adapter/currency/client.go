package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/adboard/adverts-service/internal/config"
	"github.com/adboard/adverts-service/internal/platform/logger"
)

// Client fetches exchange rates for the configured base currency and
// memoizes them for the configured TTL (24h by default). A stale entry is
// refreshed on the next read; concurrent readers share one refresh.
type Client struct {
	cfg  config.CurrencyConfig
	http *http.Client
	log  logger.Logger

	mu         sync.Mutex
	rates      map[string]float64
	lastUpdate time.Time
}

func NewClient(cfg config.CurrencyConfig, log logger.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

func (c *Client) GetRates(ctx context.Context) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastUpdate) < c.cfg.TTL && c.rates != nil {
		return c.rates, nil
	}

	rates, err := c.fetch(ctx)
	if err != nil {
		// Serve the stale snapshot if we have one; rates a day old beat an
		// error page.
		if c.rates != nil {
			c.log.Warnf("Currency refresh failed, serving stale rates: %v", err)
			return c.rates, nil
		}
		return nil, err
	}

	c.rates = rates
	c.lastUpdate = time.Now()
	return c.rates, nil
}

func (c *Client) fetch(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s?apikey=%s&base_currency=%s", c.cfg.APIURL, c.cfg.APIKey, c.cfg.Base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build currency request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("currency API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode currency response: %w", err)
	}
	return payload.Data, nil
}
