package inflation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/scheduler"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client reads the monthly inflation series published as XML:
//
//	<series><obs date="2024-08" value="4.2"/><obs date="2024-09" value="3.5"/></series>
type Client struct {
	url      string
	fallback float64
	client   *http.Client
	log      *logrus.Logger
	latest   atomic.Pointer[models.InflationRate]
}

// NewClient initializes a new inflation client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	c := &Client{
		url:      cfg.InflationURL,
		fallback: cfg.InflationFallback,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
	initial := c.fallbackRate()
	c.latest.Store(&initial)
	return c
}

func (c *Client) fallbackRate() models.InflationRate {
	return models.InflationRate{MonthlyRate: c.fallback, Source: "fallback"}
}

// sendRequest downloads the series document
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, fmt.Errorf("no inflation endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Inflation XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse returns the observation with the latest date
func parseXMLResponse(rawBody []byte) (models.InflationRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return models.InflationRate{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	obs := doc.FindElements("//obs")
	if len(obs) == 0 {
		return models.InflationRate{}, fmt.Errorf("no inflation data found in XML")
	}

	var latest *etree.Element
	for _, el := range obs {
		if latest == nil || el.SelectAttrValue("date", "") > latest.SelectAttrValue("date", "") {
			latest = el
		}
	}

	value, err := decimal.NewFromString(latest.SelectAttrValue("value", ""))
	if err != nil {
		return models.InflationRate{}, fmt.Errorf("failed to parse rate: %w", err)
	}

	return models.InflationRate{
		Period:      latest.SelectAttrValue("date", ""),
		MonthlyRate: value.InexactFloat64(),
		Source:      "live",
	}, nil
}

// Refresh fetches the latest figure. On failure the configured fallback is
// stored instead and no error is returned.
func (c *Client) Refresh(ctx context.Context) models.InflationRate {
	rate, err := c.fetch(ctx)
	if err != nil {
		c.log.Warnf("Inflation unavailable, using fallback %.2f%%: %v", c.fallback, err)
		rate = c.fallbackRate()
	} else {
		c.log.Infof("Retrieved inflation: %.2f%% for %s", rate.MonthlyRate, rate.Period)
	}
	c.latest.Store(&rate)
	return rate
}

func (c *Client) fetch(ctx context.Context) (models.InflationRate, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return models.InflationRate{}, err
	}
	return parseXMLResponse(body)
}

// Latest returns the last refreshed figure
func (c *Client) Latest() models.InflationRate {
	return *c.latest.Load()
}

// Start refreshes once and then on every interval
func (c *Client) Start(s scheduler.Scheduler, interval time.Duration) scheduler.CancelFunc {
	c.Refresh(context.Background())
	return s.Schedule(interval, func() {
		c.Refresh(context.Background())
	})
}
