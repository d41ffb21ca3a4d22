package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client fetches dollar quotes, one endpoint per dollar type
type Client struct {
	urls   map[models.DollarType]string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		urls: map[models.DollarType]string{
			models.DollarOficial: cfg.RateOficialURL,
			models.DollarBlue:    cfg.RateBlueURL,
			models.DollarMEP:     cfg.RateMEPURL,
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Fetch requests every quote concurrently. A failed quote is replaced by its
// fallback constant without affecting the others; Fetch never fails.
func (c *Client) Fetch(ctx context.Context) Snapshot {
	results := make([]Result, len(models.DollarTypes))

	var wg sync.WaitGroup
	for i, t := range models.DollarTypes {
		wg.Add(1)
		go func(i int, t models.DollarType) {
			defer wg.Done()
			rate, err := c.fetchQuote(ctx, c.urls[t])
			if err != nil {
				c.log.Warnf("Rate %s unavailable, using fallback %.2f: %v", t, FallbackRate(t), err)
				results[i] = Fallback(t, err)
				return
			}
			results[i] = Live(t, rate)
		}(i, t)
	}
	wg.Wait()

	return NewSnapshot(results, time.Now())
}

// fetchQuote retrieves a single quote
func (c *Client) fetchQuote(ctx context.Context, url string) (float64, error) {
	if url == "" {
		return 0, fmt.Errorf("no endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/xml;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("Rate response from %s: %s", url, string(body))

	rate, err := decodeQuote(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, fmt.Errorf("invalid quote %v", rate)
	}
	return rate, nil
}

// decodeQuote extracts the selling price from a quote payload.
// Accepted shapes: {"venta": ..., "compra": ...}, {"rates": {"ARS": ...}}
// and XML documents with a <venta> or <compra> element.
func decodeQuote(contentType string, body []byte) (float64, error) {
	if strings.Contains(contentType, "xml") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		return decodeXMLQuote(body)
	}
	return decodeJSONQuote(body)
}

type quoteValue struct {
	value float64
	set   bool
}

// UnmarshalJSON accepts both numbers and numeric strings such as "1050,50"
func (q *quoteValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		q.value, q.set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("quote is neither number nor string: %s", data)
	}
	v, err := parseQuoteText(s)
	if err != nil {
		return err
	}
	q.value, q.set = v, true
	return nil
}

func decodeJSONQuote(body []byte) (float64, error) {
	var payload struct {
		Venta  quoteValue         `json:"venta"`
		Compra quoteValue         `json:"compra"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	switch {
	case payload.Venta.set:
		return payload.Venta.value, nil
	case payload.Compra.set:
		return payload.Compra.value, nil
	}
	if ars, ok := payload.Rates["ARS"]; ok {
		return ars, nil
	}
	return 0, fmt.Errorf("no quote found in JSON")
}

func decodeXMLQuote(body []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	for _, path := range []string{"//venta", "//compra"} {
		if el := doc.FindElement(path); el != nil {
			return parseQuoteText(el.Text())
		}
	}
	return 0, fmt.Errorf("no quote found in XML")
}

// parseQuoteText parses "1050.5", "1050,5" and "1.050,50"
func parseQuoteText(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse quote %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
