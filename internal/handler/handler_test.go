package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/preferences"
	"github.com/Dan9191/finpyme/internal/repository"
	"github.com/Dan9191/finpyme/internal/service"
	"github.com/sirupsen/logrus"
)

type fixedRates struct{ snap rates.Snapshot }

func (f fixedRates) Current() rates.Snapshot                { return f.snap }
func (f fixedRates) Refresh(context.Context) rates.Snapshot { return f.snap }

type fixedInflation struct{}

func (fixedInflation) Latest() models.InflationRate {
	return models.InflationRate{Period: "2024-05", MonthlyRate: 4.2, Source: "test"}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	repo, err := repository.Open(ctx, "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("repository.Open() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	prefs, err := preferences.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("preferences.Open() error = %v", err)
	}
	t.Cleanup(func() { prefs.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "handler-secret", DailySpendThreshold: 50000}

	svc, err := service.NewService(service.Dependencies{
		Repo:        repo,
		Log:         log,
		Config:      cfg,
		Rates:       fixedRates{snap: rates.NewSnapshot([]rates.Result{rates.Live(models.DollarOficial, 1000)}, time.Now())},
		Inflation:   fixedInflation{},
		Preferences: prefs,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	srv := httptest.NewServer(NewRouter(NewHandler(svc, log), cfg))
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func signup(t *testing.T, srv *httptest.Server, email string) (*client, int64) {
	t.Helper()
	c := &client{t: t, base: srv.URL}
	var user models.User
	if code := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "Ana", "email": email, "password": "supersecreta",
	}, &user); code != http.StatusCreated {
		t.Fatalf("register status = %d", code)
	}
	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if code := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "supersecreta",
	}, &login); code != http.StatusOK || login.Token == "" {
		t.Fatalf("login status = %d token = %q", code, login.Token)
	}
	c.token = login.Token
	return c, user.ID
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	var errResp errorResponse
	if code := anon.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "bad"}, &errResp); code != http.StatusBadRequest {
		t.Errorf("invalid register status = %d", code)
	}
	if errResp.Error != "validation failed" || len(errResp.Fields) != 3 {
		t.Errorf("validation body = %+v", errResp)
	}

	c, id := signup(t, srv, "ana@pyme.com")

	if code := anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@pyme.com", "password": "nope-nope"}, nil); code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", code)
	}
	if code := anon.do(http.MethodGet, fmt.Sprintf("/api/transactions/%d", id), nil, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", code)
	}
	if code := c.do(http.MethodGet, fmt.Sprintf("/api/transactions/%d", id+1), nil, nil); code != http.StatusForbidden {
		t.Errorf("other user status = %d", code)
	}
}

func TestTransactionsAndDashboard(t *testing.T) {
	srv := newTestServer(t)
	c, id := signup(t, srv, "ana@pyme.com")

	var cat models.Category
	if code := c.do(http.MethodPost, "/api/transaction-categories", map[string]string{"name": "Alquiler", "type": "expense"}, &cat); code != http.StatusCreated {
		t.Fatalf("create category status = %d", code)
	}

	txPath := fmt.Sprintf("/api/transactions/%d", id)
	for _, body := range []map[string]interface{}{
		{"description": "Venta", "amount": "150000", "type": "income"},
		{"description": "Alquiler", "amount": "50000.50", "type": "expense", "category_id": cat.ID},
	} {
		if code := c.do(http.MethodPost, txPath, body, nil); code != http.StatusCreated {
			t.Fatalf("create transaction %v status = %d", body, code)
		}
	}
	var errResp errorResponse
	if code := c.do(http.MethodPost, txPath, map[string]interface{}{"description": "x", "amount": "-1", "type": "income"}, &errResp); code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d", code)
	}
	if len(errResp.Fields) != 1 || errResp.Fields[0].Field != "amount" {
		t.Errorf("negative amount fields = %+v", errResp.Fields)
	}
	if code := c.do(http.MethodPost, txPath, map[string]interface{}{"amount": 5}, nil); code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", code)
	}

	var txs []models.Transaction
	if code := c.do(http.MethodGet, txPath, nil, &txs); code != http.StatusOK || len(txs) != 2 {
		t.Fatalf("list transactions = %d, %d items", code, len(txs))
	}

	var d service.Dashboard
	if code := c.do(http.MethodGet, fmt.Sprintf("/api/dashboard/%d?currency=USD&period=week&count=4", id), nil, &d); code != http.StatusOK {
		t.Fatalf("dashboard status = %d", code)
	}
	if len(d.Periods) != 4 || d.Income.Value != 150000 || d.Income.Display != 150 || d.Settings.Display != "USD" {
		t.Errorf("dashboard = periods %d income %+v settings %+v", len(d.Periods), d.Income, d.Settings)
	}
	if code := c.do(http.MethodGet, fmt.Sprintf("/api/dashboard/%d?count=abc", id), nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad count status = %d", code)
	}
}

func TestProjectionsInsightsNotifications(t *testing.T) {
	srv := newTestServer(t)
	c, id := signup(t, srv, "ana@pyme.com")
	c.do(http.MethodPost, fmt.Sprintf("/api/transactions/%d", id), map[string]string{"description": "Venta", "amount": "1000", "type": "income"}, nil)
	c.do(http.MethodPost, fmt.Sprintf("/api/transactions/%d", id), map[string]string{"description": "Compra", "amount": "400", "type": "expense"}, nil)

	projPath := fmt.Sprintf("/api/cash-flow-projections/%d", id)
	var res service.ProjectionResult
	if code := c.do(http.MethodPost, projPath, map[string]interface{}{"preset": "optimistic", "period": "month", "history": 3}, &res); code != http.StatusCreated {
		t.Fatalf("projection status = %d", code)
	}
	if res.Projection.Scenario.Name != "optimistic" || len(res.Projection.Periods) != 6 {
		t.Errorf("projection = %+v", res.Projection)
	}
	if code := c.do(http.MethodPost, projPath, map[string]interface{}{"scenario": map[string]interface{}{"time_frame": 0}}, nil); code != http.StatusBadRequest {
		t.Errorf("invalid scenario status = %d", code)
	}
	var saved []models.SavedProjection
	if code := c.do(http.MethodGet, projPath, nil, &saved); code != http.StatusOK || len(saved) != 1 {
		t.Errorf("saved projections = %d, %d", code, len(saved))
	}

	// uncategorized expenses hold all spending
	insPath := fmt.Sprintf("/api/ai-insights/%d", id)
	var generated []models.Insight
	if code := c.do(http.MethodPost, insPath, nil, &generated); code != http.StatusCreated || len(generated) == 0 {
		t.Fatalf("generate insights = %d, %d", code, len(generated))
	}
	var listed []models.Insight
	if code := c.do(http.MethodGet, insPath, nil, &listed); code != http.StatusOK || len(listed) != len(generated) {
		t.Errorf("list insights = %d, %d", code, len(listed))
	}

	notifPath := fmt.Sprintf("/api/notifications/%d", id)
	var inbox service.NotificationList
	if code := c.do(http.MethodGet, notifPath, nil, &inbox); code != http.StatusOK || inbox.Unread != len(generated) {
		t.Fatalf("inbox = %d, %+v", code, inbox)
	}
	first := inbox.Notifications[0].ID
	if code := c.do(http.MethodPatch, fmt.Sprintf("%s/%d", notifPath, first), nil, nil); code != http.StatusNoContent {
		t.Errorf("mark read status = %d", code)
	}
	if code := c.do(http.MethodDelete, fmt.Sprintf("%s/%d", notifPath, first), nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	if code := c.do(http.MethodDelete, fmt.Sprintf("%s/%d", notifPath, first), nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete status = %d", code)
	}
}

func TestMarketAndPreferences(t *testing.T) {
	srv := newTestServer(t)
	c, id := signup(t, srv, "ana@pyme.com")

	var snap rates.Snapshot
	if code := c.do(http.MethodGet, "/api/rates", nil, &snap); code != http.StatusOK || snap.Oficial != 1000 || len(snap.Results) != 3 {
		t.Errorf("rates = %d, %+v", code, snap)
	}
	if code := c.do(http.MethodPost, "/api/rates/refresh", nil, nil); code != http.StatusOK {
		t.Errorf("refresh status = %d", code)
	}
	var infl models.InflationRate
	if code := c.do(http.MethodGet, "/api/inflation/latest", nil, &infl); code != http.StatusOK || infl.MonthlyRate != 4.2 {
		t.Errorf("inflation = %d, %+v", code, infl)
	}
	var presets []models.Scenario
	if code := c.do(http.MethodGet, "/api/scenarios", nil, &presets); code != http.StatusOK || len(presets) != 4 {
		t.Errorf("scenarios = %d, %d", code, len(presets))
	}

	prefPath := fmt.Sprintf("/api/preferences/%d", id)
	var prefs map[string]string
	if code := c.do(http.MethodPut, prefPath, map[string]string{"preferred_currency": "usd"}, &prefs); code != http.StatusOK || prefs["preferred_currency"] != "USD" {
		t.Errorf("update prefs = %d, %v", code, prefs)
	}
	if code := c.do(http.MethodPut, prefPath, map[string]string{"theme": "neon"}, nil); code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", code)
	}
	prefs = nil
	if code := c.do(http.MethodGet, prefPath, nil, &prefs); code != http.StatusOK || prefs["preferred_currency"] != "USD" {
		t.Errorf("get prefs = %d, %v", code, prefs)
	}

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %v, %v", resp, err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	h := NewHandler(nil, log)

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")
	h.writeJSON(rec, http.StatusOK, map[string]float64{"income": math.Inf(1)})

	if !strings.Contains(buf.String(), "Failed to encode response") || !strings.Contains(buf.String(), "req-1") {
		t.Errorf("log = %q", buf.String())
	}
}
