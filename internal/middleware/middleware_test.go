package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func newProtectedRouter(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(cfg))
	owned := api.NewRoute().Subrouter()
	owned.Use(RequireOwner)
	owned.HandleFunc("/items/{userId}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserID(r.Context())
		w.Write([]byte(strconv.FormatInt(id, 10)))
	}).Methods(http.MethodGet)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	router := newProtectedRouter(cfg)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/api/items/7", "", http.StatusUnauthorized},
		{"not bearer", "/api/items/7", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/api/items/7", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", "/api/items/7", "Bearer " + signToken(t, "other", jwt.SigningMethodHS256, "7", future), http.StatusUnauthorized},
		{"expired", "/api/items/7", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS256, "7", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"other algorithm", "/api/items/7", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS512, "7", future), http.StatusUnauthorized},
		{"non numeric subject", "/api/items/7", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS256, "ana", future), http.StatusUnauthorized},
		{"other user", "/api/items/8", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS256, "7", future), http.StatusForbidden},
		{"bad path id", "/api/items/abc", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS256, "7", future), http.StatusBadRequest},
		{"owner", "/api/items/7", "Bearer " + signToken(t, "secret", jwt.SigningMethodHS256, "7", future), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != "7" {
				t.Errorf("user id in context = %q", rec.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	r.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	id := rec.Header().Get(RequestIDHeader)
	if len(id) != 36 {
		t.Errorf("request id = %q", id)
	}
	if !strings.Contains(buf.String(), id) || !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("log = %s", buf.String())
	}

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("propagated id = %q", rec.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("log = %s", buf.String())
	}
}
