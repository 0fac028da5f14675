package app

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/rentaldesk/internal/observability"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/jobs"
	testmode "github.com/odyssey-erp/rentaldesk/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", os.DevNull)
	t.Setenv("AUTH_TOKEN_SECRET", testmode.TestTokenSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 45*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, "DZ", cfg.PhoneDefaultRegion)
	assert.Equal(t, "rentaldesk:contract_terms", cfg.TermsKey)
	assert.Equal(t, "DA", cfg.CurrencyLabel)
	assert.Equal(t, "@daily", cfg.ExpiryCron)
	assert.False(t, cfg.AttachmentsEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("ENV_FILE", os.DevNull)
	t.Setenv("AUTH_TOKEN_SECRET", " ")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("AUTH_TOKEN_SECRET", "short")
	t.Setenv("APP_ENV", "production")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := token.SignedString([]byte(testmode.TestTokenSecret))
	require.NoError(t, err)
	return raw
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "production", AppRequestTimeout: 5 * time.Second}
	return NewRouter(RouterParams{
		Logger:     logger,
		Config:     cfg,
		Auth:       shared.NewTokenVerifier(testmode.TestTokenSecret, "", logger),
		Metrics:    observability.NewMetrics(),
		JobHandler: jobs.NewHandler(nil, logger),
	})
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "https://desk.example/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "img-src 'self' data:")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "https://desk.example/static/css/document.css", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "https://desk.example/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterRequiresBearerToken(t *testing.T) {
	router := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "https://desk.example/jobs/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "https://desk.example/jobs/health", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "https://desk.example/jobs/health", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "agency-1"))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTestModeFlag(t *testing.T) {
	t.Setenv(TestModeEnv, "true")
	assert.True(t, RefreshTestMode())
	assert.True(t, InTestMode())

	t.Setenv(TestModeEnv, "0")
	assert.True(t, InTestMode(), "cached until refreshed")
	assert.False(t, RefreshTestMode())
	t.Setenv(TestModeEnv, "1")
	RefreshTestMode()
}
