package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimozcann/urlrisk/internal/analyzer"
	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/observability"
)

func newTestServer(t *testing.T) (*http.ServeMux, *observability.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	mux := http.NewServeMux()
	NewServer(logger, metrics).RegisterRoutes(mux)
	return mux, metrics
}

func post(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestServer(t)
	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, want, body["status"])
	}
}

func TestCheck_Success(t *testing.T) {
	mux, metrics := newTestServer(t)
	rec := post(mux, `{"url":"http://192.168.1.1/login"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var v model.Verdict
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Nil(t, v.Error)
	assert.Equal(t, 77, v.Score)
	assert.Equal(t, model.RiskHigh, v.RiskLevel)
	assert.Equal(t, model.ClassDangerous, v.Classification)
	assert.Equal(t, "192.168.1.1", v.DomainInfo.Hostname)
	assert.False(t, v.AnalyzedAt.IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Verdicts.WithLabelValues("High")))
}

func TestCheck_BadRequests(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missingURL", body: `{}`, want: msgURLRequired},
		{name: "nullURL", body: `{"url":null}`, want: msgURLRequired},
		{name: "numberURL", body: `{"url":42}`, want: msgURLRequired},
		{name: "objectURL", body: `{"url":{"href":"https://example.com"}}`, want: msgURLRequired},
		{name: "emptyURL", body: `{"url":""}`, want: msgURLRequired},
		{name: "notJSON", body: `url=https://example.com`, want: msgBadJSON},
		{name: "blankURL", body: `{"url":"   "}`, want: analyzer.ErrInvalidInput.Error()},
		{name: "noScheme", body: `{"url":"not-a-url"}`, want: analyzer.ErrInvalidScheme.Error()},
		{name: "malformed", body: `{"url":"https://"}`, want: analyzer.ErrMalformedURL.Error()},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mux, _ := newTestServer(t)
			rec := post(mux, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, map[string]any{"error": tt.want}, body)
		})
	}
}

func TestCheck_BodyTooLarge(t *testing.T) {
	mux, _ := newTestServer(t)
	body := `{"url":"https://example.com/` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := post(mux, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCheck_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/check", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	mux, _ := newTestServer(t)
	post(mux, `{"url":"not-a-url"}`)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urlrisk_rejected_total")
}
