package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/selimozcann/urlrisk/internal/config"
	"github.com/selimozcann/urlrisk/internal/middleware"
	"github.com/selimozcann/urlrisk/internal/observability"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := run(root, append([]string{"--no-banner", "--no-color"}, args...), &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCheckText(t *testing.T) {
	out, _, err := execute(t, "check", "http://192.168.1.1/login")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 77")
	assert.Contains(t, out, "Risk Level: High")
	assert.Contains(t, out, "Classification: Dangerous")
	assert.Contains(t, out, "Protocol:   http:")
}

func TestCheckJSON(t *testing.T) {
	out, _, err := execute(t, "check", "--format", "json", "https://secure-login-bank.com")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got["error"])
	assert.Equal(t, float64(36), got["score"])
	assert.Equal(t, "Medium", got["riskLevel"])
	assert.Equal(t, "Suspicious", got["classification"])
}

func TestCheckYAML(t *testing.T) {
	out, _, err := execute(t, "check", "--format", "yaml", "https://example.com")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0, got["score"])
	assert.Equal(t, "Low", got["riskLevel"])
}

func TestCheckInvalidURL(t *testing.T) {
	out, stderr, err := execute(t, "check", "example.com")
	require.ErrorIs(t, err, errSilent)
	assert.Contains(t, out, "[x] Invalid URL format. Please include http:// or https://")
	assert.Empty(t, stderr)
}

func TestCheckUnknownFormat(t *testing.T) {
	_, stderr, err := execute(t, "check", "--format", "xml", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, stderr, `[-] Error: unknown format "xml"`)
}

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestLoadURLs(t *testing.T) {
	path := writeInput(t, "  https://example.com  ", "", "\t", "http://192.168.1.1/login", "")
	urls, err := loadURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com", "http://192.168.1.1/login"}, urls)

	_, err = loadURLs(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestScanWritesReports(t *testing.T) {
	input := writeInput(t,
		"https://example.com",
		"",
		"https://secure-login-bank.com",
		"http://192.168.1.1/login",
		"not-a-url",
	)
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "out", "results.jsonl")
	yamlPath := filepath.Join(dir, "results.yaml")
	htmlPath := filepath.Join(dir, "report", "index.html")

	out, _, err := execute(t, "scan",
		"-f", input,
		"-t", "3",
		"--no-progress",
		"-o", jsonlPath,
		"--yaml", yamlPath,
		"--html", htmlPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "[+] Scanning 4 URL(s)")
	assert.Contains(t, out, "[3/4] http://192.168.1.1/login | score=77")
	assert.Contains(t, out, "Total: 4 | high: 1 | medium: 1 | low: 1 | errors: 1")

	data, err := os.ReadFile(jsonlPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "https://example.com", first["input_url"])

	var docs []map[string]any
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &docs))
	assert.Len(t, docs, 4)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "urlrisk Report")
	assert.Contains(t, string(html), "<dt>threads</dt>")
}

func TestScanOnlyRisky(t *testing.T) {
	input := writeInput(t, "https://example.com", "http://192.168.1.1/login")
	out, _, err := execute(t, "scan", "-f", input, "--no-progress", "--only-risky")
	require.NoError(t, err)
	assert.NotContains(t, out, "https://example.com |")
	assert.Contains(t, out, "http://192.168.1.1/login | score=77")
}

func TestScanValidation(t *testing.T) {
	_, stderr, err := execute(t, "scan", "-f", writeInput(t, "https://example.com"), "-t", "0")
	require.Error(t, err)
	assert.Contains(t, stderr, "-t must be greater than zero")

	_, _, err = execute(t, "scan", "-f", writeInput(t, "", "  "))
	assert.ErrorContains(t, err, "contains no URLs")

	_, _, err = execute(t, "scan")
	assert.Error(t, err)
}

func testConfig(rateLimit int) config.Config {
	return config.Config{
		HTTPAddr:        ":0",
		RateLimit:       rateLimit,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestBuildHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := buildHandler(testConfig(0), logger, observability.NewMetrics())

	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"url":"http://192.168.1.1/login"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(77), got["score"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urlrisk_verdicts_total")
}

func TestBuildHandler_RateLimited(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := buildHandler(testConfig(1), logger, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
