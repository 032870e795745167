package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/haskel/adcfox/internal/charmodel"
	"github.com/haskel/adcfox/internal/config"
	"github.com/haskel/adcfox/internal/errors"
	"github.com/haskel/adcfox/internal/estimator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testServerWithConfig(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	loader := charmodel.NewLoader(charmodel.LoaderConfig{Path: "../charmodel/testdata/model.yaml"}, testLogger())
	table, info := loader.Load(context.Background())
	if info.Degraded {
		t.Fatalf("test model failed to load: %+v", info)
	}

	est := estimator.New(estimator.DefaultConfig(), table, testLogger())
	return New(cfg, est, info, testLogger(), "0.1.0-test")
}

func testServer(t *testing.T) *Server {
	return testServerWithConfig(t, config.Default())
}

func testServerDegraded(t *testing.T) *Server {
	t.Helper()
	info := charmodel.Info{Path: "missing.yaml", Degraded: true}
	est := estimator.New(estimator.DefaultConfig(), charmodel.NewTable(nil), testLogger())
	return New(config.Default(), est, info, testLogger(), "0.1.0-test")
}

const adcQuery = `{
	"class_name": "adc",
	"action_name": "convert",
	"class_attrs": {"resolution": 8, "technology": "16", "throughput": 3.2e9, "n_adc": 32}
}`

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleInfo(t *testing.T) {
	s := testServer(t)
	w := get(t, s, "/")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp InfoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Name != "adcfox" {
		t.Errorf("expected name 'adcfox', got %s", resp.Name)
	}
	if resp.Version != "0.1.0-test" {
		t.Errorf("expected version '0.1.0-test', got %s", resp.Version)
	}
	if resp.Estimator != "ADC Estimator" {
		t.Errorf("expected estimator 'ADC Estimator', got %s", resp.Estimator)
	}
}

func TestHandleInfo_NotFound(t *testing.T) {
	s := testServer(t)
	w := get(t, s, "/nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	w := get(t, s, "/health")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", resp.Status)
	}
}

func TestHandleReady(t *testing.T) {
	if w := get(t, testServer(t), "/ready"); w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	w := get(t, testServerDegraded(t), "/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 for degraded model, got %d", w.Code)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Ready || resp.Reason == "" {
		t.Errorf("expected not ready with reason, got %+v", resp)
	}
}

func TestHandleModel(t *testing.T) {
	w := get(t, testServer(t), "/model")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var info charmodel.Info
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Entries != 4 {
		t.Errorf("expected 4 entries, got %d", info.Entries)
	}
	if info.Degraded {
		t.Error("expected model not degraded")
	}
}

func TestHandleStatus(t *testing.T) {
	w := get(t, testServer(t), "/status")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var state map[string]any
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if state["pid"] == nil {
		t.Error("expected pid in status")
	}
}

func TestHandleMetrics(t *testing.T) {
	s := testServer(t)
	post(t, s, pathEnergy, adcQuery)

	w := get(t, s, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "adcfox_estimates_total") {
		t.Error("expected adcfox_estimates_total in metrics output")
	}
}

func TestHandleMetrics_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	s := testServerWithConfig(t, cfg)

	// falls through to the info handler, which only serves "/"
	if w := get(t, s, "/metrics"); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleEnergySupported(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name     string
		body     string
		expected estimator.Accuracy
	}{
		{"supported", adcQuery, estimator.DefaultEnergyAccuracy},
		{"unknown class", strings.Replace(adcQuery, `"adc"`, `"dac"`, 1), 0},
		{"unknown action", strings.Replace(adcQuery, `"convert"`, `"leak"`, 1), 0},
		{"missing attributes", `{"class_name": "adc", "action_name": "read", "class_attrs": {}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, s, pathEnergySupported, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var resp SupportedResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Accuracy != tt.expected {
				t.Errorf("expected accuracy %v, got %v", tt.expected, resp.Accuracy)
			}
		})
	}
}

func TestHandleEnergy(t *testing.T) {
	w := post(t, testServer(t), pathEnergy, adcQuery)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp estimator.Estimation
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.Value-2.0) > 1e-9 {
		t.Errorf("expected 2 pJ, got %v", resp.Value)
	}
	if resp.Unit != "p" {
		t.Errorf("expected unit 'p', got %s", resp.Unit)
	}
}

func TestHandleAreaSupported(t *testing.T) {
	// action is not consulted for area
	body := strings.Replace(adcQuery, `"convert"`, `"leak"`, 1)
	w := post(t, testServer(t), pathAreaSupported, body)

	var resp SupportedResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Accuracy != estimator.DefaultAreaAccuracy {
		t.Errorf("expected accuracy %v, got %v", estimator.DefaultAreaAccuracy, resp.Accuracy)
	}
}

func TestHandleArea(t *testing.T) {
	w := post(t, testServer(t), pathArea, adcQuery)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp estimator.Estimation
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.Value-32000) > 1e-6 {
		t.Errorf("expected 32000 um^2, got %v", resp.Value)
	}
	if resp.Unit != "u^2" {
		t.Errorf("expected unit 'u^2', got %s", resp.Unit)
	}
}

func TestHandleEstimate_Errors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
		expectedCode   errors.Code
	}{
		{
			name:           "missing attribute",
			path:           pathEnergy,
			body:           `{"class_name": "adc", "action_name": "convert", "class_attrs": {"resolution": 8, "technology": 16, "throughput": 1e9}}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   errors.CodeMissingAttribute,
		},
		{
			name:           "unparsable numeric",
			path:           pathArea,
			body:           `{"class_name": "adc", "class_attrs": {"resolution": "eight", "technology": 16, "throughput": 1e9, "n_adc": 1}}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   errors.CodeUnparsableNumeric,
		},
		{
			name:           "invalid attribute",
			path:           pathEnergy,
			body:           `{"class_name": "adc", "action_name": "convert", "class_attrs": {"resolution": 8, "technology": 16, "throughput": 1e9, "n_adc": 0}}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   errors.CodeInvalidAttribute,
		},
		{
			name:           "unsupported query",
			path:           pathEnergy,
			body:           strings.Replace(adcQuery, `"adc"`, `"gpu"`, 1),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.CodeUnsupportedQuery,
		},
		{
			name:           "no matching entry",
			path:           pathEnergy,
			body:           `{"class_name": "adc", "action_name": "convert", "class_attrs": {"resolution": 14, "technology": 16, "throughput": 1e9, "n_adc": 1}}`,
			expectedStatus: http.StatusNotFound,
			expectedCode:   errors.CodeNoMatchingModelEntry,
		},
		{
			name:           "malformed json",
			path:           pathArea,
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, s, tt.path, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, resp.Code)
			}
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestHandleEstimate_HintIncluded(t *testing.T) {
	body := `{"class_name": "adc", "action_name": "convert", "class_attrs": {"resolution": 8, "technology": 16, "throughput": 1e9}}`
	w := post(t, testServer(t), pathEnergy, body)

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hint == "" {
		t.Error("expected hint for missing attribute")
	}
}

func TestHandleEstimate_BodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 64
	s := testServerWithConfig(t, cfg)

	w := post(t, s, pathEnergy, adcQuery)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor("SOMETHING_ELSE"); got != http.StatusInternalServerError {
		t.Errorf("expected status 500 for unknown code, got %d", got)
	}
}

func TestWriteJSON(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()

	s.writeJSON(w, http.StatusCreated, map[string]string{"k": "v"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"k":"v"`)) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
