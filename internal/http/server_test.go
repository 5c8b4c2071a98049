package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connector/internal/health"
)

type fakeChecker struct {
	healthy bool
}

func (f fakeChecker) HealthCheck(ctx context.Context) bool { return f.healthy }

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name           string
		backendHealthy bool
		wantBotService string
	}{
		{"backend healthy", true, health.Connected},
		{"backend unhealthy", false, health.Disconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(":0", health.NewAggregator(fakeChecker{healthy: tt.backendHealthy}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var report health.Report
			if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if report.Status != health.StatusHealthy {
				t.Errorf("status = %q, want %q", report.Status, health.StatusHealthy)
			}
			if report.Service != health.ServiceName {
				t.Errorf("service = %q, want %q", report.Service, health.ServiceName)
			}
			if report.BotService != tt.wantBotService {
				t.Errorf("botService = %q, want %q", report.BotService, tt.wantBotService)
			}
			if report.Telegram != health.Connected {
				t.Errorf("telegram = %q, want %q", report.Telegram, health.Connected)
			}
		})
	}
}

func TestHandleHealth_AggregationFailure(t *testing.T) {
	srv := NewServer(":0", health.NewAggregator(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != health.StatusUnhealthy {
		t.Errorf("status = %q, want %q", body["status"], health.StatusUnhealthy)
	}
	if body["error"] == "" {
		t.Error("error message missing from unhealthy response")
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	srv := NewServer(":0", health.NewAggregator(fakeChecker{healthy: true}))

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}
