package health

import (
	"context"
	"testing"
	"time"
)

type fakeChecker struct {
	healthy bool
}

func (f fakeChecker) HealthCheck(ctx context.Context) bool { return f.healthy }

func TestAggregator_Check(t *testing.T) {
	tests := []struct {
		name           string
		backendHealthy bool
		wantBotService string
	}{
		{"backend healthy", true, Connected},
		{"backend unhealthy", false, Disconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(fakeChecker{healthy: tt.backendHealthy})
			agg.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

			report, err := agg.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() unexpected error: %v", err)
			}

			if report.Status != StatusHealthy {
				t.Errorf("Status = %q, want %q", report.Status, StatusHealthy)
			}
			if report.Service != ServiceName {
				t.Errorf("Service = %q, want %q", report.Service, ServiceName)
			}
			if report.Version != Version {
				t.Errorf("Version = %q, want %q", report.Version, Version)
			}
			if report.Timestamp != "2026-08-28T12:00:00Z" {
				t.Errorf("Timestamp = %q, want 2026-08-28T12:00:00Z", report.Timestamp)
			}
			if report.BotService != tt.wantBotService {
				t.Errorf("BotService = %q, want %q", report.BotService, tt.wantBotService)
			}
			if report.Telegram != Connected {
				t.Errorf("Telegram = %q, want %q", report.Telegram, Connected)
			}
		})
	}
}

func TestAggregator_Check_NoProbe(t *testing.T) {
	agg := NewAggregator(nil)

	if _, err := agg.Check(context.Background()); err == nil {
		t.Fatal("Check() with no backend probe should return an error")
	}
}
