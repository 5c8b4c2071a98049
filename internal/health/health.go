// Package health composes subsystem reachability into a single report for
// the connector's /health endpoint.
package health

import (
	"context"
	"errors"
	"time"
)

const (
	ServiceName = "Telegram Connector Service"
	Version     = "1.0.0"

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	Connected    = "connected"
	Disconnected = "disconnected"
)

// Checker probes backend reachability. *botclient.Client implements it.
type Checker interface {
	HealthCheck(ctx context.Context) bool
}

// Report is the aggregate health payload returned by GET /health.
type Report struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	BotService string `json:"botService"`
	Telegram   string `json:"telegram"`
}

type Aggregator struct {
	backend Checker
	now     func() time.Time
}

func NewAggregator(backend Checker) *Aggregator {
	return &Aggregator{backend: backend, now: time.Now}
}

// Check builds the aggregate report. Backend connectivity comes from the
// injected probe; the telegram flag only states that the aggregator itself
// could run. An error is returned only when the aggregator was composed
// without a backend probe, which the HTTP layer maps to an unhealthy 500.
func (a *Aggregator) Check(ctx context.Context) (Report, error) {
	if a.backend == nil {
		return Report{}, errors.New("health aggregator has no backend probe")
	}

	botService := Disconnected
	if a.backend.HealthCheck(ctx) {
		botService = Connected
	}

	return Report{
		Status:     StatusHealthy,
		Service:    ServiceName,
		Version:    Version,
		Timestamp:  a.now().UTC().Format(time.RFC3339),
		BotService: botService,
		Telegram:   Connected,
	}, nil
}
