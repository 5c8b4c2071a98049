// Package botclient is the single point of contact with the backend expense
// service. All operations are total: transport, timeout, and backend failures
// are normalized into result values and never escape as errors.
package botclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fixed user-safe failure strings. Raw transport errors are logged, never
// surfaced to chat.
const (
	ErrServiceUnavailable = "Service unavailable"
	MsgServiceUnavailable = "Bot service is currently unavailable. Please try again later."

	ErrInvalidUser = "Invalid user"
)

// Expense mirrors the backend's expense resource. The connector only reads
// expenses or triggers their creation, it never mutates fields.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Result is the uniform outcome of a message-processing call. When Success is
// false, Data is diagnostic only and must not be rendered to the user.
type Result struct {
	Success bool
	Data    map[string]any
	Error   string
	Message string
}

// WhitelistResult reports a registration attempt. Failure carries no message
// text; the caller decides whether to notify.
type WhitelistResult struct {
	Success    bool
	TelegramID string
}

type Config struct {
	BaseURL      string
	APIKeyHeader string
	APIKeySecret string
	Timeout      time.Duration
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKeyHeader string
	apiKeySecret string
	logger       *slog.Logger
}

// New creates a backend client. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKeyHeader: cfg.APIKeyHeader,
		apiKeySecret: cfg.APIKeySecret,
		logger:       logger.With("component", "botclient"),
	}
}

// ProcessMessage sends raw command text to the backend for parsing and
// persistence as an expense. Success is defined as exactly HTTP 200.
func (c *Client) ProcessMessage(ctx context.Context, telegramID, message string) Result {
	if telegramID == "" {
		c.logger.ErrorContext(ctx, "Cannot process message without a telegram id")
		return Result{Success: false, Error: ErrInvalidUser}
	}

	status, body, err := c.do(ctx, http.MethodPost, "/v1/expenses/"+url.PathEscape(telegramID), map[string]string{
		"message": message,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to process message through bot service",
			"telegram_id", telegramID, "error", err)
		return Result{
			Success: false,
			Error:   ErrServiceUnavailable,
			Message: MsgServiceUnavailable,
		}
	}

	var data map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			c.logger.DebugContext(ctx, "Bot service response body is not a JSON object",
				"status", status, "error", err)
		}
	}

	return Result{Success: status == http.StatusOK, Data: data}
}

// AddToWhitelist registers the user with the backend. The call is idempotent
// on the backend side; failures are silent by contract.
func (c *Client) AddToWhitelist(ctx context.Context, telegramID string) WhitelistResult {
	if telegramID == "" {
		c.logger.ErrorContext(ctx, "Cannot whitelist an empty telegram id")
		return WhitelistResult{Success: false, TelegramID: telegramID}
	}

	status, _, err := c.do(ctx, http.MethodPost, "/v1/users", map[string]string{
		"telegram_id": telegramID,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to add user to whitelist",
			"telegram_id", telegramID, "error", err)
		return WhitelistResult{Success: false, TelegramID: telegramID}
	}

	return WhitelistResult{Success: status == http.StatusOK, TelegramID: telegramID}
}

// ListExpenses returns the user's expenses. It is total: any backend or
// transport failure, a null body, and an unknown user all yield an empty
// slice, never an error.
func (c *Client) ListExpenses(ctx context.Context, telegramID string) []Expense {
	expenses := []Expense{}
	if telegramID == "" {
		c.logger.ErrorContext(ctx, "Cannot list expenses without a telegram id")
		return expenses
	}

	c.logger.InfoContext(ctx, "Getting user expenses", "telegram_id", telegramID)

	status, body, err := c.do(ctx, http.MethodGet, "/v1/expenses/"+url.PathEscape(telegramID), nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to get user expenses",
			"telegram_id", telegramID, "error", err)
		return expenses
	}
	if status != http.StatusOK || len(body) == 0 {
		return expenses
	}

	// A "null" body unmarshals as a no-op and keeps the empty slice.
	if err := json.Unmarshal(body, &expenses); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode expenses response",
			"telegram_id", telegramID, "status", status, "error", err)
		return []Expense{}
	}
	if expenses == nil {
		return []Expense{}
	}

	return expenses
}

// HealthCheck reports backend reachability. True only when the call completes
// with HTTP 200 and the body reports status "healthy".
func (c *Client) HealthCheck(ctx context.Context) bool {
	status, body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "Bot service health check failed", "error", err)
		return false
	}
	if status != http.StatusOK {
		return false
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode health response", "error", err)
		return false
	}

	return health.Status == "healthy"
}

// do performs one backend request. No retries: each call is attempted once
// and the caller decides what a failure means for the user.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKeyHeader != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKeySecret)
	}

	c.logger.DebugContext(ctx, "Bot service request", "method", method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "Bot service response",
		"method", method, "url", req.URL.String(), "status", resp.StatusCode)

	return resp.StatusCode, body, nil
}
