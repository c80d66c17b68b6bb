// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the gateway client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeRateLimited
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeUnreachable, Message: "reply service is unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "reply service rejected credentials"}
	ErrRateLimited  = &ClientError{Type: ErrTypeRateLimited, Message: "too many requests"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the gateway client.
type ClientConfig struct {
	// BaseURL of the reply service; requests go to BaseURL + "/chat".
	BaseURL string

	// AuthToken is sent as a bearer token when set. The wire contract
	// itself carries no auth, so this stays optional for dev endpoints.
	AuthToken string

	// Timeout per request (default: 30s). Expiry surfaces as ErrTimeout
	// so the pending placeholder can be failed instead of hanging.
	Timeout time.Duration

	// MaxRetries for transient failures (default: 2)
	MaxRetries int

	// RetryDelay between retries (default: 1s)
	RetryDelay time.Duration

	// RequestsPerMinute caps outgoing requests (default: 30, 0 disables).
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8780",
		Timeout:           30 * time.Second,
		MaxRetries:        2,
		RetryDelay:        1 * time.Second,
		RequestsPerMinute: 30,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the remote reply endpoint. Thread-safe for concurrent
// use, though haven issues at most one request at a time per session.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// chatRequest is the wire request body.
type chatRequest struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// chatResponse is the wire response body.
type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// NewClient creates a gateway client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a gateway client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8780"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60), config.RequestsPerMinute)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
	}
}

// =============================================================================
// SEND
// =============================================================================

// Send relays a user message for the given date and returns the reply.
// The date is the one bound by the caller at dispatch time; the client
// never derives it. Transient failures are retried up to MaxRetries.
func (c *Client) Send(ctx context.Context, uid, message, date string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", ErrTimeout
			}
			return "", &ClientError{Type: ErrTypeRateLimited, Message: "rate limit wait aborted", Cause: err}
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ErrTimeout
			case <-time.After(c.config.RetryDelay):
			}
		}

		reply, err := c.send(ctx, uid, message, date)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// send performs a single request attempt.
func (c *Client) send(ctx context.Context, uid, message, date string) (string, error) {
	body, err := json.Marshal(chatRequest{UID: uid, Message: message, Date: date})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "reply service is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 500:
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "reply service error: " + resp.Status}
	case resp.StatusCode != http.StatusOK:
		var gwErr chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err == nil && gwErr.Error != "" {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: gwErr.Error}
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "chat request failed: " + resp.Status}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.Reply == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "empty reply from service"}
	}
	return result.Reply, nil
}

// isRetryable reports whether another attempt could succeed.
func isRetryable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrTypeUnreachable, ErrTypeRateLimited:
			return true
		}
	}
	return false
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable checks if an error indicates the service is unreachable.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsUnauthorized checks if an error is an auth rejection.
func IsUnauthorized(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnauthorized
	}
	return errors.Is(err, ErrUnauthorized)
}
