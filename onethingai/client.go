// Package onethingai is a client SDK for the OneThingAI GPU rental
// platform API. A Client wraps one API key and exposes the instance
// lifecycle (create, list, start, stop, delete) plus account, resource
// and image lookups. The remote service is the sole source of truth:
// the client caches nothing and every call is a fresh round trip.
package onethingai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultBaseURL  = "https://api-lab.onethingai.com"
	applicationJSON = "application/json"
	requestIDHeader = "X-Request-Id"

	defaultTimeout      = 10 * time.Second
	defaultRetryMax     = 3
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 10 * time.Second
)

// Config holds client construction parameters. APIKey is required;
// every other field falls back to a default when left zero.
type Config struct {
	// APIKey authenticates every request via a bearer token.
	APIKey string

	// BaseURL overrides the platform endpoint.
	BaseURL string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt for
	// transient failures (connection errors, timeouts, 429, 5xx).
	// A call issues at most RetryMax+1 requests.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the backoff between attempts.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Logger receives request diagnostics. Defaults to a discard logger.
	Logger *slog.Logger
}

// Client talks to the OneThingAI API. It is stateless between calls
// beyond the credential and configuration and is safe for concurrent
// use.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	logger  *slog.Logger
}

// NewClient creates a Client from cfg. It returns a *ConfigurationError
// if the API key is empty.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Reason: "API key is required"}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = defaultRetryMax
	}
	if cfg.RetryWaitMin == 0 {
		cfg.RetryWaitMin = defaultRetryWaitMin
	}
	if cfg.RetryWaitMax == 0 {
		cfg.RetryWaitMax = defaultRetryWaitMax
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.Logger = nil // suppress default logging
	retryClient.ErrorHandler = func(resp *http.Response, err error, attempts int) (*http.Response, error) {
		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("server responded %s", resp.Status)
			}
		}
		return nil, &TransientError{Attempts: attempts, Err: err}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    retryClient,
		logger:  cfg.Logger,
	}, nil
}

// envelope is the platform's uniform response wrapper. Code 0 means
// success; anything else is a business failure described by Msg.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doRequest issues one logical exchange against the API, retried
// internally for transient failures, and returns the envelope payload.
// op names the operation for error and log context.
func (c *Client) doRequest(ctx context.Context, op, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(requestIDHeader, uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", applicationJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var te *TransientError
		if errors.As(err, &te) {
			te.Op = op
			c.logger.Warn("retries exhausted",
				"op", op,
				"attempts", te.Attempts,
				"error", te.Err,
			)
			return nil, te
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProtocolError{Op: op, Reason: "read response body", Err: err}
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Non-retryable HTTP failure; surface whatever the server said.
		_ = json.Unmarshal(data, &env)
		msg := env.Msg
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		c.logger.Error("API error",
			"op", op,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"msg", msg,
		)
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Code: env.Code, Msg: msg}
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ProtocolError{Op: op, Reason: "malformed response envelope", Err: err}
	}
	if env.Code != 0 {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Code: env.Code, Msg: env.Msg}
	}
	return env.Data, nil
}

// decode unmarshals an envelope payload into out, flagging schema
// mismatches as protocol violations.
func decode(op string, data json.RawMessage, out any) error {
	if len(data) == 0 {
		return &ProtocolError{Op: op, Reason: "response data is empty"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ProtocolError{Op: op, Reason: "unexpected response schema", Err: err}
	}
	return nil
}
