// Package httpapi implements the HTTP gateway: the single chokepoint for
// every outbound call to the remote identity service. It attaches the stored
// bearer credential, normalizes every failure into *domain.APIError, and
// clears the credential store when the service answers 401 so an invalid
// token is never reused on the next call.
//
// The gateway performs no retries and no queuing; every call is fire-once
// and failures propagate immediately.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/core/ports"
	"github.com/bestpractice/identity-system/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Client is the gateway implementation of ports.APIClient.
type Client struct {
	baseURL string
	http    *http.Client
	creds   ports.CredentialStore
	log     zerolog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the identity service root, e.g. "http://localhost:3000/api".
	BaseURL string
	// Timeout bounds the full round trip of one call. Defaults to 15s.
	Timeout time.Duration
	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
}

func NewClient(opts Options, creds ports.CredentialStore, log zerolog.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		creds:   creds,
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// errorBody is the failure envelope the service may return alongside a
// non-2xx status.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// do performs one request: build, attach credential, transmit, decode.
// Exactly one suspension point — the HTTP round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return domain.NewAPIError("", 0, nil, fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return domain.NewAPIError("", 0, nil, err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Credential attachment is a pure transformation applied immediately
	// before transmission; the store is read fresh on every call.
	if cred, err := c.creds.Load(ctx); err == nil && cred != nil && cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ClientRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(method, "transport_error").Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("transport failure")
		return domain.NewAPIError("", 0, nil, err)
	}
	defer resp.Body.Close()

	metrics.ClientRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalizeFailure(ctx, method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewAPIError("", resp.StatusCode, nil, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// normalizeFailure converts a non-2xx response into a *domain.APIError,
// clearing the stored credential first when the status is 401.
func (c *Client) normalizeFailure(ctx context.Context, method, path string, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode == http.StatusUnauthorized {
		// An expired or invalid credential must not be reused on the next
		// call, whichever operation triggered this response.
		if err := c.creds.Clear(ctx); err != nil {
			c.log.Error().Err(err).Msg("failed to clear credential after 401")
		}
		metrics.CredentialClearsTotal.Inc()
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Str("method", method).
		Str("path", path).
		Str("message", body.Message).
		Msg("service failure")

	return domain.NewAPIError(body.Message, resp.StatusCode, body.Errors,
		fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
}
