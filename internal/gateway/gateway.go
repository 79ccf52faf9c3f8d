// Package gateway executes every outbound call to the recipe service
// under one cross-cutting policy: JSON headers, bearer authorization
// from the session store, a bounded per-call wait, and uniform
// classification of the response.
//
// The gateway never panics across its boundary and never retries; a
// failed call is reported once, as a typed error, and the user decides
// whether to try again. Receiving 401 or 403 tears the session down as
// a side effect - the caller only has to route the user back to login.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pantrykit/pantry/internal/session"
)

// DefaultTimeout bounds each call. The service is interactive; anything
// slower than this reads as "down" to the person at the terminal.
const DefaultTimeout = 5 * time.Second

// PayloadKind tags what a successful call carried back.
type PayloadKind int

const (
	// KindEmpty marks a success with no payload: DELETE
	// acknowledgments, 204s, and bodyless 2xx responses.
	KindEmpty PayloadKind = iota

	// KindJSON marks a parsed JSON payload in Result.JSON.
	KindJSON

	// KindText marks a non-JSON body surfaced verbatim in Result.Text,
	// such as the login endpoint's space-separated token response.
	KindText
)

// Result is the successful outcome of a call. Failures are typed
// errors (AuthError, ServerError, NetworkError), never Results.
type Result struct {
	Status int
	Kind   PayloadKind
	JSON   json.RawMessage
	Text   string
}

// Decode unmarshals a JSON payload into out. It is an error to decode
// an empty or text result.
func (r *Result) Decode(out any) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("response carried no JSON payload (status %d)", r.Status)
	}
	if err := json.Unmarshal(r.JSON, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client performs authorized calls against one base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	sess    *session.Store
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a gateway client bound to the given session store.
func New(baseURL string, sess *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sess:    sess,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{}
	}
	return c
}

// Do runs one call and classifies the response.
//
// Classification order: 401/403 clear the session and return an
// AuthError; any other non-2xx returns a ServerError with the body
// text; a 2xx DELETE, 204, or empty body is an empty success; any
// other 2xx carries JSON when the body parses and raw text otherwise.
// Transport failures, including the per-call deadline, come back as
// NetworkError. At most one attempt is made.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Result, error) {
	var reader io.Reader
	hasBody := body != nil
	if hasBody {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	// Omit the header entirely rather than send an empty credential.
	if tok := c.sess.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if clearErr := c.sess.Clear(); clearErr != nil {
			c.logger.Warn("clearing session after auth failure", "error", clearErr)
		}
		return nil, &AuthError{Status: resp.StatusCode}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ServerError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if method == http.MethodDelete || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return &Result{Status: resp.StatusCode, Kind: KindEmpty}, nil
	}
	if json.Valid(respBody) {
		return &Result{Status: resp.StatusCode, Kind: KindJSON, JSON: respBody}, nil
	}
	return &Result{Status: resp.StatusCode, Kind: KindText, Text: strings.TrimSpace(string(respBody))}, nil
}

// GetJSON issues a GET and decodes the JSON payload into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	res, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func classifyTransportError(err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		timeout = true
	}
	return &NetworkError{Timeout: timeout, Err: err}
}
