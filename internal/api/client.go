package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/ctxutil"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/metrics"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/observability"
)

// Client is the single outbound channel to the evaluaciones backend. It
// attaches the current credential, never retries and never caches.
type Client struct {
	base string
	http *http.Client
	log  *zap.SugaredLogger

	mu    sync.RWMutex
	token string
}

func New(base string, log *zap.SugaredLogger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{},
		log:  log,
	}
}

// SetToken installs the credential carried on every subsequent call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() { c.SetToken("") }

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := ctxutil.WithAPITimeout(ctx)
	defer cancel()

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.currentToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	reqID, ok := ctxutil.RequestID(ctx)
	if !ok {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", reqID)

	metrics.APIRequests.WithLabelValues(method).Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIErrors.Inc()
		observability.CaptureErr(err)
		c.log.Warnw("backend no disponible", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		metrics.APIErrors.Inc()
		apiErr := &Error{Status: resp.StatusCode}
		var eb errBody
		if raw, rerr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); rerr == nil {
			if jerr := json.Unmarshal(raw, &eb); jerr == nil {
				apiErr.Message = eb.Error
				apiErr.Details = eb.Details
			}
		}
		if isSystemErr(apiErr) {
			observability.CaptureErr(apiErr)
		}
		c.log.Warnw("backend rechazó la petición",
			"method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
