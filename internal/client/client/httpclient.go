package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/logging"
	"github.com/google/uuid"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
)

// TokenSource supplies the current credential. It is consulted on every
// authenticated request, so a cleared session stops sending the old token
// immediately.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

// UnauthorizedHandler is called when an authenticated request is answered
// with 401.
type UnauthorizedHandler func(ctx context.Context, op string)

type Options struct {
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout   time.Duration
	MLBaseURL string
	Tokens    TokenSource
	Logger    logging.Logger
}

// HTTPClient is safe for concurrent use.
type HTTPClient struct {
	baseURL    *url.URL
	mlURL      *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     logging.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler
}

func New(baseURL string, opts Options) (*HTTPClient, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}

	c := &HTTPClient{
		baseURL:    base,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
	}

	if opts.MLBaseURL != "" {
		if c.mlURL, err = parseBase(opts.MLBaseURL); err != nil {
			return nil, fmt.Errorf("ml base url: %w", err)
		}
	}

	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}

	if c.logger == nil {
		c.logger = logging.Nop()
	}

	return c, nil
}

func parseBase(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

// OnUnauthorized installs the 401 handler. It replaces any previous one.
func (c *HTTPClient) OnUnauthorized(h UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

func (c *HTTPClient) unauthorized(ctx context.Context, op string) {
	c.mu.RLock()
	h := c.onUnauthorized
	c.mu.RUnlock()

	if h != nil {
		h(ctx, op)
	}
}

// call describes one request. path holds already escaped segments that are
// appended to the base URL.
type call struct {
	op            string
	method        string
	base          *url.URL
	path          []string
	body          io.Reader
	contentType   string
	authenticated bool
}

// send performs c and returns the body of a 2xx response. Any other outcome
// is an *Error.
func (c *HTTPClient) send(ctx context.Context, r call) ([]byte, error) {
	base := c.baseURL
	if r.base != nil {
		base = r.base
	}
	target := base.JoinPath(r.path...)

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), r.body)
	if err != nil {
		return nil, &Error{Op: r.op, Kind: KindUnknown, Err: err}
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.authenticated && c.tokens != nil {
		if token, ok := c.tokens.Get(ctx); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	log := c.logger.With("op", r.op, "request_id", reqID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "method", r.method, "path", target.Path, "error", err)
		return nil, transportError(r.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return nil, transportError(r.op, err)
	}

	log.Debug(ctx, "request done",
		"method", r.method,
		"path", target.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	e := statusError(r.op, resp.StatusCode, body)
	if e.Kind == KindUnauthorized && r.authenticated {
		log.Info(ctx, "credential rejected by server")
		c.unauthorized(ctx, r.op)
	}
	return nil, e
}

func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status, Message: serverMessage(body)}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status >= 400 && status < 500:
		e.Kind = KindServerRejected
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	default:
		e.Kind = KindUnknown
	}

	return e
}

func malformed(op string, err error) *Error {
	return &Error{Op: op, Kind: KindMalformedResponse, Status: http.StatusOK, Err: err}
}

func jsonBody(v any) (io.Reader, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf, nil
}

// FilePart is a file attached to a multipart request.
type FilePart struct {
	Field   string
	Name    string
	Content io.Reader
}

// multipartBody encodes fields in key order followed by files.
func multipartBody(fields map[string]string, files ...FilePart) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
