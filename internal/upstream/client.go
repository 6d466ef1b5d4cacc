package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/infra/logger"
)

// Sentinel classifications for upstream failures. An *APIError matches these
// through errors.Is, so call sites never branch on raw status codes.
var (
	// ErrUnauthorized marks an upstream 401. Session-fatal: the caller must
	// clear the credential pair and point the user at the login screen.
	ErrUnauthorized = errors.New("upstream: unauthorized")
	// ErrForbidden marks an upstream 403. The session stays intact.
	ErrForbidden = errors.New("upstream: forbidden")
	// ErrNotFound marks an upstream 404.
	ErrNotFound = errors.New("upstream: not found")
)

const maxResponseBytes = 8 << 20

// Client is the single HTTP gateway to the SelfStudy platform API. Every
// outgoing request passes through one send primitive that attaches the
// current access credential from the session store. The client never
// redirects or clears credentials itself; a 401 is surfaced distinguishably
// and the view layer reacts.
type Client struct {
	baseURL string
	http    *http.Client
	session port.SessionStore
	log     *zap.Logger
}

// NewClient constructs the gateway. baseURL is the platform root including
// the /api prefix, e.g. "http://127.0.0.1:8000/api".
func NewClient(baseURL string, timeout time.Duration, session port.SessionStore, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log,
	}
}

// Ping probes the platform through its public course listing. Used by the
// readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/courses/", nil, nil)
}

// APIError carries the upstream HTTP status and any server-provided message
// or field-level details.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("upstream: %d: %s", e.StatusCode, detail)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// Is classifies the error against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Detail renders the server-provided message, concatenating field-level
// validation errors verbatim.
func (e *APIError) Detail() string {
	parts := make([]string, 0, 1+len(e.Fields))
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}

	return strings.Join(parts, "; ")
}

// do issues a request with an optional JSON body and decodes the JSON
// response into out (which may be nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.decorate(ctx, req)
	return c.send(req, out)
}

// doMultipart issues a multipart/form-data request. The content type header
// comes from the multipart writer so the boundary is never set by hand.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]port.Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("upstream: write form field %s: %w", name, err)
		}
	}
	for name, upload := range files {
		part, err := w.CreateFormFile(name, upload.FileName)
		if err != nil {
			return fmt.Errorf("upstream: create form file %s: %w", name, err)
		}
		if _, err := part.Write(upload.Content); err != nil {
			return fmt.Errorf("upstream: write form file %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upstream: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.decorate(ctx, req)
	return c.send(req, out)
}

// decorate attaches the bearer credential when one is stored, plus the
// correlation id of the originating view request.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	if c.session != nil {
		if access, ok := c.session.Access(); ok {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	if id, ok := ctx.Value(logger.RequestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseAPIError(resp.StatusCode, data)
		c.log.Debug("upstream request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}

// parseAPIError extracts the server's message and field errors. The platform
// answers either {"detail": "..."} or a map of field name to message list.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for name, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			switch name {
			case "detail", "error", "message":
				apiErr.Message = single
			default:
				addField(apiErr, name, single)
			}
			continue
		}

		var many []string
		if err := json.Unmarshal(value, &many); err == nil && len(many) > 0 {
			addField(apiErr, name, many...)
		}
	}

	return apiErr
}

func addField(apiErr *APIError, name string, messages ...string) {
	if apiErr.Fields == nil {
		apiErr.Fields = make(map[string][]string)
	}
	apiErr.Fields[name] = append(apiErr.Fields[name], messages...)
}
