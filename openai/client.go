package openai

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/fwojciec/assistant"
)

// Interface compliance checks.
var (
	_ assistant.RunService    = (*Client)(nil)
	_ assistant.ThreadService = (*Client)(nil)
)

// Config addresses one service deployment. Zero fields take the public
// defaults.
type Config struct {
	APIKey         string
	BaseURL        string // default https://api.openai.com
	Version        string // path prefix, default v1
	OrganizationID string
	Beta           string // OpenAI-Beta header, default assistants=v2
}

// Client implements [assistant.RunService] and [assistant.ThreadService].
type Client struct {
	requests   *Requests
	httpClient *http.Client
	logger     *slog.Logger
	policy     assistant.DecodePolicy
	snapshots  bool
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides Config.BaseURL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.requests.cfg.BaseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for dropped frames, unknown run statuses and
// skipped decode errors. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDecodePolicy selects how streams treat frames that fail to decode.
// The default is [assistant.DecodeAbort].
func WithDecodePolicy(p assistant.DecodePolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithSnapshotEvents makes streams publish thread, run step and message
// snapshots as EventThreadCreated, EventRunStep and EventMessage. They are
// dropped by default.
func WithSnapshotEvents() Option {
	return func(c *Client) { c.snapshots = true }
}

// New creates a [Client] for cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		requests:   NewRequests(cfg),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Requests returns the request builder used by c.
func (c *Client) Requests() *Requests {
	return c.requests
}

// CreateRunStream starts a run on threadID and streams its events.
func (c *Client) CreateRunStream(ctx context.Context, threadID string, params assistant.RunParams) (assistant.Stream, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	req, err := c.requests.CreateRun(threadID, params)
	if err != nil {
		return nil, err
	}
	return c.OpenEventStream(ctx, req)
}

// SubmitToolOutputsStream answers a run in requires_action and streams the
// events of the resumed run.
func (c *Client) SubmitToolOutputsStream(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Stream, error) {
	req, err := c.requests.SubmitToolOutputs(threadID, runID, outputs)
	if err != nil {
		return nil, err
	}
	return c.OpenEventStream(ctx, req)
}

// OpenEventStream sends req and, once the service answers with a 2xx status
// and a text/event-stream body, returns a stream of its events. Any other
// response is returned as an *assistant.StatusError and no stream is
// created.
func (c *Client) OpenEventStream(ctx context.Context, req assistant.RequestDescriptor) (assistant.Stream, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &assistant.TransportError{Err: err}
	}
	if !successful(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if err := checkEventStream(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return newStream(ctx, resp.Body, streamConfig{
		logger:    c.logger,
		policy:    c.policy,
		snapshots: c.snapshots,
	}), nil
}

func checkEventStream(resp *http.Response) error {
	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == "text/event-stream" {
		return nil
	}
	return &assistant.StatusError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("unexpected content type %q", ct),
	}
}

func successful(code int) bool {
	return code >= 200 && code < 300
}
