package openai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/assistant"
)

// Requests builds request descriptors for the Assistants API. Each Requests
// value carries its own Config; there is no process-wide override.
type Requests struct {
	cfg Config
}

// NewRequests returns a builder for cfg.
func NewRequests(cfg Config) *Requests {
	return &Requests{cfg: cfg}
}

// CreateThread builds POST /threads.
func (r *Requests) CreateThread(metadata map[string]string) (assistant.RequestDescriptor, error) {
	return r.build(http.MethodPost, "/threads", nil, apiCreateThreadRequest{Metadata: metadata})
}

// RetrieveThread builds GET /threads/{id}.
func (r *Requests) RetrieveThread(threadID string) (assistant.RequestDescriptor, error) {
	return r.build(http.MethodGet, "/threads/"+url.PathEscape(threadID), nil, nil)
}

// DeleteThread builds DELETE /threads/{id}.
func (r *Requests) DeleteThread(threadID string) (assistant.RequestDescriptor, error) {
	return r.build(http.MethodDelete, "/threads/"+url.PathEscape(threadID), nil, nil)
}

// CreateMessage builds POST /threads/{id}/messages.
func (r *Requests) CreateMessage(threadID string, params assistant.MessageParams) (assistant.RequestDescriptor, error) {
	if err := params.Validate(); err != nil {
		return assistant.RequestDescriptor{}, err
	}
	body := apiCreateMessageRequest{
		Role:     string(params.Role),
		Content:  params.Content,
		Metadata: params.Metadata,
	}
	return r.build(http.MethodPost, threadPath(threadID, "messages"), nil, body)
}

// ListMessages builds GET /threads/{id}/messages. A zero Limit requests
// DefaultListLimit messages and a zero Order requests ascending order.
func (r *Requests) ListMessages(threadID string, params assistant.ListParams) (assistant.RequestDescriptor, error) {
	if err := params.Validate(); err != nil {
		return assistant.RequestDescriptor{}, err
	}
	limit := params.Limit
	if limit == 0 {
		limit = assistant.DefaultListLimit
	}
	order := params.Order
	if order == "" {
		order = assistant.OrderAsc
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", string(order))
	if params.After != "" {
		q.Set("after", params.After)
	}
	if params.Before != "" {
		q.Set("before", params.Before)
	}
	if params.RunID != "" {
		q.Set("run_id", params.RunID)
	}
	return r.build(http.MethodGet, threadPath(threadID, "messages"), q, nil)
}

// CreateRun builds a streaming POST /threads/{id}/runs.
func (r *Requests) CreateRun(threadID string, params assistant.RunParams) (assistant.RequestDescriptor, error) {
	body := apiCreateRunRequest{
		AssistantID:            params.AssistantID,
		Model:                  params.Model,
		Instructions:           params.Instructions,
		AdditionalInstructions: params.AdditionalInstructions,
		Temperature:            params.Temperature,
		TopP:                   params.TopP,
		MaxPromptTokens:        params.MaxPromptTokens,
		MaxCompletionTokens:    params.MaxCompletionTokens,
		Metadata:               params.Metadata,
		Stream:                 true,
	}
	for _, t := range params.Tools {
		body.Tools = append(body.Tools, apiTool{
			Type:     "function",
			Function: apiFunctionTool{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}
	return r.build(http.MethodPost, threadPath(threadID, "runs"), nil, body)
}

// SubmitToolOutputs builds a streaming
// POST /threads/{id}/runs/{run}/submit_tool_outputs.
func (r *Requests) SubmitToolOutputs(threadID, runID string, outputs []assistant.ToolOutput) (assistant.RequestDescriptor, error) {
	body := apiSubmitToolOutputsRequest{
		ToolOutputs: make([]apiToolOutput, len(outputs)),
		Stream:      true,
	}
	for i, o := range outputs {
		body.ToolOutputs[i] = apiToolOutput{ToolCallID: o.ToolCallID, Output: o.Output}
	}
	return r.build(http.MethodPost, runPath(threadID, runID, "submit_tool_outputs"), nil, body)
}

// RetrieveRun builds GET /threads/{id}/runs/{run}.
func (r *Requests) RetrieveRun(threadID, runID string) (assistant.RequestDescriptor, error) {
	return r.build(http.MethodGet, runPath(threadID, runID, ""), nil, nil)
}

// CancelRun builds POST /threads/{id}/runs/{run}/cancel.
func (r *Requests) CancelRun(threadID, runID string) (assistant.RequestDescriptor, error) {
	return r.build(http.MethodPost, runPath(threadID, runID, "cancel"), nil, nil)
}

func threadPath(threadID, sub string) string {
	return "/threads/" + url.PathEscape(threadID) + "/" + sub
}

func runPath(threadID, runID, sub string) string {
	p := threadPath(threadID, "runs/"+url.PathEscape(runID))
	if sub != "" {
		p += "/" + sub
	}
	return p
}

func (r *Requests) build(method, path string, query url.Values, body any) (assistant.RequestDescriptor, error) {
	base := r.cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	version := r.cfg.Version
	if version == "" {
		version = defaultVersion
	}
	u := strings.TrimRight(base, "/") + "/" + strings.Trim(version, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	beta := r.cfg.Beta
	if beta == "" {
		beta = defaultBeta
	}
	d := assistant.RequestDescriptor{
		Method: method,
		URL:    u,
		Header: map[string]string{"OpenAI-Beta": beta},
	}
	if r.cfg.APIKey != "" {
		d.Header["Authorization"] = "Bearer " + r.cfg.APIKey
	}
	if r.cfg.OrganizationID != "" {
		d.Header["OpenAI-Organization"] = r.cfg.OrganizationID
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return assistant.RequestDescriptor{}, fmt.Errorf("openai: %w", err)
		}
		d.Body = b
		d.Header["Content-Type"] = "application/json"
	}
	return d, nil
}
