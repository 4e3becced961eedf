package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/assistant"
)

// Fetch executes a one-shot request and returns the response body of a 2xx
// response. Non-2xx responses are returned as *assistant.StatusError.
func (c *Client) Fetch(ctx context.Context, req assistant.RequestDescriptor) ([]byte, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &assistant.TransportError{Err: err}
	}
	defer resp.Body.Close()
	if !successful(resp.StatusCode) {
		return nil, parseHTTPError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &assistant.TransportError{Err: err}
	}
	return body, nil
}

// CreateThread creates an empty thread.
func (c *Client) CreateThread(ctx context.Context, metadata map[string]string) (assistant.Thread, error) {
	req, err := c.requests.CreateThread(metadata)
	if err != nil {
		return assistant.Thread{}, err
	}
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return assistant.Thread{}, err
	}
	return decodeThread(body)
}

// RetrieveThread fetches a thread by ID.
func (c *Client) RetrieveThread(ctx context.Context, threadID string) (assistant.Thread, error) {
	req, err := c.requests.RetrieveThread(threadID)
	if err != nil {
		return assistant.Thread{}, err
	}
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return assistant.Thread{}, err
	}
	return decodeThread(body)
}

// DeleteThread deletes a thread and its messages.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	req, err := c.requests.DeleteThread(threadID)
	if err != nil {
		return err
	}
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return err
	}
	var res apiDeleted
	if err := json.Unmarshal(body, &res); err != nil {
		return malformed("delete response", err)
	}
	if !res.Deleted {
		return fmt.Errorf("openai: thread %s was not deleted", threadID)
	}
	return nil
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID string, params assistant.MessageParams) (assistant.Message, error) {
	req, err := c.requests.CreateMessage(threadID, params)
	if err != nil {
		return assistant.Message{}, err
	}
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return assistant.Message{}, err
	}
	return decodeMessage(body)
}

// ListMessages returns one page of the messages of a thread.
func (c *Client) ListMessages(ctx context.Context, threadID string, params assistant.ListParams) ([]assistant.Message, error) {
	req, err := c.requests.ListMessages(threadID, params)
	if err != nil {
		return nil, err
	}
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	var list apiMessageList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, malformed("message list", err)
	}
	msgs := make([]assistant.Message, 0, len(list.Data))
	for i, raw := range list.Data {
		msg, err := decodeMessageAt(raw, fmt.Sprintf("$.data[%d]", i))
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// RetrieveRun fetches the current snapshot of a run.
func (c *Client) RetrieveRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	req, err := c.requests.RetrieveRun(threadID, runID)
	if err != nil {
		return assistant.Run{}, err
	}
	return c.fetchRun(ctx, req)
}

// CancelRun requests cancellation of a run. The returned snapshot is usually
// in the cancelling status.
func (c *Client) CancelRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	req, err := c.requests.CancelRun(threadID, runID)
	if err != nil {
		return assistant.Run{}, err
	}
	return c.fetchRun(ctx, req)
}

func (c *Client) fetchRun(ctx context.Context, req assistant.RequestDescriptor) (assistant.Run, error) {
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return assistant.Run{}, err
	}
	return decodeRun(body)
}

// parseHTTPError decodes the error envelope of a non-2xx response. When the
// body carries no envelope the error reports only the status code.
func parseHTTPError(resp *http.Response) error {
	fallback := &assistant.StatusError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}
	var env apiErrorResponse
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return fallback
	}
	return statusError(resp.StatusCode, env.Error)
}
