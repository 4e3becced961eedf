package assistant

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// RequestDescriptor describes one HTTP request to the service. Builders
// produce descriptors; transports execute them.
type RequestDescriptor struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// HTTPRequest builds an *http.Request for d bound to ctx.
func (d RequestDescriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if len(d.Body) > 0 {
		body = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range d.Header {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Order is the sort order of a list request.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// DefaultListLimit is the page size used when ListParams.Limit is zero.
const DefaultListLimit = 50

// ListParams pages through the messages of a thread. After and Before are
// message IDs used as cursors; RunID restricts the list to one run.
type ListParams struct {
	Limit  int
	Order  Order
	After  string
	Before string
	RunID  string
}

// MessageParams is the body of a new user message.
type MessageParams struct {
	Role     Role
	Content  string
	Metadata map[string]string
}
