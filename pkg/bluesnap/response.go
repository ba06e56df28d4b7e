package bluesnap

import (
	"strings"

	"github.com/beevik/etree"
)

// Response is the part every response type shares: the HTTP status, the
// request id BlueSnap assigned, the decoded body and the request that
// produced it.
type Response struct {
	code      string
	requestID string
	payload   Payload
	request   *Request
}

// Code returns the HTTP status code as a string, e.g. "200".
func (r *Response) Code() string {
	return r.code
}

// RequestID returns the Request-Id header, if BlueSnap sent one.
func (r *Response) RequestID() string {
	return r.requestID
}

// Payload returns the decoded body.
func (r *Response) Payload() Payload {
	return r.payload
}

// Request returns the request that produced this response.
func (r *Response) Request() *Request {
	return r.request
}

// IsSuccessful reports a 2xx status. The body is not considered.
func (r *Response) IsSuccessful() bool {
	return strings.HasPrefix(r.code, "2")
}

// Message returns the error text of an unsuccessful response: the
// message/description of an XML error document, or a plain text body.
func (r *Response) Message() string {
	if r.IsSuccessful() {
		return ""
	}
	switch p := r.payload.(type) {
	case *XMLPayload:
		return textOrEmpty(p.Root, "message", "description")
	case *TextPayload:
		return p.Text
	}
	return ""
}

// xmlRoot returns the document root, or nil for other payload shapes.
func (r *Response) xmlRoot() *etree.Element {
	if p, ok := r.payload.(*XMLPayload); ok {
		return p.Root
	}
	return nil
}

// table returns the JSON payload, or nil for other payload shapes.
func (r *Response) table() *TablePayload {
	if p, ok := r.payload.(*TablePayload); ok {
		return p
	}
	return nil
}
