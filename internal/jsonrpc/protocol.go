// ABOUTME: JSON-RPC 2.0 envelope types for the MCP endpoint.
// ABOUTME: Tracks id presence so notifications can be told apart from requests.

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC protocol version emitted on every response.
const Version = "2.0"

// Error codes used by the MCP endpoint.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000
)

// Request is an incoming JSON-RPC 2.0 request.
//
// ID may be a string, a number (float64 after decoding), or nil. A request
// whose id is absent or explicitly null is a notification and must never
// receive a response body.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`

	idPresent bool
	idNull    bool
}

// UnmarshalJSON decodes a request while recording whether the id field was
// present and whether it was explicitly null. The distinction matters for
// notification handling: {"id":null} and a missing id are both notifications.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	r.JSONRPC = p.JSONRPC
	r.Method = p.Method
	r.Params = p.Params
	r.ID = nil
	r.idNull = false

	rawID, ok := fields["id"]
	r.idPresent = ok
	if !ok {
		return nil
	}

	if bytes.Equal(bytes.TrimSpace(rawID), []byte("null")) {
		r.idNull = true
		return nil
	}

	return json.Unmarshal(rawID, &r.ID)
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return !r.idPresent || r.idNull
}

// Response is an outgoing JSON-RPC 2.0 response. Exactly one of Result and
// Error is set. ID is always serialized, including the id:null required on
// parse errors.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("jsonrpc error %d", e.Code)
	}
	return e.Message
}

// NewResult builds a success response carrying the caller's id.
func NewResult(id, result any) Response {
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewError builds an error response carrying the caller's id.
func NewError(id any, code int, message string) Response {
	return Response{JSONRPC: Version, Error: &Error{Code: code, Message: message}, ID: id}
}
