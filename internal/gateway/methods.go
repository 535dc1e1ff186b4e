// ABOUTME: JSON-RPC method handlers: initialize, tools/list, and tools/call.
// ABOUTME: tools/call resolves the tool, coerces arguments, and wraps the result.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prototypr/forecast-gateway/internal/tools"
)

// ProtocolVersion is the single MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

const (
	methodInitialize = "initialize"
	methodToolsList  = "tools/list"
	methodToolsCall  = "tools/call"
)

// methodHandler is the uniform signature every dispatched method implements.
type methodHandler func(ctx context.Context, params json.RawMessage) (any, error)

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

type toolsListResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// contentItem is one entry in a tool result's content array.
type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolResult is the tool-result envelope returned inside a successful
// JSON-RPC result. IsError is omitted entirely on success.
type toolResult struct {
	IsError bool          `json:"isError,omitempty"`
	Content []contentItem `json:"content"`
}

func textResult(text string) toolResult {
	return toolResult{Content: []contentItem{{Type: "text", Text: text}}}
}

func errorResult(text string) toolResult {
	return toolResult{IsError: true, Content: []contentItem{{Type: "text", Text: text}}}
}

// handleInitialize returns the fixed capabilities descriptor. It ignores its
// params entirely; the response never varies.
func (s *Server) handleInitialize(_ context.Context, _ json.RawMessage) (any, error) {
	return initializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      s.info,
		Capabilities:    map[string]any{"tools": map[string]any{}},
	}, nil
}

// handleToolsList returns the full registry snapshot, unfiltered, every call.
func (s *Server) handleToolsList(_ context.Context, _ json.RawMessage) (any, error) {
	return toolsListResult{Tools: s.registry.List()}, nil
}

// handleToolsCall resolves the named tool and invokes it under the configured
// timeout. Tool-level failures (unknown tool, bad arguments, CallErrors from
// the handler) are reported inside a successful result with isError set;
// only internal faults return an error to the dispatch layer.
func (s *Server) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	var p toolCallParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decoding tools/call params: %w", err)
		}
	}

	args, ok := decodeArguments(p.Arguments)
	if !ok {
		return errorResult("Invalid arguments: expected object or JSON string."), nil
	}

	tool, found := s.registry.Get(p.Name)
	if !found {
		return errorResult(fmt.Sprintf("Tool not found: %s", p.Name)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.toolTimeout)
	defer cancel()

	out, err := s.invokeTool(ctx, tool, args)
	if err != nil {
		var callErr *tools.CallError
		if errors.As(err, &callErr) {
			return errorResult(callErr.Message), nil
		}
		return nil, err
	}

	return textResult(string(out)), nil
}

// decodeArguments normalizes the arguments field, which may be a JSON object
// or a JSON string containing encoded JSON. Reports false if a string
// payload does not itself parse as JSON.
func decodeArguments(raw json.RawMessage) (json.RawMessage, bool) {
	if len(raw) == 0 {
		return json.RawMessage(`{}`), true
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if !json.Valid([]byte(inner)) {
			return nil, false
		}
		return json.RawMessage(inner), true
	}

	return raw, true
}

type toolOutcome struct {
	out json.RawMessage
	err error
}

// invokeTool runs the handler on its own goroutine so a slow tool cannot
// outlive the request timeout. A timeout or cancellation reports through the
// same internal-error path as other faults.
func (s *Server) invokeTool(ctx context.Context, tool *tools.Tool, args json.RawMessage) (json.RawMessage, error) {
	ch := make(chan toolOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- toolOutcome{err: fmt.Errorf("tool panic: %v", r)}
			}
		}()
		out, err := tool.Handler(ctx, args)
		ch <- toolOutcome{out: out, err: err}
	}()

	select {
	case o := <-ch:
		return o.out, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
