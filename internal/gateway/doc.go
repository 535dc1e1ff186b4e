// Package gateway implements the MCP endpoint: JSON-RPC dispatch over HTTP.
//
// # Overview
//
// The gateway package owns the single POST /mcp endpoint. It parses the
// JSON-RPC envelope, authenticates the Bearer token, short-circuits
// notifications, and routes requests to the method handlers.
//
// # Methods
//
// Three methods are dispatched:
//
//	initialize  - fixed capabilities descriptor (protocol version, server info)
//	tools/list  - full tool registry snapshot
//	tools/call  - resolve a tool by name, validate arguments, invoke it
//
// Any other method answers a protocol-level -32601 error.
//
// # Error Channels
//
// Failures travel on one of two disjoint channels:
//
//   - Protocol-level: the JSON-RPC error field. Parse errors (-32700),
//     auth failures (-32000, HTTP 401), unknown methods (-32601), and
//     internal faults on non-tool-call methods (-32603).
//   - Tool-level: an isError tool result inside a successful JSON-RPC
//     result. Unknown tools, invalid arguments, and any failure while
//     executing tools/call, so clients always receive a well-formed tool
//     result for that method.
//
// # Framing Rules
//
// A request whose id is absent or null is a notification: it answers
// 204 No Content with an empty body, never a JSON-RPC envelope. Every
// other request answers exactly one envelope carrying the request id.
// All non-notification responses use HTTP 200 except auth failures (401).
package gateway
