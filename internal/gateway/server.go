// ABOUTME: HTTP transport for the MCP endpoint: auth, parsing, envelope framing.
// ABOUTME: Applies the protocol's status-code and notification rules around dispatch.

package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prototypr/forecast-gateway/internal/jsonrpc"
	"github.com/prototypr/forecast-gateway/internal/tools"
)

// DefaultToolTimeout bounds a single tool invocation when no timeout is
// configured.
const DefaultToolTimeout = 30 * time.Second

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// Options configures a Server.
type Options struct {
	// Token is the shared secret compared against the Bearer token on every
	// request.
	Token string

	// Registry is the process-lifetime tool catalog.
	Registry *tools.Registry

	Logger *slog.Logger

	// ToolTimeout bounds each tools/call invocation. Zero means
	// DefaultToolTimeout.
	ToolTimeout time.Duration

	// ServerName and ServerVersion are reported by initialize.
	ServerName    string
	ServerVersion string
}

// Server handles POST /mcp. It holds no mutable state: the registry is
// read-only and every request/response pair is scoped to one call.
type Server struct {
	token       []byte
	registry    *tools.Registry
	logger      *slog.Logger
	toolTimeout time.Duration
	info        serverInfo
	methods     map[string]methodHandler
}

// New creates a Server with its method dispatch table.
func New(opts Options) *Server {
	timeout := opts.ToolTimeout
	if timeout == 0 {
		timeout = DefaultToolTimeout
	}

	s := &Server{
		token:       []byte(opts.Token),
		registry:    opts.Registry,
		logger:      opts.Logger,
		toolTimeout: timeout,
		info: serverInfo{
			Name:    opts.ServerName,
			Version: opts.ServerVersion,
		},
	}
	s.methods = map[string]methodHandler{
		methodInitialize: s.handleInitialize,
		methodToolsList:  s.handleToolsList,
		methodToolsCall:  s.handleToolsCall,
	}
	return s
}

// ServeHTTP implements the endpoint contract: parse, then auth, then
// notification short-circuit, then dispatch. Parse errors answer 200 with a
// -32700 envelope; auth failures answer 401; notifications answer 204 with
// no body; everything else answers 200 with exactly one envelope carrying
// the request id.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	log := s.logger.With("request_id", uuid.NewString())

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		log.Warn("failed to read request body", "error", err)
		s.writeResponse(w, log, http.StatusOK,
			jsonrpc.NewError(nil, jsonrpc.CodeParseError, fmt.Sprintf("Parse error: %v", err)))
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.writeResponse(w, log, http.StatusOK,
			jsonrpc.NewError(nil, jsonrpc.CodeInvalidRequest, "request body too large"))
		return
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn("parse error", "error", err)
		s.writeResponse(w, log, http.StatusOK,
			jsonrpc.NewError(nil, jsonrpc.CodeParseError, fmt.Sprintf("Parse error: %v", err)))
		return
	}

	log.Info("mcp request", "method", req.Method, "rpc_id", req.ID)

	// Auth runs after parsing but before dispatch, notifications included.
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		s.writeResponse(w, log, http.StatusUnauthorized,
			jsonrpc.NewError(req.ID, jsonrpc.CodeServerError, "Unauthorized: Missing or invalid Authorization header"))
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), s.token) != 1 {
		s.writeResponse(w, log, http.StatusUnauthorized,
			jsonrpc.NewError(req.ID, jsonrpc.CodeServerError, "Unauthorized: Invalid MCP Auth token"))
		return
	}

	// Notifications never receive a JSON-RPC body, recognized or not.
	if req.IsNotification() {
		if strings.HasPrefix(req.Method, "notifications/") {
			log.Info("handled notification", "method", req.Method)
		} else {
			log.Info("unknown notification", "method", req.Method)
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := s.dispatch(r.Context(), log, &req)
	s.writeResponse(w, log, http.StatusOK, resp)

	log.Info("mcp response",
		"method", req.Method,
		"rpc_id", req.ID,
		"error", resp.Error != nil,
		"duration", time.Since(start),
	)
}

// dispatch routes a non-notification request to its method handler and maps
// failures onto the two error channels: tools/call faults become isError
// tool results, anything else becomes a protocol-level error.
func (s *Server) dispatch(ctx context.Context, log *slog.Logger, req *jsonrpc.Request) jsonrpc.Response {
	handler, ok := s.methods[req.Method]
	if !ok {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method))
	}

	result, err := s.safeCall(ctx, handler, req.Params)
	if err != nil {
		log.Error("dispatch failed", "method", req.Method, "error", err)
		if req.Method == methodToolsCall {
			// Keep the tool-calling contract intact even on failure.
			return jsonrpc.NewResult(req.ID, errorResult(fmt.Sprintf("Internal tool error: %v", err)))
		}
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError,
			fmt.Sprintf("Internal error: %v", err))
	}

	s.logResultPreview(log, req.Method, result)
	return jsonrpc.NewResult(req.ID, result)
}

// safeCall invokes a handler with panic recovery so a fault surfaces as an
// ordinary error on the dispatch path.
func (s *Server) safeCall(ctx context.Context, handler methodHandler, params json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, params)
}

// logResultPreview logs a truncated view of list/call results for debugging.
func (s *Server) logResultPreview(log *slog.Logger, method string, result any) {
	if method != methodToolsList && method != methodToolsCall {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	preview := string(data)
	if len(preview) > 300 {
		preview = preview[:300]
	}
	log.Info("result preview", "method", method, "preview", preview)
}

func (s *Server) writeResponse(w http.ResponseWriter, log *slog.Logger, status int, resp jsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

// bearerToken extracts the token from an Authorization header of the form
// "Bearer <token>".
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
