package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by the MCP API error so the transport can map
// domain failures without importing the mcp package.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// Options configures the HTTP router.
type Options struct {
	// MCP, when set, is mounted at /mcp (typically the SDK streamable handler).
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware)
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}

	srv := &Server{handler: handler, logger: opts.Logger}

	r.Post("/rpc", srv.handleRPC)
	r.Get("/health", srv.handleHealth)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, ErrParse) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	method, params := req.Method, req.Params
	if method == "tools/call" {
		var call ToolCallParams
		if err := json.Unmarshal(params, &call); err != nil || call.Name == "" {
			WriteError(w, req.ID, ErrInvalidParams, "tools/call requires a tool name", nil)
			return
		}
		method, params = call.Name, call.Arguments
	}

	result, err := s.handler.Handle(r.Context(), method, params)
	if err != nil {
		code, message, data := rpcError(err)
		if code == ErrInternal && s.logger != nil {
			s.logger.Error("rpc call failed", "method", method, "error", err)
		}
		WriteError(w, req.ID, code, message, data)
		return
	}

	WriteResult(w, req.ID, result)
}

func rpcError(err error) (int, string, any) {
	var coded codedError
	if !errors.As(err, &coded) {
		return ErrInternal, err.Error(), nil
	}
	data := map[string]any{"code": coded.CodeValue()}
	if details := coded.DetailsValue(); details != nil {
		data["details"] = details
	}
	if hint := coded.RecoveryHintValue(); hint != "" {
		data["recovery_hint"] = hint
	}
	switch coded.CodeValue() {
	case "METHOD_NOT_FOUND":
		return ErrMethodNotFound, coded.MessageValue(), data
	case "INVALID_PARAMS", "INVALID_INPUT", "INVALID_STATUS":
		return ErrInvalidParams, coded.MessageValue(), data
	default:
		return ErrServerCode, coded.MessageValue(), data
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"client", clientRef(r.Context()),
			)
		})
	}
}
