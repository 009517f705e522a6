package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Users    UserService
	Demands  DemandService
	Activity ActivityService
}

// Handler builds the dispatcher shared by every transport.
func (s Services) Handler() *Handler {
	return NewHandler(s.Projects, s.Users, s.Demands, s.Activity)
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "criagil",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services.Handler(), cfg.Logger)

	return server
}

// registerTools exposes every catalog entry as an SDK tool backed by Handler.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
			Annotations: toolAnnotations(def.Annotations),
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				if logger != nil {
					logger.Debug("tool call failed", "tool", name, "session_id", getSessionID(ctx), "error", err)
				}
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content:           []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		StructuredContent: json.RawMessage(data),
	}, nil
}

// toolError reports domain failures in-band so the model can read the recovery hint.
func toolError(err error) *sdkmcp.CallToolResult {
	payload := any(map[string]string{"message": err.Error()})
	if apiErr := MapError(err); apiErr != nil {
		payload = apiErr
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		data = []byte(err.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}

func toolAnnotations(hints map[string]any) *sdkmcp.ToolAnnotations {
	if len(hints) == 0 {
		return nil
	}
	ann := &sdkmcp.ToolAnnotations{}
	if v, ok := hints["readOnlyHint"].(bool); ok {
		ann.ReadOnlyHint = v
	}
	if v, ok := hints["destructiveHint"].(bool); ok {
		ann.DestructiveHint = &v
	}
	return ann
}
