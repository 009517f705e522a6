package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps logged params and results; board_view over a seeded
// board easily runs to tens of kilobytes.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every MCP request and response at debug level,
// tagging tool calls with the tool and demand they touch.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := []any{"direction", direction, "method", method, "session_id", safeSessionID(req)}
			if call := toolCall(method, req); call != nil {
				attrs = append(attrs, "tool", call.Name)
				if id := demandID(call.Name, call.Arguments); id != "" {
					attrs = append(attrs, "demand_id", id)
				}
			}

			logger.Debug("mcp request", append(attrs, "params", formatPayload(safeParams(req)))...)
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			attrs = append(attrs, "result", formatPayload(result))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("mcp response", attrs...)
			return result, err
		}
	}
}

// The SDK request accessors panic on some notification shapes.
func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	if session := req.GetSession(); session != nil {
		id = session.ID()
	}
	return id
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}

// toolCall returns the params of a tools/call request.
func toolCall(method string, req sdkmcp.Request) *sdkmcp.CallToolParamsRaw {
	if method != "tools/call" {
		return nil
	}
	params, _ := safeParams(req).(*sdkmcp.CallToolParamsRaw)
	return params
}

// demandID pulls the target demand out of tool arguments.
func demandID(tool string, args json.RawMessage) string {
	var ref struct {
		ID       string `json:"id"`
		DemandID string `json:"demand_id"`
	}
	if len(args) == 0 || json.Unmarshal(args, &ref) != nil {
		return ""
	}
	switch tool {
	case "get_demand", "update_demand", "move_demand":
		return ref.ID
	case "get_recent_activity":
		return ref.DemandID
	}
	return ""
}
