package mcp

import (
	"context"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/config"
	"github.com/bobmcallan/vire-dashboard/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const backendProbeTimeout = 3 * time.Second

// versionResult is the payload of get_version.
type versionResult struct {
	Dashboard config.VersionInfo `json:"vire_dashboard"`
	Backend   string             `json:"backend"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Vire dashboard version and whether the equity backend answers. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the dashboard version and backend status. An
// unreachable backend is reported as "down", never as a tool error.
func VersionToolHandler(pinger interfaces.BackendPinger, healthPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := versionResult{Dashboard: config.Info(), Backend: "unknown"}

		if pinger != nil {
			ctx, cancel := context.WithTimeout(ctx, backendProbeTimeout)
			defer cancel()
			if err := pinger.Ping(ctx, healthPath); err != nil {
				result.Backend = "down"
			} else {
				result.Backend = "ok"
			}
		}

		return jsonResult(result), nil
	}
}
