// Package mcp exposes dashboard data to agents as MCP tools.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/config"
	"github.com/bobmcallan/vire-dashboard/internal/interfaces"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Deps are the collaborators the tools read from.
type Deps struct {
	Source   interfaces.MarketSource
	Searcher interfaces.StockSearcher
	Pinger   interfaces.BackendPinger
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewHandler creates the MCP handler with every dashboard tool registered.
func NewHandler(cfg *config.Config, deps Deps, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpSrv := mcpserver.NewMCPServer(
		"vire-dashboard",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	ts := newToolset(cfg, deps, logger)
	names := ts.register(mcpSrv)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(names)).
		Str("api_url", cfg.API.URL).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      names,
	}
}

// Tools returns the names of the registered tools.
func (h *Handler) Tools() []string {
	out := make([]string, len(h.tools))
	copy(out, h.tools)
	return out
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
