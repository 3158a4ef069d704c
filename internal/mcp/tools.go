package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/config"
	"github.com/bobmcallan/vire-dashboard/internal/dashboard"
	"github.com/bobmcallan/vire-dashboard/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolset holds what the tool handlers read from.
type toolset struct {
	deps             Deps
	logger           *common.Logger
	defaultPortfolio string
	load             dashboard.LoadOptions
	healthPath       string
}

func newToolset(cfg *config.Config, deps Deps, logger *common.Logger) *toolset {
	return &toolset{
		deps:             deps,
		logger:           logger,
		defaultPortfolio: cfg.Dashboard.DefaultPortfolio,
		load: dashboard.LoadOptions{
			OverviewSymbol:  cfg.Dashboard.OverviewSymbol,
			SentimentTicker: cfg.Dashboard.SentimentTicker,
		},
		healthPath: cfg.API.HealthPath,
	}
}

// register adds every tool to s and returns their names in registration order.
func (ts *toolset) register(s *server.MCPServer) []string {
	entries := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{VersionTool(), VersionToolHandler(ts.deps.Pinger, ts.healthPath)},
		{listPortfoliosTool(), ts.listPortfolios},
		{getPortfolioTool(), ts.getPortfolio},
		{marketMoversTool(), ts.marketMovers},
		{companyOverviewTool(), ts.companyOverview},
		{searchStocksTool(), ts.searchStocks},
		{thoughtLogTool(), ts.thoughtLog},
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		s.AddTool(e.tool, e.handler)
		names = append(names, e.tool.Name)
	}
	return names
}

func listPortfoliosTool() mcp.Tool {
	return mcp.NewTool("list_portfolios",
		mcp.WithDescription("List the dashboard portfolios with their value and daily change."),
	)
}

func getPortfolioTool() mcp.Tool {
	return mcp.NewTool("get_portfolio",
		mcp.WithDescription("Get one portfolio with holdings, risk metrics, sector allocation and watchlist."),
		mcp.WithString("portfolio_id", mcp.Description("Portfolio id (e.g. 'portfolio-1'). Uses the default portfolio if not specified.")),
	)
}

func marketMoversTool() mcp.Tool {
	return mcp.NewTool("get_market_movers",
		mcp.WithDescription("Get top gainers, top losers and market sentiment. Falls back to sample data as a whole when either backend call fails."),
		mcp.WithString("ticker", mcp.Description("Ticker for the sentiment record (e.g. 'AAPL').")),
	)
}

func companyOverviewTool() mcp.Tool {
	return mcp.NewTool("get_company_overview",
		mcp.WithDescription("Get the company overview for a symbol from the equity backend."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Ticker symbol (e.g. 'AAPL').")),
	)
}

func searchStocksTool() mcp.Tool {
	return mcp.NewTool("search_stocks",
		mcp.WithDescription("Search stocks by symbol or name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Symbol or name fragment.")),
	)
}

func thoughtLogTool() mcp.Tool {
	return mcp.NewTool("get_thought_log",
		mcp.WithDescription("Get the agent thought log. Without a format the entries are returned as JSON."),
		mcp.WithString("format", mcp.Description("Plain text export: 'prompts', 'outputs' or 'all'.")),
	)
}

// portfolioSummary is one line of list_portfolios.
type portfolioSummary struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TotalValue         float64 `json:"totalValue"`
	DailyChangePercent float64 `json:"dailyChangePercent"`
	Display            string  `json:"display"`
}

func (ts *toolset) listPortfolios(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	portfolios := dashboard.MockPortfolios()
	out := make([]portfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		out = append(out, portfolioSummary{
			ID:                 p.ID,
			Name:               p.Name,
			TotalValue:         p.TotalValue,
			DailyChangePercent: p.DailyChangePercent,
			Display:            fmt.Sprintf("%s %s (%s)", p.Name, common.FormatMoney(p.TotalValue), common.FormatSignedPct(p.DailyChangePercent)),
		})
	}
	return jsonResult(out), nil
}

func (ts *toolset) getPortfolio(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := r.GetString("portfolio_id", "")
	if id == "" {
		id = ts.defaultPortfolio
	}
	if id == "" {
		id = dashboard.DefaultPortfolioID
	}

	p, ok := models.FindPortfolio(dashboard.MockPortfolios(), id)
	if !ok {
		p = models.DefaultPortfolio()
	}
	return jsonResult(p), nil
}

// marketMovers is the payload of get_market_movers.
type marketMovers struct {
	models.MarketData
	Source string `json:"source"`
}

func (ts *toolset) marketMovers(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticker := r.GetString("ticker", ts.load.SentimentTicker)
	if ticker == "" {
		ticker = dashboard.DefaultLoadOptions().SentimentTicker
	}

	src := ts.deps.Source
	glRes, sentRes := dashboard.FetchPair(ctx,
		func(ctx context.Context) (*models.GainersLosers, error) {
			return src.GetTopGainersAndLosers(ctx)
		},
		func(ctx context.Context) (*models.Sentiment, error) {
			return src.GetMarketSentiment(ctx, ticker)
		},
	)

	mockGL, mockSentiment := dashboard.MockMarketPair()
	pair, live := dashboard.BothOr(glRes, sentRes, dashboard.Pair[*models.GainersLosers, *models.Sentiment]{
		First:  &mockGL,
		Second: &mockSentiment,
	})

	source := "live"
	if !live {
		source = "sample"
		ts.logger.Warn().Str("ticker", ticker).Str("error", dashboard.FirstErr(glRes, sentRes).Error()).Msg("market movers unavailable, using sample data")
	}

	var gl models.GainersLosers
	if pair.First != nil {
		gl = *pair.First
	}
	return jsonResult(marketMovers{MarketData: models.NewMarketData(gl, pair.Second), Source: source}), nil
}

// companyOverview is the payload of get_company_overview.
type companyOverview struct {
	*models.CompanyOverview
	MarketCapDisplay string `json:"marketCapDisplay"`
}

func (ts *toolset) companyOverview(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(r.GetString("symbol", "")))
	if symbol == "" {
		return errorResult("symbol is required"), nil
	}

	overview, err := ts.deps.Source.GetCompanyOverview(ctx, symbol)
	if err != nil {
		ts.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("company overview unavailable")
		return errorResult(fmt.Sprintf("company overview for %s is unavailable", symbol)), nil
	}
	if overview == nil {
		return errorResult(fmt.Sprintf("no company overview for %s", symbol)), nil
	}
	return jsonResult(companyOverview{
		CompanyOverview:  overview,
		MarketCapDisplay: common.FormatCompactMoney(overview.MarketCap),
	}), nil
}

func (ts *toolset) searchStocks(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(r.GetString("query", ""))
	if query == "" {
		return errorResult("query is required"), nil
	}

	results, err := ts.deps.Searcher.SearchStocksByName(ctx, query)
	if err != nil {
		ts.logger.Error().Str("query", query).Str("error", err.Error()).Msg("stock search failed")
		return errorResult(dashboard.SearchErrorMessage), nil
	}
	if results == nil {
		results = []models.StockMatch{}
	}
	return jsonResult(results), nil
}

func (ts *toolset) thoughtLog(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := dashboard.SeedThoughtLog()

	raw := r.GetString("format", "")
	if raw == "" {
		return jsonResult(log), nil
	}

	format, err := dashboard.ParseExportFormat(raw)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(dashboard.ExportThoughts(log, format)), nil
}
