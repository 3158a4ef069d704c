package dashboard

import "github.com/bobmcallan/vire-dashboard/internal/models"

// Sample data shown until (and after) the backend is consulted. Every call
// returns fresh values so callers may keep the result without aliasing.

// SeedPortfolios returns the portfolios present before the first load completes.
func SeedPortfolios() []models.Portfolio {
	return []models.Portfolio{
		{
			ID:                 "portfolio-1",
			Name:               "Growth Portfolio",
			TotalValue:         1000000,
			DailyChange:        25000,
			DailyChangePercent: 2.5,
			Holdings:           growthHoldings(),
			RiskMetrics:        models.RiskMetrics{Beta: 1.2, SharpeRatio: 1.8, Volatility: 15.5, MaxDrawdown: 12.3},
			SectorAllocation:   growthSectors(),
		},
		{
			ID:                 "portfolio-2",
			Name:               "Income Portfolio",
			TotalValue:         750000,
			DailyChange:        15000,
			DailyChangePercent: 2.0,
			Holdings:           incomeHoldings(),
			RiskMetrics:        models.RiskMetrics{Beta: 0.8, SharpeRatio: 1.5, Volatility: 12.0, MaxDrawdown: 8.5},
			SectorAllocation:   incomeSectors(),
		},
	}
}

// MockPortfolios returns the portfolio set installed by every load, whether or
// not the backend answered.
func MockPortfolios() []models.Portfolio {
	portfolios := SeedPortfolios()

	portfolios[0].TopPerformers = []models.Performer{
		{Symbol: "MSFT", Name: "Microsoft", Change: 3.0},
		{Symbol: "AAPL", Name: "Apple", Change: 2.0},
		{Symbol: "JPM", Name: "JPMorgan", Change: 1.5},
	}
	portfolios[0].Watchlist = []models.WatchlistEntry{
		{Symbol: "GOOGL", Name: "Alphabet", Price: 2800, Change: 1.2},
		{Symbol: "AMZN", Name: "Amazon", Price: 3500, Change: -0.5},
		{Symbol: "TSLA", Name: "Tesla", Price: 900, Change: 2.5},
	}
	portfolios[1].TopPerformers = []models.Performer{}
	portfolios[1].Watchlist = []models.WatchlistEntry{}

	return portfolios
}

func growthHoldings() []models.Holding {
	return []models.Holding{
		{Symbol: "AAPL", Name: "Apple Inc.", Shares: 1000, Value: 250000, Change: 5000, ChangePercent: 2.0, Weight: 25, Sector: "Technology"},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Shares: 500, Value: 250000, Change: 7500, ChangePercent: 3.0, Weight: 25, Sector: "Technology"},
	}
}

func incomeHoldings() []models.Holding {
	return []models.Holding{
		{Symbol: "JPM", Name: "JPMorgan Chase", Shares: 1000, Value: 200000, Change: 3000, ChangePercent: 1.5, Weight: 20, Sector: "Financial"},
	}
}

func growthSectors() []models.SectorAllocation {
	return []models.SectorAllocation{
		{Sector: "Technology", Weight: 50},
		{Sector: "Financial", Weight: 20},
		{Sector: "Healthcare", Weight: 15},
		{Sector: "Consumer", Weight: 15},
	}
}

func incomeSectors() []models.SectorAllocation {
	return []models.SectorAllocation{
		{Sector: "Financial", Weight: 40},
		{Sector: "Utilities", Weight: 30},
		{Sector: "Consumer", Weight: 20},
		{Sector: "Healthcare", Weight: 10},
	}
}

// MockMarketPair returns the gainers/losers and sentiment substituted as a
// unit when either market fetch fails.
func MockMarketPair() (models.GainersLosers, models.Sentiment) {
	gl := models.GainersLosers{
		Gainers: []models.Mover{
			{Symbol: "AAPL", Name: "Apple Inc.", Change: 2.5},
			{Symbol: "MSFT", Name: "Microsoft", Change: 2.1},
			{Symbol: "GOOGL", Name: "Alphabet", Change: 1.8},
		},
		Losers: []models.Mover{
			{Symbol: "TSLA", Name: "Tesla", Change: -2.3},
			{Symbol: "META", Name: "Meta", Change: -1.9},
			{Symbol: "NFLX", Name: "Netflix", Change: -1.5},
		},
	}
	sentiment := models.Sentiment{
		Symbol:      "AAPL",
		Sentiment:   "Bullish",
		Description: "Strong technical indicators and positive earnings outlook suggest continued upward momentum.",
		Strength:    "High",
		Confidence:  85,
	}
	return gl, sentiment
}

// SeedThoughtLog returns the canned agent thoughts.
func SeedThoughtLog() []models.ThoughtLogEntry {
	return []models.ThoughtLogEntry{
		{
			ID:    "t1",
			Time:  "09:40 AM",
			Title: "Morning Briefing Generation",
			Kind:  models.ThoughtBullets,
			Prompt: "System: You are an AI portfolio manager.\n" +
				"User: Generate a concise morning briefing for the portfolio focusing on YTD performance vs benchmark and top 2 drivers. Include 1 actionable insight.\n" +
				`Context: { ytdReturn: 12.3, benchmark: 10.0, drivers: ["AAPL", "MSFT"], risk: { techWeight: 37.2, threshold: 35 } }`,
			Bullets: []string{
				"Portfolio is tracking 2.3% above benchmark YTD",
				"Drivers: AAPL, MSFT momentum",
				"Action: Trim Tech by 2-3% to reduce concentration (37.2% vs 35% target)",
			},
			Output: "Portfolio is tracking 2.3% above benchmark YTD. Primary drivers are AAPL and MSFT momentum. " +
				"Insight: Consider trimming Technology exposure by 2-3% to reduce concentration risk as weight is 37.2% vs 35% target.",
		},
		{
			ID:     "t2",
			Time:   "09:45 AM",
			Title:  "Generate Rebalancing Snippet",
			Kind:   models.ThoughtCode,
			Prompt: "Create a pseudo order plan to trim Tech by ~3% and reallocate to low beta holdings. Format as JSON.",
			Code: &models.CodeBlock{
				Language: "json",
				Content: `{
  "trim": [{"sector": "Technology", "percent": 3.0}],
  "add": [
    {"ticker": "XLU", "percent": 1.5},
    {"ticker": "SHY", "percent": 1.5}
  ]
}`,
			},
			Output: "Proposed trim/add plan in code block",
		},
		{
			ID:     "t3",
			Time:   "09:47 AM",
			Title:  "Volatility Alert Reasoning",
			Kind:   models.ThoughtText,
			Prompt: "Evaluate current portfolio volatility vs target and propose 1 mitigation using 30D realized volatility and beta",
			Output: "Volatility (18.5%) exceeds target (15%). Suggest: increase allocation to lower beta names by 2-4% " +
				"and introduce short-duration T-Bills to dampen variance.",
		},
		{
			ID:     "t4",
			Time:   "09:50 AM",
			Title:  "Risk Toolkit: Volatility Check",
			Kind:   models.ThoughtTool,
			Prompt: "Run risk toolkit check for realized volatility vs target",
			Tool: &models.ToolCall{
				Name: "risk.volatilityCheck",
				Inputs: models.ToolInputs(
					models.Input("realizedVol", 18.5),
					models.Input("targetVol", 15.0),
					models.Input("beta", 1.2),
				),
				Result: "Volatility exceeds target by 3.5 percentage points",
			},
			Output: "Toolkit confirms breach; mitigation required",
		},
	}
}

// SeedActionLog returns the canned agent notifications.
func SeedActionLog() []models.ActionLogEntry {
	return []models.ActionLogEntry{
		{
			ID:          1,
			Type:        models.ActionInfo,
			Time:        "09:45 AM",
			Title:       "Portfolio Analysis Complete",
			Description: "Initial portfolio analysis completed. Identified 3 opportunities for optimization.",
			Tags:        []string{"Analysis", "Portfolio"},
		},
		{
			ID:          2,
			Type:        models.ActionAlert,
			Time:        "09:47 AM",
			Title:       "Price Movement Alert",
			Description: "AAPL dropped 2.3% in the last 15 minutes. Monitoring for potential rebalancing opportunity.",
			Tags:        []string{"AAPL", "Price Alert"},
		},
		{
			ID:          3,
			Type:        models.ActionSuccess,
			Time:        "09:50 AM",
			Title:       "Strategy Meeting Scheduled",
			Description: "Based on market conditions and portfolio performance, scheduled a strategy review meeting for tomorrow at 10:00 AM.",
			Tags:        []string{"Meeting", "Strategy"},
		},
		{
			ID:          4,
			Type:        models.ActionWarning,
			Time:        "09:52 AM",
			Title:       "Sector Exposure Warning",
			Description: "Technology sector exposure exceeds target allocation by 5%. Preparing rebalancing recommendations.",
			Tags:        []string{"Sector", "Risk"},
		},
	}
}

// SeedBriefing returns the canned morning briefing of the thesis tab.
func SeedBriefing() models.Briefing {
	return models.Briefing{
		Summary: "Portfolio is currently tracking 2.3% above benchmark YTD. Key positions AAPL and MSFT showing strong momentum.",
		RiskAlerts: []models.BriefingItem{
			{Text: "Technology sector exposure at 37.2% (threshold: 35%)", Button: "Review"},
			{Text: "Portfolio volatility above target (18.5% vs 15%)", Button: "Optimize"},
		},
		Actions: []models.BriefingItem{
			{Text: "Rebalance technology exposure", Button: "Execute"},
			{Text: "Review earnings calendar for next week", Button: "Schedule"},
		},
		Metrics: []models.BriefingMetric{
			{Label: "YTD Return", Value: "+12.3%", Trend: "positive"},
			{Label: "Sharpe Ratio", Value: "1.8"},
			{Label: "Beta", Value: "1.2"},
			{Label: "Tracking Error", Value: "2.1%"},
		},
	}
}
