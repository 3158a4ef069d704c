// Package models defines data structures for the Vire dashboard.
package models

// Portfolio is a named collection of holdings with aggregate value and risk metrics.
type Portfolio struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	TotalValue         float64            `json:"totalValue"`
	DailyChange        float64            `json:"dailyChange"`
	DailyChangePercent float64            `json:"dailyChangePercent"`
	Holdings           []Holding          `json:"holdings"`
	RiskMetrics        RiskMetrics        `json:"riskMetrics"`
	SectorAllocation   []SectorAllocation `json:"sectorAllocation"`
	TopPerformers      []Performer        `json:"topPerformers"`
	Watchlist          []WatchlistEntry   `json:"watchlist"`
}

// Holding is one position within a portfolio.
// Weight is a percentage of portfolio value and is not normalised.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Shares        float64 `json:"shares"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Weight        float64 `json:"weight"`
	Sector        string  `json:"sector"`
}

// RiskMetrics is a point-in-time risk snapshot.
type RiskMetrics struct {
	Beta        float64 `json:"beta"`
	SharpeRatio float64 `json:"sharpeRatio"`
	Volatility  float64 `json:"volatility"`
	MaxDrawdown float64 `json:"maxDrawdown"`
}

// SectorAllocation is the weight of one sector in a portfolio.
type SectorAllocation struct {
	Sector string  `json:"sector"`
	Weight float64 `json:"weight"`
}

// Performer is a top-performing position (change is a percentage).
type Performer struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// WatchlistEntry is a tracked security that is not necessarily held.
type WatchlistEntry struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

// DefaultPortfolio returns the zero-valued portfolio rendered when the
// selected id does not match any portfolio.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		ID:               "default",
		Name:             "Default Portfolio",
		Holdings:         []Holding{},
		SectorAllocation: []SectorAllocation{},
		TopPerformers:    []Performer{},
		Watchlist:        []WatchlistEntry{},
	}
}

// FindPortfolio returns the portfolio with the given id.
func FindPortfolio(portfolios []Portfolio, id string) (Portfolio, bool) {
	for _, p := range portfolios {
		if p.ID == id {
			return p, true
		}
	}
	return Portfolio{}, false
}
