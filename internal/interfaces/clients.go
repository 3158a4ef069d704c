// Package interfaces declares the collaborators the dashboard depends on.
package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-dashboard/internal/models"
)

// MarketSource provides the optional market data fetched when a dashboard loads.
// Implementations can be swapped (equity backend now, fixtures in tests).
type MarketSource interface {
	GetCompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error)
	GetTopGainersAndLosers(ctx context.Context) (*models.GainersLosers, error)
	GetMarketSentiment(ctx context.Context, ticker string) (*models.Sentiment, error)
}

// StockSearcher looks up securities by symbol or name.
type StockSearcher interface {
	SearchStocksByName(ctx context.Context, query string) ([]models.StockMatch, error)
}

// BackendPinger checks that the backend is reachable.
type BackendPinger interface {
	Ping(ctx context.Context, path string) error
}
