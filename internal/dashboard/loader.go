package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/interfaces"
	"github.com/bobmcallan/vire-dashboard/internal/models"
)

// LoadOptions selects the securities consulted while loading.
type LoadOptions struct {
	OverviewSymbol  string
	SentimentTicker string
}

// DefaultLoadOptions consults AAPL for both the overview and the sentiment.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{OverviewSymbol: "AAPL", SentimentTicker: "AAPL"}
}

func (o LoadOptions) withDefaults() LoadOptions {
	d := DefaultLoadOptions()
	if o.OverviewSymbol == "" {
		o.OverviewSymbol = d.OverviewSymbol
	}
	if o.SentimentTicker == "" {
		o.SentimentTicker = d.SentimentTicker
	}
	return o
}

// Load runs the load sequence against src.
//
// The company overview is optional: on failure it is left unset. Gainers/losers
// and sentiment are fetched together and either both are used or the complete
// mock pair replaces them. Portfolios are always the mock set. An error is
// returned only when the sequence itself breaks: ctx ended before it finished
// or a step panicked.
func Load(ctx context.Context, src interfaces.MarketSource, opts LoadOptions, logger *common.Logger) (loaded FetchSucceeded, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load panicked: %v", r)
		}
	}()

	opts = opts.withDefaults()

	overview, ovErr := src.GetCompanyOverview(ctx, opts.OverviewSymbol)
	if ovErr != nil {
		overview = nil
		if logger != nil {
			logger.Warn().Str("symbol", opts.OverviewSymbol).Str("error", ovErr.Error()).Msg("company overview fetch failed")
		}
	}

	glRes, sentRes := FetchPair(ctx,
		func(ctx context.Context) (*models.GainersLosers, error) {
			return src.GetTopGainersAndLosers(ctx)
		},
		func(ctx context.Context) (*models.Sentiment, error) {
			return src.GetMarketSentiment(ctx, opts.SentimentTicker)
		},
	)

	mockGL, mockSentiment := MockMarketPair()
	pair, live := BothOr(glRes, sentRes, Pair[*models.GainersLosers, *models.Sentiment]{
		First:  &mockGL,
		Second: &mockSentiment,
	})
	if !live && logger != nil {
		logger.Warn().Str("ticker", opts.SentimentTicker).Str("error", FirstErr(glRes, sentRes).Error()).Msg("market data fetch failed, using mock data")
	}

	var gl models.GainersLosers
	if pair.First != nil {
		gl = *pair.First
	}

	if err := ctx.Err(); err != nil {
		return FetchSucceeded{}, fmt.Errorf("load interrupted: %w", err)
	}

	return FetchSucceeded{
		Overview:   overview,
		Market:     models.NewMarketData(gl, pair.Second),
		Portfolios: MockPortfolios(),
	}, nil
}

// Initialize marks the store loading, runs Load and records the outcome.
// The store never stays in the loading state once Initialize returns.
func Initialize(ctx context.Context, store *Store, src interfaces.MarketSource, opts LoadOptions, logger *common.Logger) State {
	store.Dispatch(LoadStarted{})

	loaded, err := Load(ctx, src, opts, logger)
	if err != nil {
		if logger != nil {
			logger.Error().Str("error", err.Error()).Msg("dashboard load failed")
		}
		return store.Dispatch(FetchFailed{})
	}
	return store.Dispatch(loaded)
}

// Search runs the search protocol. A blank query issues no request and leaves
// the results untouched. A searcher error surfaces as the search error state.
func Search(ctx context.Context, store *Store, searcher interfaces.StockSearcher, query string, logger *common.Logger) State {
	if strings.TrimSpace(query) == "" {
		return store.Snapshot()
	}
	store.Dispatch(SetSearchQuery{Query: query})

	results, err := searcher.SearchStocksByName(ctx, query)
	if err != nil {
		if logger != nil {
			logger.Error().Str("query", query).Str("error", err.Error()).Msg("stock search failed")
		}
		return store.Dispatch(SearchFailed{})
	}
	return store.Dispatch(SearchSucceeded{Results: results})
}
