package models

// Mover is one entry in the top gainers or losers list.
type Mover struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// GainersLosers is the response of GET /eq/getTopGainersAndLosers.
type GainersLosers struct {
	Gainers []Mover `json:"gainers"`
	Losers  []Mover `json:"losers"`
}

// Sentiment is the response of GET /eq/getMarketSentiment.
type Sentiment struct {
	Symbol      string  `json:"symbol"`
	Sentiment   string  `json:"sentiment"`
	Description string  `json:"description"`
	Strength    string  `json:"strength"`
	Confidence  float64 `json:"confidence"`
}

// MarketData is the market movers view. It is replaced wholesale on each load.
type MarketData struct {
	TopGainers []Mover    `json:"topGainers"`
	TopLosers  []Mover    `json:"topLosers"`
	Sentiment  *Sentiment `json:"marketSentiment"`
}

// NewMarketData builds market data from a gainers/losers response and a
// sentiment record. Nil lists become empty lists.
func NewMarketData(gl GainersLosers, s *Sentiment) MarketData {
	md := MarketData{
		TopGainers: gl.Gainers,
		TopLosers:  gl.Losers,
		Sentiment:  s,
	}
	if md.TopGainers == nil {
		md.TopGainers = []Mover{}
	}
	if md.TopLosers == nil {
		md.TopLosers = []Mover{}
	}
	return md
}

// CompanyOverview is the response of GET /eq/getCompanyOverview.
type CompanyOverview struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"marketCap"`
	WeekHigh52  float64 `json:"weekHigh52"`
	WeekLow52   float64 `json:"weekLow52"`
	Description string  `json:"description"`
}

// StockMatch is one result of GET /eq/searchStocksByName.
type StockMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SampleStockMatches is the search result used when the backend cannot answer.
func SampleStockMatches() []StockMatch {
	return []StockMatch{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
	}
}
