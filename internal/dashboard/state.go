// Package dashboard holds the portfolio dashboard view state and the pure
// transitions over it.
//
// All interaction is expressed as an Action applied by Reduce. The reducer
// never mutates its input: slices it changes are copied and entries it does
// not touch keep their payload references. Store serialises dispatch for one
// browser session.
package dashboard

import (
	"github.com/bobmcallan/vire-dashboard/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tab is a classic-mode analytics tab.
type Tab string

const (
	TabOverview  Tab = "overview"
	TabHoldings  Tab = "holdings"
	TabRisk      Tab = "risk"
	TabWatchlist Tab = "watchlist"
	TabMarket    Tab = "market"
)

// Tabs lists the classic-mode tabs in display order.
var Tabs = []Tab{TabOverview, TabHoldings, TabRisk, TabWatchlist, TabMarket}

// Valid reports whether t is a known classic tab.
func (t Tab) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the tab caption.
func (t Tab) Label() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabHoldings:
		return "Holdings"
	case TabRisk:
		return "Risk Analysis"
	case TabWatchlist:
		return "Watchlist"
	case TabMarket:
		return "Market Data"
	}
	return string(t)
}

// AgentTab is an agent-mode tab.
type AgentTab string

const (
	AgentTabThesis AgentTab = "thesis"
	AgentTabDummy1 AgentTab = "dummy1"
	AgentTabDummy2 AgentTab = "dummy2"
)

// AgentTabs lists the agent-mode tabs in display order.
var AgentTabs = []AgentTab{AgentTabThesis, AgentTabDummy1, AgentTabDummy2}

// Valid reports whether t is a known agent tab.
func (t AgentTab) Valid() bool {
	for _, known := range AgentTabs {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the tab caption.
func (t AgentTab) Label() string {
	switch t {
	case AgentTabThesis:
		return "Thesis Drift"
	case AgentTabDummy1:
		return "Dummy 1"
	case AgentTabDummy2:
		return "Dummy 2"
	}
	return string(t)
}

// User-facing error strings.
const (
	LoadErrorMessage   = "Unable to load data. Using mock data for demonstration."
	SearchErrorMessage = "Search failed. Please try again later."
)

// DefaultPortfolioID is selected in a fresh state.
const DefaultPortfolioID = "portfolio-1"

// EditSession is the single shared edit buffer. A nil *EditSession on State
// means no thought log entry is being edited.
type EditSession struct {
	EntryID    string
	Prompt     string
	ToolInputs *orderedmap.OrderedMap[string, string]
}

// State is the complete dashboard view state for one session.
type State struct {
	AgentMode           bool
	ActiveTab           Tab
	AgentTab            AgentTab
	ThinkingOpen        bool
	SelectedPortfolioID string
	Portfolios          []models.Portfolio
	Market              models.MarketData
	SearchQuery         string
	SearchResults       []models.StockMatch
	CompanyOverview     *models.CompanyOverview
	Loading             bool
	Error               string
	ThoughtLog          []models.ThoughtLogEntry
	Editing             *EditSession
	ActionLog           []models.ActionLogEntry
}

// New returns the state of a dashboard that has not loaded yet.
func New() State {
	return State{
		ActiveTab:           TabOverview,
		AgentTab:            AgentTabThesis,
		SelectedPortfolioID: DefaultPortfolioID,
		Portfolios:          SeedPortfolios(),
		Market:              models.NewMarketData(models.GainersLosers{}, nil),
		SearchResults:       []models.StockMatch{},
		Loading:             true,
		ThoughtLog:          SeedThoughtLog(),
		ActionLog:           SeedActionLog(),
	}
}

// SelectedPortfolio returns the selected portfolio, or the zero-valued
// default when the id matches nothing.
func (s State) SelectedPortfolio() models.Portfolio {
	if p, ok := models.FindPortfolio(s.Portfolios, s.SelectedPortfolioID); ok {
		return p
	}
	return models.DefaultPortfolio()
}

// IsEditing reports whether the entry with the given id owns the edit buffer.
func (s State) IsEditing(entryID string) bool {
	return s.Editing != nil && s.Editing.EntryID == entryID
}

// Thought returns the thought log entry with the given id.
func (s State) Thought(entryID string) (models.ThoughtLogEntry, bool) {
	if i := s.thoughtIndex(entryID); i >= 0 {
		return s.ThoughtLog[i], true
	}
	return models.ThoughtLogEntry{}, false
}

func (s State) thoughtIndex(entryID string) int {
	for i, e := range s.ThoughtLog {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}
