package dashboard

import (
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/models"
)

// Action is a dashboard state transition. The set is closed: only types in
// this package implement it.
type Action interface {
	action()
}

// SelectPortfolio makes the portfolio with ID active. The id is not checked;
// an unknown id renders the default portfolio.
type SelectPortfolio struct{ ID string }

// SetTab switches the classic-mode tab. Unknown tabs are ignored.
type SetTab struct{ Tab Tab }

// SetAgentTab switches the agent-mode tab. Unknown tabs are ignored.
type SetAgentTab struct{ Tab AgentTab }

// ToggleAgentMode flips between classic and agent rendering.
type ToggleAgentMode struct{}

// ToggleThinking opens or closes the agent thoughts popover.
type ToggleThinking struct{}

// CloseThinking closes the agent thoughts popover.
type CloseThinking struct{}

// SetSearchQuery records the search box contents.
type SetSearchQuery struct{ Query string }

// SearchSucceeded replaces the search results.
type SearchSucceeded struct{ Results []models.StockMatch }

// SearchFailed records a search transport failure.
type SearchFailed struct{}

// LoadStarted marks the dashboard as loading.
type LoadStarted struct{}

// FetchSucceeded carries the outcome of a completed load.
type FetchSucceeded struct {
	Overview   *models.CompanyOverview
	Market     models.MarketData
	Portfolios []models.Portfolio
}

// FetchFailed records an unexpected failure of the load sequence.
type FetchFailed struct{}

// DismissError clears the error so the dashboard renders again.
type DismissError struct{}

// BeginEdit moves the entry into editing, replacing any other edit in progress.
type BeginEdit struct{ EntryID string }

// The edit-buffer actions below target EntryID. They are ignored unless that
// entry is the one being edited; an empty EntryID targets the current edit.

// SetEditPrompt updates the prompt buffer.
type SetEditPrompt struct {
	EntryID string
	Prompt  string
}

// SetEditToolInput updates one tool input in the buffer. Keys not present
// when editing began are ignored.
type SetEditToolInput struct {
	EntryID string
	Key     string
	Value   string
}

// SaveEdit commits the buffer to the entry being edited.
type SaveEdit struct{ EntryID string }

// CancelEdit discards the buffer.
type CancelEdit struct{}

// Rerun re-executes a thought, rewriting its time label and output.
type Rerun struct {
	EntryID string
	At      time.Time
}

func (SelectPortfolio) action()  {}
func (SetTab) action()           {}
func (SetAgentTab) action()      {}
func (ToggleAgentMode) action()  {}
func (ToggleThinking) action()   {}
func (CloseThinking) action()    {}
func (SetSearchQuery) action()   {}
func (SearchSucceeded) action()  {}
func (SearchFailed) action()     {}
func (LoadStarted) action()      {}
func (FetchSucceeded) action()   {}
func (FetchFailed) action()      {}
func (DismissError) action()     {}
func (BeginEdit) action()        {}
func (SetEditPrompt) action()    {}
func (SetEditToolInput) action() {}
func (SaveEdit) action()         {}
func (CancelEdit) action()       {}
func (Rerun) action()            {}
