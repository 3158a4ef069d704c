package dashboard

import (
	"encoding/json"

	"github.com/bobmcallan/vire-dashboard/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TimeLabelLayout formats thought log time labels, e.g. "09:52 AM".
const TimeLabelLayout = "03:04 PM"

// Reduce applies a to s and returns the resulting state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectPortfolio:
		s.SelectedPortfolioID = a.ID
	case SetTab:
		if a.Tab.Valid() {
			s.ActiveTab = a.Tab
		}
	case SetAgentTab:
		if a.Tab.Valid() {
			s.AgentTab = a.Tab
		}
	case ToggleAgentMode:
		s.AgentMode = !s.AgentMode
	case ToggleThinking:
		s.ThinkingOpen = !s.ThinkingOpen
	case CloseThinking:
		s.ThinkingOpen = false
	case SetSearchQuery:
		s.SearchQuery = a.Query
	case SearchSucceeded:
		s.SearchResults = a.Results
		if s.SearchResults == nil {
			s.SearchResults = []models.StockMatch{}
		}
	case SearchFailed:
		s.Error = SearchErrorMessage
		s.SearchResults = []models.StockMatch{}
	case LoadStarted:
		s.Loading = true
	case FetchSucceeded:
		s.CompanyOverview = a.Overview
		s.Market = a.Market
		s.Portfolios = a.Portfolios
		s.Loading = false
	case FetchFailed:
		s.Error = LoadErrorMessage
		s.Loading = false
	case DismissError:
		s.Error = ""
	case BeginEdit:
		return beginEdit(s, a.EntryID)
	case SetEditPrompt:
		if s.editTarget(a.EntryID) {
			ed := *s.Editing
			ed.Prompt = a.Prompt
			s.Editing = &ed
		}
	case SetEditToolInput:
		if !s.editTarget(a.EntryID) {
			return s
		}
		return setEditToolInput(s, a.Key, a.Value)
	case SaveEdit:
		if !s.editTarget(a.EntryID) {
			return s
		}
		return saveEdit(s)
	case CancelEdit:
		s.Editing = nil
	case Rerun:
		return rerun(s, a)
	}
	return s
}

// editTarget reports whether an edit-buffer action aimed at entryID applies.
func (s State) editTarget(entryID string) bool {
	return s.Editing != nil && (entryID == "" || s.Editing.EntryID == entryID)
}

// Apply reduces every action in order.
func Apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func beginEdit(s State, entryID string) State {
	entry, ok := s.Thought(entryID)
	if !ok {
		return s
	}

	buffer := orderedmap.New[string, string]()
	if entry.Kind == models.ThoughtTool && entry.Tool != nil && entry.Tool.Inputs != nil {
		for pair := entry.Tool.Inputs.Oldest(); pair != nil; pair = pair.Next() {
			buffer.Set(pair.Key, models.StringValue(pair.Value))
		}
	}

	s.Editing = &EditSession{
		EntryID:    entry.ID,
		Prompt:     entry.Prompt,
		ToolInputs: buffer,
	}
	return s
}

func setEditToolInput(s State, key, value string) State {
	if s.Editing == nil || s.Editing.ToolInputs == nil {
		return s
	}
	if _, present := s.Editing.ToolInputs.Get(key); !present {
		return s
	}

	buffer := copyStrings(s.Editing.ToolInputs)
	buffer.Set(key, value)

	ed := *s.Editing
	ed.ToolInputs = buffer
	s.Editing = &ed
	return s
}

func saveEdit(s State) State {
	if s.Editing == nil {
		return s
	}
	ed := s.Editing
	s.Editing = nil

	i := s.thoughtIndex(ed.EntryID)
	if i < 0 {
		return s
	}

	log := make([]models.ThoughtLogEntry, len(s.ThoughtLog))
	copy(log, s.ThoughtLog)

	entry := log[i]
	entry.Prompt = ed.Prompt
	if entry.Kind == models.ThoughtTool {
		tool := models.ToolCall{}
		if entry.Tool != nil {
			tool = *entry.Tool
		}
		inputs := orderedmap.New[string, any]()
		if ed.ToolInputs != nil {
			for pair := ed.ToolInputs.Oldest(); pair != nil; pair = pair.Next() {
				inputs.Set(pair.Key, pair.Value)
			}
		}
		tool.Inputs = inputs
		entry.Tool = &tool
	}
	log[i] = entry

	s.ThoughtLog = log
	return s
}

func rerun(s State, a Rerun) State {
	i := s.thoughtIndex(a.EntryID)
	if i < 0 {
		return s
	}

	log := make([]models.ThoughtLogEntry, len(s.ThoughtLog))
	copy(log, s.ThoughtLog)

	entry := log[i]
	label := a.At.Format(TimeLabelLayout)
	entry.Time = label
	entry.Output = RerunOutput(entry, s.Editing, label)
	log[i] = entry

	s.ThoughtLog = log
	return s
}

// RerunOutput is the templated output written by a re-run at the given time
// label. Tool entries embed their inputs: the edit buffer when that entry is
// being edited, otherwise the stored inputs.
func RerunOutput(entry models.ThoughtLogEntry, editing *EditSession, label string) string {
	prefix := "[Re-run " + label + "] "
	if entry.Kind != models.ThoughtTool {
		return prefix + "Updated analysis based on new prompt"
	}

	var inputs []byte
	if editing != nil && editing.EntryID == entry.ID && editing.ToolInputs != nil {
		inputs = marshalInputs(editing.ToolInputs)
	} else if entry.Tool != nil && entry.Tool.Inputs != nil {
		inputs = marshalInputs(entry.Tool.Inputs)
	} else {
		inputs = []byte("{}")
	}
	return prefix + "Toolkit executed with inputs " + string(inputs)
}

func marshalInputs(v json.Marshaler) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func copyStrings(m *orderedmap.OrderedMap[string, string]) *orderedmap.OrderedMap[string, string] {
	out := orderedmap.New[string, string]()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}
