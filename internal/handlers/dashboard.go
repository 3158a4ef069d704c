package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/cache"
	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/config"
	"github.com/bobmcallan/vire-dashboard/internal/dashboard"
	"github.com/bobmcallan/vire-dashboard/internal/interfaces"
	"github.com/bobmcallan/vire-dashboard/internal/models"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SessionCookieName holds the id of the browser's dashboard session.
const SessionCookieName = "vire_dashboard"

// inputFieldPrefix marks tool input fields in the edit form, e.g. input.beta.
const inputFieldPrefix = "input."

var errUnknownAction = errors.New("unknown action type")

// DashboardOptions configures what a new session loads.
type DashboardOptions struct {
	Load             dashboard.LoadOptions
	DefaultPortfolio string
}

// DashboardHandler serves the dashboard page and its action endpoints. Each
// browser gets its own dashboard.Store, kept in the session cache.
type DashboardHandler struct {
	logger   *common.Logger
	pages    *PageHandler
	sessions *cache.Cache[*dashboard.Store]
	source   interfaces.MarketSource
	searcher interfaces.StockSearcher
	opts     DashboardOptions
	now      func() time.Time
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(logger *common.Logger, pages *PageHandler, sessions *cache.Cache[*dashboard.Store], source interfaces.MarketSource, searcher interfaces.StockSearcher, opts DashboardOptions) *DashboardHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DashboardHandler{
		logger:   logger,
		pages:    pages,
		sessions: sessions,
		source:   source,
		searcher: searcher,
		opts:     opts,
		now:      time.Now,
	}
}

// SetClock overrides the clock used for re-run time labels.
func (h *DashboardHandler) SetClock(now func() time.Time) {
	h.now = now
}

// session returns the caller's store, creating and loading a new one when the
// cookie is missing or its session has expired.
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) *dashboard.Store {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if store, ok := h.sessions.Get(c.Value); ok {
				return store
			}
		}
	}

	id := uuid.New().String()
	store := dashboard.NewStore()
	if h.opts.DefaultPortfolio != "" {
		store.Dispatch(dashboard.SelectPortfolio{ID: h.opts.DefaultPortfolio})
	}
	dashboard.Initialize(r.Context(), store, h.source, h.opts.Load, h.logger.WithCorrelationId(id))
	h.sessions.Set(id, store)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Debug().Str("session", id).Int("sessions", h.sessions.Len()).Msg("dashboard session created")
	return store
}

// pageData is the template context of dashboard.html.
type pageData struct {
	Page      string
	DevMode   bool
	Version   string
	CSRFToken string
	State     dashboard.State
	Portfolio models.Portfolio
	Tabs      []dashboard.Tab
	AgentTabs []dashboard.AgentTab
	Briefing  models.Briefing
}

// thoughtView is the template context of one thought log entry.
type thoughtView struct {
	Entry     models.ThoughtLogEntry
	Editing   bool
	Session   *dashboard.EditSession
	CSRFToken string
}

func newThoughtView(page pageData, e models.ThoughtLogEntry) thoughtView {
	v := thoughtView{Entry: e, CSRFToken: page.CSRFToken}
	if page.State.IsEditing(e.ID) {
		v.Editing = true
		v.Session = page.State.Editing
	}
	return v
}

// ServePage handles GET /dashboard.
func (h *DashboardHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	s := h.session(w, r).Snapshot()

	h.pages.Render(w, http.StatusOK, "dashboard.html", pageData{
		Page:      "dashboard",
		DevMode:   h.pages.DevMode(),
		Version:   config.GetVersion(),
		CSRFToken: CSRFToken(r),
		State:     s,
		Portfolio: s.SelectedPortfolio(),
		Tabs:      dashboard.Tabs,
		AgentTabs: dashboard.AgentTabs,
		Briefing:  dashboard.SeedBriefing(),
	})
}

// HandleFormAction handles POST /dashboard/action from the page's forms and
// redirects back to the dashboard.
func (h *DashboardHandler) HandleFormAction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req := actionFromForm(r)
	store := h.session(w, r)
	if _, err := h.apply(r.Context(), store, req); err != nil {
		h.logger.Warn().Str("action", req.Type).Str("error", err.Error()).Msg("dashboard action rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	target := "/dashboard"
	if req.Anchor != "" {
		target += "#" + req.Anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleState handles GET /api/dashboard.
func (h *DashboardHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, newSnapshot(h.session(w, r).Snapshot()))
}

// HandleAction handles POST /api/dashboard/actions with a JSON action body and
// returns the resulting state.
func (h *DashboardHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ActionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := h.session(w, r)
	s, err := h.apply(r.Context(), store, req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, newSnapshot(s))
}

// HandleExport handles GET /api/dashboard/thoughts/export?format=prompts|outputs|all.
func (h *DashboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, err := dashboard.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.session(w, r).Snapshot()
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="thought-log-%s.txt"`, format))
	}
	WriteText(w, http.StatusOK, dashboard.ExportThoughts(s.ThoughtLog, format))
}

// ActionRequest is one dashboard action as sent by a form or the JSON API.
type ActionRequest struct {
	Type    string            `json:"type"`
	ID      string            `json:"id,omitempty"`
	Tab     string            `json:"tab,omitempty"`
	Query   string            `json:"query,omitempty"`
	EntryID string            `json:"entryId,omitempty"`
	Prompt  *string           `json:"prompt,omitempty"`
	Inputs  map[string]string `json:"inputs,omitempty"`
	Anchor  string            `json:"-"`
}

func actionFromForm(r *http.Request) ActionRequest {
	req := ActionRequest{
		Type:    r.PostForm.Get("action"),
		ID:      r.PostForm.Get("id"),
		Tab:     r.PostForm.Get("tab"),
		Query:   r.PostForm.Get("query"),
		EntryID: r.PostForm.Get("entry_id"),
		Anchor:  r.PostForm.Get("anchor"),
	}
	if _, ok := r.PostForm["prompt"]; ok {
		prompt := r.PostForm.Get("prompt")
		req.Prompt = &prompt
	}
	for key, values := range r.PostForm {
		if name, ok := strings.CutPrefix(key, inputFieldPrefix); ok && len(values) > 0 {
			if req.Inputs == nil {
				req.Inputs = make(map[string]string)
			}
			req.Inputs[name] = values[0]
		}
	}
	return req
}

// apply translates req into store actions and returns the resulting state.
func (h *DashboardHandler) apply(ctx context.Context, store *dashboard.Store, req ActionRequest) (dashboard.State, error) {
	switch req.Type {
	case "select_portfolio":
		return store.Dispatch(dashboard.SelectPortfolio{ID: req.ID}), nil
	case "set_tab":
		tab := dashboard.Tab(req.Tab)
		if !tab.Valid() {
			return dashboard.State{}, fmt.Errorf("unknown tab %q", req.Tab)
		}
		return store.Dispatch(dashboard.SetTab{Tab: tab}), nil
	case "set_agent_tab":
		tab := dashboard.AgentTab(req.Tab)
		if !tab.Valid() {
			return dashboard.State{}, fmt.Errorf("unknown agent tab %q", req.Tab)
		}
		return store.Dispatch(dashboard.SetAgentTab{Tab: tab}), nil
	case "toggle_agent_mode":
		return store.Dispatch(dashboard.ToggleAgentMode{}), nil
	case "toggle_thinking":
		return store.Dispatch(dashboard.ToggleThinking{}), nil
	case "close_thinking":
		return store.Dispatch(dashboard.CloseThinking{}), nil
	case "search":
		return dashboard.Search(ctx, store, h.searcher, req.Query, h.logger), nil
	case "begin_edit":
		return store.Dispatch(dashboard.BeginEdit{EntryID: req.EntryID}), nil
	case "save_edit":
		return store.Update(func(s dashboard.State) []dashboard.Action {
			entryID, actions := bufferActions(s, req, true)
			return append(actions, dashboard.SaveEdit{EntryID: entryID})
		}), nil
	case "cancel_edit":
		return store.Dispatch(dashboard.CancelEdit{}), nil
	case "rerun":
		at := h.now()
		return store.Update(func(s dashboard.State) []dashboard.Action {
			_, actions := bufferActions(s, req, false)
			return append(actions, dashboard.Rerun{EntryID: req.EntryID, At: at})
		}), nil
	case "dismiss_error":
		return store.Dispatch(dashboard.DismissError{}), nil
	}
	return dashboard.State{}, fmt.Errorf("%w %q", errUnknownAction, req.Type)
}

// bufferActions copies the submitted prompt and tool inputs into the edit
// buffer of the target entry and returns that entry's id. With beginIfIdle the
// entry is put into editing first, so a single request can edit and save.
func bufferActions(s dashboard.State, req ActionRequest, beginIfIdle bool) (string, []dashboard.Action) {
	entryID := req.EntryID
	if entryID == "" && s.Editing != nil {
		entryID = s.Editing.EntryID
	}
	if entryID == "" {
		return "", nil
	}

	var actions []dashboard.Action
	if !s.IsEditing(entryID) {
		if !beginIfIdle {
			return entryID, nil
		}
		actions = append(actions, dashboard.BeginEdit{EntryID: entryID})
	}
	if req.Prompt != nil {
		actions = append(actions, dashboard.SetEditPrompt{EntryID: entryID, Prompt: *req.Prompt})
	}
	for key, value := range req.Inputs {
		actions = append(actions, dashboard.SetEditToolInput{EntryID: entryID, Key: key, Value: value})
	}
	return entryID, actions
}

// snapshot is the JSON form of a session's state.
type snapshot struct {
	AgentMode           bool                     `json:"agentMode"`
	ActiveTab           dashboard.Tab            `json:"activeTab"`
	AgentTab            dashboard.AgentTab       `json:"agentTab"`
	ThinkingOpen        bool                     `json:"thinkingOpen"`
	SelectedPortfolioID string                   `json:"selectedPortfolioId"`
	SelectedPortfolio   models.Portfolio         `json:"selectedPortfolio"`
	Portfolios          []models.Portfolio       `json:"portfolios"`
	Market              models.MarketData        `json:"marketData"`
	SearchQuery         string                   `json:"searchQuery"`
	SearchResults       []models.StockMatch      `json:"searchResults"`
	CompanyOverview     *models.CompanyOverview  `json:"companyOverview"`
	Loading             bool                     `json:"loading"`
	Error               string                   `json:"error,omitempty"`
	ThoughtLog          []models.ThoughtLogEntry `json:"thoughtLog"`
	Editing             *editSnapshot            `json:"editing"`
	ActionLog           []models.ActionLogEntry  `json:"actionLog"`
}

type editSnapshot struct {
	EntryID    string                                 `json:"entryId"`
	Prompt     string                                 `json:"prompt"`
	ToolInputs *orderedmap.OrderedMap[string, string] `json:"toolInputs"`
}

func newSnapshot(s dashboard.State) snapshot {
	out := snapshot{
		AgentMode:           s.AgentMode,
		ActiveTab:           s.ActiveTab,
		AgentTab:            s.AgentTab,
		ThinkingOpen:        s.ThinkingOpen,
		SelectedPortfolioID: s.SelectedPortfolioID,
		SelectedPortfolio:   s.SelectedPortfolio(),
		Portfolios:          s.Portfolios,
		Market:              s.Market,
		SearchQuery:         s.SearchQuery,
		SearchResults:       s.SearchResults,
		CompanyOverview:     s.CompanyOverview,
		Loading:             s.Loading,
		Error:               s.Error,
		ThoughtLog:          s.ThoughtLog,
		ActionLog:           s.ActionLog,
	}
	if s.Editing != nil {
		out.Editing = &editSnapshot{
			EntryID:    s.Editing.EntryID,
			Prompt:     s.Editing.Prompt,
			ToolInputs: s.Editing.ToolInputs,
		}
	}
	return out
}
