package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PageHandler renders HTML pages from Go templates and serves static assets.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	pagesDir  string
	devMode   bool
}

// NewPageHandler loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool) (*PageHandler, error) {
	return NewPageHandlerFromDir(logger, FindPagesDir(), devMode)
}

// NewPageHandlerFromDir loads *.html and partials/*.html from dir.
func NewPageHandlerFromDir(logger *common.Logger, dir string, devMode bool) (*PageHandler, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	templates, err := template.New("pages").Funcs(templateFuncs()).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pages in %s: %w", dir, err)
	}
	partials := filepath.Join(dir, "partials", "*.html")
	if matches, _ := filepath.Glob(partials); len(matches) > 0 {
		if _, err := templates.ParseGlob(partials); err != nil {
			return nil, fmt.Errorf("failed to parse partials in %s: %w", dir, err)
		}
	}

	return &PageHandler{
		logger:    logger,
		templates: templates,
		pagesDir:  dir,
		devMode:   devMode,
	}, nil
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// DevMode reports whether pages render development hints.
func (h *PageHandler) DevMode() bool {
	return h.devMode
}

// Render executes the named template into a buffer first, so a failing
// template never leaves a half-written page.
func (h *PageHandler) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error().Str("template", name).Str("error", err.Error()).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// StaticFileHandler serves files under pages/static.
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(h.pagesDir, "static")

	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(staticDir, filepath.FromSlash(path))

	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absFullPath, absStaticDir+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}

// inputField is one key/value of a tool input map, in order.
type inputField struct {
	Key   string
	Value string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":        common.FormatMoney,
		"signedMoney":  common.FormatSignedMoney,
		"pct":          common.FormatPct,
		"signedPct":    common.FormatSignedPct,
		"compactMoney": common.FormatCompactMoney,
		"number":       func(v float64) string { return common.FormatNumber(v, 2) },
		"trend": func(v float64) string {
			if v < 0 {
				return "negative"
			}
			return "positive"
		},
		"toolInputs": func(m *orderedmap.OrderedMap[string, any]) []inputField {
			var out []inputField
			if m == nil {
				return out
			}
			for pair := m.Oldest(); pair != nil; pair = pair.Next() {
				out = append(out, inputField{Key: pair.Key, Value: models.StringValue(pair.Value)})
			}
			return out
		},
		"editInputs": func(m *orderedmap.OrderedMap[string, string]) []inputField {
			var out []inputField
			if m == nil {
				return out
			}
			for pair := m.Oldest(); pair != nil; pair = pair.Next() {
				out = append(out, inputField{Key: pair.Key, Value: pair.Value})
			}
			return out
		},
		"thoughtView": newThoughtView,
		"json": func(v json.Marshaler) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "{}"
			}
			return string(b)
		},
	}
}
