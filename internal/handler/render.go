package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// mdRenderer escapes raw HTML in course descriptions (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func parseTemplates() (*template.Template, error) {
	tpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tpl, nil
}

type tabView struct {
	ID     model.EntityType
	Label  string
	Count  int
	Active bool
}

type pageView struct {
	Tabs      []tabView
	Title     string
	Search    string
	Stats     model.Stats
	Table     tableView
	Modal     *formView
	Alert     string
	Saving    bool
	CSRFField template.HTML
}

type confirmView struct {
	Prompt    string
	Entity    string
	RecordID  string
	Label     string
	CSRFField template.HTML
}

func buildPage(r *http.Request, s service.State) pageView {
	stats := s.Stats()
	tabs := make([]tabView, 0, len(model.Entities))
	for _, e := range model.Entities {
		tabs = append(tabs, tabView{ID: e, Label: e.Label(), Count: stats.Count(e), Active: e == s.ActiveTab})
	}
	return pageView{
		Tabs:      tabs,
		Title:     s.ActiveTab.Label(),
		Search:    s.Search,
		Stats:     stats,
		Table:     renderTable(s, renderMarkdown),
		Modal:     buildForm(s),
		Alert:     s.Alert,
		Saving:    s.Saving,
		CSRFField: csrf.TemplateField(r),
	}
}

// render executes the named template into a buffer so that a failing
// template never produces a half-written page.
func (h *DashboardHandler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
