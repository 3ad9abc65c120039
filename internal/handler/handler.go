// Package handler contains the chi HTTP handlers of the dashboard: the
// server-rendered pages (tables, form modal, delete confirmation) and a
// small JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

// DashboardHandler holds all HTTP handlers for the dashboard.
type DashboardHandler struct {
	svc    *service.Dashboard
	tpl    *template.Template
	logger *zap.Logger
}

// NewDashboardHandler constructs a DashboardHandler and parses its templates.
func NewDashboardHandler(svc *service.Dashboard, logger *zap.Logger) (*DashboardHandler, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, tpl: tpl, logger: logger}, nil
}

// Routes mounts every dashboard route on r.
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/tabs/{tab}", h.SelectTab)

	r.Post("/records", h.Save)
	r.Post("/records/new", h.Add)
	r.Post("/records/{id}/edit", h.Edit)
	r.Get("/records/{id}/delete", h.ConfirmDelete)
	r.Post("/records/{id}/delete", h.Delete)
	r.Post("/modal/close", h.CloseModal)
	r.Post("/alert/dismiss", h.DismissAlert)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.Stats)
		r.Get("/journal", h.Journal)
	})
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// internalError logs the real error and returns a generic message.
func (h *DashboardHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal error", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func backToDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// mutationError maps controller errors to responses. Remote failures are
// already recorded as an alert in the state, so they go back to the page.
func (h *DashboardHandler) mutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrBusy), errors.Is(err, service.ErrModalClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrRecordNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownEntity), errors.Is(err, service.ErrFormMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		backToDashboard(w, r)
	}
}

// ─── Pages ────────────────────────────────────────────────────────────────────

// Index handles GET /
// Optional ?tab= and ?q= select the tab and search term before rendering.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if tab := query.Get("tab"); tab != "" {
		if err := h.svc.SelectTab(model.EntityType(tab)); err != nil {
			h.mutationError(w, r, err)
			return
		}
	}
	if query.Has("q") {
		h.svc.Search(query.Get("q"))
	}

	s := h.svc.State()
	if s.Loading {
		h.render(w, http.StatusOK, "loading.html", nil)
		return
	}
	h.render(w, http.StatusOK, "dashboard.html", buildPage(r, s))
}

// SelectTab handles GET /tabs/{tab}
func (h *DashboardHandler) SelectTab(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SelectTab(model.EntityType(chi.URLParam(r, "tab"))); err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// Add handles POST /records/new
// Opens the modal with an empty form for the active tab.
func (h *DashboardHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Add(); err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// Edit handles POST /records/{id}/edit
// Opens the modal seeded from the record in the active tab.
func (h *DashboardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Edit(chi.URLParam(r, "id")); err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// CloseModal handles POST /modal/close
func (h *DashboardHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseModal(); err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// DismissAlert handles POST /alert/dismiss
func (h *DashboardHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	h.svc.DismissAlert()
	backToDashboard(w, r)
}

// Save handles POST /records
// Parses the modal's fields for the posted entity and creates or updates.
func (h *DashboardHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form error: "+err.Error(), http.StatusBadRequest)
		return
	}
	entity, ok := model.ParseEntityType(r.PostForm.Get("entity"))
	if !ok {
		http.Error(w, "unknown entity", http.StatusBadRequest)
		return
	}
	form, err := parseForm(entity, r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Save(r.Context(), form); err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// ConfirmDelete handles GET /records/{id}/delete
// Asks for confirmation before a record of the active tab is deleted.
func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := h.svc.State()
	item, ok := s.Find(s.ActiveTab, id)
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	h.render(w, http.StatusOK, "confirm.html", confirmView{
		Prompt:    service.DeletePrompt,
		Entity:    s.ActiveTab.Label(),
		RecordID:  item.RecordID(),
		Label:     displayLabel(s, item),
		CSRFField: csrf.TemplateField(r),
	})
}

// Delete handles POST /records/{id}/delete
// Deletes only when the form carries confirm=yes.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form error: "+err.Error(), http.StatusBadRequest)
		return
	}
	confirmed := r.PostForm.Get("confirm") == "yes"

	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), func(string) bool { return confirmed })
	if err != nil {
		h.mutationError(w, r, err)
		return
	}
	backToDashboard(w, r)
}

// displayLabel names a record on the confirmation page.
func displayLabel(s service.State, item model.Item) string {
	switch rec := item.(type) {
	case model.Instructor:
		return rec.Fields.Name
	case model.Participant:
		return rec.Fields.Name
	case model.Room:
		return rec.Fields.Name
	case model.Course:
		return rec.Fields.Title
	case model.Enrollment:
		return s.ParticipantName(rec.Fields.Participant) + " / " + s.CourseTitle(rec.Fields.Course)
	}
	return item.RecordID()
}

// ─── JSON API ─────────────────────────────────────────────────────────────────

// Stats handles GET /api/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.svc.State()
	if s.Loading {
		writeError(w, http.StatusServiceUnavailable, "data not loaded")
		return
	}
	writeJSON(w, http.StatusOK, s.Stats())
}

// Journal handles GET /api/journal
// Returns the most recent audit entries; ?limit= caps the count.
func (h *DashboardHandler) Journal(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrNoJournal) {
			writeError(w, http.StatusNotFound, "journal not configured")
			return
		}
		h.logger.Error("list journal", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list journal")
		return
	}

	if entries == nil {
		entries = []model.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
