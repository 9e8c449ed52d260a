// Package api exposes the read-only timetable HTTP surface. Handlers only
// call the repository's read methods; callers see "not found" or "internal
// error", never internal fetch or persistence detail.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/model"
	"github.com/erebor/erebor-backend/internal/repository"
)

// TimetableHandler serves timetable lookups and listings.
type TimetableHandler struct {
	provider repository.TimetableProvider
	log      zerolog.Logger
}

// NewTimetableHandler creates a handler reading through provider.
func NewTimetableHandler(provider repository.TimetableProvider, log zerolog.Logger) *TimetableHandler {
	return &TimetableHandler{provider: provider, log: log}
}

// ListNamespaces handles GET /timetable
func (h *TimetableHandler) ListNamespaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.provider.Namespaces())
}

// ListTimetables handles GET /timetable/{namespace}
func (h *TimetableHandler) ListTimetables(w http.ResponseWriter, r *http.Request) {
	namespace := mux.Vars(r)["namespace"]

	descriptors, ok := h.provider.AvailableTimetables(namespace)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown namespace")
		return
	}
	writeJSON(w, h.log, http.StatusOK, descriptors)
}

// GetTimetable handles GET /timetable/{namespace}/{id}
func (h *TimetableHandler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := model.TimetableId{Namespace: vars["namespace"], ID: vars["id"]}

	timetable, ok := h.provider.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "timetable not found")
		return
	}
	writeJSON(w, h.log, http.StatusOK, timetable)
}
