package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/rxmate-checkout/internal/services"
)

type DirectoryHandler struct {
	service *services.DirectoryService
}

func NewDirectoryHandler(service *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func (h *DirectoryHandler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	universities, err := h.service.ListUniversities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, universities)
}

func (h *DirectoryHandler) GetUniversity(w http.ResponseWriter, r *http.Request) {
	university, err := h.service.FindUniversity(r.Context(), mux.Vars(r)["universityID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, university)
}

func (h *DirectoryHandler) UniversityCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.service.CohortsForUniversity(r.Context(), mux.Vars(r)["universityID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cohorts)
}

func (h *DirectoryHandler) ListCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.service.ListCohorts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cohorts)
}

func (h *DirectoryHandler) GetCohort(w http.ResponseWriter, r *http.Request) {
	cohort, err := h.service.FindCohort(r.Context(), mux.Vars(r)["cohortID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cohort)
}

// Catalog returns universities and cohorts in one response for the checkout page.
func (h *DirectoryHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.LoadCatalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}
