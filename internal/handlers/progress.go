package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hemantsony09/habit-tracker-api/internal/middleware"
	"github.com/hemantsony09/habit-tracker-api/internal/store"
)

// ProgressHandler handles daily mood/motivation progress requests
type ProgressHandler struct {
	store *store.Store
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(s *store.Store) *ProgressHandler {
	return &ProgressHandler{store: s}
}

// RegisterRoutes registers progress routes on the given router
// The router should already have the /progress prefix
func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListProgress).Methods("GET")
	r.HandleFunc("", h.SetProgress).Methods("PUT")
}

// SetProgressRequest upserts the ratings for one calendar day. Both
// ratings are optional; an omitted rating stays unset.
type SetProgressRequest struct {
	Date       string `json:"date" validate:"required"`
	Mood       *int   `json:"mood"`
	Motivation *int   `json:"motivation"`
}

// ListProgress lists the user's progress entries for one month.
// The month query parameter is zero-based (0 = January).
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	month, year, err := monthYearParams(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	entries, err := h.store.ListDailyProgress(r.Context(), user.ID, month, year)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve progress")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// SetProgress upserts the mood/motivation entry for a day
func (h *ProgressHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SetProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	rec, err := h.store.SetDailyProgress(r.Context(), user.ID, req.Date, req.Mood, req.Motivation)
	if err != nil {
		respondStoreError(w, err, "Failed to save progress")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
