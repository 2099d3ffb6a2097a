package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hemantsony09/habit-tracker-api/internal/database"
	"github.com/hemantsony09/habit-tracker-api/internal/middleware"
	"github.com/hemantsony09/habit-tracker-api/internal/store"
)

// HabitHandler handles habit-related requests, including per-day
// completions and the precomputed statistics view.
type HabitHandler struct {
	store     *store.Store
	statsRepo database.HabitStatsRepositoryInterface
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(s *store.Store, statsRepo database.HabitStatsRepositoryInterface) *HabitHandler {
	return &HabitHandler{store: s, statsRepo: statsRepo}
}

// RegisterRoutes registers habit routes on the given router
// The router should already have the /habits prefix (e.g., from apiRouter.PathPrefix("/habits"))
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.SaveHabit).Methods("POST")
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
	r.HandleFunc("/completions", h.ListCompletions).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
	r.HandleFunc("/{id}/completions", h.SetCompletion).Methods("POST")
}

// SetCompletionRequest marks a habit done or not done on one day
type SetCompletionRequest struct {
	Date      string `json:"date" validate:"required"`
	Completed bool   `json:"completed"`
}

// ListHabits lists all habits for the authenticated user
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habits, err := h.store.ListHabits(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve habits")
		return
	}

	respondJSON(w, http.StatusOK, habits)
}

// SaveHabit creates a habit, or updates one when the body carries an id
func (h *HabitHandler) SaveHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req store.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	saved, err := h.store.SaveHabit(r.Context(), user.ID, req)
	if err != nil {
		respondStoreError(w, err, "Failed to save habit")
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, saved)
}

// DeleteHabit deletes a habit and all completions that reference it
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	if err := h.store.DeleteHabit(r.Context(), user.ID, vars["id"]); err != nil {
		respondStoreError(w, err, "Failed to delete habit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCompletions lists the user's habit completions for one month.
// The month query parameter is zero-based (0 = January), matching the
// web client.
func (h *HabitHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
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

	completions, err := h.store.ListHabitCompletions(r.Context(), user.ID, month, year)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve completions")
		return
	}

	respondJSON(w, http.StatusOK, completions)
}

// SetCompletion records whether the habit was done on the given day
func (h *HabitHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SetCompletionRequest
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

	vars := mux.Vars(r)
	rec, err := h.store.SetHabitCompletion(r.Context(), user.ID, vars["id"], req.Date, req.Completed)
	if err != nil {
		respondStoreError(w, err, "Failed to save completion")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// GetStats returns the precomputed per-habit statistics. The record is
// created tainted on first request; the worker fills it in.
func (h *HabitHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	stats, err := h.statsRepo.GetByUserIDOrCreate(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve statistics")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
