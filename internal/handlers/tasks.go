package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hemantsony09/habit-tracker-api/internal/middleware"
	"github.com/hemantsony09/habit-tracker-api/internal/store"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	store *store.Store
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(s *store.Store) *TaskHandler {
	return &TaskHandler{store: s}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.SaveTask).Methods("POST")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
}

// SaveTaskRequest creates a task, or updates one when an id is present.
// The enum tags reuse the validators registered on the shared instance.
type SaveTaskRequest struct {
	ID        string `json:"id"`
	Task      string `json:"task" validate:"required"`
	DueDate   string `json:"due_date" validate:"required"`
	Priority  string `json:"priority" validate:"required,priority"`
	Status    string `json:"status" validate:"required,task_status"`
	Category  string `json:"category" validate:"required,category"`
	Completed bool   `json:"completed"`
}

// ListTasks lists all tasks for the authenticated user
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// SaveTask creates a task, or updates one when the body carries an id
func (h *TaskHandler) SaveTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SaveTaskRequest
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

	saved, err := h.store.SaveTask(r.Context(), user.ID, store.TaskInput{
		ID:        req.ID,
		Task:      req.Task,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Status:    req.Status,
		Category:  req.Category,
		Completed: req.Completed,
	})
	if err != nil {
		respondStoreError(w, err, "Failed to save task")
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, saved)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	if err := h.store.DeleteTask(r.Context(), user.ID, vars["id"]); err != nil {
		respondStoreError(w, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
