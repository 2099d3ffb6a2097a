package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hemantsony09/habit-tracker-api/internal/store"
	"github.com/hemantsony09/habit-tracker-api/internal/validation"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	// Remove file paths (common patterns)
	// This is a basic sanitization - more complex patterns could be added
	sanitized := message
	
	// Remove common internal details that shouldn't be exposed
	// In a production system, you might want more sophisticated sanitization
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	
	return sanitized
}

// respondStoreError maps a gateway error onto an HTTP status: validation
// failures are the caller's fault, missing identity is unauthorized, and
// storage failures surface as a generic 500 with the detail kept out of
// the response.
func respondStoreError(w http.ResponseWriter, err error, message string) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", verr.Error())
	case errors.Is(err, store.ErrNotAuthenticated):
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", message)
	}
}

// validateStruct runs the shared validator over a request struct and
// flattens the first failure into a plain error
func validateStruct(req any) error {
	err := validation.Validate.Struct(req)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fmt.Errorf("validation failed: %s", fieldError.Error())
		}
	}
	return errors.New("validation failed")
}

// monthYearParams reads the month (zero-based) and year query
// parameters, defaulting to the current local month
func monthYearParams(r *http.Request) (int, int, error) {
	now := time.Now()
	month := int(now.Month()) - 1
	year := now.Year()

	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month: %q", m)
		}
		month = parsed
	}
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year: %q", y)
		}
		year = parsed
	}
	return month, year, nil
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Sanitize error message to prevent information disclosure
	sanitizedMessage := sanitizeErrorMessage(message)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizedMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
