package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

var (
	// Validate is a shared validator instance for request structs
	Validate *validator.Validate

	timeRegex   = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators for the closed enums so request structs
	// can use them as struct tags
	if err := Validate.RegisterValidation("priority", validatePriorityField); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_status", validateStatusField); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("category", validateCategoryField); err != nil {
		panic(fmt.Sprintf("failed to register category validator: %v", err))
	}
	if err := Validate.RegisterValidation("time_hhmm", validateTimeField); err != nil {
		panic(fmt.Sprintf("failed to register time_hhmm validator: %v", err))
	}
}

func validatePriorityField(fl validator.FieldLevel) bool {
	_, err := ValidatePriority(fl.Field().String())
	return err == nil
}

func validateStatusField(fl validator.FieldLevel) bool {
	_, err := ValidateStatus(fl.Field().String())
	return err == nil
}

func validateCategoryField(fl validator.FieldLevel) bool {
	_, err := ValidateCategory(fl.Field().String())
	return err == nil
}

func validateTimeField(fl validator.FieldLevel) bool {
	_, err := ValidateTime(fl.Field().String())
	return err == nil
}

// SanitizeString strips null bytes and control characters, trims
// surrounding whitespace and truncates to maxLen runes. It never fails:
// invalid input comes back as an empty string. Applying it twice gives
// the same result as applying it once.
func SanitizeString(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())

	if maxLen > 0 {
		runes := []rune(out)
		if len(runes) > maxLen {
			// Truncation can expose trailing whitespace; trim again so the
			// result is stable under re-sanitization.
			out = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return out
}

// ValidateHabitName sanitizes a habit name and requires 1-100 characters
// after sanitization.
func ValidateHabitName(name string) (string, error) {
	sanitized := SanitizeString(name, 100)
	if sanitized == "" {
		return "", newError("name", "habit name cannot be empty")
	}
	return sanitized, nil
}

// ValidateIcon sanitizes an icon (emoji or short glyph, up to 10 characters).
func ValidateIcon(icon string) (string, error) {
	sanitized := SanitizeString(icon, 10)
	if sanitized == "" {
		return "", newError("icon", "icon cannot be empty")
	}
	return sanitized, nil
}

// ValidateTime checks a 24-hour HH:mm string. Empty input passes through
// unchanged since start/end times are optional.
func ValidateTime(t string) (string, error) {
	if t == "" {
		return "", nil
	}
	if !timeRegex.MatchString(t) {
		return "", newError("time", "invalid time format, use HH:mm (24-hour)")
	}
	return t, nil
}

// ValidateDuration checks a duration in hours, 0-24. Empty input passes
// through unchanged. The value round-trips through float parsing so
// "24.0" normalizes to "24".
func ValidateDuration(d string) (string, error) {
	if d == "" {
		return "", nil
	}
	num, err := strconv.ParseFloat(d, 64)
	if err != nil || num < 0 || num > 24 {
		return "", newError("duration", "duration must be a number between 0 and 24 hours")
	}
	return strconv.FormatFloat(num, 'f', -1, 64), nil
}

// ValidateMentalState checks a mood or motivation rating. Absent input
// returns nil without error since both ratings are optional; present
// input must be 1-10.
func ValidateMentalState(value *int, label string) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value < 1 || *value > 10 {
		return nil, newError(strings.ToLower(label), "%s must be a number between 1 and 10", label)
	}
	v := *value
	return &v, nil
}

// ValidateDate parses a date given as RFC 3339 or plain yyyy-MM-dd.
func ValidateDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, newError("date", "date is required")
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t, nil
	}
	return time.Time{}, newError("date", "invalid date: %q", date)
}

// ValidateTaskText sanitizes task text and requires 1-500 characters
// after sanitization.
func ValidateTaskText(text string) (string, error) {
	sanitized := SanitizeString(text, 500)
	if sanitized == "" {
		return "", newError("task", "task text cannot be empty")
	}
	return sanitized, nil
}

// ValidatePriority checks membership in the closed Priority enum.
func ValidatePriority(p string) (models.Priority, error) {
	for _, valid := range models.Priorities() {
		if models.Priority(p) == valid {
			return valid, nil
		}
	}
	return "", newError("priority", "priority must be one of: %s", joinValues(models.Priorities()))
}

// ValidateStatus checks membership in the closed TaskStatus enum.
func ValidateStatus(s string) (models.TaskStatus, error) {
	for _, valid := range models.TaskStatuses() {
		if models.TaskStatus(s) == valid {
			return valid, nil
		}
	}
	return "", newError("status", "status must be one of: %s", joinValues(models.TaskStatuses()))
}

// ValidateCategory checks membership in the closed Category enum.
func ValidateCategory(c string) (models.Category, error) {
	for _, valid := range models.Categories() {
		if models.Category(c) == valid {
			return valid, nil
		}
	}
	return "", newError("category", "category must be one of: %s", joinValues(models.Categories()))
}

// ValidateUserID checks an identity-provider subject before it is used to
// scope queries. Provider subjects are 20-128 characters from a restricted
// alphabet; anything else is rejected so a malformed id can never shape a
// query.
func ValidateUserID(userID string) (string, error) {
	if len(userID) < 20 || len(userID) > 128 {
		return "", newError("user_id", "invalid user ID format")
	}
	if !userIDRegex.MatchString(userID) {
		return "", newError("user_id", "user ID contains invalid characters")
	}
	return userID, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
