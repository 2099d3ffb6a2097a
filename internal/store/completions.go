package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
	"github.com/hemantsony09/habit-tracker-api/internal/validation"
)

// CompletionRecord is a habit completion with its date normalized to a
// plain yyyy-MM-dd string.
type CompletionRecord struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func completionRecord(c *models.HabitCompletion) CompletionRecord {
	return CompletionRecord{
		ID:        c.ID.String(),
		HabitID:   c.HabitID.String(),
		Date:      c.Date.Format(dayFormat),
		Completed: c.Completed,
	}
}

func validateMonth(month int) error {
	if month < 0 || month > 11 {
		return &validation.ValidationError{Field: "month", Message: "month must be between 0 and 11"}
	}
	return nil
}

// ListHabitCompletions returns the user's completions for one calendar
// month. Month is zero-based (January == 0), the contract the web client
// has always used. The range runs from the first of the month at 00:00
// through the last day at 23:59:59, local time.
func (s *Store) ListHabitCompletions(ctx context.Context, userID uuid.UUID, month, year int) ([]CompletionRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	completions, err := s.completions.GetByUserIDAndRange(ctx, userID, start, end)
	if err != nil {
		s.logger.Warn("completion_list_failed",
			zap.String("user_id", userID.String()),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err))
		return []CompletionRecord{}, nil
	}

	records := make([]CompletionRecord, 0, len(completions))
	for _, c := range completions {
		records = append(records, completionRecord(c))
	}
	return records, nil
}

// SetHabitCompletion records whether a habit was done on a day. Time of
// day is zeroed so writes and lookups land on the same key. Coalescing
// is query-then-write, not atomic: two concurrent writers for the same
// (habit, day) can still produce duplicate records.
func (s *Store) SetHabitCompletion(ctx context.Context, userID uuid.UUID, habitID, date string, completed bool) (*CompletionRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	hid, err := uuid.Parse(habitID)
	if err != nil {
		return nil, &validation.ValidationError{Field: "habit_id", Message: "invalid habit id"}
	}
	t, err := validation.ValidateDate(date)
	if err != nil {
		return nil, err
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)

	existing, err := s.completions.FindByHabitAndDate(ctx, userID, hid, day)
	if err != nil {
		return nil, storageErr("set habit completion", err)
	}

	var rec CompletionRecord
	if existing != nil {
		if err := s.completions.UpdateCompleted(ctx, existing.ID, completed); err != nil {
			return nil, storageErr("set habit completion", err)
		}
		existing.Completed = completed
		rec = completionRecord(existing)
	} else {
		completion := &models.HabitCompletion{
			ID:        uuid.New(),
			UserID:    userID,
			HabitID:   hid,
			Date:      day,
			Completed: completed,
		}
		if err := s.completions.Create(ctx, completion); err != nil {
			return nil, storageErr("set habit completion", err)
		}
		rec = completionRecord(completion)
	}

	s.notifyCompletionsChanged(ctx, userID)
	return &rec, nil
}
