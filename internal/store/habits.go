package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
	"github.com/hemantsony09/habit-tracker-api/internal/validation"
)

// HabitInput carries raw habit fields before validation. An empty ID
// means insert; a present ID means update in place.
type HabitInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  string `json:"duration"`
}

// HabitRecord is the persisted form returned to callers.
type HabitRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func habitRecord(h *models.Habit) HabitRecord {
	return HabitRecord{
		ID:        h.ID.String(),
		Name:      h.Name,
		Icon:      h.Icon,
		StartTime: h.StartTime,
		EndTime:   h.EndTime,
		Duration:  h.Duration,
		CreatedAt: h.CreatedAt,
	}
}

// ListHabits returns every habit in the user's partition. A read failure
// degrades to an empty list.
func (s *Store) ListHabits(ctx context.Context, userID uuid.UUID) ([]HabitRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	habits, err := s.habits.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("habit_list_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return []HabitRecord{}, nil
	}

	records := make([]HabitRecord, 0, len(habits))
	for _, h := range habits {
		records = append(records, habitRecord(h))
	}
	return records, nil
}

// SaveHabit validates every field, then inserts (no ID) or updates
// (ID present). The persisted record, including the assigned ID and
// creation timestamp, is returned.
func (s *Store) SaveHabit(ctx context.Context, userID uuid.UUID, in HabitInput) (*HabitRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	name, err := validation.ValidateHabitName(in.Name)
	if err != nil {
		return nil, err
	}
	icon, err := validation.ValidateIcon(in.Icon)
	if err != nil {
		return nil, err
	}
	startTime, err := validation.ValidateTime(in.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := validation.ValidateTime(in.EndTime)
	if err != nil {
		return nil, err
	}
	duration, err := validation.ValidateDuration(in.Duration)
	if err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
	}

	if in.ID == "" {
		habit.ID = uuid.New()
		if err := s.habits.Create(ctx, habit); err != nil {
			return nil, storageErr("save habit", err)
		}
	} else {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, &validation.ValidationError{Field: "id", Message: "invalid habit id"}
		}
		existing, err := s.habits.GetByID(ctx, id)
		if err != nil {
			return nil, storageErr("save habit", err)
		}
		if existing.UserID != userID {
			return nil, storageErr("save habit", errors.New("habit not found"))
		}
		habit.ID = id
		habit.CreatedAt = existing.CreatedAt
		if err := s.habits.Update(ctx, habit); err != nil {
			return nil, storageErr("save habit", err)
		}
	}

	rec := habitRecord(habit)
	return &rec, nil
}

// DeleteHabit removes the habit, then fans out deletes for every
// completion that references it. The fan-out runs in parallel and is not
// transactional: a failed delete fails the operation but deletes that
// already ran are not rolled back.
func (s *Store) DeleteHabit(ctx context.Context, userID uuid.UUID, habitID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	id, err := uuid.Parse(habitID)
	if err != nil {
		return &validation.ValidationError{Field: "habit_id", Message: "invalid habit id"}
	}

	existing, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return storageErr("delete habit", err)
	}
	if existing.UserID != userID {
		return storageErr("delete habit", errors.New("habit not found"))
	}

	if err := s.habits.Delete(ctx, id); err != nil {
		return storageErr("delete habit", err)
	}

	completions, err := s.completions.GetByHabitID(ctx, userID, id)
	if err != nil {
		return storageErr("delete habit completions", err)
	}

	errCh := make(chan error, len(completions))
	var wg sync.WaitGroup
	for _, c := range completions {
		wg.Add(1)
		go func(completionID uuid.UUID) {
			defer wg.Done()
			if err := s.completions.Delete(ctx, completionID); err != nil {
				errCh <- err
			}
		}(c.ID)
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return storageErr("delete habit completions", errors.Join(errs...))
	}

	s.notifyCompletionsChanged(ctx, userID)
	return nil
}
