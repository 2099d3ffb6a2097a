package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
	"github.com/hemantsony09/habit-tracker-api/internal/validation"
)

// ProgressRecord is a daily mood/motivation entry with its date
// normalized to a plain yyyy-MM-dd string. Ratings are independently
// optional; a nil rating was never set.
type ProgressRecord struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Mood       *int   `json:"mood"`
	Motivation *int   `json:"motivation"`
}

// Dates are stored pinned to UTC midnight but rendered on the local
// calendar. In zones behind UTC the rendered day trails the stored one;
// the behavior is long-standing and callers rely on it.
func progressRecord(p *models.DailyProgress) ProgressRecord {
	return ProgressRecord{
		ID:         p.ID.String(),
		Date:       p.Date.Local().Format(dayFormat),
		Mood:       p.Mood,
		Motivation: p.Motivation,
	}
}

// ListDailyProgress returns the user's progress entries for one calendar
// month. Month is zero-based (January == 0). The range uses UTC month
// boundaries, matching how the dates are stored.
func (s *Store) ListDailyProgress(ctx context.Context, userID uuid.UUID, month, year int) ([]ProgressRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	entries, err := s.progress.GetByUserIDAndRange(ctx, userID, start, end)
	if err != nil {
		s.logger.Warn("progress_list_failed",
			zap.String("user_id", userID.String()),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err))
		return []ProgressRecord{}, nil
	}

	records := make([]ProgressRecord, 0, len(entries))
	for _, p := range entries {
		records = append(records, progressRecord(p))
	}
	return records, nil
}

// SetDailyProgress upserts the mood/motivation entry for a calendar day.
// The date's year/month/day components are pinned at UTC midnight so the
// stored day does not shift with the server timezone. Upsert is
// query-then-write keyed on exact timestamp match.
func (s *Store) SetDailyProgress(ctx context.Context, userID uuid.UUID, date string, mood, motivation *int) (*ProgressRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	t, err := validation.ValidateDate(date)
	if err != nil {
		return nil, err
	}
	m, err := validation.ValidateMentalState(mood, "Mood")
	if err != nil {
		return nil, err
	}
	mo, err := validation.ValidateMentalState(motivation, "Motivation")
	if err != nil {
		return nil, err
	}

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.progress.FindByDate(ctx, userID, day)
	if err != nil {
		return nil, storageErr("set daily progress", err)
	}

	var rec ProgressRecord
	if existing != nil {
		if err := s.progress.UpdateRatings(ctx, existing.ID, m, mo); err != nil {
			return nil, storageErr("set daily progress", err)
		}
		existing.Mood = m
		existing.Motivation = mo
		rec = progressRecord(existing)
	} else {
		progress := &models.DailyProgress{
			ID:         uuid.New(),
			UserID:     userID,
			Date:       day,
			Mood:       m,
			Motivation: mo,
		}
		if err := s.progress.Create(ctx, progress); err != nil {
			return nil, storageErr("set daily progress", err)
		}
		rec = progressRecord(progress)
	}

	return &rec, nil
}
