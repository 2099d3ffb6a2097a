package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

// HabitRepositoryInterface defines the interface for habit repository operations
// This interface enables better testability by allowing mock implementations
type HabitRepositoryInterface interface {
	Create(ctx context.Context, habit *models.Habit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompletionRepositoryInterface defines the interface for habit completion repository operations
type CompletionRepositoryInterface interface {
	Create(ctx context.Context, completion *models.HabitCompletion) error
	FindByHabitAndDate(ctx context.Context, userID, habitID uuid.UUID, date time.Time) (*models.HabitCompletion, error)
	GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.HabitCompletion, error)
	GetByHabitID(ctx context.Context, userID, habitID uuid.UUID) ([]*models.HabitCompletion, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.HabitCompletion, error)
	UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressRepositoryInterface defines the interface for daily progress repository operations
type ProgressRepositoryInterface interface {
	Create(ctx context.Context, progress *models.DailyProgress) error
	FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyProgress, error)
	GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.DailyProgress, error)
	UpdateRatings(ctx context.Context, id uuid.UUID, mood, motivation *int) error
}

// TaskRepositoryInterface defines the interface for task repository operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HabitStatsRepositoryInterface defines the interface for habit statistics repository operations
type HabitStatsRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error)
	GetByUserIDOrCreate(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error)
	UpdateStatistics(ctx context.Context, stats *models.HabitStatistics) (bool, error)
	MarkTainted(ctx context.Context, userID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, stats *models.HabitStatistics) error
}

// UserActivityRepositoryInterface defines the interface for user activity repository operations
type UserActivityRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserActivity, error)
	GetEligibleUsersForReprocessing(ctx context.Context) ([]uuid.UUID, error)
}

// Ensure concrete types implement the interfaces
var (
	_ HabitRepositoryInterface        = (*HabitRepository)(nil)
	_ CompletionRepositoryInterface   = (*CompletionRepository)(nil)
	_ ProgressRepositoryInterface     = (*ProgressRepository)(nil)
	_ TaskRepositoryInterface         = (*TaskRepository)(nil)
	_ HabitStatsRepositoryInterface   = (*HabitStatsRepository)(nil)
	_ UserActivityRepositoryInterface = (*UserActivityRepository)(nil)
)
