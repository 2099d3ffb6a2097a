package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/database"
	logpkg "github.com/hemantsony09/habit-tracker-api/internal/logger"
	"github.com/hemantsony09/habit-tracker-api/internal/queue"
)

// JobProcessor handles one job type.
type JobProcessor func(ctx context.Context, job *queue.Job) error

// StatsAnalyzer processes habit statistics jobs: it replays a user's
// completion history into per-habit totals and streaks and writes the
// result back under an optimistic version check.
type StatsAnalyzer struct {
	completionRepo database.CompletionRepositoryInterface
	statsRepo      database.HabitStatsRepositoryInterface
	activityRepo   database.UserActivityRepositoryInterface
	logger         *zap.Logger
	registry       map[queue.JobType]JobProcessor
}

// NewStatsAnalyzer creates a new stats analyzer and registers the
// habit_stats and reprocess_user processors.
func NewStatsAnalyzer(
	completionRepo database.CompletionRepositoryInterface,
	statsRepo database.HabitStatsRepositoryInterface,
	activityRepo database.UserActivityRepositoryInterface,
	logger *zap.Logger,
) *StatsAnalyzer {
	a := &StatsAnalyzer{
		completionRepo: completionRepo,
		statsRepo:      statsRepo,
		activityRepo:   activityRepo,
		logger:         logger,
		registry:       make(map[queue.JobType]JobProcessor),
	}
	a.RegisterProcessor(queue.JobTypeHabitStats, a.ProcessHabitStatsJob)
	a.RegisterProcessor(queue.JobTypeReprocessUser, a.ProcessReprocessUserJob)
	return a
}

// RegisterProcessor registers a processor for a job type.
func (a *StatsAnalyzer) RegisterProcessor(typ queue.JobType, proc JobProcessor) {
	a.registry[typ] = proc
}

// ProcessHabitStatsJob recomputes statistics for one user
func (a *StatsAnalyzer) ProcessHabitStatsJob(ctx context.Context, job *queue.Job) error {
	if job.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required for habit stats job")
	}
	a.logger.Info("processing_habit_stats_job",
		zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
	)

	stats, err := a.statsRepo.GetByUserIDOrCreate(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to get or create habit statistics: %w", err)
	}
	a.logger.Debug("habit_statistics_status",
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		zap.Bool("tainted", stats.Tainted),
		zap.Int("existing_habits", len(stats.Stats)),
	)

	completions, err := a.completionRepo.GetByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	stats.Stats = computeHabitStats(completions, time.Now())
	now := time.Now()
	stats.LastRefreshedAt = &now

	updated, err := a.statsRepo.UpdateStatistics(ctx, stats)
	if err != nil {
		return fmt.Errorf("failed to update habit statistics: %w", err)
	}
	if !updated {
		// Another refresh won the version race; its result is at least
		// as fresh as ours.
		a.logger.Debug("habit_statistics_version_conflict",
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		)
		return nil
	}

	a.logger.Info("successfully_refreshed_habit_statistics",
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		zap.Int("habits", len(stats.Stats)),
		zap.Int("completions", len(completions)),
	)
	return nil
}

// ProcessReprocessUserJob refreshes statistics for a user on a schedule.
// Users who paused reprocessing are skipped.
func (a *StatsAnalyzer) ProcessReprocessUserJob(ctx context.Context, job *queue.Job) error {
	activity, err := a.activityRepo.GetByUserID(ctx, job.UserID)
	if err == nil && activity != nil && activity.ReprocessingPaused {
		a.logger.Info("skipping_reprocessing_paused_user",
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		)
		return nil
	}
	return a.ProcessHabitStatsJob(ctx, job)
}

// ProcessJob dispatches a message to the processor registered for its
// job type, handling acknowledgement and retry accounting.
func (a *StatsAnalyzer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		fields := []zap.Field{zap.String("job_id", logpkg.SanitizeUserID(job.ID.String()))}
		if job.NotBefore != nil {
			fields = append(fields, zap.Time("not_before", *job.NotBefore))
		}
		a.logger.Debug("habit_stats_job_not_ready", fields...)
		if ackErr := msg.Ack(); ackErr != nil {
			a.logger.Warn("failed_to_ack_job_for_later_processing",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return nil
	}

	proc, ok := a.registry[job.Type]
	if !ok {
		if nackErr := msg.Nack(false); nackErr != nil {
			a.logger.Error("failed_to_nack_unknown_job_type",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("job_type", string(job.Type)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err := proc(ctx, job); err != nil {
		a.logger.Error("habit_stats_job_failed",
			zap.String("operation", "process_job"),
			zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		if job.CanRetry() {
			job.IncrementRetry()
			if nackErr := msg.Nack(true); nackErr != nil {
				a.logger.Warn("failed_to_nack_habit_stats_job",
					zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
					zap.String("error", logpkg.SanitizeError(nackErr)),
				)
			}
			return fmt.Errorf("habit stats job failed (will retry): %w", err)
		}
		if nackErr := msg.Nack(false); nackErr != nil {
			a.logger.Warn("failed_to_nack_habit_stats_job_to_dlq",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("habit stats job failed (max retries): %w", err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack habit stats job: %w", ackErr)
	}
	return nil
}
