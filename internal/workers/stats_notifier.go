package workers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/database"
	"github.com/hemantsony09/habit-tracker-api/internal/queue"
)

// DefaultStatsDebounce is how long a stats job waits before running, so
// a burst of completion toggles collapses into one recompute.
const DefaultStatsDebounce = 5 * time.Second

// StatsChangeNotifier reacts to completion writes: it marks the user's
// statistics row tainted and enqueues a delayed recompute job. The job
// is enqueued even when MarkTainted fails; the recompute self-heals the
// tainted state either way.
type StatsChangeNotifier struct {
	statsRepo database.HabitStatsRepositoryInterface
	jobQueue  queue.JobQueue
	debounce  time.Duration
	logger    *zap.Logger
}

// NewStatsChangeNotifier creates a notifier enqueuing on the given queue.
func NewStatsChangeNotifier(
	statsRepo database.HabitStatsRepositoryInterface,
	jobQueue queue.JobQueue,
	debounce time.Duration,
	logger *zap.Logger,
) *StatsChangeNotifier {
	if debounce <= 0 {
		debounce = DefaultStatsDebounce
	}
	return &StatsChangeNotifier{
		statsRepo: statsRepo,
		jobQueue:  jobQueue,
		debounce:  debounce,
		logger:    logger,
	}
}

// CompletionsChanged marks the user's statistics stale and schedules a
// recompute job after the debounce window.
func (n *StatsChangeNotifier) CompletionsChanged(ctx context.Context, userID uuid.UUID) {
	n.logger.Debug("completions_changed",
		zap.String("user_id", userID.String()),
	)

	if _, err := n.statsRepo.MarkTainted(ctx, userID); err != nil {
		n.logger.Warn("failed_to_mark_habit_statistics_tainted",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		// Keep going: the enqueued job fixes the tainted state on its own.
	}

	if n.jobQueue == nil {
		n.logger.Warn("job_queue_not_available",
			zap.String("user_id", userID.String()),
		)
		return
	}

	job := queue.NewJob(queue.JobTypeHabitStats, userID)
	notBefore := time.Now().Add(n.debounce)
	job.NotBefore = &notBefore

	if err := n.jobQueue.Enqueue(ctx, job); err != nil {
		n.logger.Error("failed_to_enqueue_habit_stats_job",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	n.logger.Info("enqueued_habit_stats_job",
		zap.String("user_id", userID.String()),
		zap.Duration("debounce_delay", n.debounce),
	)
}
