package workers

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

const dayFormat = "2006-01-02"

// computeHabitStats aggregates a user's completion history into
// per-habit totals and streaks. Only records marked completed count;
// multiple records on the same day collapse into one. A streak is a run
// of consecutive calendar days; the current streak only counts when the
// run reaches today or yesterday.
func computeHabitStats(completions []*models.HabitCompletion, today time.Time) map[string]models.HabitStats {
	days := make(map[uuid.UUID]map[time.Time]struct{})
	for _, c := range completions {
		if !c.Completed {
			continue
		}
		d := dayOf(c.Date)
		if days[c.HabitID] == nil {
			days[c.HabitID] = make(map[time.Time]struct{})
		}
		days[c.HabitID][d] = struct{}{}
	}

	ref := dayOf(today)
	out := make(map[string]models.HabitStats, len(days))
	for habitID, set := range days {
		sorted := make([]time.Time, 0, len(set))
		for d := range set {
			sorted = append(sorted, d)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

		stats := models.HabitStats{TotalCompleted: len(sorted)}
		run := 0
		var prev time.Time
		for i, d := range sorted {
			if i > 0 && d.Equal(prev.AddDate(0, 0, 1)) {
				run++
			} else {
				run = 1
			}
			if run > stats.LongestStreak {
				stats.LongestStreak = run
			}
			prev = d
		}

		last := sorted[len(sorted)-1]
		lastStr := last.Format(dayFormat)
		stats.LastCompleted = &lastStr
		if last.Equal(ref) || last.Equal(ref.AddDate(0, 0, -1)) {
			stats.CurrentStreak = run
		}

		out[habitID.String()] = stats
	}
	return out
}

// dayOf normalizes a timestamp to its calendar day, dropping location so
// day arithmetic is uniform.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
