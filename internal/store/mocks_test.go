package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
)

var errMockDB = errors.New("mock database failure")

type mockHabitRepo struct {
	mu      sync.Mutex
	habits  map[uuid.UUID]*models.Habit
	listErr bool
	saveErr bool
}

func newMockHabitRepo() *mockHabitRepo {
	return &mockHabitRepo{habits: make(map[uuid.UUID]*models.Habit)}
}

func (m *mockHabitRepo) Create(ctx context.Context, habit *models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr {
		return errMockDB
	}
	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now
	clone := *habit
	m.habits[habit.ID] = &clone
	return nil
}

func (m *mockHabitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, errors.New("habit not found")
	}
	clone := *h
	return &clone, nil
}

func (m *mockHabitRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr {
		return nil, errMockDB
	}
	var out []*models.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockHabitRepo) Update(ctx context.Context, habit *models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr {
		return errMockDB
	}
	if _, ok := m.habits[habit.ID]; !ok {
		return errors.New("habit not found")
	}
	habit.UpdatedAt = time.Now()
	clone := *habit
	m.habits[habit.ID] = &clone
	return nil
}

func (m *mockHabitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return errors.New("habit not found")
	}
	delete(m.habits, id)
	return nil
}

type mockCompletionRepo struct {
	mu          sync.Mutex
	completions map[uuid.UUID]*models.HabitCompletion
	deleteErr   bool
	createErr   bool
}

func newMockCompletionRepo() *mockCompletionRepo {
	return &mockCompletionRepo{completions: make(map[uuid.UUID]*models.HabitCompletion)}
}

func (m *mockCompletionRepo) Create(ctx context.Context, c *models.HabitCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr {
		return errMockDB
	}
	clone := *c
	m.completions[c.ID] = &clone
	return nil
}

func (m *mockCompletionRepo) FindByHabitAndDate(ctx context.Context, userID, habitID uuid.UUID, date time.Time) (*models.HabitCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.completions {
		if c.UserID == userID && c.HabitID == habitID && c.Date.Equal(date) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockCompletionRepo) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.HabitCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range m.completions {
		if c.UserID != userID {
			continue
		}
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockCompletionRepo) GetByHabitID(ctx context.Context, userID, habitID uuid.UUID) ([]*models.HabitCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range m.completions {
		if c.UserID == userID && c.HabitID == habitID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCompletionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.HabitCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range m.completions {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCompletionRepo) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.completions[id]
	if !ok {
		return errors.New("habit completion not found")
	}
	c.Completed = completed
	return nil
}

func (m *mockCompletionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr {
		return errMockDB
	}
	delete(m.completions, id)
	return nil
}

func (m *mockCompletionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.completions)
}

type mockProgressRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*models.DailyProgress
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{entries: make(map[uuid.UUID]*models.DailyProgress)}
}

func (m *mockProgressRepo) Create(ctx context.Context, p *models.DailyProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *p
	m.entries[p.ID] = &clone
	return nil
}

func (m *mockProgressRepo) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.entries {
		if p.UserID == userID && p.Date.Equal(date) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockProgressRepo) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.DailyProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.DailyProgress
	for _, p := range m.entries {
		if p.UserID != userID {
			continue
		}
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockProgressRepo) UpdateRatings(ctx context.Context, id uuid.UUID, mood, motivation *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[id]
	if !ok {
		return errors.New("daily progress not found")
	}
	p.Mood = mood
	p.Motivation = motivation
	return nil
}

func (m *mockProgressRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, errors.New("task not found")
	}
	clone := *t
	return &clone, nil
}

func (m *mockTaskRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return errors.New("task not found")
	}
	task.UpdatedAt = time.Now()
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return errors.New("task not found")
	}
	delete(m.tasks, id)
	return nil
}

type mockNotifier struct {
	mu    sync.Mutex
	calls int
}

func (m *mockNotifier) CompletionsChanged(ctx context.Context, userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type storeFixture struct {
	store       *Store
	habits      *mockHabitRepo
	completions *mockCompletionRepo
	progress    *mockProgressRepo
	tasks       *mockTaskRepo
	notifier    *mockNotifier
}

func newStoreFixture() *storeFixture {
	f := &storeFixture{
		habits:      newMockHabitRepo(),
		completions: newMockCompletionRepo(),
		progress:    newMockProgressRepo(),
		tasks:       newMockTaskRepo(),
		notifier:    &mockNotifier{},
	}
	f.store = New(f.habits, f.completions, f.progress, f.tasks, nil)
	f.store.SetStatsNotifier(f.notifier)
	return f
}
