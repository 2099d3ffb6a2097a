package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hemantsony09/habit-tracker-api/internal/middleware"
	"github.com/hemantsony09/habit-tracker-api/internal/models"
	"github.com/hemantsony09/habit-tracker-api/internal/store"
)

type fakeHabitRepo struct {
	mu     sync.Mutex
	habits map[uuid.UUID]*models.Habit
}

func (f *fakeHabitRepo) Create(ctx context.Context, h *models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now
	clone := *h
	f.habits[h.ID] = &clone
	return nil
}

func (f *fakeHabitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.habits[id]
	if !ok {
		return nil, errors.New("habit not found")
	}
	clone := *h
	return &clone, nil
}

func (f *fakeHabitRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) Update(ctx context.Context, h *models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.habits[h.ID]; !ok {
		return errors.New("habit not found")
	}
	clone := *h
	f.habits[h.ID] = &clone
	return nil
}

func (f *fakeHabitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.habits, id)
	return nil
}

type fakeCompletionRepo struct {
	mu          sync.Mutex
	completions map[uuid.UUID]*models.HabitCompletion
}

func (f *fakeCompletionRepo) Create(ctx context.Context, c *models.HabitCompletion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *c
	f.completions[c.ID] = &clone
	return nil
}

func (f *fakeCompletionRepo) FindByHabitAndDate(ctx context.Context, userID, habitID uuid.UUID, date time.Time) (*models.HabitCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.completions {
		if c.UserID == userID && c.HabitID == habitID && c.Date.Equal(date) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeCompletionRepo) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.HabitCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range f.completions {
		if c.UserID != userID || c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeCompletionRepo) GetByHabitID(ctx context.Context, userID, habitID uuid.UUID) ([]*models.HabitCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range f.completions {
		if c.UserID == userID && c.HabitID == habitID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCompletionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.HabitCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HabitCompletion
	for _, c := range f.completions {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCompletionRepo) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.completions[id]
	if !ok {
		return errors.New("habit completion not found")
	}
	c.Completed = completed
	return nil
}

func (f *fakeCompletionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.completions, id)
	return nil
}

type fakeProgressRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*models.DailyProgress
}

func (f *fakeProgressRepo) Create(ctx context.Context, p *models.DailyProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *p
	f.entries[p.ID] = &clone
	return nil
}

func (f *fakeProgressRepo) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.entries {
		if p.UserID == userID && p.Date.Equal(date) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeProgressRepo) GetByUserIDAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.DailyProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.DailyProgress
	for _, p := range f.entries {
		if p.UserID != userID || p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeProgressRepo) UpdateRatings(ctx context.Context, id uuid.UUID, mood, motivation *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.entries[id]
	if !ok {
		return errors.New("daily progress not found")
	}
	p.Mood = mood
	p.Motivation = motivation
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *t
	f.tasks[t.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, errors.New("task not found")
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTaskRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.ID]; !ok {
		return errors.New("task not found")
	}
	clone := *t
	f.tasks[t.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, id)
	return nil
}

type fakeStatsRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.HabitStatistics
}

func (f *fakeStatsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		return nil, errors.New("statistics not found")
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeStatsRepo) GetByUserIDOrCreate(ctx context.Context, userID uuid.UUID) (*models.HabitStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[userID]; ok {
		clone := *rec
		return &clone, nil
	}
	rec := &models.HabitStatistics{
		UserID:  userID,
		Stats:   make(map[string]models.HabitStats),
		Tainted: true,
	}
	f.records[userID] = rec
	clone := *rec
	return &clone, nil
}

func (f *fakeStatsRepo) UpdateStatistics(ctx context.Context, stats *models.HabitStatistics) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *stats
	clone.Tainted = false
	clone.RefreshVersion++
	f.records[stats.UserID] = &clone
	return true, nil
}

func (f *fakeStatsRepo) MarkTainted(ctx context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok || rec.Tainted {
		return false, nil
	}
	rec.Tainted = true
	return true, nil
}

func (f *fakeStatsRepo) Upsert(ctx context.Context, stats *models.HabitStatistics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *stats
	f.records[stats.UserID] = &clone
	return nil
}

// handlerFixture wires the handlers onto a router the way the server
// does, with a middleware that injects f.user instead of verifying a
// token.
type handlerFixture struct {
	router *mux.Router
	user   *models.User
	stats  *fakeStatsRepo
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		user: &models.User{
			ID:    uuid.New(),
			Email: "test@example.com",
		},
		stats: &fakeStatsRepo{records: make(map[uuid.UUID]*models.HabitStatistics)},
	}

	st := store.New(
		&fakeHabitRepo{habits: make(map[uuid.UUID]*models.Habit)},
		&fakeCompletionRepo{completions: make(map[uuid.UUID]*models.HabitCompletion)},
		&fakeProgressRepo{entries: make(map[uuid.UUID]*models.DailyProgress)},
		&fakeTaskRepo{tasks: make(map[uuid.UUID]*models.Task)},
		nil,
	)

	f.router = mux.NewRouter()
	api := f.router.PathPrefix("/api/v1").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if f.user != nil {
				r = r.WithContext(middleware.SetUserInContext(r.Context(), f.user))
			}
			next.ServeHTTP(w, r)
		})
	})

	NewHabitHandler(st, f.stats).RegisterRoutes(api.PathPrefix("/habits").Subrouter())
	NewProgressHandler(st).RegisterRoutes(api.PathPrefix("/progress").Subrouter())
	NewTaskHandler(st).RegisterRoutes(api.PathPrefix("/tasks").Subrouter())

	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w.Result()
}

// decodeData unwraps the response envelope into dst
func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("Expected success to be true")
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
}

func TestHabitEndpointsRoundTrip(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "POST", "/api/v1/habits", map[string]any{
		"name":       "Morning run",
		"icon":       "runner",
		"start_time": "06:30",
		"duration":   "1",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var created store.HabitRecord
	decodeData(t, resp, &created)
	if created.ID == "" {
		t.Fatal("Expected created habit to have an id")
	}
	if created.Name != "Morning run" {
		t.Errorf("Expected name 'Morning run', got '%s'", created.Name)
	}

	listResp := f.do(t, "GET", "/api/v1/habits", nil)
	defer listResp.Body.Close()

	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", listResp.StatusCode)
	}

	var habits []store.HabitRecord
	decodeData(t, listResp, &habits)
	if len(habits) != 1 {
		t.Fatalf("Expected 1 habit, got %d", len(habits))
	}
	if habits[0].ID != created.ID {
		t.Errorf("Expected listed habit id %s, got %s", created.ID, habits[0].ID)
	}
}

func TestSaveHabitRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "POST", "/api/v1/habits", map[string]any{
		"name": "",
		"icon": "runner",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestHabitEndpointsRequireUser(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()
	f.user = nil

	resp := f.do(t, "GET", "/api/v1/habits", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestSetCompletionEndpoint(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	createResp := f.do(t, "POST", "/api/v1/habits", map[string]any{
		"name": "Meditate",
		"icon": "lotus",
	})
	defer createResp.Body.Close()
	var habit store.HabitRecord
	decodeData(t, createResp, &habit)

	resp := f.do(t, "POST", "/api/v1/habits/"+habit.ID+"/completions", map[string]any{
		"date":      "2024-03-15",
		"completed": true,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var completion store.CompletionRecord
	decodeData(t, resp, &completion)
	if completion.Date != "2024-03-15" {
		t.Errorf("Expected date '2024-03-15', got '%s'", completion.Date)
	}
	if !completion.Completed {
		t.Error("Expected completion to be marked completed")
	}

	// month is zero-based: 2 = March
	listResp := f.do(t, "GET", "/api/v1/habits/completions?month=2&year=2024", nil)
	defer listResp.Body.Close()

	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", listResp.StatusCode)
	}

	var completions []store.CompletionRecord
	decodeData(t, listResp, &completions)
	if len(completions) != 1 {
		t.Fatalf("Expected 1 completion, got %d", len(completions))
	}
}

func TestSetCompletionRequiresDate(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "POST", "/api/v1/habits/"+uuid.NewString()+"/completions", map[string]any{
		"completed": true,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestListCompletionsRejectsBadMonth(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "GET", "/api/v1/habits/completions?month=12&year=2024", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestDeleteHabitEndpoint(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	createResp := f.do(t, "POST", "/api/v1/habits", map[string]any{
		"name": "Read",
		"icon": "book",
	})
	defer createResp.Body.Close()
	var habit store.HabitRecord
	decodeData(t, createResp, &habit)

	resp := f.do(t, "DELETE", "/api/v1/habits/"+habit.ID, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	listResp := f.do(t, "GET", "/api/v1/habits", nil)
	defer listResp.Body.Close()

	var habits []store.HabitRecord
	decodeData(t, listResp, &habits)
	if len(habits) != 0 {
		t.Errorf("Expected no habits after delete, got %d", len(habits))
	}
}

func TestGetStatsCreatesTaintedRecord(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "GET", "/api/v1/habits/stats", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var stats models.HabitStatistics
	decodeData(t, resp, &stats)
	if !stats.Tainted {
		t.Error("Expected a fresh statistics record to be tainted")
	}
	if stats.UserID != f.user.ID {
		t.Errorf("Expected stats for user %s, got %s", f.user.ID, stats.UserID)
	}
}

func TestProgressEndpoints(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()
	mood := 7

	resp := f.do(t, "PUT", "/api/v1/progress", map[string]any{
		"date": "2024-03-15",
		"mood": mood,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var rec store.ProgressRecord
	decodeData(t, resp, &rec)
	if rec.Mood == nil || *rec.Mood != mood {
		t.Errorf("Expected mood %d, got %v", mood, rec.Mood)
	}
	if rec.Motivation != nil {
		t.Errorf("Expected motivation to stay unset, got %v", rec.Motivation)
	}

	listResp := f.do(t, "GET", "/api/v1/progress?month=2&year=2024", nil)
	defer listResp.Body.Close()

	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", listResp.StatusCode)
	}

	var entries []store.ProgressRecord
	decodeData(t, listResp, &entries)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 progress entry, got %d", len(entries))
	}
}

func TestSetProgressRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "PUT", "/api/v1/progress", map[string]any{
		"date": "2024-03-15",
		"mood": 11,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "POST", "/api/v1/tasks", map[string]any{
		"task":     "File taxes",
		"due_date": "2024-04-15",
		"priority": "High",
		"status":   "Not Started",
		"category": "Money B",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var task store.TaskRecord
	decodeData(t, resp, &task)
	if task.ID == "" {
		t.Fatal("Expected created task to have an id")
	}

	deleteResp := f.do(t, "DELETE", "/api/v1/tasks/"+task.ID, nil)
	defer deleteResp.Body.Close()

	if deleteResp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", deleteResp.StatusCode)
	}
}

func TestSaveTaskRejectsUnknownPriority(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	resp := f.do(t, "POST", "/api/v1/tasks", map[string]any{
		"task":     "File taxes",
		"due_date": "2024-04-15",
		"priority": "Urgent",
		"status":   "Not Started",
		"category": "Money B",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestSaveHabitRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture()

	req := httptest.NewRequest("POST", "/api/v1/habits", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
