package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemantsony09/habit-tracker-api/internal/models"
	"github.com/hemantsony09/habit-tracker-api/internal/validation"
)

// TaskInput carries raw task fields before validation. An empty ID means
// insert; a present ID means update in place.
type TaskInput struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	DueDate   string `json:"due_date"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
}

// TaskRecord is the persisted form returned to callers, with the due
// date rendered as an RFC 3339 string.
type TaskRecord struct {
	ID        string            `json:"id"`
	Task      string            `json:"task"`
	DueDate   string            `json:"due_date"`
	Priority  models.Priority   `json:"priority"`
	Status    models.TaskStatus `json:"status"`
	Category  models.Category   `json:"category"`
	Completed bool              `json:"completed"`
	CreatedAt time.Time         `json:"created_at"`
}

func taskRecord(t *models.Task) TaskRecord {
	return TaskRecord{
		ID:        t.ID.String(),
		Task:      t.Task,
		DueDate:   t.DueDate.Format(time.RFC3339),
		Priority:  t.Priority,
		Status:    t.Status,
		Category:  t.Category,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

// ListTasks returns every task in the user's partition. A read failure
// degrades to an empty list.
func (s *Store) ListTasks(ctx context.Context, userID uuid.UUID) ([]TaskRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("task_list_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return []TaskRecord{}, nil
	}

	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, taskRecord(t))
	}
	return records, nil
}

// SaveTask validates text, due date and every enum field, then inserts
// (no ID) or updates (ID present).
func (s *Store) SaveTask(ctx context.Context, userID uuid.UUID, in TaskInput) (*TaskRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	text, err := validation.ValidateTaskText(in.Task)
	if err != nil {
		return nil, err
	}
	dueDate, err := validation.ValidateDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	priority, err := validation.ValidatePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	status, err := validation.ValidateStatus(in.Status)
	if err != nil {
		return nil, err
	}
	category, err := validation.ValidateCategory(in.Category)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:    userID,
		Task:      text,
		DueDate:   dueDate,
		Priority:  priority,
		Status:    status,
		Category:  category,
		Completed: in.Completed,
	}

	if in.ID == "" {
		task.ID = uuid.New()
		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, storageErr("save task", err)
		}
	} else {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, &validation.ValidationError{Field: "id", Message: "invalid task id"}
		}
		existing, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return nil, storageErr("save task", err)
		}
		if existing.UserID != userID {
			return nil, storageErr("save task", errors.New("task not found"))
		}
		task.ID = id
		task.CreatedAt = existing.CreatedAt
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, storageErr("save task", err)
		}
	}

	rec := taskRecord(task)
	return &rec, nil
}

// DeleteTask removes a single task.
func (s *Store) DeleteTask(ctx context.Context, userID uuid.UUID, taskID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	id, err := uuid.Parse(taskID)
	if err != nil {
		return &validation.ValidationError{Field: "task_id", Message: "invalid task id"}
	}

	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return storageErr("delete task", err)
	}
	if existing.UserID != userID {
		return storageErr("delete task", errors.New("task not found"))
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return storageErr("delete task", err)
	}
	return nil
}
