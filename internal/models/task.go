package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents how urgent a task is
type Priority string

const (
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
	PriorityOptional Priority = "Optional"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Category represents the life area a task belongs to
type Category string

const (
	CategoryWork         Category = "Work"
	CategoryMoney        Category = "Money B"
	CategoryIdeas        Category = "Ideas"
	CategoryChores       Category = "Chores"
	CategorySpirituality Category = "Spirituality"
	CategoryHealth       Category = "Health"
)

// Priorities lists every valid Priority value.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityOptional}
}

// TaskStatuses lists every valid TaskStatus value.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted}
}

// Categories lists every valid Category value.
func Categories() []Category {
	return []Category{CategoryWork, CategoryMoney, CategoryIdeas, CategoryChores, CategorySpirituality, CategoryHealth}
}

// Task represents a to-do item with a due date
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Task      string     `json:"task"`
	DueDate   time.Time  `json:"due_date"`
	Priority  Priority   `json:"priority"`
	Status    TaskStatus `json:"status"`
	Category  Category   `json:"category"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
