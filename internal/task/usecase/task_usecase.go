package usecase

import (
	"errors"
	"log"
	"time"

	"uniwork-backend/internal/task/domain"
	"uniwork-backend/internal/task/repository"
	"uniwork-backend/pkg/ai"

	"github.com/google/uuid"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	return &taskUsecase{
		taskRepo: taskRepo,
	}
}

func (u *taskUsecase) CreateTask(userID string, input CreateTaskInput) (*domain.Task, error) {
	if input.ProvisionalKey != "" {
		existing, err := u.taskRepo.FindByProvisionalKey(userID, input.ProvisionalKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	task := &domain.Task{
		ID:             uuid.New().String(),
		UserID:         userID,
		ProvisionalKey: input.ProvisionalKey,
		Title:          input.Title,
		Description:    input.Description,
		Tags:           input.Tags,
		Priority:       parsePriority(input.Priority),
		Status:         domain.TaskStatusPending,
	}

	if input.DueDate != nil && *input.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, *input.DueDate); err == nil {
			task.DueDate = &t
		}
	}

	if input.ReminderAt != nil && *input.ReminderAt != "" {
		if t, err := time.Parse(time.RFC3339, *input.ReminderAt); err == nil {
			task.ReminderAt = &t
		}
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) CreateFromSuggestions(userID, chatMessageID string, suggestions []ai.TaskSuggestion, tags []string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, suggestion := range suggestions {
		task := &domain.Task{
			ID:            uuid.New().String(),
			UserID:        userID,
			ChatMessageID: chatMessageID,
			Title:         suggestion.Title,
			Description:   suggestion.Description,
			Tags:          tags,
			Priority:      parsePriority(suggestion.Priority),
			Status:        domain.TaskStatusPending,
		}

		if suggestion.DueDate != nil && *suggestion.DueDate != "" {
			if t, err := time.Parse(time.RFC3339, *suggestion.DueDate); err == nil {
				task.DueDate = &t
			}
		}

		// Default reminder an hour ahead of the deadline.
		if task.DueDate != nil {
			reminderTime := task.DueDate.Add(-1 * time.Hour)
			if reminderTime.After(time.Now()) {
				task.ReminderAt = &reminderTime
			}
		}

		if err := u.taskRepo.Create(task); err != nil {
			log.Printf("[TaskUsecase] failed to create task from suggestion: %v", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (u *taskUsecase) GetTaskByID(userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return task, nil
}

func (u *taskUsecase) GetUserTasks(userID string, status *string, updatedAfter *time.Time, limit, offset int) ([]*domain.Task, int64, error) {
	filter := repository.TaskFilter{
		UpdatedAfter: updatedAfter,
		Limit:        limit,
		Offset:       offset,
	}
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		filter.Status = &s
	}
	return u.taskRepo.FindByUserID(userID, filter)
}

func (u *taskUsecase) UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Tags != nil {
		task.Tags = *updates.Tags
	}
	if updates.Priority != nil {
		task.Priority = parsePriority(*updates.Priority)
	}
	if updates.Status != nil {
		task.Status = domain.TaskStatus(*updates.Status)
	}
	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else if t, err := time.Parse(time.RFC3339, *updates.DueDate); err == nil {
			task.DueDate = &t
		}
	}
	if updates.ReminderAt != nil {
		if *updates.ReminderAt == "" {
			task.ReminderAt = nil
			task.ReminderSent = false
		} else if t, err := time.Parse(time.RFC3339, *updates.ReminderAt); err == nil {
			task.ReminderAt = &t
			task.ReminderSent = false // rearmed for the new time
		}
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return err
	}
	return u.taskRepo.Delete(task.ID)
}

func parsePriority(p string) domain.Priority {
	switch p {
	case "high":
		return domain.PriorityHigh
	case "low":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}
