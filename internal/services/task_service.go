package services

import (
	"fmt"
	"log"
	"strings"

	"taskapi/internal/models"
	"taskapi/internal/repositories"

	"github.com/google/uuid"
)

// TaskEventPublisher publishes task lifecycle events to a message
// broker. Implemented by pkg/rabbitmq.Client.
type TaskEventPublisher interface {
	PublishTaskEvent(payload map[string]interface{}) error
}

// TaskUpdate carries the fields of a partial task update. Nil fields
// keep their previous values.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskService handles business logic related to tasks. All operations
// are scoped to the owning user.
type TaskService struct {
	taskRepo repositories.TaskRepository
	events   TaskEventPublisher // may be nil; publishing is best-effort
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repositories.TaskRepository, events TaskEventPublisher) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		events:   events,
	}
}

// List returns one page of the user's tasks, newest first, plus the
// pagination envelope.
func (s *TaskService) List(userID uint, page, perPage int) ([]models.Task, *models.Pagination, error) {
	if page < 1 || perPage < 1 {
		return nil, nil, NewValidationError("Invalid pagination parameters: page and per_page must be positive integers")
	}

	total, err := s.taskRepo.CountByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * perPage
	tasks, err := s.taskRepo.ListByUser(userID, perPage, offset)
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	pagination := &models.Pagination{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	return tasks, pagination, nil
}

// Create validates the payload and persists a new task owned by the
// user. Status is always forced to pending; any client-supplied status
// is ignored by the handler. The title is stored trimmed.
func (s *TaskService) Create(userID uint, title, description string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("Title must be a non-empty string")
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	s.publishEvent("task.created", task)
	return task, nil
}

// Update applies a partial update to a task the user owns. A task
// owned by another user is reported as not found, exactly like a
// missing one.
func (s *TaskService) Update(userID, taskID uint, update TaskUpdate) (*models.Task, error) {
	if update.Status != nil && !models.ValidStatus(*update.Status) {
		return nil, NewValidationError(fmt.Sprintf(
			"Invalid status. Must be one of: %s, %s, %s",
			models.StatusPending, models.StatusInProgress, models.StatusCompleted))
	}
	var title string
	if update.Title != nil {
		title = strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, NewValidationError("Title must be a non-empty string")
		}
	}

	task, err := s.taskRepo.GetByIDForUser(taskID, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}

	s.publishEvent("task.updated", task)
	return task, nil
}

// Delete physically removes a task the user owns. Repeated deletes of
// the same id report not found, not success.
func (s *TaskService) Delete(userID, taskID uint) error {
	if err := s.taskRepo.DeleteByIDForUser(taskID, userID); err != nil {
		return err
	}

	s.publishEvent("task.deleted", &models.Task{ID: taskID, UserID: userID})
	return nil
}

// publishEvent emits a task lifecycle event. Publishing is best-effort:
// a failure is logged and never fails the request.
func (s *TaskService) publishEvent(event string, task *models.Task) {
	if s.events == nil {
		return
	}

	payload := map[string]interface{}{
		"event_id": uuid.New().String(),
		"event":    event,
		"task_id":  task.ID,
		"user_id":  task.UserID,
	}
	if task.Status != "" {
		payload["status"] = task.Status
	}
	if err := s.events.PublishTaskEvent(payload); err != nil {
		log.Printf("Warning: failed to publish %s event for task %d: %v", event, task.ID, err)
	}
}
