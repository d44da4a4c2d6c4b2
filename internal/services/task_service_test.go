package services_test

import (
	"testing"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.TaskEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTaskEvent(payload map[string]interface{}) error {
	args := m.Called(payload)
	return args.Error(0)
}

func newTaskService(t *testing.T) *services.TaskService {
	t.Helper()
	return services.NewTaskService(repositories.NewMockTaskRepository(), nil)
}

func TestTaskService_Create(t *testing.T) {
	taskService := newTaskService(t)

	// Status is always pending and the title comes back trimmed
	task, err := taskService.Create(1, "  Buy milk  ", "2 liters")
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, uint(1), task.UserID)
	assert.NotZero(t, task.ID)

	// Empty description is allowed
	task, err = taskService.Create(1, "No notes", "")
	assert.NoError(t, err)
	assert.Equal(t, "", task.Description)

	// Whitespace-only title is rejected
	_, err = taskService.Create(1, "   ", "desc")
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "non-empty")
}

func TestTaskService_CreatePublishesEvent(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	publisher := new(MockEventPublisher)
	taskService := services.NewTaskService(repo, publisher)

	publisher.On("PublishTaskEvent", mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["event"] == "task.created" && payload["user_id"] == uint(3)
	})).Return(nil).Once()

	_, err := taskService.Create(3, "Eventful", "")
	assert.NoError(t, err)
	publisher.AssertExpectations(t)

	// A publish failure never fails the request
	publisher.On("PublishTaskEvent", mock.Anything).Return(assert.AnError).Once()
	task, err := taskService.Create(3, "Broker down", "")
	assert.NoError(t, err)
	assert.NotZero(t, task.ID)
	publisher.AssertExpectations(t)
}

func TestTaskService_ListPagination(t *testing.T) {
	taskService := newTaskService(t)

	// Empty listing: zero pages, no next
	tasks, pagination, err := taskService.List(1, 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, tasks)
	assert.EqualValues(t, 0, pagination.Total)
	assert.Equal(t, 0, pagination.TotalPages)
	assert.False(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)

	for i := 0; i < 7; i++ {
		_, err := taskService.Create(1, "Task", "")
		assert.NoError(t, err)
	}
	// Another user's tasks must never appear in the listing
	_, err = taskService.Create(2, "Other user's task", "")
	assert.NoError(t, err)

	tasks, pagination, err = taskService.List(1, 1, 3)
	assert.NoError(t, err)
	assert.Len(t, tasks, 3)
	assert.EqualValues(t, 7, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)

	// Last page holds the remainder
	tasks, pagination, err = taskService.List(1, 3, 3)
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)

	// Page past the end is empty but not an error
	tasks, _, err = taskService.List(1, 4, 3)
	assert.NoError(t, err)
	assert.Empty(t, tasks)

	// Invalid pagination parameters
	var validationErr *services.ValidationError
	_, _, err = taskService.List(1, 0, 10)
	assert.ErrorAs(t, err, &validationErr)
	_, _, err = taskService.List(1, 1, 0)
	assert.ErrorAs(t, err, &validationErr)
}

func TestTaskService_Update(t *testing.T) {
	taskService := newTaskService(t)

	task, err := taskService.Create(1, "Original", "original description")
	assert.NoError(t, err)

	status := models.StatusCompleted
	updated, err := taskService.Update(1, task.ID, services.TaskUpdate{Status: &status})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	// Unspecified fields keep their previous values
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "original description", updated.Description)

	newTitle := "  Renamed  "
	updated, err = taskService.Update(1, task.ID, services.TaskUpdate{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Invalid status is rejected before any lookup
	badStatus := "done"
	_, err = taskService.Update(1, task.ID, services.TaskUpdate{Status: &badStatus})
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Invalid status")

	// Another user's update attempt reads as not found
	_, err = taskService.Update(2, task.ID, services.TaskUpdate{Title: &newTitle})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	// Nonexistent task
	_, err = taskService.Update(1, 9999, services.TaskUpdate{Title: &newTitle})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	taskService := newTaskService(t)

	task, err := taskService.Create(1, "Disposable", "")
	assert.NoError(t, err)

	// Cross-user delete reads as not found and leaves the task intact
	err = taskService.Delete(2, task.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	_, pagination, err := taskService.List(1, 1, 10)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, pagination.Total)

	err = taskService.Delete(1, task.ID)
	assert.NoError(t, err)

	// Repeated delete is not found, not success
	err = taskService.Delete(1, task.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}
