package repositories

import (
	"sort"
	"sync"
	"time"

	"taskapi/internal/models"
)

// MockTaskRepository is an in-memory implementation of TaskRepository.
type MockTaskRepository struct {
	tasks  map[uint]models.Task
	nextID uint
	mu     sync.RWMutex
}

// NewMockTaskRepository creates a new instance of MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks:  make(map[uint]models.Task),
		nextID: 1,
	}
}

// Create adds a new task, assigning the surrogate id and timestamps.
func (r *MockTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == 0 {
		task.ID = r.nextID
		r.nextID++
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return nil
}

// ListByUser returns one page of the user's tasks, newest first.
func (r *MockTaskRepository) ListByUser(userID uint, limit, offset int) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []models.Task{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

// CountByUser returns the total number of tasks owned by the user.
func (r *MockTaskRepository) CountByUser(userID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, t := range r.tasks {
		if t.UserID == userID {
			total++
		}
	}
	return total, nil
}

// GetByIDForUser returns a task only if the user owns it.
func (r *MockTaskRepository) GetByIDForUser(id, userID uint) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

// Update modifies an existing task and refreshes its updated_at.
func (r *MockTaskRepository) Update(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

// DeleteByIDForUser removes the task if the user owns it.
func (r *MockTaskRepository) DeleteByIDForUser(id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}
