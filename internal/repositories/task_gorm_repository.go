package repositories

import (
	"errors"
	"fmt"

	"taskapi/internal/models"

	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create inserts a new task for its owning user.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListByUser returns one page of the user's tasks, newest first.
func (r *GORMTaskRepository) ListByUser(userID uint, limit, offset int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// CountByUser returns the total number of tasks owned by the user.
func (r *GORMTaskRepository) CountByUser(userID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks for user %d: %w", userID, err)
	}
	return total, nil
}

// GetByIDForUser retrieves a task only if it belongs to the user.
// An existing task owned by another user is indistinguishable from a
// missing one.
func (r *GORMTaskRepository) GetByIDForUser(id, userID uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task %d for user %d: %w", id, userID, err)
	}
	return &task, nil
}

// Update persists all fields of an existing task.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Save(task)
	if res.Error != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for an update that
		// matched no rows, so check RowsAffected.
		return ErrTaskNotFound
	}
	return nil
}

// DeleteByIDForUser physically removes the task if the user owns it.
func (r *GORMTaskRepository) DeleteByIDForUser(id, userID uint) error {
	res := r.db.Delete(&models.Task{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task %d for user %d: %w", id, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
