package repositories

import "taskapi/internal/models"

// TaskRepository defines the interface for task data access. Every
// read and mutation is scoped to the owning user; a task that exists
// but belongs to someone else is reported as ErrTaskNotFound.
type TaskRepository interface {
	Create(task *models.Task) error
	ListByUser(userID uint, limit, offset int) ([]models.Task, error)
	CountByUser(userID uint) (int64, error)
	GetByIDForUser(id, userID uint) (*models.Task, error)
	Update(task *models.Task) error
	DeleteByIDForUser(id, userID uint) error
}
