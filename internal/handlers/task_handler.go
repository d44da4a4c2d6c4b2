package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"taskapi/internal/middleware"
	"taskapi/internal/repositories"
	"taskapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles HTTP requests for tasks. All routes require the
// auth middleware; the owning user is taken from the request context,
// never from the payload.
type TaskHandler struct {
	service *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// RegisterRoutes registers the task routes with the Fiber app.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Get("/", h.HandleListTasks)
	taskRoutes.Post("/", h.HandleCreateTask)
	taskRoutes.Put("/:id", h.HandleUpdateTask)
	taskRoutes.Delete("/:id", h.HandleDeleteTask)
}

// HandleListTasks returns one page of the caller's tasks.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	page, errPage := strconv.Atoi(c.Query("page", "1"))
	perPage, errPerPage := strconv.Atoi(c.Query("per_page", "10"))
	if errPage != nil || errPerPage != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid pagination parameters: page and per_page must be positive integers",
		})
	}

	tasks, pagination, err := h.service.List(userID, page, perPage)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"tasks":      tasks,
			"pagination": pagination,
		},
	})
}

// CreateTaskRequest represents the request body for task creation.
// Pointers distinguish absent fields from empty strings; description
// may legitimately be empty. A client-supplied status is ignored.
type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// HandleCreateTask creates a task owned by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create task request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	var missing []string
	if req.Title == nil {
		missing = append(missing, "title")
	}
	if req.Description == nil {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}

	task, err := h.service.Create(userID, *req.Title, *req.Description)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Task created successfully",
		"data":    task,
	})
}

// UpdateTaskRequest represents the request body for a partial update.
// Nil fields keep their previous values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// HandleUpdateTask applies a partial update to a task the caller owns.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	taskID, ok := h.parseTaskID(c)
	if !ok {
		return h.respondNotFound(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update task request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	task, err := h.service.Update(userID, taskID, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Task updated successfully",
		"data":    task,
	})
}

// HandleDeleteTask removes a task the caller owns.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	taskID, ok := h.parseTaskID(c)
	if !ok {
		return h.respondNotFound(c)
	}

	if err := h.service.Delete(userID, taskID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Task deleted successfully",
	})
}

// parseTaskID reads the id path parameter. A non-numeric id can never
// name an existing task, so callers treat it as not found.
func (h *TaskHandler) parseTaskID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto the HTTP error taxonomy.
// Unexpected errors are logged in full and surfaced only generically.
func (h *TaskHandler) respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": validationErr.Message,
		})
	case errors.Is(err, repositories.ErrTaskNotFound):
		return h.respondNotFound(c)
	}
	log.Printf("Task operation failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "An unexpected error occurred",
	})
}

func (h *TaskHandler) respondNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Task not found",
	})
}
