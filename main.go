package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskapi/internal/handlers"
	"taskapi/internal/middleware"
	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
	"taskapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	dbURL := viper.GetString("DB_URL")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Without a broker URL the API runs with event publishing disabled.
	var taskEvents services.TaskEventPublisher
	if rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		taskEvents = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, task event publishing disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	taskRepo := repositories.NewGORMTaskRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	taskService := services.NewTaskService(taskRepo, taskEvents)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")

	// Public routes. Registered before the protected group so the auth
	// middleware never sees them.
	authHandler.RegisterRoutes(api)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "success",
			"message":   "Task management API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Protected routes
	protected := api.Group("", middleware.AuthRequired(authService))
	taskHandler.RegisterRoutes(protected)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
