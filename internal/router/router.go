package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/ravikumar3183/SimpleChat/internal/handlers"
	"github.com/ravikumar3183/SimpleChat/internal/middleware"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/repositories"
	"github.com/ravikumar3183/SimpleChat/internal/services"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, docStore store.Store) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories and services ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	messageRepo := repositories.NewMongoMessageRepository(mgClient.Database("simplechat"))

	connectionService := services.NewConnectionService(docStore)
	groupService := services.NewGroupService(docStore)
	directoryService := services.NewDirectoryService(docStore)
	chatService := services.NewChatService(messageRepo, docStore)

	// --- Unprotected routes for registration ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, docStore)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require a verified Firebase ID token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, docStore)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	// Directory routes
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	directoryHandler.RegisterDirectoryRoutes(api)
	log.Println("Directory routes configured.")

	// Group routes
	groupHandler := handlers.NewGroupHandler(groupService)
	groupHandler.RegisterGroupRoutes(api)
	log.Println("Group routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	log.Println("All routes configured.")
}
