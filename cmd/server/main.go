package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/router"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"github.com/ravikumar3183/SimpleChat/pkg/config"
	"github.com/ravikumar3183/SimpleChat/pkg/firebase"
	"github.com/ravikumar3183/SimpleChat/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (identity provider + Firestore document store)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer firebaseApp.Close()

	docStore := store.NewFirestoreStore(firebaseApp.FirestoreClient)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, docStore)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
