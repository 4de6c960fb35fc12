package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/router"
	"github.com/tanvirio/openblog/backend/pkg/config"
	"github.com/tanvirio/openblog/backend/validators"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
