package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"keeper/internal/auth"
	"keeper/internal/config"
	"keeper/internal/db"
	"keeper/internal/model"
	"keeper/internal/repository"
	"keeper/internal/service"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@keeper.local"
	demoPassword = "password123"
)

var demoNotes = []struct {
	title   string
	content string
}{
	{"Welcome", "This is your Keeper notebook. Notes you create here are visible only to you."},
	{"Shopping list", "Milk, eggs, coffee"},
	{"", "Untitled notes are fine too; only content is required."},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Note{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService)
	noteService := service.NewNoteService(noteRepo, nil)

	ctx := context.Background()

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	switch {
	case err == nil:
		log.Printf("Demo user %s already exists, skipping notes", demoEmail)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through and create
	default:
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	_, user, err = authService.Register(ctx, demoUsername, demoEmail, demoPassword)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %s (%s)", user.Username, user.Email)

	created := 0
	for _, n := range demoNotes {
		if _, err := noteService.Create(ctx, user.ID, n.title, n.content); err != nil {
			log.Fatalf("Failed to create demo note: %v", err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Demo notes created: %d", created)
	log.Printf("  - Login with %s / %s", demoEmail, demoPassword)
}
