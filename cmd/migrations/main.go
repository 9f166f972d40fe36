package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elearning/internal/config"
	"github.com/vncsmyrnk/elearning/internal/logger"
)

// Runs one embedded migration by name suffix, e.g. "create_users.up".
// Only the POSTGRES_* variables are read; token secrets are not needed here.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name is required.")
	}
	migrationName := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logg := logger.New(os.Getenv("LOG_LEVEL"), false)
	defer logg.Sync()

	pg := config.PostgresConfig{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DB:       os.Getenv("POSTGRES_DB"),
	}
	if pg.Port == "" {
		pg.Port = "5432"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, pg.ConnString())
	if err != nil {
		logg.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	file, err := postgres.RunMigration(ctx, db, migrationName)
	if err != nil {
		logg.Fatal("migration failed", zap.String("name", migrationName), zap.Error(err))
	}

	logg.Info("migration file executed successfully", zap.String("file", file))
}
