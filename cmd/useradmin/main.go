package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jorgellalle30-glitch/mi-api/internal/domain"
	"github.com/jorgellalle30-glitch/mi-api/internal/repository/postgres"
	"github.com/jorgellalle30-glitch/mi-api/pkg/config"
	"github.com/jorgellalle30-glitch/mi-api/pkg/crypto"
	"github.com/jorgellalle30-glitch/mi-api/pkg/logger"
)

// useradmin provisions accounts out of band: the API itself has no signup
// surface, so this is the only way a user row comes into existence.
func main() {
	username := flag.String("username", "", "username for the new account")
	password := flag.String("password", "", "plaintext password, stored only as a bcrypt hash")
	flag.Parse()

	log := logger.New("useradmin", slog.LevelInfo)
	if *username == "" || *password == "" {
		log.Error("both -username and -password are required")
		os.Exit(1)
	}

	cfg := config.LoadAPIConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := crypto.HashPassword(*password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	user := &domain.User{
		Username:     *username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := postgres.New(pool).CreateUser(ctx, user); err != nil {
		log.Error("failed to create user", "error", err)
		os.Exit(1)
	}
	log.Info("user created", "user_id", user.ID, "username", user.Username)
}
