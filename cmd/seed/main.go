package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/blogx-api/config"
	"github.com/oksasatya/blogx-api/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Seeds (or promotes) the administrator account. There is no public endpoint
// for creating admins.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := strings.ToLower(getenv("SEED_ADMIN_EMAIL", "admin@blogx.local"))
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	username := getenv("SEED_ADMIN_USERNAME", "admin")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Promoting an existing account also clears its block flag, since admins
	// are never blocked.
	var id string
	err = db.QueryRow(`
		INSERT INTO accounts (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT ((lower(email))) DO UPDATE
		SET role = 'admin', is_blocked = FALSE, updated_at = now()
		RETURNING id::text
	`, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s username=%s\n", id, email, username)
}
