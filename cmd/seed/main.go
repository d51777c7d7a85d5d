package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/sample-social/config"
	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

const (
	demoUsers       = 30
	demoStatuses    = 25
	defaultPassword = "password123"
)

// upsertUser creates or refreshes an activated account and returns its id.
func upsertUser(db *sql.DB, name, email, hash string) (string, error) {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (name, email, password_hash, activated, activation_token)
		VALUES ($1, $2, $3, TRUE, NULL)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, activated = TRUE, activation_token = NULL
		RETURNING id
	`, name, email, hash).Scan(&id)
	return id, err
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(defaultPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	adminID, err := upsertUser(db, "Admin", "admin@example.com", hash)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	var adminRoleID string
	if err := db.QueryRow(`
		INSERT INTO roles (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id
	`, entity.RoleAdmin).Scan(&adminRoleID); err != nil {
		log.Fatalf("failed to upsert admin role: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, adminID, adminRoleID); err != nil {
		log.Fatalf("failed to assign admin role: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=admin@example.com password=%s\n", adminID, defaultPassword)

	ids := []string{adminID}
	for i := 1; i <= demoUsers; i++ {
		id, err := upsertUser(db, fmt.Sprintf("User %02d", i), fmt.Sprintf("user%02d@example.com", i), hash)
		if err != nil {
			log.Fatalf("failed to seed user %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	fmt.Printf("seeded %d demo users\n", demoUsers)

	// statuses for the first few accounts, spread over the last days
	for _, uid := range ids[:4] {
		if _, err := db.Exec(`
			INSERT INTO statuses (user_id, content, created_at)
			SELECT $1, 'Status update #' || g, now() - g * interval '1 hour'
			FROM generate_series(1, $2::int) AS g
			WHERE NOT EXISTS (SELECT 1 FROM statuses WHERE user_id = $1)
		`, uid, demoStatuses); err != nil {
			log.Fatalf("failed to seed statuses: %v", err)
		}
	}

	// the first user follows everyone from the third on; everyone from the third on follows the first
	first := ids[1]
	for _, other := range ids[3:] {
		for _, pair := range [][2]string{{first, other}, {other, first}} {
			if _, err := db.Exec(`
				INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, pair[0], pair[1]); err != nil {
				log.Fatalf("failed to seed follows: %v", err)
			}
		}
	}
	fmt.Println("seeded statuses and follow edges")
}
