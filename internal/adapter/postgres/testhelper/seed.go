package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProfile inserts a profile with the user role and returns it.
func SeedProfile(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Profile{
		ID:          "uid-" + suffix,
		Email:       "testuser-" + suffix + "@example.com",
		DisplayName: "Test User " + suffix,
		Role:        domain.UserRoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, email, display_name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Email, p.DisplayName, string(p.Role), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile: %v", err)
	}
	return p
}

// SeedContact inserts a contact owned by userID and returns it.
func SeedContact(t *testing.T, pool *pgxpool.Pool, userID, name string) domain.Contact {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Phone:     "+15550000000",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO contacts (id, user_id, name, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.Name, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedContact: %v", err)
	}
	return c
}
