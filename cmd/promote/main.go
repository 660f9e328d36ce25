// Command promote sets a user's role by email address. It is used to
// bootstrap the first admin before anyone can call the admin API.
//
// Usage:
//
//	promote --email=user@example.com [--role=admin|superadmin]
//
// The user must have signed in at least once.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/app"
	"github.com/heartmarshall/gratitude-backend/internal/config"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	role := flag.String("role", string(domain.UserRoleAdmin), "role to grant (admin or superadmin)")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com [--role=admin]")
		os.Exit(1)
	}
	target := domain.UserRole(*role)
	if target != domain.UserRoleAdmin && target != domain.UserRoleSuperAdmin {
		log.Fatalf("unsupported role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	be, err := app.OpenBackend(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer be.Close()

	p, err := be.Profiles.GetByEmail(ctx, strings.TrimSpace(*email))
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Printf("No user found with email %q.\n", *email)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("look up user: %v", err)
	}
	if p.Role == target {
		fmt.Printf("User %q is already %s.\n", *email, target)
		return
	}

	if err := be.Profiles.SetRole(ctx, p.ID, target, time.Now()); err != nil {
		log.Fatalf("update role: %v", err)
	}
	fmt.Printf("User %q promoted to %s.\n", *email, target)
}
