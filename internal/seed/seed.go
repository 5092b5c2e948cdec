// Package seed creates the default data the application needs on first start.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/akarpov/docflow/internal/config"
	"github.com/akarpov/docflow/internal/pkg/auth"
)

// CreateDefaultCurator inserts the bootstrap curator account if it does not
// exist yet. Without it nobody could ever assign roles, since role changes
// require a curator. Idempotent: an existing account with the configured
// email is left untouched, whatever its role.
func CreateDefaultCurator(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	email := cfg.Seed.CuratorEmail
	password := cfg.Seed.CuratorPassword
	if email == "" || password == "" {
		lgr.Info().Msg("No seed curator configured, skipping")
		return nil
	}

	var exists bool
	err := dbPool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for seed curator: %w", err)
	}
	if exists {
		lgr.Debug().Str("email", email).Msg("Seed curator already present")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash seed curator password: %w", err)
	}

	name := cfg.Seed.CuratorName
	if name == "" {
		name = "Curator"
	}

	_, err = dbPool.Exec(ctx,
		`INSERT INTO users (name, email, password, role_type) VALUES ($1, $2, $3, 'CURATOR')`,
		name, email, hash)
	if err != nil {
		return fmt.Errorf("failed to insert seed curator: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Seed curator created")
	return nil
}
