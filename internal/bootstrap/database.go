package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/store"
)

// initializeDatabase creates and initializes the database connection
func initializeDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
) (*store.Store, error) {
	// Create timeout context for this specific operation
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
