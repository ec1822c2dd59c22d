package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/core/db"
	"github.com/solatis/tagkeeper/internal/tags"
)

// openStore opens the configured database and its store.
// The schema must already exist (`tagkeeper migrate`).
func openStore() (*sqlx.DB, *db.Store, *db.Queries, error) {
	if cfg.Database.URL == "" {
		return nil, nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}
	return database, db.NewStore(queries), queries, nil
}

// loadCatalog returns the tag catalog from the YAML file when one is
// configured, otherwise from the database.
func loadCatalog(ctx context.Context, store *db.Store) (*tags.Catalog, error) {
	if cfg.Catalog.File != "" {
		catalog, err := tags.LoadFile(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		logger.Debug("tag catalog loaded from file", zap.String("file", cfg.Catalog.File), zap.Int("tags", catalog.Len()))
		return catalog, nil
	}
	if store == nil {
		return nil, fmt.Errorf("no tag catalog: set --catalog or --db-url")
	}
	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("tag catalog loaded from database", zap.Int("tags", catalog.Len()))
	return catalog, nil
}

// catalogOnly loads the catalog, opening the database only when no catalog
// file is configured.
func catalogOnly(ctx context.Context) (*tags.Catalog, error) {
	if cfg.Catalog.File != "" {
		return loadCatalog(ctx, nil)
	}
	database, store, _, err := openStore()
	if err != nil {
		return nil, err
	}
	defer database.Close()
	return loadCatalog(ctx, store)
}

// readInput returns args[0] when given, the contents of path when set,
// otherwise stdin.
func readInput(in io.Reader, args []string, path string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
