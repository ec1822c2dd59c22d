package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/core/api"
	"github.com/solatis/tagkeeper/internal/core/auth"
	"github.com/solatis/tagkeeper/internal/core/config"
	"github.com/solatis/tagkeeper/internal/core/db"
	"github.com/solatis/tagkeeper/internal/core/server"
	"github.com/solatis/tagkeeper/internal/dsl"
	"github.com/solatis/tagkeeper/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC condition API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		store   *db.Store
		queries *db.Queries
	)
	if cfg.Database.URL != "" {
		database, s, q, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		statuses, err := db.MigrateStatus(database)
		if err != nil {
			return fmt.Errorf("failed to check migrations: %w", err)
		}
		for _, st := range statuses {
			if !st.Applied {
				return fmt.Errorf("migration %s not applied - run 'tagkeeper migrate' first", st.ID)
			}
		}
		store, queries = s, q
	}

	catalog, err := loadCatalog(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load tag catalog: %w", err)
	}

	builder := dsl.NewBuilder(catalog,
		dsl.WithValidator(validation.NewOperatorValidator(catalog)),
		dsl.WithLogger(logger),
	)

	var expressionStore api.ExpressionStore
	if store != nil {
		expressionStore = store
	} else {
		logger.Warn("no database configured, expression persistence disabled")
	}

	authenticator, err := newAuthenticator(queries)
	if err != nil {
		return err
	}

	service, err := api.NewConditionService(builder, expressionStore, &cfg.ConditionAPI, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(&cfg.ConditionAPI, service, authenticator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting tagkeeper condition API",
		zap.String("version", Version),
		zap.String("address", cfg.ConditionAPI.Address()),
		zap.Int("tags", catalog.Len()),
		zap.Bool("auth", authenticator != nil),
	)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		return grpcServer.Shutdown(context.Background())
	}
}

// newAuthenticator enables API key checks when HMAC secrets are configured.
// Keys live in the database, so secrets without a database are an error.
func newAuthenticator(queries *db.Queries) (*auth.Authenticator, error) {
	secrets, err := config.HMACSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return nil, nil
	}
	if queries == nil {
		return nil, fmt.Errorf("HMAC secrets configured but no database for API keys (set --db-url)")
	}
	return auth.NewAuthenticator(secrets, queries), nil
}
