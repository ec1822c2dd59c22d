package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/core/auth"
	"github.com/solatis/tagkeeper/internal/core/config"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage condition API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create <client-name>",
	Short: "Issue an API key signed with a configured HMAC secret",
	Long: `Create issues a new API key for a client and prints it once. Only the key's
HMAC is stored. The signing secret comes from TK_HMAC_SECRET or
TK_HMAC_SECRET_N; --secret-id picks one when several are configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runAPIKeyCreate,
}

var apikeyRevokeCmd = &cobra.Command{
	Use:   "revoke <api-key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyRevoke,
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
	apikeyCmd.AddCommand(apikeyCreateCmd, apikeyRevokeCmd)
	apikeyCreateCmd.Flags().String("secret-id", "", "HMAC secret id to sign with")
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set TK_HMAC_SECRET environment variable)")
	}

	secretID, _ := cmd.Flags().GetString("secret-id")
	if secretID == "" {
		if len(secrets) > 1 {
			return fmt.Errorf("several HMAC secrets configured, choose one with --secret-id")
		}
		for id := range secrets {
			secretID = id
		}
	}
	secret, ok := secrets[secretID]
	if !ok {
		return fmt.Errorf("unknown secret id %s", secretID)
	}

	key, keyHash, err := auth.GenerateAPIKey(secretID, secret)
	if err != nil {
		return err
	}

	database, store, _, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := store.CreateAPIKey(cmd.Context(), args[0], keyHash)
	if err != nil {
		return err
	}
	logger.Info("api key created", zap.String("api_key_id", id), zap.String("client", args[0]))
	fmt.Fprintf(cmd.OutOrStdout(), "api_key_id: %s\napi_key: %s\n", id, key)
	return nil
}

func runAPIKeyRevoke(cmd *cobra.Command, args []string) error {
	database, store, _, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.RevokeAPIKey(cmd.Context(), args[0]); err != nil {
		return err
	}
	logger.Info("api key revoked", zap.String("api_key_id", args[0]))
	return nil
}
