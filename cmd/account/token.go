package main

import (
	"fmt"

	"account/config"
	"account/internal/domain/entity"
	"account/internal/errors"
	"account/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// tokenCommand signs an access token for an existing account with the configured secret.
func tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates an access token for the given user",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawID, _ := cmd.Flags().GetString("user-id")
			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			userID, err := uuid.Parse(rawID)
			if err != nil {
				return errors.Wrap(err, "invalid user id")
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}
			if ttl > 0 {
				cfg.Auth.TokenTTL = ttl
			}

			tokens, err := auth.NewJWTService(cfg)
			if err != nil {
				return err
			}

			signed, err := tokens.Issue(entity.TokenClaims{UserID: userID, Email: email})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)

			return nil
		},
	}

	cmd.Flags().String("user-id", "", "Account ID to place in the subject claim")
	cmd.Flags().String("email", "", "Email to place in the token")
	cmd.Flags().Duration("ttl", 0, "Token TTL (e.g. 30m, 1h); defaults to auth.tokenTTL")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}
