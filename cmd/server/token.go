package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "accredit/internal/jwt_token"
	"accredit/internal/platform/config"
	id "accredit/pkg/domain"
)

// tokenCommand mints a bearer token for local testing against a dev server.
func tokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			cfg.DevMode = true
			if err := cfg.Validate(); err != nil {
				return err
			}

			userID := demoAdvocateID
			if subject != "" {
				if userID, err = id.ParseUserID(subject); err != nil {
					return err
				}
			}
			token, err := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience).
				GenerateAccessToken(userID, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "advocate id (defaults to the seeded demo advocate)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
