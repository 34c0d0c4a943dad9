package cmd

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/internal/api/middleware"
	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/identity"
)

var (
	adminTokenSubject string
	adminTokenTTL     time.Duration
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Mint credentials from the server's signing keys",
	Long: `Signs tokens locally with the keys from the server configuration.
The server itself is not contacted.`,
}

var adminTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an admin token for the audit routes",
	Example: `  export CHECKIN_TOKEN=$(checkin admin token -c config.yaml)
  checkin audit log --server http://localhost:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadServerConfig()
		if err != nil {
			return err
		}
		if cfg.Admin.SigningKey == "" {
			return fmt.Errorf("admin.signing_key is not configured")
		}
		token, err := middleware.SignAdminToken([]byte(cfg.Admin.SigningKey), adminTokenSubject, adminTokenTTL)
		if err != nil {
			return fmt.Errorf("signing admin token: %w", err)
		}
		log.Debug().Str("subject", adminTokenSubject).Dur("ttl", adminTokenTTL).Msg("Signed admin token")
		fmt.Println(token)
		return nil
	},
}

var adminPresenterCmd = &cobra.Command{
	Use:   "presenter ID",
	Short: "Sign a presenter session token for the jwt identity type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadServerConfig()
		if err != nil {
			return err
		}
		if cfg.Identity.Type != config.IdentityTypeJWT {
			return fmt.Errorf("identity type is '%s', presenter tokens require 'jwt'", cfg.Identity.Type)
		}
		if !slices.ContainsFunc(cfg.Presenters, func(p config.PresenterConfig) bool { return p.ID == args[0] }) {
			log.Warn().Str("presenter", args[0]).Msg("Presenter is not listed in the config, name will show as unknown")
		}
		token, err := identity.NewJWT([]byte(cfg.Identity.SigningKey), cfg.Identity.CookieName).
			Sign(args[0], adminTokenTTL)
		if err != nil {
			return fmt.Errorf("signing presenter token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminTokenCmd, adminPresenterCmd)

	f.bindConfigFlag(adminCmd.PersistentFlags())
	adminCmd.PersistentFlags().DurationVar(&adminTokenTTL, "ttl", 12*time.Hour, "Validity of the signed token")
	adminTokenCmd.Flags().StringVar(&adminTokenSubject, "subject", "operator", "Subject recorded in the admin token")
}
