package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if f.ConfigPath == "" {
			return fmt.Errorf("config file not specified (use --config)")
		}
		cfg, err := f.LoadServerConfig()
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return err
		}
		log.Info().
			Str("session_mode", cfg.Session.Mode).
			Str("identity", cfg.Identity.Type).
			Str("attendance", cfg.Attendance.Type).
			Int("presenters", len(cfg.Presenters)).
			Msg("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
