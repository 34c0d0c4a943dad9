package cmd

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// configShowCmd prints the effective configuration after defaults are applied.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, including defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadServerConfig()
		if err != nil {
			return err
		}
		// keys are write-only
		if cfg.Identity.SigningKey != "" {
			cfg.Identity.SigningKey = "<redacted>"
		}
		if cfg.Admin.SigningKey != "" {
			cfg.Admin.SigningKey = "<redacted>"
		}
		if cfg.Attendance.DSN != "" {
			cfg.Attendance.DSN = "<redacted>"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
