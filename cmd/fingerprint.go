package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/internal/audit"
)

var fingerprintRaw bool

var fingerprintCmd = &cobra.Command{
	Use:     "fingerprint [token]",
	Aliases: []string{"fp"},
	Short:   `Calculate the fingerprint of a token`,
	Long: `Calculates the fingerprint of an attendance token.
This is the value stored in the audit log in the 'token_fingerprint' field,
which never contains the token itself.`,
	Example: `  # Calculate the fingerprint of a token
  checkin fingerprint 3f9a...

  # Calculate the fingerprint of a token from stdin
  checkin token issue --raw | checkin fingerprint -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string

		if args[0] != "-" {
			token = args[0]
		} else {
			log.Debug().Msg("Reading token from stdin")

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			token = strings.TrimSpace(string(data))
		}

		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		fp := audit.Fingerprint(token)
		if fingerprintRaw {
			fmt.Println(fp)
		} else {
			fmt.Println("Fingerprint:", fp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().BoolVarP(&fingerprintRaw, "raw", "r", false,
		"Output only the fingerprint value without additional text")
}
