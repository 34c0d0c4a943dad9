package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/internal/audit"
)

var tokenIssueRaw bool

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Request a new attendance token, as a kiosk would",
	Long: `Requests a fresh token from the server. Any token still pending for the
session is replaced. The printed register URL is what a kiosk encodes in its QR code.`,
	Example: `  # Issue a token and pipe it into a QR renderer
  checkin token issue --server http://localhost:8080 --raw | qrencode -t ansiutf8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Requesting token...")
		token, correlation, err := cli.IssueToken(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to issue token")
		}

		if tokenIssueRaw {
			fmt.Println(token)
			return nil
		}

		fmt.Println(bold("\n── Attendance Token ──"))
		fmt.Printf("  %s:       %s\n", faint("Token"), token)
		fmt.Printf("  %s: %s\n", faint("Fingerprint"), audit.Fingerprint(token))
		fmt.Printf("  %s:    %s\n", faint("Register"), cli.RegisterURL(token))
		fmt.Printf("  %s: %s\n", faint("Correlation"), correlation)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().BoolVarP(&tokenIssueRaw, "raw", "r", false, "Output only the token value")
}
