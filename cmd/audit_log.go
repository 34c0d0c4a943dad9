package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/pkg/client"
)

var auditLogOpts client.ListAuditsOpts

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display audit log entries",
	Example: `  # Show the last 10 validations of a presenter
  checkin audit log --action token.validate --identity user123 -n 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching audit log...")
		audits, correlation, err := cli.ListAudits(cmd.Context(), auditLogOpts)
		if err != nil {
			return logError(err, correlation, "failed to retrieve audit log")
		}

		log.Info().Msgf("Retrieved %d audit entries", len(audits))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Correlation", "Action", "Identity", "Fingerprint", "Outcome", "Error",
		})

		for _, e := range audits {
			outcome := faint("-")
			if e.Outcome != nil {
				outcome = e.Outcome.String()
			}
			if e.Success {
				outcome = green(outcome)
			} else {
				outcome = red(outcome)
			}

			identity := e.Identity
			if identity == "" {
				identity = faint("(none)")
			}

			t.AppendRow(table.Row{
				e.Time.Local().Format(time.RFC3339),
				e.ID,
				e.Action,
				truncate(identity, 35),
				e.TokenFingerprint,
				outcome,
				e.Error,
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().UintVarP(&auditLogOpts.Limit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Action, "action", "", "Only show entries for this action (token.issue, token.validate)")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Identity, "identity", "", "Only show entries for this presenter")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Fingerprint, "fingerprint", "", "Only show entries for this token fingerprint")
}
