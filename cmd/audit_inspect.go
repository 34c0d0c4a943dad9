package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/checkin/pkg/client"
)

var auditInspectCmd = &cobra.Command{
	Use:     "inspect CORRELATION-ID",
	Short:   "Show full details of a specific audit log entry",
	Example: `  checkin audit inspect d0e1kq0r2k1c73b4v3ig`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correlationID := args[0]
		if correlationID == "" {
			return fmt.Errorf("correlation ID cannot be empty")
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msgf("Retrieving entry with correlation ID '%s'...", correlationID)
		audits, correlation, err := cli.ListAudits(cmd.Context(), client.ListAuditsOpts{
			Limit:         1,
			CorrelationID: correlationID,
		})
		if err != nil {
			return logError(err, correlation, "failed to retrieve audit log entry")
		}
		if len(audits) == 0 {
			log.Warn().Str("correlation_id", correlationID).Msg("no audit log entries found")
			return nil
		}

		entry := audits[0]

		printKV := func(key string, val any) {
			fmt.Printf("  %-26s %v\n", faint(key)+":", val)
		}
		orNone := func(s string) string {
			if s == "" {
				return faint("(none)")
			}
			return s
		}

		status := green("success")
		if !entry.Success {
			status = red("failure")
		}

		fmt.Println(bold("\n── Audit Entry ──"))
		printKV("Correlation ID", correlationID)
		printKV("Time", entry.Time.Local().Format(time.RFC1123))
		printKV("Action", entry.Action)
		printKV("Status", status)

		fmt.Println(bold("\n── Token ──"))
		printKV("Session", orNone(string(entry.Session)))
		printKV("Fingerprint", orNone(entry.TokenFingerprint))
		if entry.Outcome != nil {
			printKV("Outcome", bold(entry.Outcome.String()))
		}

		fmt.Println(bold("\n── Presenter ──"))
		printKV("Identity", orNone(entry.Identity))

		if entry.Error != "" {
			fmt.Println(bold("\n── Error ──"))
			printKV("Message", red(entry.Error))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditInspectCmd)
}
