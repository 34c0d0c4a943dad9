package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	attendanceIdentity string
	attendanceLimit    uint
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "List recorded check-ins of a running server",
	Long: `Reads confirmed check-ins from the server's attendance store.
Requires an admin token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		records, correlation, err := cli.ListAttendance(cmd.Context(), attendanceIdentity, attendanceLimit)
		if err != nil {
			return logError(err, correlation, "failed to list attendance")
		}
		log.Info().Msgf("Retrieved %d check-ins", len(records))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Recorded At", "Presenter", "ID"})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.RecordedAt.Local().Format(time.RFC3339),
				r.Identity,
				faint(r.ID.String()),
			})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	f.bindTokenFlag(attendanceCmd.Flags())

	attendanceCmd.Flags().StringVar(&attendanceIdentity, "identity", "", "Only show check-ins of this presenter")
	attendanceCmd.Flags().UintVarP(&attendanceLimit, "limit", "n", 50, "Number of check-ins to retrieve")
}
