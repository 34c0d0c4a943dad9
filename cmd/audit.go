package cmd

import (
	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log of a running server",
	Long: `Reads token issuance and validation events from the server's admin API.
Requires an admin token, see 'checkin admin token'.`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	f.bindTokenFlag(auditCmd.PersistentFlags())
}
