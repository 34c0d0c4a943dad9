package cmd

import (
	"github.com/spf13/cobra"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue and register attendance tokens against a running server",
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	f.bindTokenFlag(tokenCmd.PersistentFlags())
}
