package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tokenRegisterCmd represents the token register command
var tokenRegisterCmd = &cobra.Command{
	Use:   "register [token]",
	Short: "Submit a token to record attendance, as a scanning presenter would",
	Long: `Submits the token to the server's register route. The token is consumed by
this call whatever the outcome. Note that the token must belong to the same session
it was issued to, so cookie-mode servers will reject tokens issued by another client.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		resp, correlation, err := cli.Register(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlation, "failed to register token")
		}

		if resp.Accepted() {
			fmt.Println(green(resp.Message))
			return nil
		}
		fmt.Println(red(resp.Message))
		return fmt.Errorf("check-in rejected: %s", resp.Outcome)
	},
}

func init() {
	tokenCmd.AddCommand(tokenRegisterCmd)
}
