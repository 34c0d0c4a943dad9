package cmd

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var claimsCmd = &cobra.Command{
	Use:   "claims [token]",
	Short: "Prints the claims of an admin or presenter session token",
	Long: `Decodes an admin or presenter session token and shows its claims.
The signature is not verified.`,
	Example: `  checkin claims "$(checkin admin presenter user123 -c config.yaml)"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenInput := args[0]
		if tokenInput == "" {
			return fmt.Errorf("token cannot be empty")
		}

		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenInput, jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("parsing token: %w", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fmt.Errorf("invalid token claims")
		}

		log.Info().Msg("Token Claims:")
		log.Info().Msg(spew.Sdump(claims))

		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			log.Info().Msgf("Subject (sub): %s", sub)
		} else {
			log.Warn().Msg("Token does not contain 'sub' claim")
		}

		if aud, err := claims.GetAudience(); err == nil && len(aud) > 0 {
			log.Info().Msgf("Audience (aud): %v", aud)
		}

		if roles, ok := claims["roles"]; ok {
			log.Info().Msgf("Roles: %v", roles)
		}

		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			log.Info().Msgf("Expiration (exp): %v (in %v)", exp.Time, time.Until(exp.Time).Round(time.Second))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(claimsCmd)
}
