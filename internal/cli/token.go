package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/iou/internal/auth"
)

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <phone>",
		Short: "Mint an account API token for a party",
		Long: `Mint an account API token for a registered party.

The token is signed with the configured JWT secret and expires after the
configured token duration.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			jwtManager := auth.NewJWTManager(e.cfg.JWT.Secret, e.cfg.JWT.TokenDuration)
			token, err := auth.NewIssuer(e.store, e.phones, jwtManager).IssueToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
