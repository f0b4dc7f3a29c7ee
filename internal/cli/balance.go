package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/iou/internal/calculator"
	"github.com/mmynk/iou/internal/interpreter"
	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "balance <phone-a> <phone-b>",
		Short:         "Show the balance between two parties",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			var ids [2]string
			for i, raw := range args {
				if ids[i], err = e.number(raw); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			var phrase string
			err = e.store.InTx(ctx, func(repo storage.Repository) error {
				var parties [2]*models.Party
				for i, id := range ids {
					p, err := repo.FindPartyByID(ctx, id)
					if err != nil {
						return err
					}
					if p == nil {
						return fmt.Errorf("no party registered with number %s", id)
					}
					parties[i] = p
				}
				net, err := interpreter.Balance(ctx, repo, ids[0], ids[1])
				if err != nil {
					return err
				}
				phrase = calculator.Phrase(parties[0], parties[1], net)
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return nil
		},
	}
}
