package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// NewPartyCommand creates the party command group.
func NewPartyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Manage registered parties",
	}
	cmd.AddCommand(newPartyAddCommand(rootOpts))
	return cmd
}

type partyAddOptions struct {
	trusted bool
}

func newPartyAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &partyAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name> <phone>",
		Short: "Register a party",
		Long: `Register a party by name and phone number.

Trusted parties may register others by text message. The first party of a
new ledger has to be added here with --trusted.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPartyAdd(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.trusted, "trusted", false, "allow the party to add others by text")

	return cmd
}

func runPartyAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *partyAddOptions, name, rawPhone string) error {
	e, err := rootOpts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := e.number(rawPhone)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	party := models.NewParty(id, name, opts.trusted)
	err = e.store.InTx(ctx, func(repo storage.Repository) error {
		return repo.InsertParty(ctx, party)
	})
	if errors.Is(err, storage.ErrUniqueViolation) {
		return fmt.Errorf("party %s already exists", id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) trusted=%t\n", party.Name, party.ID, party.Trusted)
	return nil
}
