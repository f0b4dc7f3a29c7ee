package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// NewContactCommand creates the contact command group.
func NewContactCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the names parties use for each other",
	}
	cmd.AddCommand(newContactAddCommand(rootOpts))
	cmd.AddCommand(newContactListCommand(rootOpts))
	return cmd
}

type contactAddOptions struct {
	reverseAlias string
}

func newContactAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &contactAddOptions{}

	cmd := &cobra.Command{
		Use:           "add <owner-phone> <alias> <target-phone>",
		Short:         "Let the owner refer to the target by alias",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContactAdd(cmd, rootOpts, opts, args[0], args[1], args[2])
		},
	}

	cmd.Flags().StringVar(&opts.reverseAlias, "reverse", "", "also let the target refer to the owner by this alias")

	return cmd
}

func runContactAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *contactAddOptions, rawOwner, alias, rawTarget string) error {
	e, err := rootOpts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	ownerID, err := e.number(rawOwner)
	if err != nil {
		return err
	}
	targetID, err := e.number(rawTarget)
	if err != nil {
		return err
	}
	if ownerID == targetID {
		return errors.New("owner and target must differ")
	}

	contacts := []models.Contact{{OwnerID: ownerID, Alias: models.NormalizeName(alias), TargetID: targetID}}
	if opts.reverseAlias != "" {
		contacts = append(contacts, models.Contact{OwnerID: targetID, Alias: models.NormalizeName(opts.reverseAlias), TargetID: ownerID})
	}

	ctx := cmd.Context()
	err = e.store.InTx(ctx, func(repo storage.Repository) error {
		for _, id := range []string{ownerID, targetID} {
			party, err := repo.FindPartyByID(ctx, id)
			if err != nil {
				return err
			}
			if party == nil {
				return fmt.Errorf("no party registered with number %s", id)
			}
		}
		for i := range contacts {
			err := repo.InsertContact(ctx, &contacts[i])
			if errors.Is(err, storage.ErrUniqueViolation) {
				return fmt.Errorf("%s already uses the name %q", contacts[i].OwnerID, contacts[i].Alias)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, c := range contacts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %q -> %s\n", c.OwnerID, c.Alias, c.TargetID)
	}
	return nil
}

func newContactListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <owner-phone>",
		Short:         "List the names a party uses",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			ownerID, err := e.number(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var contacts []*models.Contact
			err = e.store.InTx(ctx, func(repo storage.Repository) error {
				contacts, err = repo.ListContacts(ctx, ownerID)
				return err
			})
			if err != nil {
				return err
			}

			for _, c := range contacts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Alias, c.TargetID)
			}
			return nil
		},
	}
}
