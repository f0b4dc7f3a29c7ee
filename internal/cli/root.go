// Package cli implements iouctl, the operator command line for an iou ledger.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/iou/internal/app"
	"github.com/mmynk/iou/internal/config"
	"github.com/mmynk/iou/internal/phone"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/pkg/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for iouctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "iouctl",
		Short: "Administer an iou ledger",
		Long: `Administer an iou ledger directly against its database.

Registers the first trusted parties, links contacts, mints account API
tokens and inspects balances. Reads the same configuration as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./config.toml or /etc/iou/config.toml)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewPartyCommand(opts))
	cmd.AddCommand(NewContactCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))

	return cmd
}

// env is what a command needs to work on the ledger.
type env struct {
	cfg    *config.Config
	store  storage.Store
	phones *phone.Validator
}

// open loads configuration and opens the store, applying any pending schema
// migrations.
func (o *RootOptions) open() (*env, error) {
	cfg, err := config.LoadFile(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Configure(cfg.Log.Level, cfg.Log.Format)

	store, err := app.OpenStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}
	return &env{
		cfg:    cfg,
		store:  store,
		phones: phone.NewValidator(cfg.Ledger.DefaultRegion),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// number normalizes a phone number argument.
func (e *env) number(raw string) (string, error) {
	id, err := e.phones.Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", raw, err)
	}
	return id, nil
}
