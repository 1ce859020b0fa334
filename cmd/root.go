package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "hotelres",
		Short:         "Hotel room inventory and reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default ./hotelres.yaml when present)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory for the file backend (overrides DATA_DIR)")
	pf.StringVar(&opts.backend, "backend", "", "storage backend: file, postgres or redis (overrides STORE_BACKEND)")
	pf.StringVar(&opts.adminPassword, "admin-password", "", "password for admin commands when ADMIN_PASSWORD_HASH is set")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newRoomsCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newBookCmd(opts))
	root.AddCommand(newPayCmd(opts))
	root.AddCommand(newCancelCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newReservationsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newReceiptCmd(opts))
	root.AddCommand(newShellCmd(opts))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
