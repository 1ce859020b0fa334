package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/hotel-reservations/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		stay stayFlags
		path string
	)
	c := &cobra.Command{
		Use:   "export",
		Short: "Write rooms, reservations and an occupancy grid to an xlsx file (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stay.allowPast = true
			from, to, err := stay.parse()
			if err != nil {
				return err
			}
			if path == "" {
				path = fmt.Sprintf("occupancy_%s_to_%s.xlsx", from, to)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireAdmin(opts); err != nil {
					return err
				}
				f, err := export.Workbook(a.engine.Catalog.List(), a.engine.Ledger.List(), from, to)
				if err != nil {
					return err
				}
				defer f.Close()
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("error creating export directory: %w", err)
					}
				}
				if err := f.SaveAs(path); err != nil {
					return fmt.Errorf("error saving file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
	stay.register(c)
	c.Flags().StringVarP(&path, "out", "o", "", "output file (default occupancy_<from>_to_<to>.xlsx)")
	return c
}
