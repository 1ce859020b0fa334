package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hotel-reservations/internal/domain/hotel"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		stay     stayFlags
		category string
	)
	c := &cobra.Command{
		Use:   "search",
		Short: "List rooms free for a stay",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := stay.parse()
			if err != nil {
				return err
			}
			cat, err := hotel.ParseCategory(category)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				w := cmd.OutOrStdout()
				rooms := a.engine.Availability.SearchAvailable(cat, in, out)
				if len(rooms) == 0 {
					fmt.Fprintln(w, "No rooms available for the selected dates and category.")
					return nil
				}
				fmt.Fprintf(w, "--- Available %s Rooms from %s to %s ---\n", cat.Label(), in, out)
				for _, r := range rooms {
					fmt.Fprintln(w, r)
				}
				return nil
			})
		},
	}
	stay.register(c)
	c.Flags().StringVar(&category, "category", "", "STANDARD, DELUXE or SUITE (default any)")
	return c
}
