package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/hotel-reservations/internal/domain/hotel"
)

func newRoomsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "View and manage the room catalog",
	}
	cmd.AddCommand(newRoomsListCmd(opts))
	cmd.AddCommand(newRoomsAddCmd(opts))
	cmd.AddCommand(newRoomsSetAvailableCmd(opts))
	return cmd
}

func newRoomsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every room",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "--- All Rooms ---")
				for _, r := range a.engine.Catalog.List() {
					fmt.Fprintln(out, r)
				}
				return nil
			})
		},
	}
}

func newRoomsAddCmd(opts *rootOptions) *cobra.Command {
	var id, category, price string
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a room (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := hotel.ParseCategory(category)
			if err != nil {
				return err
			}
			p, err := hotel.ParseMoney(price)
			if err != nil {
				return fmt.Errorf("--price: %w", err)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireAdmin(opts); err != nil {
					return err
				}
				room := hotel.Room{ID: strings.TrimSpace(id), Category: cat, NightlyPrice: p, Available: true}
				if err := a.engine.Catalog.Add(ctx, room); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Room %s added.\n", room.ID)
				return nil
			})
		},
	}
	c.Flags().StringVar(&id, "id", "", "room number")
	c.Flags().StringVar(&category, "category", "", "STANDARD, DELUXE or SUITE")
	c.Flags().StringVar(&price, "price", "", "nightly price, e.g. 120.00")
	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("category")
	_ = c.MarkFlagRequired("price")
	return c
}

func newRoomsSetAvailableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-available ROOM true|false",
		Short: "Set a room's advisory availability flag (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("availability must be true or false, got %q", args[1])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireAdmin(opts); err != nil {
					return err
				}
				room, err := a.engine.Catalog.SetAvailable(ctx, args[0], v)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), room)
				return nil
			})
		},
	}
}
