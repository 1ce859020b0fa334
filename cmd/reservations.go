package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/engine"
	"github.com/example/hotel-reservations/internal/internaltypes"
)

func newBookCmd(opts *rootOptions) *cobra.Command {
	var (
		stay        stayFlags
		room, guest string
	)
	c := &cobra.Command{
		Use:   "book",
		Short: "Create a reservation pending payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := stay.parse()
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				r, err := a.engine.Ledger.Book(ctx, room, guest, in, out)
				if r.ID == "" {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Reservation for Room %s created. Total price: $%s\n", r.RoomID, r.TotalPrice)
				fmt.Fprintf(w, "Reservation ID: %s\n", r.ID)
				fmt.Fprintln(w, "Status: Pending Payment. Pay to confirm.")
				return err
			})
		},
	}
	stay.register(c)
	c.Flags().StringVar(&room, "room", "", "room number")
	c.Flags().StringVar(&guest, "guest", "", "guest name")
	_ = c.MarkFlagRequired("room")
	_ = c.MarkFlagRequired("guest")
	return c
}

func newPayCmd(opts *rootOptions) *cobra.Command {
	var id, amount string
	c := &cobra.Command{
		Use:   "pay",
		Short: "Pay for a reservation and confirm it",
		RunE: func(cmd *cobra.Command, args []string) error {
			paid, err := hotel.ParseMoney(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.engine.Ledger.Confirm(ctx, id, paid)
				if res.Outcome == 0 {
					return err
				}
				w := cmd.OutOrStdout()
				switch res.Outcome {
				case engine.OutcomeInsufficientPayment:
					fmt.Fprintf(w, "Insufficient payment. Required: $%s, paid: $%s, short by $%s.\n",
						res.Reservation.TotalPrice, res.Paid, res.Shortfall)
					fmt.Fprintf(w, "Reservation %s remains Pending Payment.\n", res.Reservation.ID)
					return err
				case engine.OutcomeAlreadyConfirmed:
					fmt.Fprintf(w, "Reservation %s is already confirmed.\n", res.Reservation.ID)
					return err
				}
				fmt.Fprintf(w, "Payment successful! Reservation %s confirmed.\n", res.Reservation.ID)
				fmt.Fprintf(w, "Change: $%s\n", res.Change)
				if a.receipts != nil {
					tok, rerr := a.receipts.Issue(res.Reservation, res.Paid, res.Change)
					if rerr != nil {
						a.log.Warn("could not issue receipt", zap.String("reservation_id", res.Reservation.ID), zap.Error(rerr))
					} else {
						fmt.Fprintf(w, "Receipt: %s\n", tok)
					}
				}
				return err
			})
		},
	}
	c.Flags().StringVar(&id, "id", "", "reservation id")
	c.Flags().StringVar(&amount, "amount", "", "amount paid, e.g. 200.00")
	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("amount")
	return c
}

func newCancelCmd(opts *rootOptions) *cobra.Command {
	var id string
	c := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a reservation, pending or confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				ok, err := a.engine.Ledger.Cancel(ctx, id)
				if !ok && err == nil {
					return fmt.Errorf("reservation %q: %w", id, internaltypes.ErrNotFound)
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Reservation %s cancelled.\n", hotel.ReservationKey(id))
				}
				return err
			})
		},
	}
	c.Flags().StringVar(&id, "id", "", "reservation id")
	_ = c.MarkFlagRequired("id")
	return c
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var id string
	c := &cobra.Command{
		Use:   "show",
		Short: "Show one reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				r, err := a.engine.Ledger.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
	c.Flags().StringVar(&id, "id", "", "reservation id")
	_ = c.MarkFlagRequired("id")
	return c
}

func newReservationsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Inspect the reservation ledger",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every reservation in creation order (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireAdmin(opts); err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				rs := a.engine.Ledger.List()
				if len(rs) == 0 {
					fmt.Fprintln(w, "No reservations found.")
					return nil
				}
				fmt.Fprintln(w, "--- All Reservations ---")
				for _, r := range rs {
					fmt.Fprintln(w, r)
					fmt.Fprintln(w, "--------------------")
				}
				return nil
			})
		},
	})
	return cmd
}
