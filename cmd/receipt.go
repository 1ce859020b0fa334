package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hotel-reservations/internal/receipt"
)

func newReceiptCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Work with payment receipts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "verify TOKEN",
		Short: "Check a receipt's signature and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(cfg.ReceiptHashKey) == 0 {
				return fmt.Errorf("RECEIPT_HASH_KEY is not configured")
			}
			iss, err := receipt.NewIssuer(cfg.ReceiptHashKey, cfg.ReceiptBlockKey)
			if err != nil {
				return err
			}
			rc, err := iss.Verify(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Valid receipt for reservation %s\n", rc.ReservationID)
			fmt.Fprintf(w, "Guest: %s\nRoom: %s\nStay: %s to %s\n", rc.GuestName, rc.RoomID, rc.CheckIn, rc.CheckOut)
			fmt.Fprintf(w, "Total: $%s  Paid: $%s  Change: $%s\n", rc.Total, rc.Paid, rc.Change)
			fmt.Fprintf(w, "Issued: %s\n", rc.IssuedAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	})
	return cmd
}
