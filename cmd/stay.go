package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
)

// today is the local calendar date; tests replace it.
var today = func() hotel.Date { return hotel.DateOf(time.Now()) }

type stayFlags struct {
	from, to  string
	allowPast bool
}

func (s *stayFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&s.from, "from", "", "check-in date YYYY-MM-DD")
	c.Flags().StringVar(&s.to, "to", "", "check-out date YYYY-MM-DD")
	c.Flags().BoolVar(&s.allowPast, "allow-past", false, "accept a check-in date before today")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
}

func (s *stayFlags) parse() (hotel.Date, hotel.Date, error) {
	in, err := hotel.ParseDate(s.from)
	if err != nil {
		return hotel.Date{}, hotel.Date{}, fmt.Errorf("--from: %w", err)
	}
	out, err := hotel.ParseDate(s.to)
	if err != nil {
		return hotel.Date{}, hotel.Date{}, fmt.Errorf("--to: %w", err)
	}
	if !out.After(in) {
		return hotel.Date{}, hotel.Date{}, fmt.Errorf("%s to %s: %w", in, out, internaltypes.ErrInvalidDateRange)
	}
	if !s.allowPast && in.Before(today()) {
		return hotel.Date{}, hotel.Date{}, fmt.Errorf("%w: check-in date %s is in the past", internaltypes.ErrInvalidArgument, in)
	}
	return in, out, nil
}
