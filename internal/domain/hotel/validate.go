package hotel

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func (r Room) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("room %q: %w", r.ID, err)
	}
	return nil
}

func (r Reservation) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("reservation %q: %w", r.ID, err)
	}
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return fmt.Errorf("reservation %q: check-in and check-out dates are required", r.ID)
	}
	if !r.CheckOut.After(r.CheckIn) {
		return fmt.Errorf("reservation %q: check-out %s is not after check-in %s", r.ID, r.CheckOut, r.CheckIn)
	}
	return nil
}
