package engine

import (
	"strings"

	"github.com/google/uuid"
)

// NewReservationID returns a short opaque token: the first eight hex digits
// of a random UUID, upper-cased.
func NewReservationID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
