package hotel

import (
	"fmt"
	"strings"
)

type Category string

const (
	// AnyCategory matches every room in searches.
	AnyCategory Category = ""

	Standard Category = "STANDARD"
	Deluxe   Category = "DELUXE"
	Suite    Category = "SUITE"
)

var Categories = []Category{Standard, Deluxe, Suite}

// ParseCategory is case-insensitive. An empty string yields AnyCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnyCategory, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return AnyCategory, fmt.Errorf("unknown room category %q (want Standard, Deluxe or Suite)", s)
}

// Label renders the category the way guests read it ("Deluxe").
func (c Category) Label() string {
	if c == AnyCategory {
		return "Any"
	}
	s := strings.ToLower(string(c))
	return strings.ToUpper(s[:1]) + s[1:]
}

type Room struct {
	ID           string   `json:"id" validate:"required,max=16,excludesall=0x2C"`
	Category     Category `json:"category" validate:"oneof=STANDARD DELUXE SUITE"`
	NightlyPrice Money    `json:"nightly_price" validate:"gte=0"`

	// Available is the legacy advisory flag. Booking decisions never read it;
	// real availability comes from the reservations on the requested dates.
	Available bool `json:"available"`
}

// RoomKey normalises a room identifier for lookups.
func RoomKey(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

func (r Room) String() string {
	flag := "Yes"
	if !r.Available {
		flag = "No"
	}
	return fmt.Sprintf("Room %s | %s | $%s/night | Generally available: %s", r.ID, r.Category.Label(), r.NightlyPrice, flag)
}
