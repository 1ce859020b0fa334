package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoomsFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRooms(&buf, []hotel.Room{
		{ID: "101", Category: hotel.Standard, NightlyPrice: 10000, Available: true},
		{ID: "301", Category: hotel.Suite, NightlyPrice: 25050},
	})
	require.NoError(t, err)
	assert.Equal(t, "101,STANDARD,100.00,true\n301,SUITE,250.50,false\n", buf.String())
}

func TestWriteReservationsQuotesGuestNames(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReservations(&buf, []hotel.Reservation{{
		ID:         "AB12CD34",
		RoomID:     "101",
		GuestName:  "Smith, Jane",
		CheckIn:    hotel.MustParseDate("2024-01-10"),
		CheckOut:   hotel.MustParseDate("2024-01-12"),
		TotalPrice: 20000,
	}})
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34,101,\"Smith, Jane\",2024-01-10,2024-01-12,200.00,false\n", buf.String())

	got, err := ReadReservations(&buf, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Smith, Jane", got[0].GuestName)
}

func TestReservationCreatedAtSurvives(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	r := hotel.Reservation{
		ID: "X1", RoomID: "201", GuestName: "Ann",
		CheckIn: hotel.MustParseDate("2024-02-01"), CheckOut: hotel.MustParseDate("2024-02-03"),
		TotalPrice: 30000, Confirmed: true, CreatedAt: created,
	}
	got, err := DecodeReservation(EncodeReservation(r))
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestReadRoomsSkipsMalformedLines(t *testing.T) {
	in := strings.Join([]string{
		"101,STANDARD,100.00,true",
		"102,standard,100.0,TRUE",
		"bogus line",
		"103,PENTHOUSE,900.00,true",
		"104,DELUXE,abc,true",
		"105,DELUXE,150.00,maybe",
		"",
		",SUITE,250.00,true",
		"106,SUITE,250.00,false",
	}, "\n")

	var skipped []int
	rooms, err := ReadRooms(strings.NewReader(in), func(line int, err error) {
		assert.ErrorIs(t, err, ErrMalformed)
		skipped = append(skipped, line)
	})
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "101", rooms[0].ID)
	assert.Equal(t, hotel.Standard, rooms[1].Category)
	assert.True(t, rooms[1].Available)
	assert.Equal(t, "106", rooms[2].ID)
	assert.Equal(t, []int{3, 4, 5, 6, 8}, skipped)
}

func TestDecodeReservationRejects(t *testing.T) {
	tests := []struct {
		name   string
		fields string
	}{
		{"too few fields", "A,101,Ann,2024-01-10,2024-01-12,200.00"},
		{"bad check-in", "A,101,Ann,10/01/2024,2024-01-12,200.00,false"},
		{"bad check-out", "A,101,Ann,2024-01-10,tomorrow,200.00,false"},
		{"reversed dates", "A,101,Ann,2024-01-12,2024-01-10,200.00,false"},
		{"negative price", "A,101,Ann,2024-01-10,2024-01-12,-1.00,false"},
		{"bad flag", "A,101,Ann,2024-01-10,2024-01-12,200.00,yes"},
		{"empty guest", "A,101,,2024-01-10,2024-01-12,200.00,false"},
		{"bad created_at", "A,101,Ann,2024-01-10,2024-01-12,200.00,false,noon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReservation(strings.Split(tt.fields, ","))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}
