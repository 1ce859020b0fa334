package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
	"github.com/example/hotel-reservations/internal/metrics"
	"github.com/example/hotel-reservations/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = hotel.MustParseDate

func openTest(t *testing.T, gw store.Gateway, mutate ...func(*Options)) *Engine {
	t.Helper()
	opts := Options{Gateway: gw}
	for _, m := range mutate {
		m(&opts)
	}
	e, err := Open(context.Background(), opts)
	require.NoError(t, err)
	return e
}

// sequenceIDs hands out the given identifiers in order, then falls back to random ones.
func sequenceIDs(ids ...string) func() string {
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return NewReservationID()
		}
		id := ids[0]
		ids = ids[1:]
		return id
	}
}

func TestOpenSeedsDefaultRooms(t *testing.T) {
	gw := store.NewMemory()
	e := openTest(t, gw)

	rooms := e.Catalog.List()
	require.Len(t, rooms, 6)
	assert.Equal(t, "101", rooms[0].ID)
	assert.Equal(t, hotel.Suite, rooms[5].Category)

	roomSaves, _ := gw.Saves()
	assert.Equal(t, 1, roomSaves)
	stored, err := gw.LoadRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rooms, stored)
}

func TestOpenKeepsStoredRoomsAndSkipsBadRecords(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	require.NoError(t, gw.SaveRooms(ctx, []hotel.Room{
		{ID: "A1", Category: hotel.Deluxe, NightlyPrice: 12000},
		{ID: "a1", Category: hotel.Suite, NightlyPrice: 1},
		{ID: "", Category: hotel.Suite},
	}))
	require.NoError(t, gw.SaveReservations(ctx, []hotel.Reservation{
		{ID: "R1", RoomID: "A1", GuestName: "Ann", CheckIn: d("2024-03-01"), CheckOut: d("2024-03-03"), TotalPrice: 24000},
		{ID: "R2", RoomID: "A1", GuestName: "Bad", CheckIn: d("2024-03-05"), CheckOut: d("2024-03-04")},
		{ID: "r1", RoomID: "A1", GuestName: "Dup", CheckIn: d("2024-04-01"), CheckOut: d("2024-04-02")},
	}))

	e := openTest(t, gw)
	rooms := e.Catalog.List()
	require.Len(t, rooms, 1)
	assert.Equal(t, "A1", rooms[0].ID)

	rs := e.Ledger.List()
	require.Len(t, rs, 1)
	assert.Equal(t, "Ann", rs[0].GuestName)
}

func TestOpenDowngradesOverlappingConfirmedRecords(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	require.NoError(t, gw.SaveReservations(ctx, []hotel.Reservation{
		{ID: "R1", RoomID: "101", GuestName: "Ann", CheckIn: d("2024-03-01"), CheckOut: d("2024-03-04"), TotalPrice: 30000, Confirmed: true},
		{ID: "R2", RoomID: "101", GuestName: "Ben", CheckIn: d("2024-03-03"), CheckOut: d("2024-03-05"), TotalPrice: 20000, Confirmed: true},
		{ID: "R3", RoomID: "102", GuestName: "Cy", CheckIn: d("2024-03-03"), CheckOut: d("2024-03-05"), TotalPrice: 20000, Confirmed: true},
	}))

	e := openTest(t, gw)
	rs := e.Ledger.List()
	require.Len(t, rs, 3)
	assert.True(t, rs[0].Confirmed)
	assert.False(t, rs[1].Confirmed)
	assert.True(t, rs[2].Confirmed)
	assertNoConfirmedOverlap(t, rs)

	free, err := e.Availability.IsAvailable("101", d("2024-03-04"), d("2024-03-05"))
	require.NoError(t, err)
	assert.True(t, free)

	require.NoError(t, e.Flush(ctx))
	stored, err := gw.LoadReservations(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.False(t, stored[1].Confirmed)
}

func TestAliceAndBobScenario(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	alice, err := e.Ledger.Book(ctx, "101", "Alice", d("2024-01-10"), d("2024-01-12"))
	require.NoError(t, err)
	assert.Equal(t, hotel.MustParseMoney("200.00"), alice.TotalPrice)
	assert.False(t, alice.Confirmed)
	assert.Len(t, alice.ID, 8)

	res, err := e.Ledger.Confirm(ctx, alice.ID, hotel.MustParseMoney("150.00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeInsufficientPayment, res.Outcome)
	assert.False(t, res.OK())
	assert.Equal(t, hotel.MustParseMoney("50.00"), res.Shortfall)
	got, err := e.Ledger.Get(alice.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)

	res, err = e.Ledger.Confirm(ctx, alice.ID, hotel.MustParseMoney("200.00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, hotel.Money(0), res.Change)
	assert.True(t, res.Reservation.Confirmed)

	_, err = e.Ledger.Book(ctx, "101", "Bob", d("2024-01-11"), d("2024-01-13"))
	require.ErrorIs(t, err, internaltypes.ErrUnavailable)

	ok, err := e.Ledger.Cancel(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	bob, err := e.Ledger.Book(ctx, "101", "Bob", d("2024-01-11"), d("2024-01-13"))
	require.NoError(t, err)
	assert.Equal(t, "Bob", bob.GuestName)
}

func TestBookRejects(t *testing.T) {
	tests := []struct {
		name    string
		room    string
		guest   string
		in, out string
		wantErr error
	}{
		{"unknown room", "999", "Ann", "2024-01-10", "2024-01-11", internaltypes.ErrNotFound},
		{"same day", "101", "Ann", "2024-01-10", "2024-01-10", internaltypes.ErrInvalidDateRange},
		{"reversed", "101", "Ann", "2024-01-10", "2024-01-09", internaltypes.ErrInvalidDateRange},
		{"blank guest", "101", "  ", "2024-01-10", "2024-01-11", internaltypes.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := store.NewMemory()
			e := openTest(t, gw)
			_, err := e.Ledger.Book(context.Background(), tt.room, tt.guest, d(tt.in), d(tt.out))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.Ledger.List())
			_, saves := gw.Saves()
			assert.Zero(t, saves)
		})
	}
}

func TestPriceIsNightsTimesRate(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())
	for _, room := range e.Catalog.List() {
		for nights := 1; nights <= 5; nights++ {
			in := d("2025-06-01").AddDays(nights * 10)
			r, err := e.Ledger.Book(ctx, room.ID, "Guest", in, in.AddDays(nights))
			require.NoError(t, err)
			want, ok := room.NightlyPrice.Times(nights)
			require.True(t, ok)
			assert.Equal(t, want, r.TotalPrice)
			assert.Equal(t, nights, r.Nights())
		}
	}
}

func TestPriceForLongStays(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	r, err := e.Ledger.Book(ctx, "101", "Methuselah", d("2024-01-01"), d("2400-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 137331, r.Nights())
	assert.Equal(t, hotel.Money(137331*10000), r.TotalPrice)

	require.NoError(t, e.Catalog.Add(ctx, hotel.Room{ID: "900", Category: hotel.Suite, NightlyPrice: hotel.MustParseMoney("1000000000000000")}))
	_, err = e.Ledger.Book(ctx, "900", "Croesus", d("2024-01-01"), d("2024-04-10"))
	require.ErrorIs(t, err, internaltypes.ErrInvalidArgument)
	require.ErrorIs(t, err, hotel.ErrAmountTooLarge)
	assert.Len(t, e.Ledger.List(), 1)

	// one night still fits and a zero payment does not confirm it
	r, err = e.Ledger.Book(ctx, "900", "Croesus", d("2024-01-01"), d("2024-01-02"))
	require.NoError(t, err)
	res, err := e.Ledger.Confirm(ctx, r.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInsufficientPayment, res.Outcome)
	assert.Equal(t, r.TotalPrice, res.Shortfall)
}

func TestPendingDoesNotBlockPending(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	a, err := e.Ledger.Book(ctx, "201", "Ann", d("2024-05-01"), d("2024-05-04"))
	require.NoError(t, err)
	b, err := e.Ledger.Book(ctx, "201", "Ben", d("2024-05-02"), d("2024-05-05"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	free, err := e.Availability.IsAvailable("201", d("2024-05-01"), d("2024-05-05"))
	require.NoError(t, err)
	assert.True(t, free, "pending holds do not occupy the room")
}

func TestConfirmIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	e := openTest(t, gw)

	r, err := e.Ledger.Book(ctx, "301", "Cy", d("2024-07-01"), d("2024-07-03"))
	require.NoError(t, err)
	first, err := e.Ledger.Confirm(ctx, r.ID, hotel.MustParseMoney("600"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, first.Outcome)
	assert.Equal(t, hotel.MustParseMoney("100.00"), first.Change)
	_, savesAfterFirst := gw.Saves()

	second, err := e.Ledger.Confirm(ctx, r.ID, hotel.MustParseMoney("600"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyConfirmed, second.Outcome)
	assert.True(t, second.OK())
	assert.Equal(t, hotel.Money(0), second.Change)
	assert.Equal(t, first.Reservation, second.Reservation)

	_, savesAfterSecond := gw.Saves()
	assert.Equal(t, savesAfterFirst, savesAfterSecond)
}

func TestConfirmUnknownReservation(t *testing.T) {
	e := openTest(t, store.NewMemory())
	_, err := e.Ledger.Confirm(context.Background(), "NOPE", 100)
	require.ErrorIs(t, err, internaltypes.ErrNotFound)
}

func TestConfirmRefusesWhenStayAlreadyTaken(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	a, err := e.Ledger.Book(ctx, "102", "Ann", d("2024-08-01"), d("2024-08-03"))
	require.NoError(t, err)
	b, err := e.Ledger.Book(ctx, "102", "Ben", d("2024-08-02"), d("2024-08-04"))
	require.NoError(t, err)

	_, err = e.Ledger.Confirm(ctx, a.ID, a.TotalPrice)
	require.NoError(t, err)

	_, err = e.Ledger.Confirm(ctx, b.ID, b.TotalPrice)
	require.ErrorIs(t, err, internaltypes.ErrUnavailable)
	got, err := e.Ledger.Get(b.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
}

func TestCancelFinality(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	e := openTest(t, gw)

	r, err := e.Ledger.Book(ctx, "202", "Dee", d("2024-09-01"), d("2024-09-04"))
	require.NoError(t, err)
	_, err = e.Ledger.Confirm(ctx, r.ID, r.TotalPrice)
	require.NoError(t, err)

	ok, err := e.Ledger.Cancel(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.Ledger.Get(r.ID)
	require.ErrorIs(t, err, internaltypes.ErrNotFound)

	_, savesBefore := gw.Saves()
	ok, err = e.Ledger.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, savesAfter := gw.Saves()
	assert.Equal(t, savesBefore, savesAfter, "unknown id is not persisted")

	free, err := e.Availability.IsAvailable("202", d("2024-09-01"), d("2024-09-04"))
	require.NoError(t, err)
	assert.True(t, free)

	stored, err := gw.LoadReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIdentifiersAreNeverReissued(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory(), func(o *Options) {
		o.NewID = sequenceIDs("aaaa0001", "AAAA0001", "BBBB0002", "aaaa0001", "bbbb0002", "CCCC0003")
	})

	a, err := e.Ledger.Book(ctx, "101", "Ann", d("2024-01-01"), d("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, "AAAA0001", a.ID)

	b, err := e.Ledger.Book(ctx, "101", "Ben", d("2024-01-01"), d("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, "BBBB0002", b.ID)

	ok, err := e.Ledger.Cancel(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	c, err := e.Ledger.Book(ctx, "101", "Cy", d("2024-01-01"), d("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, "CCCC0003", c.ID, "cancelled identifiers stay retired")
}

func TestLookupsIgnoreCase(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory(), func(o *Options) {
		o.DefaultRooms = []hotel.Room{{ID: "PH1", Category: hotel.Suite, NightlyPrice: 50000}}
	})

	r, err := e.Ledger.Book(ctx, "ph1", "Eve", d("2024-02-01"), d("2024-02-02"))
	require.NoError(t, err)
	assert.Equal(t, "PH1", r.RoomID)

	_, err = e.Ledger.Confirm(ctx, r.ID, r.TotalPrice)
	require.NoError(t, err)
	free, err := e.Availability.IsAvailable("Ph1", d("2024-02-01"), d("2024-02-02"))
	require.NoError(t, err)
	assert.False(t, free)

	got, err := e.Ledger.Get(fmt.Sprintf(" %s ", strings.ToLower(r.ID)))
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())
	var want []string
	for i, room := range []string{"301", "101", "202", "102"} {
		r, err := e.Ledger.Book(ctx, room, fmt.Sprintf("G%d", i), d("2024-10-01"), d("2024-10-02"))
		require.NoError(t, err)
		want = append(want, r.ID)
	}
	_, err := e.Ledger.Cancel(ctx, want[1])
	require.NoError(t, err)
	want = append(want[:1], want[2:]...)

	var got []string
	for _, r := range e.Ledger.List() {
		got = append(got, r.ID)
	}
	assert.Equal(t, want, got)
}

func TestSearchAvailable(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	r, err := e.Ledger.Book(ctx, "201", "Ann", d("2024-12-20"), d("2024-12-27"))
	require.NoError(t, err)
	_, err = e.Ledger.Confirm(ctx, r.ID, r.TotalPrice)
	require.NoError(t, err)

	deluxe := e.Availability.SearchAvailable(hotel.Deluxe, d("2024-12-24"), d("2024-12-26"))
	require.Len(t, deluxe, 1)
	assert.Equal(t, "202", deluxe[0].ID)

	all := e.Availability.SearchAvailable(hotel.AnyCategory, d("2024-12-24"), d("2024-12-26"))
	assert.Len(t, all, 5)

	// checking out the day the confirmed stay begins does not overlap
	before := e.Availability.SearchAvailable(hotel.Deluxe, d("2024-12-18"), d("2024-12-20"))
	assert.Len(t, before, 2)

	r2, err := e.Ledger.Book(ctx, "202", "Ben", d("2024-12-20"), d("2024-12-27"))
	require.NoError(t, err)
	_, err = e.Ledger.Confirm(ctx, r2.ID, r2.TotalPrice)
	require.NoError(t, err)
	none := e.Availability.SearchAvailable(hotel.Deluxe, d("2024-12-24"), d("2024-12-26"))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestIsAvailableUnknownRoom(t *testing.T) {
	e := openTest(t, store.NewMemory())
	_, err := e.Availability.IsAvailable("404", d("2024-01-01"), d("2024-01-02"))
	require.ErrorIs(t, err, internaltypes.ErrNotFound)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	m := metrics.New()
	e := openTest(t, gw, func(o *Options) { o.Metrics = m })

	gw.SetFailSaves(errors.New("disk full"))
	r, err := e.Ledger.Book(ctx, "101", "Ann", d("2024-01-10"), d("2024-01-12"))
	require.ErrorIs(t, err, internaltypes.ErrPersistence)
	require.NotEmpty(t, r.ID)

	got, err := e.Ledger.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("reservations")))

	gw.SetFailSaves(nil)
	require.NoError(t, e.Flush(ctx))
	stored, err := gw.LoadReservations(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, r.ID, stored[0].ID)
}

func TestDeferredPolicyWritesOnFlush(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	e := openTest(t, gw, func(o *Options) { o.Policy = PolicyDeferred })

	_, err := e.Ledger.Book(ctx, "101", "Ann", d("2024-01-10"), d("2024-01-12"))
	require.NoError(t, err)
	_, err = e.Catalog.SetAvailable(ctx, "101", false)
	require.NoError(t, err)
	roomSaves, resSaves := gw.Saves()
	assert.Equal(t, 1, roomSaves, "only the seed")
	assert.Zero(t, resSaves)

	require.NoError(t, e.Close(ctx))
	roomSaves, resSaves = gw.Saves()
	assert.Equal(t, 2, roomSaves)
	assert.Equal(t, 1, resSaves)

	// nothing dirty: no further writes
	require.NoError(t, e.Flush(ctx))
	roomSaves, resSaves = gw.Saves()
	assert.Equal(t, 2, roomSaves)
	assert.Equal(t, 1, resSaves)
}

func TestFlusherWritesDirtyState(t *testing.T) {
	gw := store.NewMemory()
	e := openTest(t, gw, func(o *Options) { o.Policy = PolicyDeferred })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	f := &Flusher{Engine: e, Interval: 10 * time.Millisecond}
	go func() { done <- f.Run(ctx) }()

	_, err := e.Ledger.Book(context.Background(), "102", "Ann", d("2024-01-10"), d("2024-01-12"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, saves := gw.Saves()
		return saves >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("flusher did not stop")
	}
}

func TestCatalogAddAndFlag(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemory()
	e := openTest(t, gw)

	require.NoError(t, e.Catalog.Add(ctx, hotel.Room{ID: "401", Category: hotel.Suite, NightlyPrice: 40000, Available: true}))
	require.ErrorIs(t, e.Catalog.Add(ctx, hotel.Room{ID: "401", Category: hotel.Suite}), internaltypes.ErrConflict)
	require.ErrorIs(t, e.Catalog.Add(ctx, hotel.Room{ID: "402", Category: "ATTIC"}), internaltypes.ErrInvalidArgument)

	room, err := e.Catalog.SetAvailable(ctx, "401", false)
	require.NoError(t, err)
	assert.False(t, room.Available)

	// the advisory flag never gates booking
	_, err = e.Ledger.Book(ctx, "401", "Fay", d("2024-01-01"), d("2024-01-03"))
	require.NoError(t, err)

	_, err = e.Catalog.SetAvailable(ctx, "999", true)
	require.ErrorIs(t, err, internaltypes.ErrNotFound)

	stored, err := gw.LoadRooms(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 7)
	assert.False(t, stored[6].Available)
}

func TestConcurrentBookingsNeverDoubleBook(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())

	const workers = 32
	var confirmed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := d("2024-06-10").AddDays(i % 3)
			r, err := e.Ledger.Book(ctx, "301", fmt.Sprintf("G%d", i), in, in.AddDays(2))
			if err != nil {
				return
			}
			res, err := e.Ledger.Confirm(ctx, r.ID, r.TotalPrice)
			if err == nil && res.Outcome == OutcomeConfirmed {
				confirmed.Add(1)
			}
			_, _ = e.Availability.IsAvailable("301", in, in.AddDays(2))
			_ = e.Ledger.List()
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, confirmed.Load(), int32(1))
	assertNoConfirmedOverlap(t, e.Ledger.List())
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	e := openTest(t, store.NewMemory())
	rooms := e.Catalog.List()
	rng := rand.New(rand.NewSource(42))
	base := d("2025-01-01")

	var ids []string
	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(10); {
		case op < 5:
			room := rooms[rng.Intn(len(rooms))]
			in := base.AddDays(rng.Intn(60))
			out := in.AddDays(rng.Intn(6) - 1)
			r, err := e.Ledger.Book(ctx, room.ID, "Guest", in, out)
			if err == nil {
				ids = append(ids, r.ID)
				want, qerr := hotel.Quote(room.NightlyPrice, in, out)
				require.NoError(t, qerr)
				require.Equal(t, want, r.TotalPrice)
			} else if !errors.Is(err, internaltypes.ErrInvalidDateRange) {
				require.ErrorIs(t, err, internaltypes.ErrUnavailable)
			}
		case op < 8 && len(ids) > 0:
			id := ids[rng.Intn(len(ids))]
			r, err := e.Ledger.Get(id)
			if err != nil {
				continue
			}
			pay := r.TotalPrice + hotel.Money(rng.Intn(20000)-10000)
			_, err = e.Ledger.Confirm(ctx, id, pay)
			if err != nil {
				require.ErrorIs(t, err, internaltypes.ErrUnavailable)
			}
		case len(ids) > 0:
			_, err := e.Ledger.Cancel(ctx, ids[rng.Intn(len(ids))])
			require.NoError(t, err)
		}
	}
	assertNoConfirmedOverlap(t, e.Ledger.List())
}

func assertNoConfirmedOverlap(t *testing.T, rs []hotel.Reservation) {
	t.Helper()
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			a, b := rs[i], rs[j]
			if !a.Confirmed || !b.Confirmed || hotel.RoomKey(a.RoomID) != hotel.RoomKey(b.RoomID) {
				continue
			}
			assert.False(t, a.Overlaps(b.CheckIn, b.CheckOut), "%s and %s overlap on room %s", a.ID, b.ID, a.RoomID)
		}
	}
}
