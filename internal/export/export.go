// Package export renders the catalog, the ledger and a per-night occupancy
// grid into an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/hotel-reservations/internal/domain/hotel"
	"github.com/example/hotel-reservations/internal/internaltypes"
)

const (
	SheetRooms        = "Rooms"
	SheetReservations = "Reservations"
	SheetOccupancy    = "Occupancy"

	// MaxNights bounds the occupancy grid width.
	MaxNights = 366
)

type styles struct {
	header, free, pending, booked int
}

// Workbook builds the three sheets. The occupancy grid covers the nights
// from through to-1.
func Workbook(rooms []hotel.Room, rs []hotel.Reservation, from, to hotel.Date) (*excelize.File, error) {
	nights := from.DaysUntil(to)
	if nights <= 0 {
		return nil, fmt.Errorf("%s to %s: %w", from, to, internaltypes.ErrInvalidDateRange)
	}
	if nights > MaxNights {
		return nil, fmt.Errorf("%w: export covers %d nights, at most %d", internaltypes.ErrInvalidArgument, nights, MaxNights)
	}

	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	for _, build := range []func() error{
		func() error { return roomsSheet(f, st, rooms) },
		func() error { return reservationsSheet(f, st, rs) },
		func() error { return occupancySheet(f, st, rooms, rs, from, nights) },
	} {
		if err := build(); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetOccupancy); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, rooms []hotel.Room, rs []hotel.Reservation, from, to hotel.Date) error {
	f, err := Workbook(rooms, rs, from, to)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	cell := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		})
	}
	if st.free, err = cell("#C6EFCE"); err != nil {
		return st, err
	}
	if st.pending, err = cell("#FFEB9C"); err != nil {
		return st, err
	}
	st.booked, err = cell("#FFC7CE")
	return st, err
}

func writeHeader(f *excelize.File, sheet string, style int, cols ...string) error {
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func roomsSheet(f *excelize.File, st styles, rooms []hotel.Room) error {
	if _, err := f.NewSheet(SheetRooms); err != nil {
		return err
	}
	if err := writeHeader(f, SheetRooms, st.header, "Room", "Category", "Price/night", "Available"); err != nil {
		return err
	}
	for i, r := range rooms {
		if err := writeRow(f, SheetRooms, i+2, r.ID, r.Category.Label(), r.NightlyPrice.String(), r.Available); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRooms, "A", "D", 14)
}

func reservationsSheet(f *excelize.File, st styles, rs []hotel.Reservation) error {
	if _, err := f.NewSheet(SheetReservations); err != nil {
		return err
	}
	if err := writeHeader(f, SheetReservations, st.header,
		"ID", "Room", "Guest", "Check-in", "Check-out", "Nights", "Total", "Status"); err != nil {
		return err
	}
	for i, r := range rs {
		if err := writeRow(f, SheetReservations, i+2,
			r.ID, r.RoomID, r.GuestName, r.CheckIn.String(), r.CheckOut.String(), r.Nights(), r.TotalPrice.String(), r.Status()); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetReservations, "A", "H", 14); err != nil {
		return err
	}
	return f.SetColWidth(SheetReservations, "C", "C", 24)
}

// occupancySheet lays rooms down the first column and nights across the
// first row. A cell names the confirmed guest, lists pending holds, or
// reads "free".
func occupancySheet(f *excelize.File, st styles, rooms []hotel.Room, rs []hotel.Reservation, from hotel.Date, nights int) error {
	if _, err := f.NewSheet(SheetOccupancy); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetOccupancy, "A1", "Room"); err != nil {
		return err
	}
	for n := 0; n < nights; n++ {
		cell, _ := excelize.CoordinatesToCellName(n+2, 1)
		if err := f.SetCellValue(SheetOccupancy, cell, from.AddDays(n).String()); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(nights+1, 1)
	if err := f.SetCellStyle(SheetOccupancy, "A1", last, st.header); err != nil {
		return err
	}

	byRoom := map[string][]hotel.Reservation{}
	for _, r := range rs {
		k := hotel.RoomKey(r.RoomID)
		byRoom[k] = append(byRoom[k], r)
	}

	for i, room := range rooms {
		row := i + 2
		label, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(SheetOccupancy, label, fmt.Sprintf("%s (%s)", room.ID, room.Category.Label())); err != nil {
			return err
		}
		for n := 0; n < nights; n++ {
			night := from.AddDays(n)
			text, style := nightCell(byRoom[hotel.RoomKey(room.ID)], night, st)
			cell, _ := excelize.CoordinatesToCellName(n+2, row)
			if err := f.SetCellValue(SheetOccupancy, cell, text); err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetOccupancy, cell, cell, style); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SheetOccupancy, "A", "A", 20); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(nights + 1)
	return f.SetColWidth(SheetOccupancy, "B", lastCol, 16)
}

func nightCell(rs []hotel.Reservation, night hotel.Date, st styles) (string, int) {
	var pending []string
	for _, r := range rs {
		if !r.Overlaps(night, night.AddDays(1)) {
			continue
		}
		if r.Confirmed {
			return r.GuestName, st.booked
		}
		pending = append(pending, r.GuestName+" (pending)")
	}
	if len(pending) > 0 {
		return strings.Join(pending, "\n"), st.pending
	}
	return "free", st.free
}
