// Package seatmap arranges a schedule's seat inventory into rows and columns.
package seatmap

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"busbooking/internal/seats"
	"busbooking/pkg/logger"
)

var (
	errSeparator = errors.New("label must contain exactly one '-'")
	errNoRow     = errors.New("label has no row number")
	errNoColumn  = errors.New("label has no column letter")
)

// Position is a parsed seat label.
type Position struct {
	Section string
	Row     int
	Column  string
}

// Row is one row of the map, seats ordered by column.
type Row struct {
	Number int          `json:"row"`
	Seats  []seats.Seat `json:"seats"`
}

// Map is a derived, read-only view; rebuild it whenever the inventory changes.
type Map struct {
	rows []Row
}

// ParseLabel splits "<section>-<row><column>" into its parts.
func ParseLabel(label string) (Position, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return Position{}, errSeparator
	}

	tail := strings.TrimSpace(parts[1])
	var digits strings.Builder
	for _, r := range tail {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return Position{}, errNoRow
	}
	row, err := strconv.Atoi(digits.String())
	if err != nil {
		return Position{}, errNoRow
	}

	last := []rune(tail)[len([]rune(tail))-1]
	if !unicode.IsLetter(last) {
		return Position{}, errNoColumn
	}

	return Position{
		Section: strings.TrimSpace(parts[0]),
		Row:     row,
		Column:  string(last),
	}, nil
}

// Build groups seats by row number. Seats whose label does not parse are logged and left out.
func Build(ctx context.Context, inventory []seats.Seat) Map {
	byRow := make(map[int][]placed)
	for _, seat := range inventory {
		pos, err := ParseLabel(seat.SeatNumber)
		if err != nil {
			logger.GetDefault().LogSeatDropped(ctx, seat.ID.String(), seat.SeatNumber, err.Error())
			continue
		}
		byRow[pos.Row] = append(byRow[pos.Row], placed{seat: seat, column: pos.Column})
	}

	numbers := make([]int, 0, len(byRow))
	for n := range byRow {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	rows := make([]Row, 0, len(numbers))
	for _, n := range numbers {
		entries := byRow[n]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].column < entries[j].column
		})
		row := Row{Number: n, Seats: make([]seats.Seat, 0, len(entries))}
		for _, e := range entries {
			row.Seats = append(row.Seats, e.seat)
		}
		rows = append(rows, row)
	}

	return Map{rows: rows}
}

type placed struct {
	seat   seats.Seat
	column string
}

func (m Map) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m Map) Row(number int) (Row, bool) {
	for _, r := range m.rows {
		if r.Number == number {
			return r, true
		}
	}
	return Row{}, false
}

func (m Map) IsEmpty() bool {
	return len(m.rows) == 0
}

func (m Map) SeatCount() int {
	n := 0
	for _, r := range m.rows {
		n += len(r.Seats)
	}
	return n
}

// Lookup finds a placed seat by ID. Seats dropped from the map are not found.
func (m Map) Lookup(id string) (seats.Seat, bool) {
	for _, r := range m.rows {
		for _, s := range r.Seats {
			if s.ID.String() == id {
				return s, true
			}
		}
	}
	return seats.Seat{}, false
}
