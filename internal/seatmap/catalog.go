// Package seatmap builds coach seat layouts and reconciles them with booked
// seats and a local selection. It has no I/O; the API server and the counter
// client both use it, so seat state is derived the same way on both sides.
package seatmap

import (
	"fmt"
	"sort"
	"strings"
)

// SeatID identifies a physical seat position, e.g. "A1", "GD1", "J5".
type SeatID string

// Coach layout names. The layout of a bus is stored on the bus record.
const (
	LayoutCompact  = "compact"
	LayoutStandard = "standard"
	LayoutExtended = "extended"
)

const (
	gridRows    = "ABCDEFGHI"
	gridColumns = 4
	rearRow     = "J"
	rearSeats   = 5
)

// Catalog is the fixed, ordered list of seats for one coach template.
// Order decides grid placement and must stay stable.
type Catalog struct {
	Name  string
	seats []SeatID
	index map[SeatID]int
}

var catalogs = map[string]*Catalog{
	LayoutCompact:  newCatalog(LayoutCompact, "GD1", "EX1", "EX2"),
	LayoutStandard: newCatalog(LayoutStandard, "GD1", "GD2", "GD3", "EX1", "EX2"),
	LayoutExtended: newCatalog(LayoutExtended, "GD1", "GD2", "GD3", "EX1", "EX2", "EX3", "EX4"),
}

func newCatalog(name string, front ...SeatID) *Catalog {
	seats := make([]SeatID, 0, len(front)+len(gridRows)*gridColumns+rearSeats)
	seats = append(seats, front...)
	for _, row := range gridRows {
		for col := 1; col <= gridColumns; col++ {
			seats = append(seats, SeatID(fmt.Sprintf("%c%d", row, col)))
		}
	}
	for col := 1; col <= rearSeats; col++ {
		seats = append(seats, SeatID(fmt.Sprintf("%s%d", rearRow, col)))
	}
	return NewCatalog(name, seats)
}

// NewCatalog builds a catalog from an explicit seat order. Duplicate seats keep
// their first position.
func NewCatalog(name string, seats []SeatID) *Catalog {
	c := &Catalog{
		Name:  name,
		seats: make([]SeatID, 0, len(seats)),
		index: make(map[SeatID]int, len(seats)),
	}
	for _, s := range seats {
		if _, dup := c.index[s]; dup {
			continue
		}
		c.index[s] = len(c.seats)
		c.seats = append(c.seats, s)
	}
	return c
}

// LookupCatalog returns the catalog for a coach layout name. An empty name
// means the standard layout.
func LookupCatalog(name string) (*Catalog, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = LayoutStandard
	}
	c, ok := catalogs[key]
	if !ok {
		return nil, fmt.Errorf("invalid coach layout %q: must be one of %s", name, strings.Join(LayoutNames(), ", "))
	}
	return c, nil
}

// LayoutNames lists the known coach layouts in alphabetical order.
func LayoutNames() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seats returns a copy of the catalog order.
func (c *Catalog) Seats() []SeatID {
	out := make([]SeatID, len(c.seats))
	copy(out, c.seats)
	return out
}

func (c *Catalog) Len() int {
	return len(c.seats)
}

func (c *Catalog) Contains(seat SeatID) bool {
	_, ok := c.index[seat]
	return ok
}

// Row returns the display row of a seat: the letter prefix for grid and rear
// seats, "FRONT" for the special front seats.
func Row(seat SeatID) string {
	s := string(seat)
	if strings.HasPrefix(s, "GD") || strings.HasPrefix(s, "EX") {
		return "FRONT"
	}
	if len(s) == 0 {
		return ""
	}
	return s[:1]
}
