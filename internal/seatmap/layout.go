package seatmap

import (
	"fmt"
	"sort"
	"strings"
)

// Gender of the passenger holding or selecting a seat.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender accepts "male"/"female" in any case, plus "m"/"f".
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return "", fmt.Errorf("invalid gender %q", s)
}

func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Status of a seat in a rendered layout.
type Status string

const (
	Available Status = "available"
	Booked    Status = "booked"
	Selected  Status = "selected"
)

// SeatRecord is one entry of a rendered layout. Gender is set for booked
// seats (booking's gender) and selected seats (selection tag).
type SeatRecord struct {
	SeatID SeatID `json:"seatId"`
	Status Status `json:"status"`
	Gender Gender `json:"gender,omitempty"`
}

// Layout is the reconciled view of a coach. Orphans holds booked seat ids that
// are not part of the catalog; they are left out of Seats.
type Layout struct {
	Catalog string       `json:"catalog"`
	Seats   []SeatRecord `json:"seats"`
	Orphans []SeatID     `json:"orphans,omitempty"`
}

// BuildLayout merges the catalog with booked seats and the local selection.
// Booked always wins over Selected. sel may be nil.
func BuildLayout(c *Catalog, booked map[SeatID]Gender, sel *Selection) Layout {
	out := Layout{
		Catalog: c.Name,
		Seats:   make([]SeatRecord, len(c.seats)),
	}

	for i, id := range c.seats {
		rec := SeatRecord{SeatID: id, Status: Available}
		if g, ok := booked[id]; ok {
			rec.Status = Booked
			rec.Gender = g
		} else if sel != nil && sel.Contains(id) {
			rec.Status = Selected
			rec.Gender = sel.GenderOf(id)
		}
		out.Seats[i] = rec
	}

	for id := range booked {
		if !c.Contains(id) {
			out.Orphans = append(out.Orphans, id)
		}
	}
	sort.Slice(out.Orphans, func(i, j int) bool { return out.Orphans[i] < out.Orphans[j] })

	return out
}

// Counts returns how many seats are in each status.
func (l Layout) Counts() map[Status]int {
	counts := map[Status]int{Available: 0, Booked: 0, Selected: 0}
	for _, s := range l.Seats {
		counts[s.Status]++
	}
	return counts
}

// Find returns the record for a seat.
func (l Layout) Find(id SeatID) (SeatRecord, bool) {
	for _, s := range l.Seats {
		if s.SeatID == id {
			return s, true
		}
	}
	return SeatRecord{}, false
}
