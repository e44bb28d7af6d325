package seatmap

import "errors"

var (
	ErrSeatBooked     = errors.New("seat already booked")
	ErrUnknownSeat    = errors.New("seat not in coach layout")
	ErrGenderRequired = errors.New("gender is required to select a seat")
)

type selected struct {
	seat   SeatID
	gender Gender
}

// Selection is the ordered set of seats picked in the current booking, each
// tagged with the passenger gender it is booked for. Not safe for concurrent
// use; the counter session guards it.
type Selection struct {
	catalog *Catalog
	items   []selected
}

func NewSelection(c *Catalog) *Selection {
	return &Selection{catalog: c}
}

// Toggle deselects a selected seat or selects an unselected one. Booked seats
// are never selectable; the call fails without changing anything. It reports
// whether the seat is selected afterwards.
func (s *Selection) Toggle(seat SeatID, gender Gender, booked map[SeatID]Gender) (bool, error) {
	if _, ok := booked[seat]; ok {
		return s.Contains(seat), ErrSeatBooked
	}
	if s.catalog != nil && !s.catalog.Contains(seat) {
		return false, ErrUnknownSeat
	}

	if i := s.indexOf(seat); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return false, nil
	}

	if !gender.Valid() {
		return false, ErrGenderRequired
	}
	s.items = append(s.items, selected{seat: seat, gender: gender})
	return true, nil
}

// Prune drops seats that have become booked and returns them.
func (s *Selection) Prune(booked map[SeatID]Gender) []SeatID {
	var dropped []SeatID
	kept := s.items[:0]
	for _, it := range s.items {
		if _, ok := booked[it.seat]; ok {
			dropped = append(dropped, it.seat)
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return dropped
}

// Remove deselects the given seats if present.
func (s *Selection) Remove(seats ...SeatID) {
	for _, seat := range seats {
		if i := s.indexOf(seat); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	}
}

func (s *Selection) Clear() {
	s.items = nil
}

func (s *Selection) Len() int {
	return len(s.items)
}

func (s *Selection) Contains(seat SeatID) bool {
	return s.indexOf(seat) >= 0
}

// GenderOf returns the gender tag of a selected seat, or "".
func (s *Selection) GenderOf(seat SeatID) Gender {
	if i := s.indexOf(seat); i >= 0 {
		return s.items[i].gender
	}
	return ""
}

// Seats returns selected seats in selection order.
func (s *Selection) Seats() []SeatID {
	out := make([]SeatID, len(s.items))
	for i, it := range s.items {
		out[i] = it.seat
	}
	return out
}

func (s *Selection) indexOf(seat SeatID) int {
	for i, it := range s.items {
		if it.seat == seat {
			return i
		}
	}
	return -1
}
