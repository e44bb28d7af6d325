package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_RoundTrip(t *testing.T) {
	c, _ := LookupCatalog(LayoutStandard)
	sel := NewSelection(c)
	_, _ = sel.Toggle("B2", Female, nil)
	before := sel.Seats()

	on, err := sel.Toggle("C3", Male, nil)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, Male, sel.GenderOf("C3"))

	on, err = sel.Toggle("C3", "", nil)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, before, sel.Seats())
}

func TestToggle_Errors(t *testing.T) {
	c, _ := LookupCatalog(LayoutCompact)
	sel := NewSelection(c)

	_, err := sel.Toggle("A1", Male, map[SeatID]Gender{"A1": Female})
	assert.ErrorIs(t, err, ErrSeatBooked)

	_, err = sel.Toggle("GD2", Male, nil)
	assert.ErrorIs(t, err, ErrUnknownSeat)

	_, err = sel.Toggle("A2", "", nil)
	assert.ErrorIs(t, err, ErrGenderRequired)

	assert.Zero(t, sel.Len())
}

// Catalog [A1..A4], A1 booked, price 500: selecting A2 and A3 quotes 1000 and
// A1 cannot be selected.
func TestSelectionScenario(t *testing.T) {
	c := NewCatalog("scenario", []SeatID{"A1", "A2", "A3", "A4"})
	booked := map[SeatID]Gender{"A1": Male}
	sel := NewSelection(c)

	_, err := sel.Toggle("A2", Male, booked)
	require.NoError(t, err)
	_, err = sel.Toggle("A3", Male, booked)
	require.NoError(t, err)
	_, err = sel.Toggle("A1", Male, booked)
	assert.ErrorIs(t, err, ErrSeatBooked)

	assert.Equal(t, FareQuote{PerSeatFare: 500, TotalSeats: 2, GrossPay: 1000, Discount: 0, NetPay: 1000}, Quote(500, sel.Len(), 0))
	assert.Equal(t, []SeatID{"A2", "A3"}, sel.Seats())
}

func TestPruneRemoveClear(t *testing.T) {
	sel := NewSelection(nil)
	for _, s := range []SeatID{"A1", "A2", "A3"} {
		_, err := sel.Toggle(s, Female, nil)
		require.NoError(t, err)
	}

	dropped := sel.Prune(map[SeatID]Gender{"A2": Male})
	assert.Equal(t, []SeatID{"A2"}, dropped)
	assert.Equal(t, []SeatID{"A1", "A3"}, sel.Seats())

	sel.Remove("A3", "Z9")
	assert.Equal(t, []SeatID{"A1"}, sel.Seats())

	sel.Clear()
	assert.Zero(t, sel.Len())
	assert.Equal(t, Gender(""), sel.GenderOf("A1"))
}
