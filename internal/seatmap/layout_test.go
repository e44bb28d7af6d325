package seatmap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayout_PreservesCatalogOrder(t *testing.T) {
	c, _ := LookupCatalog(LayoutExtended)
	layout := BuildLayout(c, nil, nil)

	require.Len(t, layout.Seats, c.Len())
	for i, id := range c.Seats() {
		assert.Equal(t, id, layout.Seats[i].SeatID)
		assert.Equal(t, Available, layout.Seats[i].Status)
	}
	assert.Empty(t, layout.Orphans)
}

func TestBuildLayout_BookedWinsOverSelected(t *testing.T) {
	c := NewCatalog("tiny", []SeatID{"A1", "A2", "A3", "A4"})
	sel := NewSelection(c)
	_, err := sel.Toggle("A2", Female, nil)
	require.NoError(t, err)
	_, err = sel.Toggle("A3", Male, nil)
	require.NoError(t, err)

	// A2 got booked elsewhere after it was selected
	layout := BuildLayout(c, map[SeatID]Gender{"A1": Male, "A2": Male, "Q7": Female, "B0": Male}, sel)

	want := []SeatRecord{
		{SeatID: "A1", Status: Booked, Gender: Male},
		{SeatID: "A2", Status: Booked, Gender: Male},
		{SeatID: "A3", Status: Selected, Gender: Male},
		{SeatID: "A4", Status: Available},
	}
	assert.Equal(t, want, layout.Seats)
	assert.Equal(t, []SeatID{"B0", "Q7"}, layout.Orphans)
	assert.Equal(t, map[Status]int{Available: 1, Booked: 2, Selected: 1}, layout.Counts())
}

func TestLayoutFind(t *testing.T) {
	c := NewCatalog("tiny", []SeatID{"A1"})
	layout := BuildLayout(c, nil, nil)

	rec, ok := layout.Find("A1")
	assert.True(t, ok)
	assert.Equal(t, Available, rec.Status)

	_, ok = layout.Find("A9")
	assert.False(t, ok)
}

// Every booked catalog seat renders as Booked and every other seat is either
// Available or Selected, for random booked maps and toggle sequences. Booked
// seats never become Selected.
func TestBuildLayout_RandomToggles(t *testing.T) {
	c, _ := LookupCatalog(LayoutStandard)
	seats := c.Seats()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		booked := map[SeatID]Gender{}
		for _, s := range seats {
			if rng.Intn(3) == 0 {
				booked[s] = []Gender{Male, Female}[rng.Intn(2)]
			}
		}

		sel := NewSelection(c)
		for i := 0; i < 40; i++ {
			seat := seats[rng.Intn(len(seats))]
			before := sel.Seats()
			_, err := sel.Toggle(seat, Male, booked)
			if _, isBooked := booked[seat]; isBooked {
				require.ErrorIs(t, err, ErrSeatBooked)
				require.Equal(t, before, sel.Seats())
			} else {
				require.NoError(t, err)
			}
		}

		layout := BuildLayout(c, booked, sel)
		require.Len(t, layout.Seats, c.Len())
		for _, rec := range layout.Seats {
			_, isBooked := booked[rec.SeatID]
			switch {
			case isBooked:
				require.Equal(t, Booked, rec.Status, rec.SeatID)
				require.False(t, sel.Contains(rec.SeatID))
			case sel.Contains(rec.SeatID):
				require.Equal(t, Selected, rec.Status, rec.SeatID)
			default:
				require.Equal(t, Available, rec.Status, rec.SeatID)
			}
		}
	}
}
