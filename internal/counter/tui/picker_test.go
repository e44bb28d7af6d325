package tui

import (
	"context"
	"testing"

	"bus-ticketing/internal/counter"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/seatmap"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	booked []response.BookingResponse
}

func (s stubBackend) ListBookings(context.Context, string, string) ([]response.BookingResponse, error) {
	return s.booked, nil
}

func (s stubBackend) CreateBooking(context.Context, *request.CreateBookingRequest) (*response.OrderResponse, error) {
	return &response.OrderResponse{}, nil
}

func (s stubBackend) CancelBooking(context.Context, string) error {
	return nil
}

func newTestPicker(t *testing.T) (pickerModel, *counter.Session) {
	t.Helper()
	backend := stubBackend{booked: []response.BookingResponse{{ID: "b1", SeatNumber: "GD1", Gender: "Female"}}}
	session := counter.NewSession(backend, counter.Identity{CounterCode: "CTR-01", Role: "counter"}, nil)
	trip := counter.Trip{BusID: "bus-1", Name: "Night Coach", CoachLayout: seatmap.LayoutStandard, Fare: 500}
	require.NoError(t, session.Open(context.Background(), trip, "2030-01-15"))

	m := newPicker(context.Background(), session)
	model, _ := m.Update(refreshMsg{})
	return model.(pickerModel), session
}

func press(t *testing.T, m pickerModel, key tea.KeyMsg) (pickerModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(key)
	return model.(pickerModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_ToggleBookedSeatShowsNotice(t *testing.T) {
	m, session := newTestPicker(t)
	require.Equal(t, statePicking, m.state)
	require.Equal(t, seatmap.SeatID("GD1"), m.layout.Seats[0].SeatID)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Contains(t, m.notice, "GD1")
	assert.Empty(t, session.Selected())
}

func TestPicker_MoveToggleAndGender(t *testing.T) {
	m, session := newTestPicker(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, runes("g"))
	assert.Equal(t, seatmap.Female, m.gender)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []seatmap.SeatID{"GD2"}, session.Selected())
	rec, ok := m.layout.Find("GD2")
	require.True(t, ok)
	assert.Equal(t, seatmap.Selected, rec.Status)
	assert.Equal(t, seatmap.Female, rec.Gender)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.cursor)
}

func TestPicker_DoneNeedsSelection(t *testing.T) {
	m, _ := newTestPicker(t)

	m, cmd := press(t, m, runes("d"))
	assert.Nil(t, cmd)
	assert.False(t, m.confirmed)
	assert.NotEmpty(t, m.notice)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, cmd = press(t, m, runes("d"))
	assert.NotNil(t, cmd)
	assert.True(t, m.confirmed)
}

func TestPicker_ClearResetsSelection(t *testing.T) {
	m, session := newTestPicker(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.Len(t, session.Selected(), 1)

	m, _ = press(t, m, runes("c"))
	assert.Empty(t, session.Selected())
	assert.Zero(t, m.layout.Counts()[seatmap.Selected])
	assert.Contains(t, m.View(), "Night Coach")
}

func TestPicker_UpDownFollowSeatRows(t *testing.T) {
	m, _ := newTestPicker(t)

	seatAt := func(m pickerModel) seatmap.SeatID { return m.layout.Seats[m.cursor].SeatID }

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, seatmap.SeatID("A1"), seatAt(m))

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, seatmap.SeatID("GD1"), seatAt(m))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, seatmap.SeatID("GD1"), seatAt(m))

	for range 4 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	require.Equal(t, seatmap.SeatID("EX2"), seatAt(m))
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, seatmap.SeatID("A4"), seatAt(m))

	for range 8 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, seatmap.SeatID("I4"), seatAt(m))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, seatmap.SeatID("J4"), seatAt(m))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, seatmap.SeatID("J4"), seatAt(m))
}
