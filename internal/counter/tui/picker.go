// Package tui is the interactive seat picker of the counter CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bus-ticketing/internal/counter"
	"bus-ticketing/internal/seatmap"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pickerState int

const (
	stateLoading pickerState = iota
	statePicking
	stateError
)

var (
	styleAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleMale      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleFemale    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleCursor    = lipgloss.NewStyle().Reverse(true)
	styleNotice    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTitle     = lipgloss.NewStyle().Bold(true)
)

type refreshMsg struct {
	err error
}

type pickerModel struct {
	ctx     context.Context
	session *counter.Session

	state   pickerState
	err     error
	notice  string
	spinner spinner.Model

	layout    seatmap.Layout
	cursor    int
	gender    seatmap.Gender
	confirmed bool
}

func newPicker(ctx context.Context, session *counter.Session) pickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	return pickerModel{
		ctx:     ctx,
		session: session,
		state:   stateLoading,
		gender:  seatmap.Male,
		spinner: sp,
	}
}

// Run shows the seat picker for an opened session. It reports whether the
// operator confirmed the selection.
func Run(ctx context.Context, session *counter.Session) (bool, error) {
	final, err := tea.NewProgram(newPicker(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(pickerModel)
	if !ok {
		return false, errors.New("unexpected picker state")
	}
	if m.err != nil {
		return false, m.err
	}
	return m.confirmed, nil
}

func (m pickerModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m pickerModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{err: m.session.Refresh(m.ctx)}
	}
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if msg.err != nil && !errors.Is(msg.err, counter.ErrStaleSnapshot) {
			m.state = stateError
			m.err = msg.err
			return m, nil
		}
		m.state = statePicking
		m.err = nil
		m.reload()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.confirmed = false
		return m, tea.Quit
	}

	if m.state != statePicking {
		return m, nil
	}
	m.notice = ""

	switch msg.String() {
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "g":
		if m.gender == seatmap.Male {
			m.gender = seatmap.Female
		} else {
			m.gender = seatmap.Male
		}
	case " ", "enter":
		m.toggle()
	case "r":
		m.state = stateLoading
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
	case "c":
		m.session.Reset()
		m.reload()
	case "d":
		if len(m.session.Selected()) == 0 {
			m.notice = "Select at least one seat."
			return m, nil
		}
		m.confirmed = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *pickerModel) move(delta int) {
	n := len(m.layout.Seats)
	if n == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	m.cursor = next
}

// moveRow moves the cursor to the same column of the previous or next seat
// row, clamped to that row's last seat.
func (m *pickerModel) moveRow(dir int) {
	rows := seatRows(m.layout.Seats)
	if len(rows) == 0 {
		return
	}

	current, col := 0, 0
	for i, r := range rows {
		if m.cursor >= r.start && m.cursor < r.start+r.size {
			current, col = i, m.cursor-r.start
			break
		}
	}

	target := current + dir
	if target < 0 || target >= len(rows) {
		return
	}
	m.cursor = rows[target].start + min(col, rows[target].size-1)
}

type seatRow struct {
	start int
	size  int
}

// seatRows groups consecutive seats that share a seatmap.Row label.
func seatRows(seats []seatmap.SeatRecord) []seatRow {
	var rows []seatRow
	label := ""
	for i, rec := range seats {
		r := seatmap.Row(rec.SeatID)
		if len(rows) == 0 || r != label {
			rows = append(rows, seatRow{start: i})
			label = r
		}
		rows[len(rows)-1].size++
	}
	return rows
}

func (m *pickerModel) toggle() {
	if m.cursor >= len(m.layout.Seats) {
		return
	}
	seat := m.layout.Seats[m.cursor].SeatID
	if _, err := m.session.Toggle(seat, m.gender); err != nil {
		if errors.Is(err, seatmap.ErrSeatBooked) {
			m.notice = fmt.Sprintf("Seat %s is already booked.", seat)
		} else {
			m.notice = err.Error()
		}
	}
	m.reload()
}

func (m *pickerModel) reload() {
	layout, err := m.session.Layout()
	if err != nil {
		m.state = stateError
		m.err = err
		return
	}
	m.layout = layout
	if m.cursor >= len(layout.Seats) {
		m.cursor = 0
	}
}

func (m pickerModel) View() string {
	trip, date, _ := m.session.Trip()
	header := styleTitle.Render(fmt.Sprintf("%s  %s  %s", trip.Name, trip.BusNumber, date))

	switch m.state {
	case stateLoading:
		return header + "\n\n" + m.spinner.View() + " Loading booked seats..."
	case stateError:
		return header + "\n\n" + styleNotice.Render(m.err.Error()) + "\n\n" + hint("Press q to quit.")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(m.renderSeats())
	b.WriteString("\n")

	counts := m.layout.Counts()
	quote, _ := m.session.Quote(0)
	b.WriteString(fmt.Sprintf("Available %d  Booked %d  Selected %d  Gross %.2f\n",
		counts[seatmap.Available], counts[seatmap.Booked], counts[seatmap.Selected], quote.GrossPay))
	b.WriteString(fmt.Sprintf("Selecting for: %s\n", m.gender))
	if m.notice != "" {
		b.WriteString(styleNotice.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hint("arrows move  space toggle  g gender  r refresh  c clear  d done  q quit"))
	return b.String()
}

func (m pickerModel) renderSeats() string {
	var b strings.Builder
	row := ""
	for i, rec := range m.layout.Seats {
		r := seatmap.Row(rec.SeatID)
		if r != row {
			if row != "" {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("%-6s", r))
			row = r
		}

		cell := fmt.Sprintf("%-4s", rec.SeatID)
		switch rec.Status {
		case seatmap.Booked:
			if rec.Gender == seatmap.Female {
				cell = styleFemale.Render(cell)
			} else {
				cell = styleMale.Render(cell)
			}
		case seatmap.Selected:
			cell = styleSelected.Render(cell)
		default:
			cell = styleAvailable.Render(cell)
		}
		if i == m.cursor {
			cell = styleCursor.Render(cell)
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(hint("green free  blue male  magenta female  yellow selected"))
	return b.String()
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}
