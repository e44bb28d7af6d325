package cli

import (
	"fmt"
	"io"
	"strings"

	"bus-ticketing/internal/counter"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/seatmap"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	return t
}

func renderBuses(out io.Writer, page *response.PaginatedResponse[response.BusResponse]) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Name", "Number", "Layout", "Seats", "Fare", "Departure", "Active"})
	for _, b := range page.Data {
		t.AppendRow(table.Row{b.ID, b.Name, b.BusNumber, b.CoachLayout, b.SeatCount, fmt.Sprintf("%.2f", b.Fare), b.DepartureTime, yesNo(b.IsActive)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Page", fmt.Sprintf("%d/%d", page.Pagination.Page, page.Pagination.TotalPages)})
	t.Render()
}

func renderRoutes(out io.Writer, page *response.PaginatedResponse[response.RouteResponse]) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Code", "Name", "Boarding points"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 50}})
	for _, r := range page.Data {
		t.AppendRow(table.Row{r.ID, r.RouteCode, r.RouteName, strings.Join(r.BoardingPoints, ", ")})
	}
	t.Render()
}

// renderSeatMap prints one table row per coach row; booked seats show the
// passenger gender.
func renderSeatMap(out io.Writer, layout seatmap.Layout) {
	t := newTable(out)
	t.Style().Options.SeparateRows = true

	var row table.Row
	current := ""
	flush := func() {
		if len(row) > 0 {
			t.AppendRow(row)
		}
	}
	for _, rec := range layout.Seats {
		r := seatmap.Row(rec.SeatID)
		if r != current {
			flush()
			row = table.Row{r}
			current = r
		}
		row = append(row, seatCell(rec))
	}
	flush()
	t.Render()

	counts := layout.Counts()
	fmt.Fprintf(out, "Available %d  Booked %d  Selected %d\n", counts[seatmap.Available], counts[seatmap.Booked], counts[seatmap.Selected])
	if len(layout.Orphans) > 0 {
		fmt.Fprintf(out, "Bookings outside this coach layout: %s\n", joinSeats(layout.Orphans))
	}
}

func seatCell(rec seatmap.SeatRecord) string {
	id := string(rec.SeatID)
	switch rec.Status {
	case seatmap.Booked:
		if rec.Gender == seatmap.Female {
			return text.FgMagenta.Sprint(id + " F")
		}
		return text.FgBlue.Sprint(id + " M")
	case seatmap.Selected:
		return text.FgYellow.Sprint(id + " *")
	default:
		return text.FgGreen.Sprint(id)
	}
}

func renderQuote(out io.Writer, q seatmap.FareQuote) {
	t := newTable(out)
	t.AppendRows([]table.Row{
		{"Per seat", fmt.Sprintf("%.2f", q.PerSeatFare)},
		{"Seats", q.TotalSeats},
		{"Gross", fmt.Sprintf("%.2f", q.GrossPay)},
		{"Discount", fmt.Sprintf("%.2f", q.Discount)},
		{"Net pay", fmt.Sprintf("%.2f", q.NetPay)},
	})
	t.Render()
}

func renderSubmitResult(out io.Writer, res *counter.SubmitResult) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Seat", "Gender", "Result", "Booking", "Order", "Net pay"})
	for _, s := range res.Seats {
		result := text.FgGreen.Sprint("booked")
		netPay := fmt.Sprintf("%.2f", s.NetPay)
		if s.Outcome == counter.SeatFailed {
			result = text.FgRed.Sprint("failed: " + s.Reason)
			netPay = "-"
		}
		t.AppendRow(table.Row{s.Seat, s.Gender, result, s.BookingID, s.OrderID, netPay})
	}
	t.Render()
}

func renderCounter(out io.Writer, c *response.CounterResponse) {
	t := newTable(out)
	t.AppendRows([]table.Row{
		{"Counter", c.CounterCode},
		{"Name", c.Name},
		{"Role", c.Role},
		{"Active", yesNo(c.IsActive)},
	})
	t.Render()
}

func joinSeats(seats []seatmap.SeatID) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
