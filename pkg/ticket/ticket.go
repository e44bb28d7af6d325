// Package ticket renders printable e-tickets.
package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

// Seat is one seat on the ticket.
type Seat struct {
	Number string
	Gender string
}

// Ticket holds everything printed on one order's e-ticket.
type Ticket struct {
	Company       string
	OrderID       string
	BusName       string
	BusNumber     string
	RouteName     string
	TravelDate    time.Time
	DepartureTime string
	PassengerName string
	Mobile        string
	Age           int
	BoardingPoint string
	DroppingPoint string
	Seats         []Seat
	PerSeatFare   float64
	GrossPay      float64
	Discount      float64
	NetPay        float64
	IssuedBy      string
	IssuedAt      time.Time
}

var ErrNoSeats = errors.New("ticket has no seats")

// Render returns the ticket as a PDF document.
func Render(t Ticket) ([]byte, error) {
	if len(t.Seats) == 0 {
		return nil, ErrNoSeats
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+t.OrderID, false)
	pdf.SetAuthor(safe(t.Company, "Bus Ticketing"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(t.Company, "Bus Ticketing"))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Courier", "", 11)
	lines := []string{
		fmt.Sprintf("Order          : %s", safe(t.OrderID, "-")),
		fmt.Sprintf("Bus            : %s (%s)", safe(t.BusName, "-"), safe(t.BusNumber, "-")),
		fmt.Sprintf("Route          : %s", safe(t.RouteName, "-")),
		fmt.Sprintf("Travel date    : %s %s", t.TravelDate.Format("2006-01-02"), safe(t.DepartureTime, "")),
		fmt.Sprintf("Passenger      : %s", safe(t.PassengerName, "-")),
		fmt.Sprintf("Mobile         : %s", safe(t.Mobile, "-")),
		fmt.Sprintf("Age            : %d", t.Age),
		fmt.Sprintf("Boarding       : %s", safe(t.BoardingPoint, "-")),
		fmt.Sprintf("Dropping       : %s", safe(t.DroppingPoint, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}

	// seat table
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 7, "Seat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Gender", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Fare", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, seat := range t.Seats {
		pdf.CellFormat(40, 7, seat.Number, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, seat.Gender, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, Money(t.PerSeatFare), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Courier", "", 11)
	totals := []string{
		fmt.Sprintf("Seats          : %d", len(t.Seats)),
		fmt.Sprintf("Gross          : %s", Money(t.GrossPay)),
		fmt.Sprintf("Discount       : %s", Money(t.Discount)),
	}
	for _, s := range totals {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}
	pdf.SetFont("Courier", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay        : %s", Money(t.NetPay)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	issued := fmt.Sprintf("Issued by %s at %s. Please show this ticket when boarding.",
		safe(t.IssuedBy, "counter"), t.IssuedAt.Format("2006-01-02 15:04"))
	pdf.MultiCell(0, 5, issued, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket %s: %w", t.OrderID, err)
	}

	return buf.Bytes(), nil
}

// Filename is the suggested download name for the ticket.
func Filename(t Ticket) string {
	return fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(t.OrderID), safeFilenamePart(t.PassengerName))
}

// Money formats an amount with two decimals and thousands separators.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
