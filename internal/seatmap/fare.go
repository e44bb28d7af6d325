package seatmap

// FareQuote is the price breakdown for a set of selected seats.
type FareQuote struct {
	PerSeatFare float64 `json:"perSeatFare"`
	TotalSeats  int     `json:"totalSeats"`
	GrossPay    float64 `json:"grossPay"`
	Discount    float64 `json:"discount"`
	NetPay      float64 `json:"netPay"`
}

// Quote computes the fare for count seats. NetPay is not clamped; use
// ValidateQuote before booking.
func Quote(perSeatFare float64, count int, discount float64) FareQuote {
	gross := perSeatFare * float64(count)
	return FareQuote{
		PerSeatFare: perSeatFare,
		TotalSeats:  count,
		GrossPay:    gross,
		Discount:    discount,
		NetPay:      gross - discount,
	}
}

// ValidateQuote rejects quotes that cannot be booked: a negative discount or
// a discount larger than the gross pay.
func ValidateQuote(q FareQuote) error {
	if q.Discount < 0 {
		return &ValidationError{Fields: map[string]string{"discount": "Discount cannot be negative"}}
	}
	if q.NetPay < 0 {
		return &ValidationError{Fields: map[string]string{"discount": "Discount cannot exceed gross pay"}}
	}
	return nil
}

// SplitNetPay pro-rates the total net pay over n seats.
func SplitNetPay(netPay float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return netPay / float64(n)
}
