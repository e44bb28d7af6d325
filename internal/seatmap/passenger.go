package seatmap

import (
	"strings"

	"bus-ticketing/pkg/utils"
)

// Passenger holds the form fields required for every booking.
type Passenger struct {
	Name          string `json:"passengerName" validate:"required"`
	Mobile        string `json:"mobile" validate:"required,min=14"`
	Gender        string `json:"gender" validate:"required,oneof=Male Female"`
	Age           int    `json:"age" validate:"required,min=1,max=120"`
	BoardingPoint string `json:"boardingPoint" validate:"required"`
	DroppingPoint string `json:"droppingPoint" validate:"required"`
}

// ValidationError carries a message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

// Normalize trims every text field and canonicalizes gender.
func (p Passenger) Normalize() Passenger {
	p.Name = strings.TrimSpace(p.Name)
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.BoardingPoint = strings.TrimSpace(p.BoardingPoint)
	p.DroppingPoint = strings.TrimSpace(p.DroppingPoint)
	if g, err := ParseGender(p.Gender); err == nil {
		p.Gender = string(g)
	} else {
		p.Gender = strings.TrimSpace(p.Gender)
	}
	return p
}

// ValidatePassenger checks the normalized passenger. Whitespace-only values
// count as missing.
func ValidatePassenger(p Passenger) error {
	errs := utils.ValidateStruct(p.Normalize())
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
