package cli

import (
	"errors"
	"strconv"
	"strings"

	"bus-ticketing/internal/seatmap"

	"github.com/manifoldco/promptui"
)

func validateRequired(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("required")
	}
	return nil
}

func validateMobile(input string) error {
	if len(strings.TrimSpace(input)) < 14 {
		return errors.New("mobile must be at least 14 characters, e.g. +8801712345678")
	}
	return nil
}

func validateAge(input string) error {
	age, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || age < 1 || age > 120 {
		return errors.New("age must be between 1 and 120")
	}
	return nil
}

func validateAmount(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || v < 0 {
		return errors.New("enter a non-negative amount")
	}
	return nil
}

func promptText(label string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Validate: validate}
	v, err := p.Run()
	return strings.TrimSpace(v), err
}

func promptPassword(label string) (string, error) {
	p := promptui.Prompt{Label: label, Mask: '*', Validate: validateRequired}
	return p.Run()
}

func promptChoice(label string, items []string) (string, error) {
	s := promptui.Select{Label: label, Items: items}
	_, v, err := s.Run()
	return v, err
}

func promptConfirm(label string) bool {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	return err == nil
}

// promptPassenger asks for every passenger field. Boarding and dropping
// points are picked from the route when it has any.
func promptPassenger(points []string) (seatmap.Passenger, error) {
	var p seatmap.Passenger
	var err error

	if p.Name, err = promptText("Passenger name", validateRequired); err != nil {
		return p, err
	}
	if p.Mobile, err = promptText("Mobile", validateMobile); err != nil {
		return p, err
	}
	if p.Gender, err = promptChoice("Gender", []string{string(seatmap.Male), string(seatmap.Female)}); err != nil {
		return p, err
	}
	age, err := promptText("Age", validateAge)
	if err != nil {
		return p, err
	}
	p.Age, _ = strconv.Atoi(age)

	if len(points) > 0 {
		if p.BoardingPoint, err = promptChoice("Boarding point", points); err != nil {
			return p, err
		}
		if p.DroppingPoint, err = promptChoice("Dropping point", points); err != nil {
			return p, err
		}
	} else {
		if p.BoardingPoint, err = promptText("Boarding point", validateRequired); err != nil {
			return p, err
		}
		if p.DroppingPoint, err = promptText("Dropping point", validateRequired); err != nil {
			return p, err
		}
	}
	return p, nil
}

func parseAmount(input string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(input), 64)
	return v
}
