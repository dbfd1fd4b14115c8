package routebuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"farelink_admin/internal/models"
)

var (
	ErrInvalidFare  = errors.New("fare must be a non-negative amount")
	ErrLegReadOnly  = errors.New("sub-route already has prices set")
	ErrLegNotFound  = errors.New("sub-route not found")
	ErrNoFareChange = errors.New("fare or kids fare is required")
)

// FormatFareInput formats digit input cash-register style: the two rightmost digits are
// always the cents. Anything but digits is dropped, so feeding back a displayed value
// with one more digit typed shifts it left ("0.01" + "2" -> "0.12").
// A cleared field stores "0.00" but displays blank.
func FormatFareInput(raw string) (stored, display string) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return models.DefaultFare, ""
	}
	if len(digits) < 2 {
		digits = "0" + digits
	}

	whole := strings.TrimLeft(digits[:len(digits)-2], "0")
	if whole == "" {
		whole = "0"
	}
	formatted := whole + "." + digits[len(digits)-2:]
	return formatted, formatted
}

// FixFare normalizes a stored fare to two decimal places. Blank is "0.00".
func FixFare(fare string) (string, error) {
	fare = strings.TrimSpace(fare)
	if fare == "" {
		return models.DefaultFare, nil
	}
	d, err := decimal.NewFromString(fare)
	if err != nil || d.IsNegative() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFare, fare)
	}
	return d.StringFixed(2), nil
}

func isUnpriced(fare string) bool {
	fare = strings.TrimSpace(fare)
	if fare == "" {
		return true
	}
	d, err := decimal.NewFromString(fare)
	if err != nil {
		return true
	}
	return d.IsZero()
}

// Editable reports whether a leg still takes fare input: it is new, or one of its fares is unset.
// Legs with both prices set that came from the server are read-only.
func Editable(leg models.SubRoute) bool {
	return leg.IsNew || isUnpriced(leg.Fare) || isUnpriced(leg.KidsFare)
}

// Leg is a sub-route in the fare entry step.
// Editable is fixed when the leg enters the step so typing a price does not lock it.
type Leg struct {
	models.SubRoute
	Editable bool `json:"editable"`
}

func toLegs(subs []models.SubRoute) []Leg {
	legs := make([]Leg, len(subs))
	for i, s := range subs {
		legs[i] = Leg{SubRoute: s, Editable: Editable(s)}
	}
	return legs
}

// SetFare applies typed input to the leg at idx and returns a new leg list.
// A nil input leaves that fare as it is.
func SetFare(legs []Leg, idx int, fareInput, kidsInput *string) ([]Leg, error) {
	if idx < 0 || idx >= len(legs) {
		return nil, ErrLegNotFound
	}
	if fareInput == nil && kidsInput == nil {
		return nil, ErrNoFareChange
	}
	if !legs[idx].Editable {
		return nil, fmt.Errorf("%w: %s -> %s", ErrLegReadOnly, legs[idx].From, legs[idx].To)
	}

	out := make([]Leg, len(legs))
	copy(out, legs)
	if fareInput != nil {
		out[idx].Fare, _ = FormatFareInput(*fareInput)
	}
	if kidsInput != nil {
		out[idx].KidsFare, _ = FormatFareInput(*kidsInput)
	}
	return out, nil
}
