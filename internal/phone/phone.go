// Package phone normalizes free-form phone numbers to E.164.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned for text that is not a dialable phone number.
var ErrInvalidNumber = errors.New("invalid phone number")

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "US"

// Validator normalizes numbers written without a country code as if dialed
// from its region.
type Validator struct {
	region string
}

// NewValidator creates a Validator for the given ISO 3166 region code.
// An empty region means DefaultRegion.
func NewValidator(region string) *Validator {
	if region == "" {
		region = DefaultRegion
	}
	return &Validator{region: strings.ToUpper(region)}
}

// Normalize returns raw in E.164 form, e.g. "(312) 555-1234" -> "+13125551234".
func (v *Validator) Normalize(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), v.region)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidNumber, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
