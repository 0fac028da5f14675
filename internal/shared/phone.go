package shared

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"

	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
)

// NormalizePhone parses raw in the given default region and returns it in
// E.164 form. Blank input yields "".
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("%w: phone %q: %v", httpx.ErrValidation, raw, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("%w: phone %q is not a valid number", httpx.ErrValidation, raw)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// NormalizeOptionalPhone is NormalizePhone for nullable columns.
func NormalizeOptionalPhone(raw *string, region string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	phone, err := NormalizePhone(*raw, region)
	if err != nil || phone == "" {
		return nil, err
	}
	return &phone, nil
}
