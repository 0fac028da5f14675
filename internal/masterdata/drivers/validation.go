package drivers

import (
	"fmt"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

func (s *Service) prepare(in Input) (Driver, error) {
	if err := rootshared.Validate(in); err != nil {
		return Driver{}, err
	}
	if in.DailyRate != nil && in.DailyRate.IsNegative() {
		return Driver{}, fmt.Errorf("%w: daily rate must not be negative", shared.ErrValidation)
	}
	phone, err := rootshared.NormalizePhone(in.Phone, s.region)
	if err != nil {
		return Driver{}, err
	}
	return in.toDriver(phone), nil
}
