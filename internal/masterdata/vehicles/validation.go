package vehicles

import (
	"fmt"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

func (s *Service) validate(in Input) error {
	if err := rootshared.Validate(in); err != nil {
		return err
	}
	if in.DailyRate.IsNegative() {
		return fmt.Errorf("%w: daily rate must not be negative", shared.ErrValidation)
	}
	if !pricing.IsMoney(in.DailyRate) {
		return fmt.Errorf("%w: daily rate allows at most %d decimal places", shared.ErrValidation, pricing.MoneyPlaces)
	}
	return nil
}
