package clients

import (
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// prepare validates in and returns the record to persist.
func (s *Service) prepare(in Input) (Client, error) {
	if err := rootshared.Validate(in); err != nil {
		return Client{}, err
	}
	phone, err := rootshared.NormalizePhone(in.Phone, s.region)
	if err != nil {
		return Client{}, err
	}
	return in.toClient(phone), nil
}
