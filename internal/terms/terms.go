// Package terms holds the operator's editable contract boilerplate: general
// terms, company identity and payment terms.
package terms

import (
	"context"
	"strings"
)

// ContractTerms is the configuration blob printed on every contract.
type ContractTerms struct {
	GeneralTerms string `json:"general_terms" validate:"max=20000"`
	CompanyInfo  string `json:"company_info" validate:"max=4000"`
	PaymentTerms string `json:"payment_terms" validate:"max=8000"`
}

// Provider supplies the terms in effect for the caller.
type Provider interface {
	Terms(ctx context.Context) ContractTerms
}

// Static is a Provider returning fixed terms.
type Static ContractTerms

// Terms implements Provider.
func (s Static) Terms(context.Context) ContractTerms {
	return ContractTerms(s)
}

const (
	defaultGeneralTerms = `- The vehicle is handed over in good working order and must be returned in the same condition.
- The tenant is responsible for fines and tolls incurred during the rental period.
- Only the persons named in this contract may drive the vehicle.
- Any late return is charged as an additional full day.
- Smoking and the transport of animals inside the vehicle are not permitted.
- In case of accident or breakdown the tenant must inform the agency immediately.
- The vehicle may not leave the national territory without written consent.`

	defaultCompanyInfo = `RentalDesk Car Rental
12 Boulevard de la Republique
Phone: +213 21 00 00 00
Email: contact@rentaldesk.example
Trade register: 00B0000000`

	defaultPaymentTerms = `- The rental amount is payable in full when the vehicle is picked up.
- The deposit is returned when the vehicle comes back without damage.
- Accepted methods: cash, bank transfer and certified cheque.`
)

// Default returns the built-in terms used when nothing is stored.
func Default() ContractTerms {
	return ContractTerms{
		GeneralTerms: defaultGeneralTerms,
		CompanyInfo:  defaultCompanyInfo,
		PaymentTerms: defaultPaymentTerms,
	}
}

// CompanyName is the first non-blank line of CompanyInfo.
func (t ContractTerms) CompanyName() string {
	lines := Lines(t.CompanyInfo)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// CompanyDetails are the CompanyInfo lines after the name.
func (t ContractTerms) CompanyDetails() []string {
	lines := Lines(t.CompanyInfo)
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}

// GeneralTermLines splits GeneralTerms into display items.
func (t ContractTerms) GeneralTermLines() []string {
	return Lines(t.GeneralTerms)
}

// PaymentTermLines splits PaymentTerms into display items.
func (t ContractTerms) PaymentTermLines() []string {
	return Lines(t.PaymentTerms)
}

// Lines splits text on newlines, trims each line, drops blank lines and
// strips a leading list marker.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
