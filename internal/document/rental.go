package document

import (
	"strconv"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

// Section names of a rental document.
const (
	SectionSummary    = "summary"
	SectionTerms      = "terms"
	SectionSignatures = "signatures"
	SectionInvoice    = "invoice"
	SectionArticles   = "articles"
)

// BuildRental lays out a rental contract followed by its invoice.
func (b *Builder) BuildRental(s RentalSubject, t terms.ContractTerms, issued time.Time) Document {
	quote := s.Quote()
	f := b.format

	summary := []Block{
		b.header(t, "Vehicle Rental Contract", s.ContractNumber, issued),
		rentalClient(s.Client),
		rentalVehicle(s.Vehicle),
	}
	if s.Driver != nil {
		summary = append(summary, rentalDriver(*s.Driver))
	}

	var details fieldSet
	details.add("Start", f.DateTime(s.Start, s.PickupTime))
	details.add("End", f.DateTime(s.End, s.ReturnTime))
	details.add("Duration", f.Days(quote.Days))
	details.add("Daily rate", f.Money(quote.DailyRate))
	details.optional("Status", s.Status)
	details.optional("Condition at departure", s.DepartureCondition)
	details.optional("Condition at return", s.ReturnCondition)
	details.optional("Notes", s.Notes)
	summary = append(summary, Block{ID: "rental", Kind: BlockFields, Title: "Rental details", Fields: details, Keep: true})

	var billing fieldSet
	billing.add("Daily rate", f.Money(quote.DailyRate))
	billing.add("Duration", f.Days(quote.Days))
	billing.add("Subtotal", f.Money(quote.Subtotal))
	if quote.HasDiscount() {
		billing.add(quote.DiscountLabel(), "-"+f.Money(quote.Discount))
	}
	billing.emphasis("Total", f.Money(quote.Total))
	billing.add("Deposit", f.Money(s.Deposit))
	summary = append(summary, Block{ID: "billing", Kind: BlockFields, Title: "Billing", Fields: billing, Keep: true})

	var termBlocks []Block
	if lines := t.GeneralTermLines(); len(lines) > 0 {
		termBlocks = append(termBlocks, Block{ID: "general-terms", Kind: BlockList, Title: "General terms and conditions", Items: lines})
	}
	if lines := t.PaymentTermLines(); len(lines) > 0 {
		termBlocks = append(termBlocks, Block{ID: "payment-terms", Kind: BlockList, Title: "Payment terms", Items: lines})
	}

	sections := []Section{{Name: SectionSummary, BreakBefore: BreakNever, Blocks: summary}}
	if len(termBlocks) > 0 {
		sections = append(sections, Section{Name: SectionTerms, BreakBefore: BreakAlways, Blocks: termBlocks})
	}
	sections = append(sections,
		Section{Name: SectionSignatures, BreakBefore: BreakIfNeeded, Blocks: []Block{
			b.signatures("The tenant", s.Client.Name, t, issued),
			footer("footer", t, "Drawn up in two copies, one for each party."),
		}},
		Section{Name: SectionInvoice, BreakBefore: BreakAlways, Blocks: b.invoice(s, t, quote, issued)},
	)

	return Document{
		Kind:     KindRental,
		Title:    "Vehicle Rental Contract " + s.ContractNumber,
		Number:   s.ContractNumber,
		FileName: fileName("contract", s.ContractNumber),
		IssuedAt: issued,
		Sections: sections,
	}
}

func rentalClient(c Client) Block {
	var fs fieldSet
	fs.add("Name", c.Name)
	fs.optional("Client reference", c.Reference)
	fs.optional("Phone", c.Phone)
	fs.optional("Email", c.Email)
	fs.optional("Address", c.Address)
	fs.optional("ID number", c.IDNumber)
	fs.optional("Driving licence", c.LicenseNumber)
	return Block{ID: "client", Kind: BlockFields, Title: "Tenant", Fields: fs, Keep: true}
}

func rentalVehicle(v Vehicle) Block {
	var fs fieldSet
	fs.add("Vehicle", v.Label())
	fs.optional("Year", yearLabel(v.Year))
	fs.add("Registration", v.Plate)
	fs.optional("Colour", v.Colour)
	fs.optional("VIN", v.VIN)
	return Block{ID: "vehicle", Kind: BlockFields, Title: "Vehicle", Fields: fs, Keep: true}
}

func rentalDriver(d Driver) Block {
	var fs fieldSet
	fs.add("Name", d.Name)
	fs.optional("Phone", d.Phone)
	fs.optional("Driving licence", d.LicenseNumber)
	return Block{ID: "driver", Kind: BlockFields, Title: "Driver", Fields: fs, Keep: true}
}

func (b *Builder) invoice(s RentalSubject, t terms.ContractTerms, quote pricing.Breakdown, issued time.Time) []Block {
	f := b.format
	head := b.header(t, "Invoice", "INV-"+s.ContractNumber, issued)
	head.ID = "invoice-header"

	var billed fieldSet
	billed.add("Billed to", s.Client.Name)
	billed.optional("Address", s.Client.Address)
	billed.optional("Phone", s.Client.Phone)
	billed.add("Contract", s.ContractNumber)
	billed.add("Period", f.Date(s.Start)+" - "+f.Date(s.End))

	rows := [][]string{{
		"Vehicle rental " + joinNonEmpty(" ", s.Vehicle.Label(), "("+s.Vehicle.Plate+")"),
		strconv.Itoa(quote.Days),
		f.Money(quote.DailyRate),
		f.Money(quote.Subtotal),
	}}
	totals := []Field{{Label: "Subtotal", Value: f.Money(quote.Subtotal)}}
	if quote.HasDiscount() {
		rows = append(rows, []string{quote.DiscountLabel(), "1", "-" + f.Money(quote.Discount), "-" + f.Money(quote.Discount)})
		totals = append(totals, Field{Label: quote.DiscountLabel(), Value: "-" + f.Money(quote.Discount)})
	}
	totals = append(totals,
		Field{Label: "Total due", Value: f.Money(quote.Total), Emphasis: true},
		Field{Label: "Deposit held", Value: f.Money(s.Deposit)},
	)

	return []Block{
		head,
		{ID: "invoice-billed-to", Kind: BlockFields, Title: "Customer", Fields: billed, Keep: true},
		{ID: "invoice-lines", Kind: BlockTable, Table: &Table{
			Columns: []string{"Description", "Days", "Unit price", "Amount"},
			Rows:    rows,
			Totals:  totals,
		}, Keep: true},
		footer("invoice-footer", t, "Thank you for your business."),
	}
}
