package document

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

var issuedAt = time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC)

func sampleRental() RentalSubject {
	return RentalSubject{
		ContractNumber: "CT-2024-0007",
		Status:         "Active",
		Start:          time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
		PickupTime:     "09:00",
		DailyRate:      decimal.NewFromInt(25000),
		DiscountKind:   pricing.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		Deposit:        decimal.NewFromInt(50000),
		Client: Client{
			Name:          "Amine Benali",
			Phone:         "+213550123456",
			LicenseNumber: "DL-99812",
		},
		Vehicle: Vehicle{Make: "Renault", Model: "Clio", Year: 2022, Plate: "12345-122-16"},
	}
}

func samplePartner() PartnerSubject {
	return PartnerSubject{
		ContractNumber:  "PC-2024-0002",
		PartnerName:     "Garage Atlas",
		ContactPerson:   "Nadia Kaci",
		PartnershipType: "Maintenance",
		Status:          "Active",
		Start:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(1200000),
		Object:          "Preventive maintenance of the fleet.\nQuarterly inspections.",
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(NewFormatter("DA")).WithClock(func() time.Time { return issuedAt })
}

func blockIDs(doc Document) []string {
	var ids []string
	for _, b := range doc.Blocks() {
		ids = append(ids, b.ID)
	}
	return ids
}

// ============================================================================
// Rental
// ============================================================================

func TestBuildRentalBlockOrder(t *testing.T) {
	doc := newTestBuilder().BuildRental(sampleRental(), terms.Default(), issuedAt)

	assert.Equal(t, []string{
		"header", "client", "vehicle", "rental", "billing",
		"general-terms", "payment-terms",
		"signatures", "footer",
		"invoice-header", "invoice-billed-to", "invoice-lines", "invoice-footer",
	}, blockIDs(doc))
	assert.Equal(t, KindRental, doc.Kind)
	assert.Equal(t, "contract-CT-2024-0007.pdf", doc.FileName)
	assert.Equal(t, issuedAt, doc.IssuedAt)
}

func TestBuildRentalDriverBlockOnlyWhenPresent(t *testing.T) {
	subject := sampleRental()
	subject.Driver = &Driver{Name: "Karim Haddad", Phone: "+213660000000"}

	doc := newTestBuilder().BuildRental(subject, terms.Default(), issuedAt)

	ids := blockIDs(doc)
	assert.Equal(t, []string{"header", "client", "vehicle", "driver", "rental", "billing"}, ids[:6])
	driver, ok := doc.Block("driver")
	require.True(t, ok)
	name, _ := driver.Field("Name")
	assert.Equal(t, "Karim Haddad", name)
	_, hasLicence := driver.Field("Driving licence")
	assert.False(t, hasLicence)
}

func TestBuildRentalOmitsBlankOptionalFields(t *testing.T) {
	doc := newTestBuilder().BuildRental(sampleRental(), terms.Default(), issuedAt)

	client, ok := doc.Block("client")
	require.True(t, ok)
	var labels []string
	for _, f := range client.Fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Name", "Phone", "Driving licence"}, labels)
}

func TestBuildRentalBilling(t *testing.T) {
	b := newTestBuilder()
	f := b.Formatter()
	doc := b.BuildRental(sampleRental(), terms.Default(), issuedAt)

	billing, ok := doc.Block("billing")
	require.True(t, ok)
	assert.True(t, billing.Keep)

	subtotal, _ := billing.Field("Subtotal")
	assert.Equal(t, f.Money(decimal.NewFromInt(175000)), subtotal)
	discount, ok := billing.Field("Discount (10%)")
	require.True(t, ok)
	assert.Equal(t, "-"+f.Money(decimal.NewFromInt(17500)), discount)
	total, _ := billing.Field("Total")
	assert.Equal(t, f.Money(decimal.NewFromInt(157500)), total)
	duration, _ := billing.Field("Duration")
	assert.Equal(t, "7 days", duration)

	rental, ok := doc.Block("rental")
	require.True(t, ok)
	rate, ok := rental.Field("Daily rate")
	require.True(t, ok)
	billed, _ := billing.Field("Daily rate")
	assert.Equal(t, billed, rate)
}

func TestBuildRentalWithoutDiscountHasNoDiscountLine(t *testing.T) {
	subject := sampleRental()
	subject.DiscountKind = pricing.DiscountNone
	doc := newTestBuilder().BuildRental(subject, terms.Default(), issuedAt)

	billing, _ := doc.Block("billing")
	for _, f := range billing.Fields {
		assert.False(t, strings.HasPrefix(f.Label, "Discount"), f.Label)
	}
	invoice, _ := doc.Block("invoice-lines")
	assert.Len(t, invoice.Table.Rows, 1)
}

func TestBuildRentalSectionBreaks(t *testing.T) {
	doc := newTestBuilder().BuildRental(sampleRental(), terms.Default(), issuedAt)

	policies := map[string]BreakPolicy{}
	for _, s := range doc.Sections {
		policies[s.Name] = s.BreakBefore
	}
	assert.Equal(t, BreakNever, policies[SectionSummary])
	assert.Equal(t, BreakAlways, policies[SectionTerms])
	assert.Equal(t, BreakIfNeeded, policies[SectionSignatures])
	assert.Equal(t, BreakAlways, policies[SectionInvoice])
}

func TestBuildRentalUsesTerms(t *testing.T) {
	custom := terms.ContractTerms{
		GeneralTerms: "- Return with a full tank",
		CompanyInfo:  "Atlas Cars\nAlgiers",
		PaymentTerms: "",
	}
	doc := newTestBuilder().BuildRental(sampleRental(), custom, issuedAt)

	header, _ := doc.Block("header")
	assert.Equal(t, "Atlas Cars", header.Header.IssuerName)
	assert.Equal(t, []string{"Algiers"}, header.Header.IssuerLines)
	assert.Equal(t, "05/06/2024", header.Header.IssuedOn)

	general, ok := doc.Block("general-terms")
	require.True(t, ok)
	assert.Equal(t, []string{"Return with a full tank"}, general.Items)
	_, ok = doc.Block("payment-terms")
	assert.False(t, ok)

	sig, _ := doc.Block("signatures")
	require.Len(t, sig.Signatures, 2)
	assert.Equal(t, "Amine Benali", sig.Signatures[0].Name)
	assert.Empty(t, sig.Signatures[0].Date)
	assert.Equal(t, "Atlas Cars", sig.Signatures[1].Name)
	assert.Equal(t, "05/06/2024", sig.Signatures[1].Date)
}

func TestBuildRentalEmptyCompanyFallsBack(t *testing.T) {
	doc := newTestBuilder().BuildRental(sampleRental(), terms.ContractTerms{}, issuedAt)
	header, _ := doc.Block("header")
	assert.Equal(t, fallbackIssuer, header.Header.IssuerName)
	_, ok := doc.Block("general-terms")
	assert.False(t, ok)
}

func TestBuildRentalIsDeterministic(t *testing.T) {
	b := newTestBuilder()
	first := b.BuildRental(sampleRental(), terms.Default(), issuedAt)
	second := b.BuildRental(sampleRental(), terms.Default(), issuedAt)
	assert.Equal(t, first, second)
}

// ============================================================================
// Partner
// ============================================================================

func TestBuildPartner(t *testing.T) {
	doc := newTestBuilder().BuildPartner(samplePartner(), terms.Default(), issuedAt)

	assert.Equal(t, KindPartner, doc.Kind)
	assert.Equal(t, "partner-contract-PC-2024-0002.pdf", doc.FileName)
	assert.Equal(t, []string{
		"header", "partner", "agreement", "object",
		"article-1", "article-2", "article-3", "article-4", "article-5", "article-6",
		"signatures", "footer",
	}, blockIDs(doc))

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, BreakAlways, doc.Sections[1].BreakBefore)
	assert.Equal(t, BreakAlways, doc.Sections[2].BreakBefore)

	article1, _ := doc.Block("article-1")
	assert.Contains(t, article1.Paragraphs[1], "01/01/2024")
	assert.Contains(t, article1.Paragraphs[1], "31/12/2024")
	article3, _ := doc.Block("article-3")
	assert.Contains(t, article3.Paragraphs[0], NewFormatter("DA").Money(decimal.NewFromInt(1200000)))

	object, _ := doc.Block("object")
	assert.Equal(t, []string{"Preventive maintenance of the fleet.", "Quarterly inspections."}, object.Paragraphs)
}

func TestBuildPartnerSpecialConditions(t *testing.T) {
	subject := samplePartner()
	subject.SpecialConditions = "Replacement vehicle within 24 hours."
	doc := newTestBuilder().BuildPartner(subject, terms.Default(), issuedAt)

	ids := blockIDs(doc)
	assert.Equal(t, "special-conditions", ids[len(ids)-3])
}

func TestBuildDispatch(t *testing.T) {
	b := newTestBuilder()

	doc, err := b.Build(sampleRental(), terms.Default())
	require.NoError(t, err)
	assert.Equal(t, KindRental, doc.Kind)
	assert.Equal(t, issuedAt, doc.IssuedAt)

	partner := samplePartner()
	doc, err = b.Build(&partner, terms.Default())
	require.NoError(t, err)
	assert.Equal(t, KindPartner, doc.Kind)

	_, err = b.Build(nil, terms.Default())
	assert.Error(t, err)

	var noRental *RentalSubject
	_, err = b.Build(noRental, terms.Default())
	assert.ErrorContains(t, err, "unsupported subject")

	var noPartner *PartnerSubject
	_, err = b.Build(noPartner, terms.Default())
	assert.ErrorContains(t, err, "unsupported subject")
}

// ============================================================================
// Formatting
// ============================================================================

func TestFormatterMoney(t *testing.T) {
	f := NewFormatter("DA")
	assert.Equal(t, "175,000 DA", f.Money(decimal.NewFromInt(175000)))
	assert.Equal(t, "1,250.50 DA", f.Money(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "-17,500 DA", f.Money(decimal.NewFromInt(-17500)))
	assert.Equal(t, "0", NewFormatter("").Money(decimal.Zero))
}

func TestFormatterDates(t *testing.T) {
	f := NewFormatter("DA")
	day := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "06/06/2024", f.Date(day))
	assert.Equal(t, "06/06/2024 at 09:00", f.DateTime(day, "09:00"))
	assert.Equal(t, "06/06/2024", f.DateTime(day, " "))
	assert.Empty(t, f.Date(time.Time{}))
	assert.Equal(t, "1 day", f.Days(1))
}

func TestFileNameSanitizes(t *testing.T) {
	assert.Equal(t, "contract-CT-2024-0001.pdf", fileName("contract", "CT 2024/0001"))
	assert.Equal(t, "contract.pdf", fileName("contract", ""))
}
