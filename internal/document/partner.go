package document

import (
	"fmt"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/pricing"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

// BuildPartner lays out a partnership agreement.
func (b *Builder) BuildPartner(s PartnerSubject, t terms.ContractTerms, issued time.Time) Document {
	f := b.format

	var party fieldSet
	party.add("Name", s.PartnerName)
	party.optional("Contact person", s.ContactPerson)
	party.optional("Phone", s.Phone)
	party.optional("Email", s.Email)
	party.optional("Address", s.Address)

	var agreement fieldSet
	agreement.add("Partnership type", s.PartnershipType)
	agreement.add("Start", f.DateTime(s.Start, s.StartTime))
	agreement.add("End", f.DateTime(s.End, s.EndTime))
	if days := pricing.NumberOfDays(s.Start, s.End); days > 0 {
		agreement.add("Duration", f.Days(days))
	}
	agreement.emphasis("Amount", f.Money(s.Amount))
	agreement.optional("Status", s.Status)

	summary := []Block{
		b.header(t, "Partnership Agreement", s.ContractNumber, issued),
		{ID: "partner", Kind: BlockFields, Title: "Partner", Fields: party, Keep: true},
		{ID: "agreement", Kind: BlockFields, Title: "Agreement details", Fields: agreement, Keep: true},
	}
	if object := paragraphs(s.Object); len(object) > 0 {
		summary = append(summary, Block{ID: "object", Kind: BlockParagraphs, Title: "Object of the agreement", Paragraphs: object})
	}

	articles := b.articles(s, t)
	if special := paragraphs(s.SpecialConditions); len(special) > 0 {
		articles = append(articles, Block{ID: "special-conditions", Kind: BlockParagraphs, Title: "Special conditions", Paragraphs: special})
	}

	return Document{
		Kind:     KindPartner,
		Title:    "Partnership Agreement " + s.ContractNumber,
		Number:   s.ContractNumber,
		FileName: fileName("partner-contract", s.ContractNumber),
		IssuedAt: issued,
		Sections: []Section{
			{Name: SectionSummary, BreakBefore: BreakNever, Blocks: summary},
			{Name: SectionArticles, BreakBefore: BreakAlways, Blocks: articles},
			{Name: SectionSignatures, BreakBefore: BreakAlways, Blocks: []Block{
				b.signatures("The partner", joinNonEmpty(", ", s.PartnerName, s.ContactPerson), t, issued),
				footer("footer", t, "Drawn up in two copies, one for each party."),
			}},
		},
	}
}

func (b *Builder) articles(s PartnerSubject, t terms.ContractTerms) []Block {
	f := b.format
	issuer := issuerName(t)
	texts := []struct {
		title string
		body  []string
	}{
		{"Article 1 - Object and duration", []string{
			fmt.Sprintf("This agreement sets out the terms of the %s partnership between %s and %s.", s.PartnershipType, issuer, s.PartnerName),
			fmt.Sprintf("It takes effect on %s and ends on %s unless renewed in writing by both parties.", f.DateTime(s.Start, s.StartTime), f.DateTime(s.End, s.EndTime)),
		}},
		{"Article 2 - Obligations of the parties", []string{
			"Each party undertakes to perform its obligations in good faith and with the diligence expected of a professional.",
			"Each party remains solely responsible for its own staff, equipment and insurance.",
		}},
		{"Article 3 - Financial terms", []string{
			fmt.Sprintf("The amount agreed under this agreement is %s.", f.Money(s.Amount)),
			"Invoices are payable within thirty (30) days of receipt unless otherwise stated in the special conditions.",
		}},
		{"Article 4 - Confidentiality", []string{
			"The parties shall keep confidential all information exchanged in connection with this agreement, during its term and for two (2) years after it ends.",
		}},
		{"Article 5 - Termination", []string{
			"Either party may terminate this agreement by registered letter with thirty (30) days notice.",
			"In the event of serious breach, the agreement may be terminated without notice after a formal notice has remained without effect for fifteen (15) days.",
		}},
		{"Article 6 - Disputes", []string{
			"The parties shall seek an amicable settlement of any dispute arising from this agreement.",
			"Failing agreement, the dispute shall be brought before the courts with jurisdiction over the registered office of " + issuer + ".",
		}},
	}

	blocks := make([]Block, 0, len(texts))
	for i, a := range texts {
		blocks = append(blocks, Block{
			ID:         fmt.Sprintf("article-%d", i+1),
			Kind:       BlockParagraphs,
			Title:      a.title,
			Paragraphs: a.body,
			Keep:       true,
		})
	}
	return blocks
}
