package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/terms"
)

const fallbackIssuer = "Rental Agency"

// Builder turns subjects into Documents.
type Builder struct {
	format Formatter
	now    func() time.Time
}

// NewBuilder constructs a Builder printing amounts with f.
func NewBuilder(f Formatter) *Builder {
	return &Builder{format: f, now: time.Now}
}

// WithClock overrides the issue date source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	cp := *b
	cp.now = now
	return &cp
}

// Formatter returns the formatter used for amounts and dates.
func (b *Builder) Formatter() Formatter {
	return b.format
}

// Build dispatches on the subject type.
func (b *Builder) Build(s Subject, t terms.ContractTerms) (Document, error) {
	now := b.now()
	switch subject := s.(type) {
	case RentalSubject:
		return b.BuildRental(subject, t, now), nil
	case *RentalSubject:
		if subject == nil {
			break
		}
		return b.BuildRental(*subject, t, now), nil
	case PartnerSubject:
		return b.BuildPartner(subject, t, now), nil
	case *PartnerSubject:
		if subject == nil {
			break
		}
		return b.BuildPartner(*subject, t, now), nil
	}
	return Document{}, fmt.Errorf("document: unsupported subject %T", s)
}

func (b *Builder) header(t terms.ContractTerms, title, number string, issued time.Time) Block {
	return Block{
		ID:   "header",
		Kind: BlockHeader,
		Header: &Header{
			IssuerName:  issuerName(t),
			IssuerLines: t.CompanyDetails(),
			Title:       title,
			Number:      number,
			IssuedOn:    b.format.Date(issued),
		},
		Keep: true,
	}
}

func (b *Builder) signatures(counterpartRole, counterpartName string, t terms.ContractTerms, issued time.Time) Block {
	issuer := issuerName(t)
	return Block{
		ID:   "signatures",
		Kind: BlockSignatures,
		Signatures: []Signature{
			{Role: counterpartRole, Name: counterpartName},
			{Role: "For " + issuer, Name: issuer, Date: b.format.Date(issued)},
		},
		Keep: true,
	}
}

func footer(id string, t terms.ContractTerms, lead string) Block {
	var lines []string
	if lead != "" {
		lines = append(lines, lead)
	}
	lines = append(lines, joinNonEmpty(" | ", append([]string{issuerName(t)}, t.CompanyDetails()...)...))
	return Block{ID: id, Kind: BlockFooter, Paragraphs: lines, Keep: true}
}

func issuerName(t terms.ContractTerms) string {
	if name := t.CompanyName(); name != "" {
		return name
	}
	return fallbackIssuer
}

// fieldSet collects label/value pairs, skipping blank optional values.
type fieldSet []Field

func (fs *fieldSet) add(label, value string) {
	*fs = append(*fs, Field{Label: label, Value: value})
}

func (fs *fieldSet) optional(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fs.add(label, strings.TrimSpace(value))
}

func (fs *fieldSet) emphasis(label, value string) {
	*fs = append(*fs, Field{Label: label, Value: value, Emphasis: true})
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func yearLabel(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// fileName builds "<prefix>-<number>.pdf" with anything unsafe collapsed.
func fileName(prefix, number string) string {
	number = strings.Trim(unsafeFileChars.ReplaceAllString(number, "-"), "-")
	if number == "" {
		return prefix + ".pdf"
	}
	return prefix + "-" + number + ".pdf"
}
