// Package document builds the printable layout of rental and partner
// contracts. A Document is an ordered list of sections made of blocks; the
// preview and export renderers both consume the same Document and the same
// page plan so their page boundaries agree.
package document

import "time"

// Kind identifies the document family.
type Kind string

const (
	KindRental  Kind = "rental"
	KindPartner Kind = "partner"
)

// BreakPolicy controls whether a section starts on a new page.
type BreakPolicy int

const (
	// BreakNever continues on the current page.
	BreakNever BreakPolicy = iota
	// BreakIfNeeded starts a new page only when the first block of the
	// section does not fit in the space left.
	BreakIfNeeded
	// BreakAlways starts a new page unless the current page is empty.
	BreakAlways
)

// BlockKind selects how a block is laid out.
type BlockKind string

const (
	BlockHeader     BlockKind = "header"
	BlockFields     BlockKind = "fields"
	BlockList       BlockKind = "list"
	BlockParagraphs BlockKind = "paragraphs"
	BlockTable      BlockKind = "table"
	BlockSignatures BlockKind = "signatures"
	BlockFooter     BlockKind = "footer"
)

// Document is the renderer independent layout of one contract.
type Document struct {
	Kind     Kind
	Title    string
	Number   string
	FileName string
	IssuedAt time.Time
	Sections []Section
}

// Section groups blocks that share a page break policy.
type Section struct {
	Name        string
	BreakBefore BreakPolicy
	Blocks      []Block
}

// Block is one visual unit. Only the fields matching Kind are set.
type Block struct {
	ID         string
	Kind       BlockKind
	Title      string
	Header     *Header
	Fields     []Field
	Items      []string
	Paragraphs []string
	Table      *Table
	Signatures []Signature
	// Keep forbids splitting the block across pages.
	Keep bool
	// Continued marks the second and later parts of a split block.
	Continued bool
}

// Header is the issuer banner at the top of a document.
type Header struct {
	IssuerName  string
	IssuerLines []string
	Title       string
	Number      string
	IssuedOn    string
}

// Field is a label/value pair.
type Field struct {
	Label    string
	Value    string
	Emphasis bool
}

// Table is a grid with an optional totals area.
type Table struct {
	Columns []string
	Rows    [][]string
	Totals  []Field
}

// Signature is one signing slot.
type Signature struct {
	Role string
	Name string
	Date string
}

// Blocks returns every block in document order.
func (d Document) Blocks() []Block {
	var out []Block
	for _, s := range d.Sections {
		out = append(out, s.Blocks...)
	}
	return out
}

// Block returns the first block with the given id.
func (d Document) Block(id string) (Block, bool) {
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			if b.ID == id {
				return b, true
			}
		}
	}
	return Block{}, false
}

// Field returns the value of the first field with the given label.
func (b Block) Field(label string) (string, bool) {
	for _, f := range b.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
