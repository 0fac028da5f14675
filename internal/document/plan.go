package document

import (
	"math"
	"unicode/utf8"
)

// PageSetup describes the paper and margins in millimetres.
type PageSetup struct {
	Width  float64
	Height float64
	Margin float64
}

// A4Export is the PDF export page: A4 with 20mm margins.
func A4Export() PageSetup { return PageSetup{Width: 210, Height: 297, Margin: 20} }

// A4Print is the browser print page: A4 with 15mm margins.
func A4Print() PageSetup { return PageSetup{Width: 210, Height: 297, Margin: 15} }

// ContentWidth is the printable width.
func (p PageSetup) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight is the printable height.
func (p PageSetup) ContentHeight() float64 { return p.Height - 2*p.Margin }

// WidthInches converts the paper width for converters that take inches.
func (p PageSetup) WidthInches() float64 { return mmToInches(p.Width) }

// HeightInches converts the paper height.
func (p PageSetup) HeightInches() float64 { return mmToInches(p.Height) }

// MarginInches converts the margin.
func (p PageSetup) MarginInches() float64 { return mmToInches(p.Margin) }

func mmToInches(mm float64) float64 {
	return math.Round(mm/25.4*100) / 100
}

// Page is one planned page.
type Page struct {
	Number int
	Blocks []Block
}

// Layout metrics in millimetres. They match the stylesheet used by the
// renderers (10pt body text, 5mm line pitch).
const (
	lineHeight   = 5.0
	charWidth    = 1.9
	titleHeight  = 8.0
	blockGap     = 5.0
	itemGap      = 1.5
	tableRow     = 7.0
	tableHeader  = 8.0
	signatureBox = 42.0
	footerLine   = 4.5
	headerBase   = 24.0
	listIndent   = 6.0
)

// Plan assigns blocks to pages for the given page setup. Keep blocks move
// whole to the next page when they do not fit; list and paragraph blocks
// without Keep split between items. The result always has at least one page.
func Plan(doc Document, setup PageSetup) []Page {
	p := &planner{
		width:  setup.ContentWidth(),
		height: setup.ContentHeight(),
		pages:  []Page{{Number: 1}},
	}
	for _, sec := range doc.Sections {
		if len(sec.Blocks) == 0 {
			continue
		}
		switch sec.BreakBefore {
		case BreakAlways:
			if !p.empty() {
				p.newPage()
			}
		case BreakIfNeeded:
			if !p.empty() && p.firstFit(sec.Blocks[0]) > p.remaining() {
				p.newPage()
			}
		}
		for _, b := range sec.Blocks {
			p.add(b)
		}
	}
	return p.pages
}

type planner struct {
	width  float64
	height float64
	used   float64
	pages  []Page
}

func (p *planner) current() *Page { return &p.pages[len(p.pages)-1] }

func (p *planner) empty() bool { return len(p.current().Blocks) == 0 }

func (p *planner) remaining() float64 { return p.height - p.used }

func (p *planner) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.used = 0
}

func (p *planner) place(b Block, h float64) {
	cur := p.current()
	cur.Blocks = append(cur.Blocks, b)
	p.used += h
}

func flowing(b Block) bool {
	return !b.Keep && (b.Kind == BlockList || b.Kind == BlockParagraphs)
}

// firstFit is the height that must be available for the block to start on
// the current page.
func (p *planner) firstFit(b Block) float64 {
	if flowing(b) {
		units := unitsOf(b)
		if len(units) > 0 {
			return p.head(b) + p.unit(b, units[0])
		}
	}
	return p.measure(b)
}

func (p *planner) add(b Block) {
	h := p.measure(b)
	if h <= p.remaining() {
		p.place(b, h)
		return
	}
	if !flowing(b) || len(unitsOf(b)) == 0 {
		if !p.empty() {
			p.newPage()
		}
		p.place(b, h)
		return
	}
	p.split(b)
}

func (p *planner) split(b Block) {
	units := unitsOf(b)
	head := p.head(b)
	part := 0
	for len(units) > 0 {
		n, used := 0, head
		for n < len(units) {
			h := p.unit(b, units[n])
			if used+h > p.remaining() {
				break
			}
			used += h
			n++
		}
		if n == 0 {
			if !p.empty() {
				p.newPage()
				continue
			}
			// a single unit taller than a page still has to go somewhere
			n, used = 1, head+p.unit(b, units[0])
		}
		piece := withUnits(b, units[:n])
		piece.Continued = part > 0
		p.place(piece, used)
		units = units[n:]
		part++
		if len(units) > 0 {
			p.newPage()
		}
	}
}

func unitsOf(b Block) []string {
	if b.Kind == BlockList {
		return b.Items
	}
	return b.Paragraphs
}

func withUnits(b Block, units []string) Block {
	cp := b
	if b.Kind == BlockList {
		cp.Items = units
	} else {
		cp.Paragraphs = units
	}
	return cp
}

func (p *planner) head(b Block) float64 {
	h := blockGap
	if b.Title != "" {
		h += titleHeight
	}
	return h
}

func (p *planner) unit(b Block, text string) float64 {
	if b.Kind == BlockList {
		return float64(wrapLines(text, p.width-listIndent))*lineHeight + itemGap
	}
	return float64(wrapLines(text, p.width))*lineHeight + 2*itemGap
}

func (p *planner) measure(b Block) float64 {
	h := p.head(b)
	switch b.Kind {
	case BlockHeader:
		h += headerBase
		if b.Header != nil {
			h += float64(len(b.Header.IssuerLines)) * lineHeight
		}
	case BlockFields:
		// label column takes a third of the width
		for _, f := range b.Fields {
			h += float64(wrapLines(f.Value, p.width*2/3)) * lineHeight
		}
	case BlockList, BlockParagraphs:
		for _, u := range unitsOf(b) {
			h += p.unit(b, u)
		}
	case BlockTable:
		if b.Table != nil {
			h += tableHeader
			cols := max(len(b.Table.Columns), 1)
			colWidth := p.width / float64(cols)
			for _, row := range b.Table.Rows {
				lines := 1
				for _, cell := range row {
					lines = max(lines, wrapLines(cell, colWidth))
				}
				h += tableRow + float64(lines-1)*lineHeight
			}
			h += float64(len(b.Table.Totals)) * tableRow
		}
	case BlockSignatures:
		h += signatureBox
	case BlockFooter:
		for _, para := range b.Paragraphs {
			h += float64(wrapLines(para, p.width)) * footerLine
		}
	}
	return h
}

// wrapLines estimates how many lines text occupies at the given width.
func wrapLines(text string, width float64) int {
	perLine := int(width / charWidth)
	if perLine < 1 {
		perLine = 1
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 1
	}
	return (n + perLine - 1) / perLine
}
