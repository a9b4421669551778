package preview

import (
	"fmt"
	"io"
	"strings"
)

// boxWidth is the width of the printed section boxes.
const boxWidth = 60

// Printer writes a rendered document to a terminal.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print writes the document. An empty document prints a short notice
// instead of a blank page.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) Print(doc Document) {
	if doc.Empty() {
		fmt.Fprintln(p.out, "The draft is empty. Run the wizard to fill it in.")
		return
	}

	if doc.Name != "" {
		fmt.Fprintln(p.out, strings.ToUpper(doc.Name))
	}
	if doc.Title != "" {
		fmt.Fprintln(p.out, doc.Title)
	}
	if len(doc.Contacts) > 0 {
		fmt.Fprintln(p.out, strings.Join(doc.Contacts, " • "))
	}
	fmt.Fprintln(p.out)

	for _, section := range doc.Sections {
		p.printSection(section)
		if section.Beside != nil {
			p.printSection(*section.Beside)
		}
	}
}

//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printSection(section Section) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", padLine(section.Title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range section.Lines {
		fmt.Fprintf(p.out, "│ %s │\n", padLine(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// padLine truncates and pads to the box width counting runes, not bytes, so
// accented text neither splits mid-rune nor misaligns the border.
func padLine(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		runes = append(runes[:boxWidth-7], '.', '.', '.')
	}
	return string(runes) + strings.Repeat(" ", boxWidth-4-len(runes))
}
