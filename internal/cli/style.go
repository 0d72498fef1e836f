package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	fern   = lipgloss.Color("#42be65")
	moss   = lipgloss.Color("#08bdba")
	sky    = lipgloss.Color("#78a9ff")
	rose   = lipgloss.Color("#ee5396")
	amber  = lipgloss.Color("#ffb000")
	violet = lipgloss.Color("#be95ff")
	ash    = lipgloss.Color("#525252")
)

// Styles wraps the lipgloss styles for the application.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Slug    lipgloss.Style
	Draft   lipgloss.Style
}

// NewStyles returns the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Foreground(violet).Bold(true),
		Success: lipgloss.NewStyle().Foreground(fern),
		Error:   lipgloss.NewStyle().Foreground(rose),
		Warning: lipgloss.NewStyle().Foreground(amber),
		Info:    lipgloss.NewStyle().Foreground(sky),
		Muted:   lipgloss.NewStyle().Foreground(ash),
		Slug:    lipgloss.NewStyle().Foreground(moss),
		Draft:   lipgloss.NewStyle().Foreground(amber).Italic(true),
	}
}

// Printer provides helper methods for printing formatted output.
type Printer struct {
	Styles *Styles
}

// NewPrinter creates a new Printer with default styles.
func NewPrinter() *Printer {
	return &Printer{Styles: NewStyles()}
}

var p = NewPrinter()

// PrintHeader prints a bold header message.
func (p *Printer) PrintHeader(msg string) {
	fmt.Println(p.Styles.Header.Render(msg))
}

// PrintSuccess prints a success message with a checkmark.
func (p *Printer) PrintSuccess(msg string) {
	fmt.Printf("%s %s\n", p.Styles.Success.Render("✔"), msg)
}

// PrintError prints an error message to stderr with a cross.
func (p *Printer) PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", p.Styles.Error.Render("✘"), msg)
}

// PrintWarning prints a warning message with an exclamation.
func (p *Printer) PrintWarning(msg string) {
	fmt.Printf("%s %s\n", p.Styles.Warning.Render("⚠"), msg)
}

// PrintListItem prints a muted label with a value.
func (p *Printer) PrintListItem(label, value string) {
	fmt.Printf("%s: %s\n", p.Styles.Muted.Render(label), value)
}

// FormatSlug formats a page slug.
func (p *Printer) FormatSlug(slug string) string {
	return p.Styles.Slug.Render(slug)
}

// FormatStatus formats a lifecycle status, highlighting drafts.
func (p *Printer) FormatStatus(status string) string {
	switch status {
	case "draft":
		return p.Styles.Draft.Render(status)
	case "archived":
		return p.Styles.Muted.Render(status)
	}
	return status
}
