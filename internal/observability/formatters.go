// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLinesToShow is the default number of fragment lines to display
	maxLinesToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func clip(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// writeFragment appends a labelled fragment, one HTML line per row, capped at maxLinesToShow.
func writeFragment(sb *strings.Builder, label, fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}
	sb.WriteString(label + ":\n")
	lines := strings.Split(fragment, "\n")
	count := min(len(lines), maxLinesToShow)
	for _, line := range lines[:count] {
		sb.WriteString("  " + strings.TrimSpace(line) + "\n")
	}
	if len(lines) > maxLinesToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more lines\n", len(lines)-maxLinesToShow))
	}
	sb.WriteString("\n")
}

// PrintEditResult outputs a human-readable summary of a section update.
func (p *Printer) PrintEditResult(section types.SectionKind, result types.EditResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	title := fmt.Sprintf("%s SECTION UPDATE", strings.ToUpper(string(section)))

	switch r := result.(type) {
	case *types.Accepted:
		sb.WriteString("Status:   ACCEPTED\n\n")
		writeFragment(&sb, "Old", r.OldFragment)
		writeFragment(&sb, "New", r.NewFragment)
		writeFragment(&sb, "Diff", r.DiffFragment)
	case *types.Rejected:
		sb.WriteString("Status:   REJECTED\n")
		sb.WriteString(fmt.Sprintf("Reason:   %s\n", r.Reason))
		sb.WriteString(fmt.Sprintf("Error:    %s\n\n", r.Detail))
		if r.RetryGuidance != "" {
			sb.WriteString("Retry guidance:\n")
			for _, line := range wrap(r.RetryGuidance, boxWidth-6) {
				sb.WriteString("  " + line + "\n")
			}
			sb.WriteString("\n")
		}
		writeFragment(&sb, "Fallback", r.FallbackFragment)
	}
	sb.WriteString(fmt.Sprintf("Snapshot: %d bytes", len(result.Snapshot())))

	p.printBox(title, sb.String())
}

// PrintSections lists the editable section kinds and whether they render a diff.
func (p *Printer) PrintSections(sections []types.SectionInfo) {
	var sb strings.Builder
	for i, s := range sections {
		diff := ""
		if s.WithDiff {
			diff = "  (diff)"
		}
		sb.WriteString(fmt.Sprintf("%-12s %s%s", s.Kind, s.Tool, diff))
		if i < len(sections)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("SECTIONS", sb.String())
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		if len(line) > 0 && len(line)+1+len(w) > width {
			lines = append(lines, string(line))
			line = nil
		}
		if len(line) > 0 {
			line = append(line, ' ')
		}
		line = append(line, w...)
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
