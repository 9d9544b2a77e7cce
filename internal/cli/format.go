package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// msgOut receives every message. stdout is reserved for the SVG document
// Inkscape reads back, so messages go to stderr.
var msgOut io.Writer = os.Stderr

// setMessageOutput redirects message output, used by commands and tests.
func setMessageOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	msgOut = w
}

// PrintSection prints a section header
func PrintSection(title string) {
	_, _ = fmt.Fprintln(msgOut)
	_, _ = headerColor.Fprintf(msgOut, "▸ %s\n", title)
	_, _ = fmt.Fprintln(msgOut)
}

// PrintSubsection prints a subsection header
func PrintSubsection(title string) {
	_, _ = infoColor.Fprintf(msgOut, "  %s\n", title)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Fprintf(msgOut, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Fprintf(msgOut, "⚠ %s\n", msg)
}

// PrintError prints an error message
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(msgOut, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	_, _ = fmt.Fprintln(msgOut, msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Fprintf(msgOut, "  %s: ", label)
	_, _ = valueColor.Fprintln(msgOut, value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(msgOut, "%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple column table
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	_, _ = fmt.Fprint(msgOut, "  ")
	for i, header := range headers {
		if i > 0 {
			_, _ = fmt.Fprint(msgOut, "  ")
		}
		_, _ = headerColor.Fprintf(msgOut, "%-*s", colWidths[i], header)
	}
	_, _ = fmt.Fprintln(msgOut)

	_, _ = fmt.Fprint(msgOut, "  ")
	for i, width := range colWidths {
		if i > 0 {
			_, _ = fmt.Fprint(msgOut, "  ")
		}
		_, _ = fmt.Fprint(msgOut, strings.Repeat("-", width))
	}
	_, _ = fmt.Fprintln(msgOut)

	for _, row := range rows {
		_, _ = fmt.Fprint(msgOut, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				_, _ = fmt.Fprint(msgOut, "  ")
			}
			_, _ = valueColor.Fprintf(msgOut, "%-*s", colWidths[i], cell)
		}
		_, _ = fmt.Fprintln(msgOut)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Fprintf(msgOut, "  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
