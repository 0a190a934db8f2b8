package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
)

// OutputFormat selects how structured results are rendered.
type OutputFormat string

const (
	// FormatYAML renders as YAML (the terminal default).
	FormatYAML OutputFormat = "yaml"
	// FormatJSON renders as indented JSON.
	FormatJSON OutputFormat = "json"
)

// Output writes a structured result to w in the given format.
func Output(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("cliutil: format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("cliutil: unsupported output format: %s", format)
	}
}

// Table writes aligned rows. The first row is styled as a header.
func Table(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		for j, cell := range row {
			if i == 0 {
				cell = styles.Header.Render(cell)
			}
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

var styles = struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Header  lipgloss.Style
}{
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
	Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f")),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6e7681")),
}

// PrintSuccess prints a success message with a checkmark.
func PrintSuccess(format string, args ...any) {
	fmt.Println(styles.Success.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...any) {
	fmt.Println(styles.Warn.Render("⚠ " + fmt.Sprintf(format, args...)))
}
