// Package report prints the human-readable side of a scan: the start
// message, the provider summary and the extraction rule listing.
//
// Output is styled with lipgloss when the writer is a color terminal and
// plain text otherwise.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/providerscan/internal/extraction"
	"github.com/fyrsmithlabs/providerscan/internal/scanner"
)

// Options controls the summary.
type Options struct {
	// OutputPath is where the catalog was (or would have been) written.
	OutputPath string

	// DryRun reports that the catalog was not written.
	DryRun bool
}

// styles are bound to one writer's renderer.
type styles struct {
	header  lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
	warning lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		section: r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
		key:     r.NewStyle().Foreground(lipgloss.Color("45")),
		value:   r.NewStyle().Foreground(lipgloss.Color("231")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
		warning: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	}
}

// Start prints the message shown before scanning root.
func Start(w io.Writer, root string) error {
	s := newStyles(w)
	_, err := fmt.Fprintf(w, "%s %s\n",
		s.header.Render("Scanning n8n provider configuration..."),
		s.dim.Render(root),
	)
	return err
}

// Summary prints the record count, the output path and one entry per
// record: its label, then BaseURL and Icon when present.
func Summary(w io.Writer, result *scanner.Result, opts Options) error {
	s := newStyles(w)
	var b strings.Builder

	fmt.Fprintf(&b, "\nFound %s provider configurations\n", s.value.Render(fmt.Sprint(len(result.Records))))

	if opts.DryRun {
		fmt.Fprintf(&b, "\n%s catalog not written (output path: %s)\n",
			s.warning.Render("Dry run:"), opts.OutputPath)
	} else {
		fmt.Fprintf(&b, "\nResults saved to: %s\n", s.value.Render(opts.OutputPath))
	}

	fmt.Fprintf(&b, "\n%s\n", s.section.Render("Provider summary:"))
	for _, rec := range result.Records {
		fmt.Fprintf(&b, "  - %s\n", s.label.Render(rec.Label()))
		if rec.BaseURL != nil {
			fmt.Fprintf(&b, "    %s %s\n", s.key.Render("BaseURL:"), s.value.Render(*rec.BaseURL))
		}
		if rec.Icon != nil {
			fmt.Fprintf(&b, "    %s %s\n", s.key.Render("Icon:"), s.value.Render(*rec.Icon))
		}
	}

	st := result.Stats
	stats := fmt.Sprintf("Files: %d seen, %d matched, %d ignored, %d unreadable",
		st.FilesSeen, st.FilesMatched, st.FilesIgnored, st.Unreadable)
	if st.Unreadable > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.warning.Render(stats))
	} else {
		fmt.Fprintf(&b, "\n%s\n", s.dim.Render(stats))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Rules prints extraction rules in priority order, one block per rule.
func Rules(w io.Writer, rules []extraction.Rule) error {
	s := newStyles(w)
	var b strings.Builder

	for i, r := range rules {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, s.label.Render(r.Name), s.dim.Render("("+string(r.Field)+")"))
		fmt.Fprintf(&b, "    %s %s\n", s.key.Render("regex:"), r.Regex)

		var flags []string
		if r.Group != 1 {
			flags = append(flags, fmt.Sprintf("group=%d", r.Group))
		}
		if r.StripTemplates {
			flags = append(flags, "strip-templates")
		}
		if r.RequirePrefix != "" {
			flags = append(flags, "prefix="+r.RequirePrefix)
		}
		if len(flags) > 0 {
			fmt.Fprintf(&b, "    %s %s\n", s.key.Render("flags:"), strings.Join(flags, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
