package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/user/aisec-dash/pkg/engine"
	"github.com/user/aisec-dash/pkg/views"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat parses an output format string
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Printer writes reports in one format
type Printer struct {
	format Format
	w      io.Writer
}

func NewPrinter(format Format, w io.Writer) *Printer {
	return &Printer{format: format, w: w}
}

func (p *Printer) Format() Format {
	return p.format
}

// Print writes a view report
func (p *Printer) Print(r *views.Report) error {
	switch p.format {
	case FormatTable:
		return p.table(r)
	case FormatMarkdown:
		return markdown(p.w, r)
	default:
		return p.Encode(r)
	}
}

// Encode writes any value with the structured encoders. Table and
// markdown fall back to YAML.
func (p *Printer) Encode(data any) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	}
}

func (p *Printer) table(r *views.Report) error {
	fmt.Fprintf(p.w, "%s\n", Heading(r))

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if len(r.Summary) > 0 {
		fmt.Fprintln(tw, "\nSUMMARY")
		for _, k := range sortedKeys(r.Summary) {
			fmt.Fprintf(tw, "  %s\t%s\n", k, Number(r.Summary[k]))
		}
	}
	if len(r.Counts) > 0 {
		fmt.Fprintln(tw, "\nFILTER COUNTS")
		for _, k := range countKeys(r.Counts) {
			fmt.Fprintf(tw, "  %s\t%d\n", k, r.Counts[k])
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, t := range r.Tables {
		if err := writeTable(p.w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, t *views.Table) error {
	fmt.Fprintf(w, "\n%s (%d)\n", strings.ToUpper(t.Title), len(t.Rows))
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Heading describes the view and the query it ran with
func Heading(r *views.Report) string {
	dir := "desc"
	if r.Query.Ascending {
		dir = "asc"
	}
	var filters []string
	for _, k := range sortedKeys(r.Query.Filters) {
		filters = append(filters, k+"="+r.Query.Filters[k])
	}
	f := engine.All
	if len(filters) > 0 {
		f = strings.Join(filters, ",")
	}
	return fmt.Sprintf("== %s == filter: %s | sort: %s %s | %d shown", r.View, f, r.Query.SortKey, dir, r.Shown)
}

// Number prints integral values without a fraction
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// countKeys puts the All bucket first
func countKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	if _, ok := m[engine.All]; ok {
		keys = append(keys, engine.All)
	}
	for _, k := range sortedKeys(m) {
		if k != engine.All {
			keys = append(keys, k)
		}
	}
	return keys
}
