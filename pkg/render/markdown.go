package render

import (
	"io"
	"strings"
	"text/template"

	"github.com/user/aisec-dash/pkg/views"
)

const markdownTemplate = `# {{ .Report.View }}

_{{ .Heading }}_

| Metric | Value |
|---|---|
{{- range $k := .SummaryKeys }}
| {{ $k }} | {{ number (index $.Report.Summary $k) }} |
{{- end }}
{{ range .Report.Tables }}
## {{ .Title }}
{{ if .Rows }}
| {{ join .Headers " | " }} |
|{{ range .Headers }}---|{{ end }}
{{- range .Rows }}
| {{ cells . }} |
{{- end }}
{{ else }}
_none_
{{ end }}
{{- end }}`

var mdTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"join":   strings.Join,
	"number": Number,
	"cells": func(row []string) string {
		escaped := make([]string, len(row))
		for i, c := range row {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		return strings.Join(escaped, " | ")
	},
}).Parse(markdownTemplate))

func markdown(w io.Writer, r *views.Report) error {
	return mdTemplate.Execute(w, struct {
		Report      *views.Report
		Heading     string
		SummaryKeys []string
	}{
		Report:      r,
		Heading:     Heading(r),
		SummaryKeys: sortedKeys(r.Summary),
	})
}
