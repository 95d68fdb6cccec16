package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/user/aisec-dash/pkg/dataset"
	"github.com/user/aisec-dash/pkg/render"
	"github.com/user/aisec-dash/pkg/views"
)

// resetFlags clears flag values left over from a previous Execute.
// StringToString flags cannot be reset, so each test passes --filter to a
// given command at most once.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestViewCommands(t *testing.T) {
	t.Setenv("AISEC_DASH_HOME", t.TempDir())

	t.Run("json scans with filter", func(t *testing.T) {
		out, _, err := run(t, "", "scans", "-o", "json", "--filter", "severity=critical")
		if err != nil {
			t.Fatal(err)
		}
		var report struct {
			Shown int `json:"shown"`
			Rows  []struct {
				ID string `json:"id"`
			} `json:"rows"`
		}
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if report.Shown != 2 || report.Rows[0].ID != "vuln-001" || report.Rows[1].ID != "vuln-002" {
			t.Errorf("unexpected rows: %+v", report)
		}
	})

	t.Run("table systems sorted by name", func(t *testing.T) {
		out, _, err := run(t, "", "systems", "--sort", "name", "--asc")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "sort: name asc") {
			t.Errorf("heading should show the sort:\n%s", out)
		}
		if strings.Index(out, "Claims Document Vision") > strings.Index(out, "Sales Email Assistant") {
			t.Errorf("names should be ascending:\n%s", out)
		}
	})

	t.Run("compliance framework flag", func(t *testing.T) {
		out, _, err := run(t, "", "compliance", "--framework", "soc2", "-o", "yaml")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "soc2-1") || strings.Contains(out, "euai-1") {
			t.Errorf("expected only SOC 2 requirements:\n%s", out)
		}
	})

	t.Run("unknown framework", func(t *testing.T) {
		_, _, err := run(t, "", "compliance", "--framework", "gdpr")
		if !errors.Is(err, views.ErrUnknownFramework) {
			t.Errorf("expected ErrUnknownFramework, got %v", err)
		}
	})

	t.Run("metrics dump", func(t *testing.T) {
		_, errOut, err := run(t, "", "alerts", "--metrics")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(errOut, `aisec_dash_queries_total{outcome="ok",view="alerts"} 1`) {
			t.Errorf("metrics missing from stderr:\n%s", errOut)
		}
	})

	t.Run("help explains severity direction", func(t *testing.T) {
		out, _, err := run(t, "", "scans", "--help")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "--asc\nputs the least severe first") {
			t.Errorf("help should say what --asc does to severity:\n%s", out)
		}
	})

	t.Run("views listing", func(t *testing.T) {
		out, _, err := run(t, "", "views")
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"overview", "systems", "scans", "alerts", "compliance"} {
			if !strings.Contains(out, name) {
				t.Errorf("views output missing %s:\n%s", name, out)
			}
		}
	})
}

func TestValidateCommand(t *testing.T) {
	t.Setenv("AISEC_DASH_HOME", t.TempDir())

	out, _, err := run(t, "", "validate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Dataset OK") {
		t.Errorf("demo data should validate:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := "systems:\n  - id: s1\n    name: One\n    status: melting\n    riskLevel: high\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err = run(t, "", "validate", "--data", path, "--strict")
	if err == nil {
		t.Error("strict validation should fail")
	}
	if !strings.Contains(out, `unknown status "melting"`) {
		t.Errorf("warning not printed:\n%s", out)
	}
}

func TestConfigSetViewDefaults(t *testing.T) {
	t.Setenv("AISEC_DASH_HOME", t.TempDir())

	if _, _, err := run(t, "", "config", "set", "--view", "alerts", "--sort", "timestamp", "--asc", "--filter", "severity=high"); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "", "alerts", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Query struct {
			Filters   map[string]string `json:"filters"`
			SortKey   string            `json:"sortKey"`
			Ascending bool              `json:"ascending"`
		} `json:"query"`
		Shown int `json:"shown"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Query.SortKey != "timestamp" || !report.Query.Ascending || report.Query.Filters["severity"] != "high" {
		t.Errorf("stored defaults not applied: %+v", report.Query)
	}
	if report.Shown != 2 {
		t.Errorf("expected 2 high alerts, got %d", report.Shown)
	}

	if _, _, err := run(t, "", "config", "set", "--view", "alerts", "--sort", "cvss"); err == nil {
		t.Error("a sort key the view lacks should be rejected")
	}

	out, _, err = run(t, "", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sort_key: timestamp") {
		t.Errorf("config show missing view defaults:\n%s", out)
	}
}

func TestSetupWizard(t *testing.T) {
	t.Setenv("AISEC_DASH_HOME", t.TempDir())

	out, _, err := run(t, "2\n\ndebug\n", "config", "setup")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Setup Complete!") {
		t.Fatalf("wizard did not finish:\n%s", out)
	}

	out, _, err = run(t, "", "config", "show", "-o", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "output: json") || !strings.Contains(out, "log_level: debug") {
		t.Errorf("wizard answers not saved:\n%s", out)
	}
}

func TestShell(t *testing.T) {
	registry = views.Default(nil)
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}
	session, err := views.NewSession(registry, "scans")
	if err != nil {
		t.Fatal(err)
	}

	input := strings.Join([]string{
		"filter severity=high",
		"sort cvss",
		"filter owner nobody",
		"view reports",
		"bogus",
		"quit",
	}, "\n")

	var out bytes.Buffer
	err = shell(context.Background(), strings.NewReader(input), &out, ds, session, render.NewPrinter(render.FormatTable, &out))
	if err != nil {
		t.Fatal(err)
	}

	text := out.String()
	for _, want := range []string{
		"filter: severity=high | sort: cvss asc | 5 shown",
		"Error: unknown filter field: owner",
		"Error: unknown view: reports",
		`Error: unknown command "bogus"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("shell output missing %q", want)
		}
	}
	if got := session.Query().Filter("severity"); got != "high" {
		t.Errorf("failed commands must keep the session state, got severity=%q", got)
	}
}

func TestShellUndoesRejectedFilter(t *testing.T) {
	registry = views.Default(nil)
	ds, err := dataset.Default()
	if err != nil {
		t.Fatal(err)
	}
	session, err := views.NewSession(registry, "compliance")
	if err != nil {
		t.Fatal(err)
	}

	input := "filter framework=nope\nfilter status=in-progress\nquit\n"
	var out bytes.Buffer
	err = shell(context.Background(), strings.NewReader(input), &out, ds, session, render.NewPrinter(render.FormatTable, &out))
	if err != nil {
		t.Fatal(err)
	}

	text := out.String()
	if !strings.Contains(text, "Error: unknown compliance framework: nope") {
		t.Errorf("rejected framework not reported:\n%s", text)
	}
	if strings.Count(text, "Error:") != 1 {
		t.Errorf("later commands should succeed once the filter is undone:\n%s", text)
	}
	if got := session.Query().Filter("framework"); got != "all" {
		t.Errorf("framework filter should be rolled back, got %q", got)
	}
	if got := session.Query().Filter("status"); got != "in-progress" {
		t.Errorf("status filter should apply, got %q", got)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in           string
		field, value string
		ok           bool
	}{
		{"status=open", "status", "open", true},
		{"system HR Screening Assistant", "system", "HR Screening Assistant", true},
		{"system=HR Screening Assistant", "system", "HR Screening Assistant", true},
		{"=open", "", "open", false},
		{"status", "status", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, value, ok := parseFilter(tt.in)
			if field != tt.field || value != tt.value || ok != tt.ok {
				t.Errorf("parseFilter(%q) = %q, %q, %v", tt.in, field, value, ok)
			}
		})
	}
}
