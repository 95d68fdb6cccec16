package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/aisec-dash/pkg/engine"
	"github.com/user/aisec-dash/pkg/render"
	"github.com/user/aisec-dash/pkg/views"
)

const shellHelp = `Commands:
  view <name>            switch view (resets filters and sort)
  filter <field>=<value> set a filter, value "all" clears it
  clear                  clear every filter
  sort <key>             sort by key, again to flip direction
  show                   print the current view again
  views                  list views
  help                   this text
  quit | exit            leave`

var interactiveCmd = &cobra.Command{
	Use:   "interactive [view]",
	Short: "Browse the dashboard in an interactive shell",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := "overview"
		if len(args) == 1 {
			start = args[0]
		}

		ds, err := loadDataset()
		if err != nil {
			return err
		}
		session, err := views.NewSession(registry, start)
		if err != nil {
			return err
		}
		if err := session.Apply(storedQuery(start)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "---------------------------------------------------------")
		fmt.Fprintln(out, "aisec-dash interactive shell. Type 'help' for commands.")
		fmt.Fprintln(out, "---------------------------------------------------------")
		return shell(cmd.Context(), cmd.InOrStdin(), out, ds, session, render.NewPrinter(printFormat, out))
	},
}

// shell reads commands until EOF or quit. Command errors are printed and
// the session keeps its previous state.
func shell(ctx context.Context, in io.Reader, out io.Writer, ds *engine.Dataset, s *views.Session, p *render.Printer) error {
	show := func() error {
		report, err := s.Run(ctx, ds)
		if err != nil {
			return err
		}
		return p.Print(report)
	}
	if err := show(); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\n%s> ", s.View().Name())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		snap := s.Snapshot()
		var err error
		switch cmd, rest := fields[0], fields[1:]; cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, shellHelp)
			continue
		case "views":
			for _, v := range registry.List() {
				fmt.Fprintf(out, "  %-12s %s\n", v.Name(), v.Description())
			}
			continue
		case "show":
		case "view":
			if len(rest) != 1 {
				err = fmt.Errorf("usage: view <name>")
				break
			}
			err = s.Switch(rest[0])
		case "filter":
			field, value, ok := parseFilter(strings.Join(rest, " "))
			if !ok {
				err = fmt.Errorf("usage: filter <field>=<value> (fields: %s)", strings.Join(s.View().FilterFields(), ", "))
				break
			}
			err = s.SetFilter(field, value)
		case "clear":
			s.ClearFilters()
		case "sort":
			if len(rest) != 1 {
				err = fmt.Errorf("usage: sort <key> (keys: %s)", strings.Join(s.View().SortKeys(), ", "))
				break
			}
			err = s.SortBy(rest[0])
		default:
			err = fmt.Errorf("unknown command %q, type 'help'", cmd)
		}

		if err == nil {
			// a change the view rejects, such as an unknown framework, is undone
			err = show()
		}
		if err != nil {
			s.Restore(snap)
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// parseFilter accepts "field=value" and "field value". Values may contain
// spaces.
func parseFilter(arg string) (field, value string, ok bool) {
	field, value, ok = strings.Cut(arg, "=")
	if !ok {
		field, value, ok = strings.Cut(arg, " ")
	}
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	return field, value, ok && field != ""
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
