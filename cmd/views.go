package cmd

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/aisec-dash/pkg/dataset"
	"github.com/user/aisec-dash/pkg/engine"
	"github.com/user/aisec-dash/pkg/logger"
	"github.com/user/aisec-dash/pkg/render"
	"github.com/user/aisec-dash/pkg/views"
)

const rankSortHelp = `Severity and status sort most severe first (critical, then high); --asc
puts the least severe first (low, or healthy for system status).`

// newViewCmd builds the command for one dashboard page
func newViewCmd(v views.View) *cobra.Command {
	var (
		filters   map[string]string
		sortKey   string
		ascending bool
		framework string
	)

	long := fmt.Sprintf("%s\n\nFilter fields: %s\nSort keys:     %s (default %s)",
		v.Description(),
		strings.Join(v.FilterFields(), ", "),
		strings.Join(v.SortKeys(), ", "),
		sortLabel(v.DefaultSort()),
	)
	if slices.Contains(v.SortKeys(), engine.SortSeverity) || slices.Contains(v.SortKeys(), engine.SortStatus) {
		long += "\n\n" + rankSortHelp
	}

	cmd := &cobra.Command{
		Use:   v.Name(),
		Short: v.Description(),
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := storedQuery(v.Name())
			if cmd.Flags().Changed("filter") {
				for field, value := range filters {
					q = q.WithFilter(field, value)
				}
			}
			if framework != "" {
				q = q.WithFilter(engine.FieldFramework, framework)
			}
			if cmd.Flags().Changed("sort") {
				q.SortKey = sortKey
				q.Ascending = ascending
			} else if cmd.Flags().Changed("asc") {
				if q.SortKey == "" {
					q.SortKey = v.DefaultSort().Key
				}
				q.Ascending = ascending
			}

			ds, err := loadDataset()
			if err != nil {
				return err
			}
			report, err := registry.Execute(cmd.Context(), v.Name(), ds, q)
			if err != nil {
				return err
			}
			return render.NewPrinter(printFormat, cmd.OutOrStdout()).Print(report)
		},
	}

	cmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "Filter as field=value, repeatable ("+strings.Join(v.FilterFields(), ", ")+")")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "Sort key ("+strings.Join(v.SortKeys(), ", ")+")")
	cmd.Flags().BoolVar(&ascending, "asc", false, "Sort ascending (smallest or least severe first)")
	if hasField(v, engine.FieldFramework) {
		cmd.Flags().StringVar(&framework, "framework", "", "Framework id (default: first framework)")
	}
	return cmd
}

func hasField(v views.View, field string) bool {
	return slices.Contains(v.FilterFields(), field)
}

func sortLabel(s engine.SortState) string {
	if s.Ascending {
		return s.Key + " asc"
	}
	return s.Key + " desc"
}

// storedQuery is the query a view opens with according to the config file
func storedQuery(view string) engine.Query {
	d := cfg.GetViewDefaults(view)
	q := engine.Query{SortKey: d.SortKey, Ascending: d.Ascending}
	for field, value := range d.Filters {
		q = q.WithFilter(field, value)
	}
	return q
}

func loadDataset() (*engine.Dataset, error) {
	path := dataPath()
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	if path != "" {
		for _, w := range dataset.Validate(ds) {
			logger.Named("dataset").Warn("Dataset warning", zap.String("path", path), zap.String("warning", w))
		}
	}
	return ds, nil
}

var listViewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the dashboard views with their filter fields and sort keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list := registry.List()
		if printFormat == render.FormatJSON || printFormat == render.FormatYAML {
			type viewInfo struct {
				Name         string   `json:"name" yaml:"name"`
				Description  string   `json:"description" yaml:"description"`
				FilterFields []string `json:"filterFields" yaml:"filterFields"`
				SortKeys     []string `json:"sortKeys" yaml:"sortKeys"`
				DefaultSort  string   `json:"defaultSort" yaml:"defaultSort"`
			}
			infos := make([]viewInfo, 0, len(list))
			for _, v := range list {
				infos = append(infos, viewInfo{v.Name(), v.Description(), v.FilterFields(), v.SortKeys(), sortLabel(v.DefaultSort())})
			}
			return render.NewPrinter(printFormat, cmd.OutOrStdout()).Encode(infos)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "VIEW\tFILTERS\tSORT KEYS\tDEFAULT SORT")
		for _, v := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name(), strings.Join(v.FilterFields(), ","), strings.Join(v.SortKeys(), ","), sortLabel(v.DefaultSort()))
		}
		return tw.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset for unknown enum values, out-of-range scores and dangling system names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		ds, err := dataset.Load(dataPath())
		if err != nil {
			return err
		}
		warnings := dataset.Validate(ds)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d systems, %d vulnerabilities, %d alerts, %d frameworks\n",
			len(ds.Systems), len(ds.Vulnerabilities), len(ds.Alerts), len(ds.Frameworks))
		if len(warnings) == 0 {
			fmt.Fprintln(out, "Dataset OK")
			return nil
		}
		for _, w := range warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if strict {
			return fmt.Errorf("%d dataset warnings", len(warnings))
		}
		return nil
	},
}

func init() {
	// registry is built per invocation, so commands come from a throwaway one
	for _, v := range views.Default(nil).List() {
		rootCmd.AddCommand(newViewCmd(v))
	}
	validateCmd.Flags().Bool("strict", false, "Exit non-zero when there are warnings")
	rootCmd.AddCommand(listViewsCmd)
	rootCmd.AddCommand(validateCmd)
}
