package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/user/aisec-dash/pkg/config"
	"github.com/user/aisec-dash/pkg/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (output, dataset, per-view defaults)",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", path)
		format := render.FormatYAML
		if printFormat == render.FormatJSON {
			format = render.FormatJSON
		}
		return render.NewPrinter(format, cmd.OutOrStdout()).Encode(cfg)
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values, or the default query of a view with --view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		if flags.Changed("format") {
			format, _ := flags.GetString("format")
			if _, err := render.ParseFormat(format); err != nil {
				return err
			}
			cfg.Output = format
		}
		if flags.Changed("data-path") {
			cfg.DataPath, _ = flags.GetString("data-path")
		}
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}

		if view, _ := flags.GetString("view"); view != "" {
			v, err := registry.Get(view)
			if err != nil {
				return err
			}
			d := cfg.GetViewDefaults(view)
			if flags.Changed("sort") {
				key, _ := flags.GetString("sort")
				if key != "" && !slices.Contains(v.SortKeys(), key) {
					return fmt.Errorf("view %s has no sort key %q (have %v)", view, key, v.SortKeys())
				}
				d.SortKey = key
			}
			if flags.Changed("asc") {
				d.Ascending, _ = flags.GetBool("asc")
			}
			if flags.Changed("filter") {
				filters, _ := flags.GetStringToString("filter")
				for field := range filters {
					if !slices.Contains(v.FilterFields(), field) {
						return fmt.Errorf("view %s has no filter field %q (have %v)", view, field, v.FilterFields())
					}
				}
				d.Filters = filters
			}
			if reset, _ := flags.GetBool("reset"); reset {
				d = config.ViewDefaults{}
			}
			cfg.SetViewDefaults(view, d)
		}

		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved.")
		return nil
	},
}

func init() {
	setConfigCmd.Flags().String("format", "", "Default output format (table, json, yaml, markdown)")
	setConfigCmd.Flags().String("data-path", "", "Default dataset path (empty for the embedded demo data)")
	setConfigCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	setConfigCmd.Flags().String("view", "", "View whose default query to change")
	setConfigCmd.Flags().String("sort", "", "Default sort key of --view")
	setConfigCmd.Flags().Bool("asc", false, "Default sort direction of --view")
	setConfigCmd.Flags().StringToString("filter", nil, "Default filters of --view as field=value")
	setConfigCmd.Flags().Bool("reset", false, "Clear the stored defaults of --view")

	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	rootCmd.AddCommand(configCmd)
}
