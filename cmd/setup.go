package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/aisec-dash/pkg/config"
	"github.com/user/aisec-dash/pkg/dataset"
	"github.com/user/aisec-dash/pkg/render"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		ask := func(prompt string) string {
			fmt.Fprint(out, prompt)
			if !scanner.Scan() {
				return ""
			}
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Fprintln(out, "Welcome to the aisec-dash setup wizard")
		fmt.Fprintln(out, "--------------------------------------")

		// 1. Output format
		fmt.Fprintln(out, "Step 1: Choose the default output format")
		for i, f := range render.Formats {
			fmt.Fprintf(out, "%d. %s\n", i+1, f)
		}
		choice := strings.ToLower(ask("Enter number or name [" + cfg.Output + "] > "))
		format := cfg.Output
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(render.Formats) {
			format = string(render.Formats[idx-1])
		} else if choice != "" {
			if _, err := render.ParseFormat(choice); err != nil {
				fmt.Fprintln(out, "Invalid choice. Aborting.")
				return nil
			}
			format = choice
		}

		// 2. Dataset
		fmt.Fprintln(out, "\nStep 2: Dataset file or directory (empty for the embedded demo data)")
		path := ask("> ")
		if path != "" {
			fmt.Fprintln(out, "Validating dataset...")
			ds, err := dataset.Load(path)
			if err != nil {
				fmt.Fprintf(out, "Error loading dataset: %v\n", err)
				return nil
			}
			warnings := dataset.Validate(ds)
			fmt.Fprintf(out, "Loaded %d systems, %d vulnerabilities, %d alerts, %d frameworks (%d warnings).\n",
				len(ds.Systems), len(ds.Vulnerabilities), len(ds.Alerts), len(ds.Frameworks), len(warnings))
		}

		// 3. Log level
		fmt.Fprintln(out, "\nStep 3: Log level (debug, info, warn, error)")
		level := ask("[" + cfg.LogLevel + "] > ")
		if level == "" {
			level = cfg.LogLevel
		}

		// 4. Save
		fmt.Fprintln(out, "\nStep 4: Saving configuration...")
		cfg.Output = format
		cfg.DataPath = path
		cfg.LogLevel = level
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Fprintf(out, "Error saving config: %v\n", err)
			return nil
		}

		dataLabel := path
		if dataLabel == "" {
			dataLabel = "embedded demo data"
		}
		fmt.Fprintln(out, "--------------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Output:  %s\n", format)
		fmt.Fprintf(out, "Dataset: %s\n", dataLabel)
		fmt.Fprintln(out, "You can now run 'aisec-dash overview' or 'aisec-dash interactive'")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
