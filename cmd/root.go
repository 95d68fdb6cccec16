package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/user/aisec-dash/pkg/config"
	"github.com/user/aisec-dash/pkg/logger"
	"github.com/user/aisec-dash/pkg/metrics"
	"github.com/user/aisec-dash/pkg/render"
	"github.com/user/aisec-dash/pkg/views"
)

var rootCmd = &cobra.Command{
	Use:   "aisec-dash",
	Short: "AI security posture dashboard for the terminal",
	Long: `aisec-dash queries the AI security demo dataset the way the web
dashboard does: filter, sort and aggregate connected systems, vulnerability
findings, alerts and compliance frameworks.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		if !MetricsDump || promRegistry == nil {
			return nil
		}
		return metrics.WriteText(cmd.ErrOrStderr(), promRegistry)
	},
}

var (
	DebugMode   bool
	OutputFlag  string
	DataPath    string
	MetricsDump bool
)

// process state built once per invocation by setup
var (
	cfg          *config.Config
	promRegistry *prometheus.Registry
	registry     *views.Registry
	printFormat  render.Format
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&OutputFlag, "output", "o", "", "Output format: table, json, yaml, markdown (default from config)")
	rootCmd.PersistentFlags().StringVar(&DataPath, "data", "", "Dataset YAML file or directory (default: embedded demo data)")
	rootCmd.PersistentFlags().BoolVar(&MetricsDump, "metrics", false, "Print query metrics to stderr on exit")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if DebugMode {
		level = "debug"
	}
	if err := logger.Init(level, DebugMode); err != nil {
		return err
	}

	output := cfg.Output
	if cmd.Flags().Changed("output") {
		output = OutputFlag
	}
	printFormat, err = render.ParseFormat(output)
	if err != nil {
		return err
	}

	promRegistry = prometheus.NewRegistry()
	registry = views.Default(metrics.NewMetrics(promRegistry))
	return nil
}

func dataPath() string {
	if DataPath != "" {
		return DataPath
	}
	return cfg.DataPath
}
