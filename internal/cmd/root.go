package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/atikulmunna/loglens/internal/config"
	"github.com/atikulmunna/loglens/internal/logging"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the loglens command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	rootCmd := &cobra.Command{
		Use:   "loglens [paths...]",
		Short: "Access log request and failed-login report",
		Long: `loglens reads web server access logs in a single pass and reports
requests per client address, the most accessed endpoint, and addresses
whose failed authentication count exceeds a threshold.

Examples:
  loglens access.log
  loglens "/var/log/nginx/**/access.log" --threshold 10 -o report.csv
  loglens serve access.log --addr :9090`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runAnalyze,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: $HOME/.loglens.yaml or ./.loglens.yaml)")
	flags.StringSliceP("input", "i", nil, "input log files or glob patterns (default: sample.log)")
	flags.StringP("output", "o", "", "CSV report path, empty to skip (default: log_analysis_results.csv)")
	flags.StringP("format", "f", "", "terminal format: text, json")
	flags.String("marker", "", "status code counted as a failed login (default: 401)")
	flags.IntP("threshold", "t", 0, "flag addresses with more failed logins than this")
	flags.String("parser", "", "line parser: fields, clf, regex")
	flags.String("pattern", "", "regex with named groups address, endpoint, status (for --parser regex)")
	flags.Bool("pipeline", false, "read and aggregate on separate goroutines")
	flags.Int("buffer", 0, "line buffer size for --pipeline (default: 512)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console, json")

	for key, flag := range map[string]string{
		"input":      "input",
		"output":     "output",
		"format":     "format",
		"marker":     "marker",
		"threshold":  "threshold",
		"parser":     "parser",
		"pattern":    "pattern",
		"pipeline":   "pipeline",
		"buffer":     "buffer",
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(newAnalyzeCmd(a), newServeCmd(a))
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	config.Configure(a.v, a.cfgFile, ".", home)

	if len(args) > 0 {
		a.v.Set("input", args)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
