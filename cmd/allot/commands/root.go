package commands

import (
	"fmt"

	"github.com/dyluth/allot/internal/config"
	"github.com/dyluth/allot/internal/printer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version string
	commit  string
	date    string

	cfgFile string
	verbose bool

	// logger carries engine diagnostics; a no-op unless --verbose is set
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "allot",
	Short: "allot - Assign students to projects outside their own group",
	Long: `allot assigns every student a project owned by another group and tagged
with a different case study than their own group's project.

It reads a students file (name,group) and a projects file
(project,owner group,case study), draws one eligible project per student at
random, checks every assignment again and writes the result as a CSV table and
a human-readable report.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		l, err := zcfg.Build()
		if err != nil {
			return printer.Error("failed to initialize logger", err.Error(), nil)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is specified, show help
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil && !printer.Reported(err) {
		// Flag parsing errors and anything a command did not print itself
		printer.Error(err.Error(), "", []string{"Run 'allot --help' for usage"})
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "Path to allot.yml (optional unless set explicitly)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Write structured debug logs to stderr")
}

// loadConfig reads the config file named by --config. The default file may be
// absent, in which case built-in defaults apply.
func loadConfig(cmd *cobra.Command) (*config.AllotConfig, error) {
	required := cmd.Flags().Changed("config")
	cfg, found, err := config.LoadOrDefault(cfgFile, required)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded", zap.String("path", cfgFile), zap.Bool("found", found))
	return cfg, nil
}
