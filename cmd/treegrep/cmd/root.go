package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/treegrep/internal/app"
	"github.com/corey/treegrep/internal/config"
	"github.com/corey/treegrep/internal/logging"
)

var (
	flagProject   string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "treegrep",
	Short: "treegrep — syntax-aware literal search",
	Long:  "Finds literal pattern occurrences and attributes each one to the syntax-tree node containing it.",
}

// projectRoot returns the project root (cwd unless --project is given).
func projectRoot() string {
	if flagProject != "" {
		return flagProject
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// openApp loads configuration, installs the logger, and wires an App.
// Callers must Close it.
func openApp() (*app.App, error) {
	root := projectRoot()
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	format := cfg.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	log := logging.Setup(level, format)

	return app.New(app.Config{ProjectRoot: root, Settings: &cfg, Log: log})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProject, "project", "", "Project root (default: current directory)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Override log format (text, json)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(hintsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(grammarsCmd)
}
