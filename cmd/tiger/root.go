package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/artpar/tiger/bootstrap"
	"github.com/artpar/tiger/config"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tiger",
	Short: "Validate the scripts of a Crusader Kings III mod",
	Long: `tiger checks the effect, trigger and event scripts of a mod without
running the game. It reports unknown effects, effects used on the wrong
kind of subject, references to items that do not exist, and misplaced
fields.

Quick start:
  tiger validate path/to/mod          # Report problems once
  tiger watch path/to/mod             # Revalidate on every save

Lookups:
  tiger items list trait brave_       # List known items
  tiger items check title k_england   # Check one item exists
  tiger runs                          # Show previous runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, bootstrap.ErrThreshold):
		stop()
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: tiger.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// newApp builds the application for cmd. A positional mod path and every
// flag the user set override the loaded configuration.
func newApp(cmd *cobra.Command, modPath string, apply func(*config.Config)) (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Out:        cmd.OutOrStdout(),
		Version:    version,
		Override: func(cfg *config.Config) {
			if modPath != "" {
				cfg.Mod.Path = modPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Logging.Format = logFormat
			}
			if apply != nil {
				apply(cfg)
			}
		},
	})
}

// firstArg returns args[0], or "" when there is none.
func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
