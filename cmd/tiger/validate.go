package main

import (
	"github.com/spf13/cobra"

	"github.com/artpar/tiger/bootstrap"
	"github.com/artpar/tiger/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [modpath]",
	Short: "Validate a mod once and report problems",
	Long: `Validate every scripted effect, scripted trigger, script value,
decision and event of a mod against the base game.

modpath is the mod directory or its descriptor.mod. Without it, mod.path
from the configuration is used.

Exit status is 2 when a problem at or above --fail-on was reported.

Examples:
  tiger validate ~/Documents/Paradox\ Interactive/Crusader\ Kings\ III/mod/my_mod
  tiger validate my_mod --format json --min-level warning
  tiger validate my_mod --fail-on error --metrics-textfile /var/lib/node_exporter/tiger.prom
  tiger validate my_mod --filter 'key != "validation" || vanilla'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateGame            string
	validateShowVanilla     bool
	validateAdvice          bool
	validateMinLevel        string
	validateFormat          string
	validateColor           string
	validateMaxDepth        int
	validateJobs            int
	validateIndexDB         string
	validateMetricsTextfile string
	validateFailOn          string
	validateFilter          string
)

func init() {
	rootCmd.AddCommand(validateCmd)
	addReportFlags(validateCmd)

	validateCmd.Flags().StringVar(&validateMetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	validateCmd.Flags().StringVar(&validateFailOn, "fail-on", "", "exit with status 2 on problems of this severity or worse, or never")
}

// addReportFlags registers the flags shared by validate and watch.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&validateGame, "game", "", "game directory (default: search the Steam library)")
	cmd.Flags().BoolVar(&validateShowVanilla, "show-vanilla", false, "also report problems in base-game files")
	cmd.Flags().BoolVar(&validateAdvice, "advice", false, "report everything, including advice (same as --min-level advice)")
	cmd.Flags().StringVar(&validateMinLevel, "min-level", "", "lowest severity to report: advice, info, warning, error")
	cmd.Flags().StringVar(&validateFormat, "format", "", "output format: console, table, json, yaml")
	cmd.Flags().StringVar(&validateFilter, "filter", "", "only report diagnostics matching this expression over severity, key, message, path, line and vanilla")
	cmd.Flags().StringVar(&validateColor, "color", "", "color output: auto, always, never")
	cmd.Flags().IntVar(&validateMaxDepth, "max-depth", 0, "deepest block nesting to follow")
	cmd.Flags().IntVarP(&validateJobs, "jobs", "j", 0, "files to process concurrently")
	cmd.Flags().StringVar(&validateIndexDB, "index-db", "", "persist the item index and run history to this sqlite file")
}

// reportOverrides applies the flags the user set to cfg.
func reportOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("game") {
			cfg.Game.Path = validateGame
		}
		if flags.Changed("show-vanilla") {
			cfg.Report.ShowVanilla = validateShowVanilla
		}
		if flags.Changed("min-level") {
			cfg.Report.MinLevel = validateMinLevel
		}
		if validateAdvice {
			cfg.Report.MinLevel = "advice"
		}
		if flags.Changed("format") {
			cfg.Report.Format = validateFormat
		}
		if flags.Changed("filter") {
			cfg.Report.Filter = validateFilter
		}
		if flags.Changed("color") {
			cfg.Report.Color = validateColor
		}
		if flags.Changed("max-depth") {
			cfg.Validation.MaxDepth = validateMaxDepth
		}
		if flags.Changed("jobs") {
			cfg.Validation.Jobs = validateJobs
		}
		if flags.Changed("index-db") {
			cfg.Index.DSN = validateIndexDB
		}
		if flags.Changed("metrics-textfile") {
			cfg.Metrics.Textfile = validateMetricsTextfile
		}
		if flags.Changed("fail-on") {
			cfg.Report.FailOn = validateFailOn
		}
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, firstArg(args), reportOverrides(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Validate(cmd.Context())
	if err != nil {
		return err
	}
	if a.Failed(res.Run) {
		return bootstrap.ErrThreshold
	}
	return nil
}
