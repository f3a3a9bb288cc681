package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/artpar/tiger/config"
	"github.com/artpar/tiger/domain/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show previous validation runs",
	Long: `Show the run history saved in the item index database.

Examples:
  tiger runs --mod my_mod --index-db tiger.db
  tiger runs --limit 5`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

var (
	runsMod     string
	runsIndexDB string
	runsLimit   int
)

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVarP(&runsMod, "mod", "m", "", "mod directory or descriptor.mod")
	runsCmd.Flags().StringVar(&runsIndexDB, "index-db", "", "sqlite file holding the run history")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, runsMod, func(cfg *config.Config) {
		if cmd.Flags().Changed("index-db") {
			cfg.Index.DSN = runsIndexDB
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.DB == nil {
		return fmt.Errorf("no run history without an index database; set index.dsn or --index-db")
	}

	runs, err := a.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Record one with: tiger validate --index-db <file>")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMOD\tSTARTED\tDURATION\tFILES\tERRORS\tWARNINGS")
	fmt.Fprintln(w, "--\t---\t-------\t--------\t-----\t------\t--------")

	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Mod, r.StartedAt.Format("2006-01-02 15:04:05"), r.Duration.Round(time.Millisecond),
			r.Files, r.Counts[report.Error], r.Counts[report.Warning])
	}

	return w.Flush()
}
