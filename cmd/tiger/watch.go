package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/artpar/tiger/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch [modpath]",
	Short: "Revalidate a mod whenever its files change",
	Long: `Validate a mod, then watch its directory and validate again after
every change. Saving a file without changing its contents does not
trigger a run.

With --listen, a status server exposes:
  /health, /health/ready   liveness and readiness
  /diagnostics             findings of the latest run (JSON:API)
  /runs                    run history
  /metrics                 Prometheus metrics
  /swagger/                API browser, with --openapi

The config file is reloaded on change or SIGHUP.

Examples:
  tiger watch my_mod
  tiger watch my_mod --listen 127.0.0.1:9310 --debounce 1s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var (
	watchListen   string
	watchDebounce time.Duration
	watchOpenAPI  bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addReportFlags(watchCmd)

	watchCmd.Flags().StringVar(&watchListen, "listen", "", "address for the status server, such as 127.0.0.1:9310")
	watchCmd.Flags().BoolVar(&watchOpenAPI, "openapi", false, "serve a Swagger UI for the status API")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before revalidating (default 500ms)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	overrides := reportOverrides(cmd)
	a, err := newApp(cmd, firstArg(args), func(cfg *config.Config) {
		overrides(cfg)
		if cmd.Flags().Changed("listen") {
			cfg.Metrics.Listen = watchListen
		}
		if cmd.Flags().Changed("openapi") {
			cfg.Metrics.OpenAPI = watchOpenAPI
		}
		if cmd.Flags().Changed("debounce") {
			cfg.Watch.Debounce = watchDebounce
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(cmd.Context())
}
