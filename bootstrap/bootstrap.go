// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from tiger.yaml or the environment, with command
// line flags applied on top.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/artpar/tiger/adapters/clock"
	"github.com/artpar/tiger/adapters/hasher"
	apihttp "github.com/artpar/tiger/adapters/http"
	"github.com/artpar/tiger/adapters/idgen"
	"github.com/artpar/tiger/adapters/memory"
	"github.com/artpar/tiger/adapters/metrics"
	"github.com/artpar/tiger/adapters/sqlite"
	"github.com/artpar/tiger/app"
	"github.com/artpar/tiger/config"
	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/events"
	"github.com/artpar/tiger/core/fileset"
	"github.com/artpar/tiger/core/formatter"
	"github.com/artpar/tiger/core/index"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/ports"
)

// ErrThreshold is returned by callers when a run reported a diagnostic
// at or above report.fail_on.
var ErrThreshold = errors.New("diagnostics at or above the failure threshold")

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	Metrics    *metrics.Collector
	Bus        *events.Bus
	Service    *app.ValidationService
	ModFile    *fileset.ModFile
	GameDir    string
	HTTPServer *http.Server

	items ports.ItemStore
	runs  ports.RunStore

	out      io.Writer
	override func(*config.Config)
	sources  *formatter.SourceLines
	version  string
}

// Options provides optional configuration for application initialization.
type Options struct {
	// ConfigPath is the config file; empty uses tiger.yaml when present.
	ConfigPath string

	// Override adjusts the loaded configuration, typically from command
	// line flags. It is applied again after every reload.
	Override func(*config.Config)

	// Out receives reports. Defaults to stdout.
	Out io.Writer

	// Version is reported by the status server.
	Version string
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	holder, err := config.NewHolder(opts.ConfigPath, zerolog.Nop())
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   holder,
		out:      opts.Out,
		override: opts.Override,
		sources:  formatter.NewSourceLines(),
		version:  opts.Version,
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	cfg := a.current()
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	a.Logger = setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	holder.SetLogger(a.Logger)
	a.Logger.Debug().Str("config", holder.Path()).Msg("initializing tiger")

	if err := a.initMod(cfg); err != nil {
		a.Close()
		return nil, err
	}

	if err := a.initStorage(cfg); err != nil {
		a.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	a.Metrics = metrics.New()
	a.Bus = events.NewBus(a.Logger)
	a.Service = app.NewValidationService(app.ValidationDeps{
		Items:  a.items,
		Runs:   a.runs,
		Clock:  clock.Real{},
		IDGen:  idgen.UUID{},
		Bus:    a.Bus,
		Logger: a.Logger,
	}, serviceConfig(cfg))

	a.Bus.Subscribe(events.ValidationCompleted, a.writeReport)
	a.Bus.Subscribe(events.ValidationCompleted, a.observeRun)
	a.Bus.Subscribe(events.ValidationFailed, a.writeFailure)

	holder.OnChange(a.applyConfig)
	holder.OnError(func(error) { a.Metrics.ConfigReloadErrors.Inc() })

	return a, nil
}

// current returns the active configuration with overrides applied.
func (a *App) current() *config.Config {
	cfg := *a.Config.Get()
	if a.override != nil {
		a.override(&cfg)
	}
	return &cfg
}

func (a *App) initMod(cfg *config.Config) error {
	if cfg.Mod.Path == "" {
		return fmt.Errorf("no mod given; pass its directory or descriptor.mod, or set mod.path")
	}

	rec := &diagnostics.Recorder{}
	mf, err := fileset.ReadModFile(cfg.Mod.Path, rec)
	if err != nil {
		return err
	}
	for _, d := range rec.Diags {
		a.Logger.Warn().Str("path", d.Loc.String()).Msg(d.Message)
	}
	a.ModFile = mf

	gameDir, err := fileset.FindGameDir(cfg.Game.Path)
	if err != nil {
		return err
	}
	a.GameDir = gameDir

	a.Logger.Info().
		Str("mod", mf.Name).
		Str("mod_dir", mf.Path).
		Str("game_dir", gameDir).
		Msg("mod located")
	return nil
}

func (a *App) initStorage(cfg *config.Config) error {
	if cfg.Index.DSN == "" {
		a.items = memory.NewItemStore()
		a.runs = memory.NewRunStore()
		return nil
	}

	db, err := sqlite.Open(cfg.Index.DSN)
	if err != nil {
		return err
	}
	a.DB = db

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.items = sqlite.NewItemStore(db)
	a.runs = sqlite.NewRunStore(db)

	a.Logger.Info().Str("dsn", cfg.Index.DSN).Msg("item index persisted to sqlite")
	return nil
}

func serviceConfig(cfg *config.Config) app.ValidationConfig {
	// Validate has already compiled the filter once.
	filter, _ := diagnostics.CompileFilter(cfg.Report.Filter)
	return app.ValidationConfig{
		MinLevel:    cfg.MinSeverity(),
		ShowVanilla: cfg.Report.ShowVanilla,
		Filter:      filter,
		MaxDepth:    cfg.Validation.MaxDepth,
		Jobs:        cfg.Validation.Jobs,
	}
}

// Files scans the game and mod directories.
func (a *App) Files() (*fileset.FileSet, error) {
	files := fileset.New(a.GameDir, a.ModFile.Path, a.ModFile.ReplacePaths)
	if err := files.Scan(); err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}
	return files, nil
}

// Validate runs one validation. The report is written by the event bus
// subscribers before Validate returns.
func (a *App) Validate(ctx context.Context) (app.Result, error) {
	files, err := a.Files()
	if err != nil {
		return app.Result{}, err
	}
	res, err := a.Service.Validate(ctx, files)
	if err != nil {
		return app.Result{}, err
	}

	a.Metrics.ObserveItems(res.Index.Counts())
	if path := a.current().Metrics.Textfile; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			a.Logger.Error().Err(err).Msg("metrics textfile not written")
		}
	}
	return res, nil
}

// Failed reports whether r has a diagnostic at or above report.fail_on.
func (a *App) Failed(r run.Run) bool {
	threshold, ok := a.current().FailSeverity()
	if !ok {
		return false
	}
	worst, found := r.Worst()
	return found && worst >= threshold
}

// Index returns the item index: the persisted one when index.dsn holds
// items and fresh is false, otherwise a newly loaded one.
func (a *App) Index(ctx context.Context, fresh bool) (*index.Index, error) {
	if !fresh && a.DB != nil {
		counts, err := a.items.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count stored items: %w", err)
		}
		if len(counts) > 0 {
			a.Logger.Debug().Msg("using persisted item index")
			return index.Restore(ctx, a.items)
		}
	}

	files, err := a.Files()
	if err != nil {
		return nil, err
	}
	rec := &diagnostics.Recorder{}
	ix, err := a.Service.LoadIndex(ctx, files, rec)
	if err != nil {
		return nil, err
	}
	if len(rec.Diags) > 0 {
		a.Logger.Warn().Int("problems", len(rec.Diags)).Msg("problems found while loading items; run validate for details")
	}
	if a.DB != nil {
		if err := ix.Persist(ctx, a.items); err != nil {
			return nil, fmt.Errorf("persist index: %w", err)
		}
	}
	return ix, nil
}

// WriteItems formats items with the configured formatter.
func (a *App) WriteItems(items []item.Item) error {
	f, err := formatter.Lookup(a.current().Report.Format)
	if err != nil {
		return err
	}
	return f.FormatItems(a.out, items, formatter.FormatOptions{})
}

// Runs returns the run history, newest first.
func (a *App) Runs(ctx context.Context, limit int) ([]run.Run, error) {
	return a.runs.Recent(ctx, limit)
}

func (a *App) formatOptions(cfg *config.Config) formatter.FormatOptions {
	f, _ := a.out.(*os.File)
	return formatter.FormatOptions{
		Color:   formatter.ColorEnabled(cfg.Report.Color, f),
		Summary: true,
		Source:  a.sources,
	}
}

func (a *App) writeReport(ctx context.Context, e events.Event) error {
	cfg := a.current()
	f, err := formatter.Lookup(cfg.Report.Format)
	if err != nil {
		return err
	}
	return f.Format(a.out, e.Run, e.Diagnostics, a.formatOptions(cfg))
}

func (a *App) writeFailure(ctx context.Context, e events.Event) error {
	if errors.Is(e.Err, context.Canceled) {
		return nil
	}
	f, err := formatter.Lookup(a.current().Report.Format)
	if err != nil {
		return err
	}
	return f.FormatError(a.out, e.Err)
}

func (a *App) observeRun(ctx context.Context, e events.Event) error {
	a.Metrics.Observe(e.Run, e.Diagnostics)
	return nil
}

// applyConfig pushes a reloaded configuration into the running services.
func (a *App) applyConfig(*config.Config) {
	cfg := a.current()
	if err := config.Validate(cfg); err != nil {
		a.Logger.Error().Err(err).Msg("flags make the reloaded config invalid, keeping old settings")
		a.Metrics.ConfigReloadErrors.Inc()
		return
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	a.Service.SetConfig(serviceConfig(cfg))
	a.Metrics.ConfigReloads.Inc()
	a.Bus.Publish(context.Background(), events.Event{Name: events.ConfigReloaded})
}

// Run validates once, then revalidates whenever the mod changes until
// ctx is cancelled. With metrics.listen set, the status server runs
// alongside.
func (a *App) Run(ctx context.Context) error {
	cfg := a.current()

	if a.Config.Path() != "" {
		if err := a.Config.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file will not be reloaded on change")
		}
	}
	a.Config.WatchSignals()

	if _, err := a.Validate(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.Logger.Error().Err(err).Msg("initial validation failed")
	}

	w := NewWatcher(WatcherConfig{
		Root:     a.ModFile.Path,
		Debounce: cfg.Watch.Debounce,
		Hasher:   hasher.Blake2b{},
		Logger:   a.Logger,
		OnSkip:   func(n int) { a.Metrics.FilesSkipped.Add(float64(n)) },
	})
	a.Bus.Subscribe(events.ConfigReloaded, func(ctx context.Context, _ events.Event) error {
		w.SetDebounce(a.current().Watch.Debounce)
		return nil
	})

	p := pool.New().WithContext(ctx).WithCancelOnError()
	if cfg.Metrics.Listen != "" {
		a.initHTTPServer(cfg.Metrics)
		p.Go(func(ctx context.Context) error {
			return apihttp.Serve(ctx, a.HTTPServer, a.Logger)
		})
	}
	p.Go(func(ctx context.Context) error {
		return w.Run(ctx, func(ctx context.Context, paths []string) {
			a.Bus.Publish(ctx, events.Event{Name: events.FilesChanged, Paths: paths})
			if _, err := a.Validate(ctx); err != nil && ctx.Err() == nil {
				a.Logger.Error().Err(err).Msg("revalidation failed")
			}
		})
	})

	a.Logger.Info().Str("dir", a.ModFile.Path).Msg("watching mod for changes")
	return p.Wait()
}

func (a *App) initHTTPServer(mc config.MetricsConfig) {
	h := apihttp.NewStatusHandler(a.Service, a.runs, a.Logger)
	router := apihttp.NewRouter(h, a.Logger, apihttp.RouterConfig{
		Version:       a.version,
		Metrics:       a.Metrics,
		EnableOpenAPI: mc.OpenAPI,
	})
	a.HTTPServer = &http.Server{
		Addr:              mc.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.Config != nil {
		a.Config.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
			return err
		}
	}

	a.Logger.Debug().Msg("shutdown complete")
	return nil
}

// setupLogger configures the global level and returns a logger writing
// to stderr, leaving stdout to reports.
func setupLogger(levelStr, format string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
