// Package app contains the ValidationService, which runs every script
// check over a mod and publishes the result.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/events"
	"github.com/artpar/tiger/core/fileset"
	"github.com/artpar/tiger/core/index"
	"github.com/artpar/tiger/core/scopecontext"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/ports"
)

// ValidationService validates mods and remembers the latest result.
type ValidationService struct {
	items  ports.ItemStore
	runs   ports.RunStore
	clock  ports.Clock
	idGen  ports.IDGenerator
	bus    *events.Bus
	logger zerolog.Logger

	// Hot-reloadable configuration
	cfg atomic.Pointer[ValidationConfig]

	mu     sync.RWMutex
	latest *Result
}

// ValidationDeps contains dependencies for ValidationService.
// Items, Runs and Bus are optional.
type ValidationDeps struct {
	Items  ports.ItemStore
	Runs   ports.RunStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Bus    *events.Bus
	Logger zerolog.Logger
}

// ValidationConfig contains configuration for ValidationService.
type ValidationConfig struct {
	MinLevel    report.Severity
	ShowVanilla bool
	Filter      *diagnostics.Filter
	MaxDepth    int
	Jobs        int
}

// Result is the outcome of one run.
type Result struct {
	Run         run.Run
	Diagnostics []report.Diagnostic
	Index       *index.Index
}

// NewValidationService creates a new validation service.
func NewValidationService(deps ValidationDeps, cfg ValidationConfig) *ValidationService {
	s := &ValidationService{
		items:  deps.Items,
		runs:   deps.Runs,
		clock:  deps.Clock,
		idGen:  deps.IDGen,
		bus:    deps.Bus,
		logger: deps.Logger,
	}
	s.SetConfig(cfg)
	return s
}

// SetConfig replaces the configuration used by the next run.
func (s *ValidationService) SetConfig(cfg ValidationConfig) {
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = scopecontext.DefaultMaxDepth
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	s.cfg.Store(&cfg)
}

// Config returns the configuration used by the next run.
func (s *ValidationService) Config() ValidationConfig {
	return *s.cfg.Load()
}

// LoadIndex builds the item index of files without validating anything.
// Problems met while loading go to sink.
func (s *ValidationService) LoadIndex(ctx context.Context, files *fileset.FileSet, sink report.Sink) (*index.Index, error) {
	loader := index.NewLoader(files, sink, s.logger, s.Config().Jobs)
	return loader.Load(ctx)
}

// Validate loads the item index of files and checks every script in it.
// Only I/O failures and cancellation are errors; findings are returned
// as diagnostics.
func (s *ValidationService) Validate(ctx context.Context, files *fileset.FileSet) (Result, error) {
	cfg := s.Config()
	started := s.clock.Now()
	r := run.Run{
		ID:        s.idGen.New(),
		Mod:       modName(files),
		StartedAt: started,
	}
	s.publish(ctx, events.Event{Name: events.ValidationStarted, Run: r})

	res, err := s.validate(ctx, files, cfg, r)
	if err != nil {
		r.Duration = s.clock.Now().Sub(started)
		s.logger.Error().Err(err).Str("run", r.ID).Msg("validation failed")
		s.publish(ctx, events.Event{Name: events.ValidationFailed, Run: r, Err: err})
		return Result{}, err
	}
	res.Run.Duration = s.clock.Now().Sub(started)

	if s.runs != nil {
		if err := s.runs.Record(ctx, res.Run); err != nil {
			s.logger.Warn().Err(err).Str("run", r.ID).Msg("failed to record run")
		}
	}

	s.mu.Lock()
	s.latest = &res
	s.mu.Unlock()

	s.logger.Info().
		Str("run", res.Run.ID).
		Str("mod", res.Run.Mod).
		Int("files", res.Run.Files).
		Int("items", res.Run.Items).
		Int("diagnostics", len(res.Diagnostics)).
		Dur("took", res.Run.Duration).
		Msg("validation finished")

	s.publish(ctx, events.Event{Name: events.ValidationCompleted, Run: res.Run, Diagnostics: res.Diagnostics})
	return res, nil
}

func (s *ValidationService) validate(ctx context.Context, files *fileset.FileSet, cfg ValidationConfig, r run.Run) (Result, error) {
	sink := diagnostics.New(diagnostics.Options{
		MinLevel:    cfg.MinLevel,
		ShowVanilla: cfg.ShowVanilla,
		Filter:      cfg.Filter,
	})
	loader := index.NewLoader(files, sink, s.logger, cfg.Jobs)

	ix, err := loader.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if s.items != nil {
		if err := ix.Persist(ctx, s.items); err != nil {
			return Result{}, fmt.Errorf("persist index: %w", err)
		}
	}

	env := checkEnv{data: ix, sink: sink, maxDepth: cfg.MaxDepth}
	p := pool.New().WithMaxGoroutines(cfg.Jobs).WithContext(ctx)
	checked := 0
	for _, c := range checks {
		entries := files.Under(c.dir, ".txt")
		checked += len(entries)
		s.logger.Debug().
			Str("dir", c.dir).
			Str("defines", definitionKind(c.dir)).
			Int("files", len(entries)).
			Msg("checking directory")
		for _, e := range entries {
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				b, err := loader.Parse(e)
				if err != nil {
					report.Errorf(sink, e.Loc(), report.KeyRead, "%v", err)
					return nil
				}
				c.check(b, env)
				return nil
			})
		}
	}
	if err := p.Wait(); err != nil {
		return Result{}, fmt.Errorf("validate scripts: %w", err)
	}

	r.Files = checked
	r.Items = ix.Len()
	r.Counts = sink.Counts()
	return Result{Run: r, Diagnostics: sink.Diagnostics(), Index: ix}, nil
}

// ValidateBlock runs the check for dir over an already parsed block.
func (s *ValidationService) ValidateBlock(dir string, b *block.Block, data ports.ItemIndex, sink report.Sink) error {
	for _, c := range checks {
		if c.dir == dir {
			c.check(b, checkEnv{data: data, sink: sink, maxDepth: s.Config().MaxDepth})
			return nil
		}
	}
	return fmt.Errorf("no checks for directory %q", dir)
}

// Latest returns the most recent successful run.
func (s *ValidationService) Latest() (run.Run, []report.Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return run.Run{}, nil, false
	}
	return s.latest.Run, s.latest.Diagnostics, true
}

// CheckedDirs returns the directories whose scripts are validated.
func CheckedDirs() []string {
	dirs := make([]string, len(checks))
	for i, c := range checks {
		dirs[i] = c.dir
	}
	return dirs
}

func (s *ValidationService) publish(ctx context.Context, e events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, e)
	}
}

func modName(files *fileset.FileSet) string {
	if root := files.ModRoot(); root != "" {
		return filepath.Base(root)
	}
	return "vanilla"
}
