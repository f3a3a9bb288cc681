package index

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/artpar/tiger/core/fileset"
	"github.com/artpar/tiger/core/parse"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// Directories whose top-level keys each define one item.
var simpleDirs = []struct {
	dir  string
	kind item.Kind
}{
	{"common/scripted_effects", item.ScriptedEffect},
	{"common/scripted_triggers", item.ScriptedTrigger},
	{"common/script_values", item.ScriptValue},
	{"common/traits", item.Trait},
	{"common/culture/cultures", item.Culture},
	{"common/dynasties", item.Dynasty},
	{"common/dynasty_houses", item.House},
	{"history/characters", item.Character},
	{"common/scripted_relations", item.Relation},
	{"common/court_positions/types", item.CourtPosition},
	{"map_data/geographical_regions", item.Region},
}

// Loader parses the files of a FileSet and builds an Index from them.
// Parsed blocks are kept so validation does not parse a file twice.
type Loader struct {
	files  *fileset.FileSet
	sink   report.Sink
	logger zerolog.Logger
	jobs   int

	mu     sync.Mutex
	parsed map[string]*block.Block
}

// NewLoader creates a loader. jobs bounds how many files are parsed at
// once; values below 1 mean one.
func NewLoader(files *fileset.FileSet, sink report.Sink, logger zerolog.Logger, jobs int) *Loader {
	if jobs < 1 {
		jobs = 1
	}
	return &Loader{
		files:  files,
		sink:   sink,
		logger: logger,
		jobs:   jobs,
		parsed: make(map[string]*block.Block),
	}
}

// Files returns the file set being loaded.
func (l *Loader) Files() *fileset.FileSet {
	return l.files
}

// Parse returns the parsed contents of e, parsing it on first use.
func (l *Loader) Parse(e fileset.Entry) (*block.Block, error) {
	l.mu.Lock()
	b, ok := l.parsed[e.Path]
	l.mu.Unlock()
	if ok {
		return b, nil
	}
	b, err := parse.File(e.Loc(), l.sink)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.parsed[e.Path] = b
	l.mu.Unlock()
	return b, nil
}

// Forget drops the cached parse of path, so the next Parse rereads it.
func (l *Loader) Forget(path string) {
	l.mu.Lock()
	delete(l.parsed, path)
	l.mu.Unlock()
}

// Load reads every item definition. A file that cannot be read is
// reported to the sink and skipped; only cancellation is an error.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	start := time.Now()
	ix := New()
	p := pool.New().WithMaxGoroutines(l.jobs).WithContext(ctx)

	each := func(entries []fileset.Entry, fn func(fileset.Entry, *block.Block)) {
		for _, e := range entries {
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				b, err := l.Parse(e)
				if err != nil {
					report.Errorf(l.sink, e.Loc(), report.KeyRead, "%v", err)
					return nil
				}
				fn(e, b)
				return nil
			})
		}
	}

	for _, sd := range simpleDirs {
		kind := sd.kind
		each(l.files.Under(sd.dir, ".txt"), func(e fileset.Entry, b *block.Block) {
			addTopLevel(ix, kind, e, b)
		})
	}
	each(l.files.Under("common/religion/religions", ".txt"), func(e fileset.Entry, b *block.Block) {
		addReligions(ix, e, b)
	})
	each(l.files.Under("common/landed_titles", ".txt"), func(e fileset.Entry, b *block.Block) {
		addTitles(ix, e, b)
	})
	each(l.files.Under("events", ".txt"), func(e fileset.Entry, b *block.Block) {
		addEvents(ix, e, b)
	})

	for _, e := range l.files.Under("localization", ".yml") {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(e.Fullpath)
			if err != nil {
				report.Errorf(l.sink, e.Loc(), report.KeyRead, "read %s: %v", e.Path, err)
				return nil
			}
			for _, le := range parse.Localization(string(data), e.Loc(), l.sink) {
				ix.Add(newItem(item.Localization, le.Key, e))
			}
			return nil
		})
	}

	if e, ok := l.files.Lookup("map_data/definition.csv"); ok {
		p.Go(func(ctx context.Context) error {
			return addProvinces(ix, e, l.sink)
		})
	}

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	l.logger.Info().
		Int("items", ix.Len()).
		Dur("took", time.Since(start)).
		Msg("item index loaded")
	return ix, nil
}

func newItem(kind item.Kind, name token.Token, e fileset.Entry) item.Item {
	return item.Item{
		Kind:    kind,
		Name:    name.Text,
		Path:    e.Path,
		Line:    name.Loc.Line,
		Vanilla: e.Kind == token.Vanilla,
	}
}

func addTopLevel(ix *Index, kind item.Kind, e fileset.Entry, b *block.Block) {
	for _, f := range b.Fields {
		if strings.HasPrefix(f.Key.Text, "@") {
			continue
		}
		ix.Add(newItem(kind, f.Key, e))
	}
}

func addReligions(ix *Index, e fileset.Entry, b *block.Block) {
	for _, f := range b.Fields {
		if strings.HasPrefix(f.Key.Text, "@") {
			continue
		}
		ix.Add(newItem(item.Religion, f.Key, e))
		rb, ok := f.Value.GetBlock()
		if !ok {
			continue
		}
		if faiths, ok := rb.GetField("faiths"); ok {
			if fb, ok := faiths.GetBlock(); ok {
				for _, ff := range fb.Fields {
					ix.Add(newItem(item.Faith, ff.Key, e))
				}
			}
		}
	}
}

func isTitleKey(s string) bool {
	if len(s) < 3 || s[1] != '_' {
		return false
	}
	switch s[0] {
	case 'e', 'k', 'd', 'c', 'b':
		return true
	}
	return false
}

func addTitles(ix *Index, e fileset.Entry, b *block.Block) {
	for _, f := range b.Fields {
		if !isTitleKey(f.Key.Text) {
			continue
		}
		ix.Add(newItem(item.Title, f.Key, e))
		if nested, ok := f.Value.GetBlock(); ok {
			addTitles(ix, e, nested)
		}
	}
}

func addEvents(ix *Index, e fileset.Entry, b *block.Block) {
	for _, f := range b.Fields {
		switch {
		case strings.HasPrefix(f.Key.Text, "scripted_effect "):
			name := token.New(strings.TrimPrefix(f.Key.Text, "scripted_effect "), f.Key.Loc)
			ix.AddEventEffect(newItem(item.ScriptedEffect, name, e))
		case strings.HasPrefix(f.Key.Text, "scripted_trigger "):
			name := token.New(strings.TrimPrefix(f.Key.Text, "scripted_trigger "), f.Key.Loc)
			ix.Add(newItem(item.ScriptedTrigger, name, e))
		case strings.Contains(f.Key.Text, "."):
			if f.Value.IsBlock() {
				ix.Add(newItem(item.Event, f.Key, e))
			}
		}
	}
}

// addProvinces reads map_data/definition.csv: `id;red;green;blue;name;x;`
// with a header line and `#` comments.
func addProvinces(ix *Index, e fileset.Entry, sink report.Sink) error {
	f, err := os.Open(e.Fullpath)
	if err != nil {
		report.Errorf(sink, e.Loc(), report.KeyRead, "read %s: %v", e.Path, err)
		return nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, _, _ := strings.Cut(text, ";")
		if _, err := strconv.Atoi(id); err != nil {
			continue
		}
		ix.Add(item.Item{
			Kind:    item.Province,
			Name:    id,
			Path:    e.Path,
			Line:    line,
			Vanilla: e.Kind == token.Vanilla,
		})
	}
	if err := sc.Err(); err != nil {
		report.Errorf(sink, e.Loc(), report.KeyRead, "read %s: %v", e.Path, err)
	}
	return nil
}
