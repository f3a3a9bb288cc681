package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artpar/tiger/core/parse"
	"github.com/artpar/tiger/domain/block"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// ModFile is the contents of a descriptor.mod or launcher .mod file.
type ModFile struct {
	Name             string
	Version          string
	SupportedVersion string
	Path             string // mod directory, absolute
	ReplacePaths     []string
}

// ReadModFile reads a mod descriptor. If p is a directory, its
// descriptor.mod is read. A descriptor without `path` describes the
// directory it is in; a relative `path` is resolved against the
// descriptor's parent directory, as the launcher does.
func ReadModFile(p string, sink report.Sink) (*ModFile, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("mod descriptor: %w", err)
	}
	if info.IsDir() {
		p = filepath.Join(p, "descriptor.mod")
	}

	b, err := parse.File(token.Loc{Path: filepath.Base(p), Fullpath: p, Kind: token.Mod}, sink)
	if err != nil {
		return nil, fmt.Errorf("mod descriptor: %w", err)
	}

	mf := &ModFile{}
	dir := filepath.Dir(p)
	if t, ok := b.GetFieldValue("name"); ok {
		mf.Name = t.Text
	}
	if t, ok := b.GetFieldValue("version"); ok {
		mf.Version = t.Text
	}
	if t, ok := b.GetFieldValue("supported_version"); ok {
		mf.SupportedVersion = t.Text
	}
	mf.ReplacePaths = fieldValues(b, "replace_path")

	switch t, ok := b.GetFieldValue("path"); {
	case !ok:
		mf.Path = dir
	case filepath.IsAbs(t.Text):
		mf.Path = t.Text
	default:
		mf.Path = filepath.Join(filepath.Dir(dir), filepath.FromSlash(t.Text))
	}

	if st, err := os.Stat(mf.Path); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("mod directory %s: %w", mf.Path, errNotDir(err))
	}
	return mf, nil
}

func errNotDir(err error) error {
	if err != nil {
		return err
	}
	return errors.New("not a directory")
}

// fieldValues returns every scalar value of name in b.
func fieldValues(b *block.Block, name string) []string {
	var out []string
	for _, f := range b.Fields {
		if t, ok := f.Value.GetValue(); ok && f.Key.Is(name) {
			out = append(out, t.Text)
		}
	}
	return out
}
