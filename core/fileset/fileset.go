// Package fileset finds the script files of the base game and the mod and
// decides which of them are in effect.
package fileset

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artpar/tiger/domain/token"
)

// Entry is one file that takes part in validation.
type Entry struct {
	Path     string // slash-separated, relative to its root
	Fullpath string
	Kind     token.FileKind
}

// Loc returns a whole-file location for the entry.
func (e Entry) Loc() token.Loc {
	return token.Loc{Path: e.Path, Fullpath: e.Fullpath, Kind: e.Kind}
}

// FileSet is the merged view of the game and mod trees.
type FileSet struct {
	vanillaRoot  string
	modRoot      string
	replacePaths []string
	files        []Entry
}

// New creates a file set. Either root may be empty.
func New(vanillaRoot, modRoot string, replacePaths []string) *FileSet {
	cleaned := make([]string, 0, len(replacePaths))
	for _, p := range replacePaths {
		cleaned = append(cleaned, strings.Trim(path.Clean(filepath.ToSlash(p)), "/"))
	}
	return &FileSet{vanillaRoot: vanillaRoot, modRoot: modRoot, replacePaths: cleaned}
}

// VanillaRoot returns the game directory.
func (fs *FileSet) VanillaRoot() string { return fs.vanillaRoot }

// ModRoot returns the mod directory.
func (fs *FileSet) ModRoot() string { return fs.modRoot }

// Scan walks both roots. A mod file replaces the vanilla file at the same
// relative path, and vanilla files under a replace_path are dropped.
func (fs *FileSet) Scan() error {
	byPath := make(map[string]Entry)

	if fs.vanillaRoot != "" {
		err := walk(fs.vanillaRoot, token.Vanilla, func(e Entry) {
			if !fs.replaced(e.Path) {
				byPath[e.Path] = e
			}
		})
		if err != nil {
			return fmt.Errorf("scan game directory: %w", err)
		}
	}
	if fs.modRoot != "" {
		err := walk(fs.modRoot, token.Mod, func(e Entry) {
			byPath[e.Path] = e
		})
		if err != nil {
			return fmt.Errorf("scan mod directory: %w", err)
		}
	}

	fs.files = fs.files[:0]
	for _, e := range byPath {
		fs.files = append(fs.files, e)
	}
	sort.Slice(fs.files, func(i, j int) bool {
		return fs.files[i].Path < fs.files[j].Path
	})
	return nil
}

func (fs *FileSet) replaced(p string) bool {
	dir := path.Dir(p)
	for _, rp := range fs.replacePaths {
		if dir == rp {
			return true
		}
	}
	return false
}

func walk(root string, kind token.FileKind, visit func(Entry)) error {
	return filepath.WalkDir(root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && full != root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		visit(Entry{Path: filepath.ToSlash(rel), Fullpath: full, Kind: kind})
		return nil
	})
}

// Files returns every file in effect, sorted by path.
func (fs *FileSet) Files() []Entry {
	out := make([]Entry, len(fs.files))
	copy(out, fs.files)
	return out
}

// Under returns the files below dir with the given extension, sorted by
// path. An empty ext matches every file.
func (fs *FileSet) Under(dir, ext string) []Entry {
	prefix := strings.Trim(dir, "/") + "/"
	var out []Entry
	for _, e := range fs.files {
		if strings.HasPrefix(e.Path, prefix) && (ext == "" || strings.EqualFold(path.Ext(e.Path), ext)) {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds the file in effect at a relative path.
func (fs *FileSet) Lookup(p string) (Entry, bool) {
	i := sort.Search(len(fs.files), func(i int) bool { return fs.files[i].Path >= p })
	if i < len(fs.files) && fs.files[i].Path == p {
		return fs.files[i], true
	}
	return Entry{}, false
}
