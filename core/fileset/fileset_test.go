package fileset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/fileset"
	"github.com/artpar/tiger/domain/token"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanOverridesAndReplacePaths(t *testing.T) {
	game := t.TempDir()
	mod := t.TempDir()
	writeFile(t, game, "common/traits/00_traits.txt", "")
	writeFile(t, game, "common/scripted_effects/00_effects.txt", "")
	writeFile(t, game, "events/a.txt", "")
	writeFile(t, game, "history/characters/x.txt", "")
	writeFile(t, mod, "events/a.txt", "")
	writeFile(t, mod, "events/b.txt", "")
	writeFile(t, mod, ".git/config", "")

	fs := fileset.New(game, mod, []string{"history/characters"})
	require.NoError(t, fs.Scan())

	var paths []string
	for _, e := range fs.Files() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{
		"common/scripted_effects/00_effects.txt",
		"common/traits/00_traits.txt",
		"events/a.txt",
		"events/b.txt",
	}, paths)

	a, ok := fs.Lookup("events/a.txt")
	require.True(t, ok)
	assert.Equal(t, token.Mod, a.Kind)

	tr, ok := fs.Lookup("common/traits/00_traits.txt")
	require.True(t, ok)
	assert.Equal(t, token.Vanilla, tr.Kind)

	assert.Len(t, fs.Under("events", ".txt"), 2)
	assert.Len(t, fs.Under("common", ""), 2)
	assert.Empty(t, fs.Under("history/characters", ".txt"))
}

func TestScanMissingRoot(t *testing.T) {
	fs := fileset.New(filepath.Join(t.TempDir(), "nope"), "", nil)
	assert.Error(t, fs.Scan())
}

func TestReadModFile(t *testing.T) {
	mod := t.TempDir()
	writeFile(t, mod, "descriptor.mod", `
name = "My Mod"
version = "1.2"
supported_version = "1.7.*"
replace_path = "history/characters"
replace_path = "common/bookmarks"
`)
	rec := &diagnostics.Recorder{}
	mf, err := fileset.ReadModFile(mod, rec)
	require.NoError(t, err)
	assert.Empty(t, rec.Diags)
	assert.Equal(t, "My Mod", mf.Name)
	assert.Equal(t, "1.2", mf.Version)
	assert.Equal(t, "1.7.*", mf.SupportedVersion)
	assert.Equal(t, mod, mf.Path)
	assert.Equal(t, []string{"history/characters", "common/bookmarks"}, mf.ReplacePaths)
}

func TestReadModFileRelativePath(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "mod", "mine"), 0o755))
	writeFile(t, docs, "mod/mine.mod", `name = "Mine"
path = "mod/mine"`)

	mf, err := fileset.ReadModFile(filepath.Join(docs, "mod", "mine.mod"), &diagnostics.Recorder{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docs, "mod", "mine"), mf.Path)
}

func TestReadModFileMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.mod", `path = "/definitely/not/here"`)
	_, err := fileset.ReadModFile(filepath.Join(dir, "x.mod"), &diagnostics.Recorder{})
	assert.Error(t, err)
}

func TestFindGameDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "game/events/witch_events.txt", "")

	dir, err := fileset.FindGameDir(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "game"), dir)

	dir, err = fileset.FindGameDir(filepath.Join(root, "game"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "game"), dir)

	_, err = fileset.FindGameDir(t.TempDir())
	assert.ErrorIs(t, err, fileset.ErrGameNotFound)
}
