package index_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tiger/adapters/memory"
	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/fileset"
	"github.com/artpar/tiger/core/index"
	"github.com/artpar/tiger/domain/item"
)

func TestModDefinitionWins(t *testing.T) {
	ix := index.New()
	ix.Add(item.Item{Kind: item.Trait, Name: "brave", Path: "mod.txt"})
	ix.Add(item.Item{Kind: item.Trait, Name: "brave", Path: "vanilla.txt", Vanilla: true})

	it, ok := ix.Get(item.Trait, "brave")
	require.True(t, ok)
	assert.Equal(t, "mod.txt", it.Path)
	assert.True(t, ix.ItemExists(item.Trait, "brave"))
	assert.False(t, ix.ItemExists(item.Culture, "brave"))
}

func TestItemsAndCounts(t *testing.T) {
	ix := index.New()
	for _, name := range []string{"e_rome", "k_italy", "k_france"} {
		ix.Add(item.Item{Kind: item.Title, Name: name})
	}
	ix.Add(item.Item{Kind: item.Culture, Name: "roman"})

	var names []string
	for _, it := range ix.Items(item.Title, "k_") {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"k_france", "k_italy"}, names)
	assert.Equal(t, map[item.Kind]int{item.Title: 3, item.Culture: 1}, ix.Counts())
	assert.Equal(t, 4, ix.Len())
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	ix := index.New()
	ix.Add(item.Item{Kind: item.Title, Name: "k_italy", Path: "common/landed_titles/x.txt", Line: 3})
	ix.Add(item.Item{Kind: item.Trait, Name: "brave", Vanilla: true})

	store := memory.NewItemStore()
	require.NoError(t, ix.Persist(ctx, store))

	restored, err := index.Restore(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, ix.Counts(), restored.Counts())
	it, ok := restored.Get(item.Title, "k_italy")
	require.True(t, ok)
	assert.Equal(t, 3, it.Line)
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLoaderLoad(t *testing.T) {
	game := t.TempDir()
	mod := t.TempDir()

	write(t, game, "common/traits/00_traits.txt", "@cost = 5\nbrave = { }\ncraven = { }\n")
	write(t, game, "common/religion/religions/00_christianity.txt", `
christianity_religion = {
	faiths = {
		catholic = { }
		orthodox = { }
	}
}`)
	write(t, game, "common/landed_titles/00_titles.txt", `
@x = 1
e_britannia = {
	color = { 1 2 3 }
	k_england = {
		d_york = { c_york = { b_york = { province = 1 } } }
	}
}`)
	write(t, game, "map_data/definition.csv", "0;0;0;0;x;x;\n1;10;20;30;York;x;\n# comment\n2;1;2;3;Hull;x;\n")
	write(t, mod, "events/my_events.txt", `
namespace = mine
mine.1 = { type = character_event }
scripted_effect my_local_effect = { add_gold = 1 }
scripted_trigger my_local_trigger = { always = yes }
`)
	write(t, mod, "common/scripted_effects/mine.txt", "my_effect = { add_gold = 5 }\n")
	write(t, mod, "localization/english/mine_l_english.yml", "l_english:\n mine.1.t:0 \"Title\"\n")

	fs := fileset.New(game, mod, nil)
	require.NoError(t, fs.Scan())

	rec := &diagnostics.Recorder{}
	loader := index.NewLoader(fs, rec, zerolog.Nop(), 4)
	ix, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.Diags)

	assert.True(t, ix.ItemExists(item.Trait, "brave"))
	assert.False(t, ix.ItemExists(item.Trait, "@cost"))
	assert.True(t, ix.ItemExists(item.Religion, "christianity_religion"))
	assert.True(t, ix.ItemExists(item.Faith, "orthodox"))
	for _, title := range []string{"e_britannia", "k_england", "d_york", "c_york", "b_york"} {
		assert.True(t, ix.ItemExists(item.Title, title), title)
	}
	assert.False(t, ix.ItemExists(item.Title, "color"))
	assert.True(t, ix.ItemExists(item.Province, "1"))
	assert.True(t, ix.ItemExists(item.Province, "2"))
	assert.True(t, ix.ItemExists(item.Event, "mine.1"))
	assert.True(t, ix.EventEffectExists("my_local_effect"))
	assert.True(t, ix.ItemExists(item.ScriptedTrigger, "my_local_trigger"))
	assert.True(t, ix.ItemExists(item.ScriptedEffect, "my_effect"))
	assert.True(t, ix.ItemExists(item.Localization, "mine.1.t"))

	e, ok := fs.Lookup("common/scripted_effects/mine.txt")
	require.True(t, ok)
	b1, err := loader.Parse(e)
	require.NoError(t, err)
	b2, err := loader.Parse(e)
	require.NoError(t, err)
	assert.Same(t, b1, b2)
}

func TestLoaderCancelled(t *testing.T) {
	game := t.TempDir()
	write(t, game, "common/traits/00_traits.txt", "brave = { }\n")
	fs := fileset.New(game, "", nil)
	require.NoError(t, fs.Scan())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := index.NewLoader(fs, &diagnostics.Recorder{}, zerolog.Nop(), 1).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
