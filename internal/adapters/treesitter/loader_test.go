package treesitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSymbolName(t *testing.T) {
	assert.Equal(t, "tree_sitter_go", CSymbolName("go"))
	assert.Equal(t, "tree_sitter_c_sharp", CSymbolName("c_sharp"))
	assert.Equal(t, "tree_sitter_some_lang", CSymbolName("some-lang"))
}

func TestSOBaseName(t *testing.T) {
	assert.Equal(t, "typescript", SOBaseName("tsx"), "tsx ships inside typescript's library")
	assert.Equal(t, "rust", SOBaseName("rust"))
}

func TestDefaultGrammarPaths(t *testing.T) {
	paths := DefaultGrammarPaths("/proj")
	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join("/proj", ".treegrep", "grammars"), paths[0])

	// Without a project root only the global path remains.
	global := DefaultGrammarPaths("")
	for _, p := range global {
		assert.NotContains(t, p, "/proj")
	}
}

func TestInstalledGrammars(t *testing.T) {
	dir := t.TempDir()
	ext := LibExtension()
	for _, name := range []string{"markdown" + ext, "toml" + ext, "README.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	dl := NewDynamicLoader([]string{dir, filepath.Join(dir, "missing")})
	got := dl.InstalledGrammars()
	assert.ElementsMatch(t, []string{"markdown", "toml"}, got)
}

func TestGrammarPath_SearchOrderAndOverride(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	ext := LibExtension()
	require.NoError(t, os.WriteFile(filepath.Join(first, "lua"+ext), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "lua"+ext), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "typescript"+ext), []byte("x"), 0644))

	dl := NewDynamicLoader([]string{first, second})
	assert.Equal(t, filepath.Join(first, "lua"+ext), dl.GrammarPath("lua"), "first match wins")
	assert.Equal(t, filepath.Join(second, "typescript"+ext), dl.GrammarPath("tsx"),
		"tsx resolves through typescript's library")
	assert.Empty(t, dl.GrammarPath("cobol"))
}

func TestLoadGrammar_NotFound(t *testing.T) {
	dl := NewDynamicLoader([]string{t.TempDir()})
	_, err := dl.LoadGrammar("cobol")
	assert.Error(t, err)
}
