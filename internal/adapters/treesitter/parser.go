// Package treesitter parses source files into document trees using
// tree-sitter grammars and adapts them to the traversal ports. A fixed set
// of grammars compiles in via CGo; additional grammars can be loaded at
// runtime from shared libraries via purego.
package treesitter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/treegrep/internal/ports"
)

// ErrNoGrammar is returned when no grammar is available for a file. Callers
// typically fall back to a plaintext tree.
var ErrNoGrammar = errors.New("treesitter: no grammar available")

// Parser turns source files into document trees.
type Parser struct {
	languages map[string]*tree_sitter.Language
	extToLang map[string]string
	loader    *DynamicLoader
}

// NewParser creates a parser with all built-in grammars registered.
func NewParser() *Parser {
	p := &Parser{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p.registerBuiltinLanguages()
	p.registerExtensions()
	return p
}

// addLang registers a language by name.
func (p *Parser) addLang(name string, lang *tree_sitter.Language) {
	if lang != nil {
		p.languages[name] = lang
	}
}

// addExt maps file extensions to a language name.
func (p *Parser) addExt(lang string, exts ...string) {
	for _, ext := range exts {
		p.extToLang[ext] = lang
	}
}

// Parse builds a document tree for a source file. The language is detected
// from the file path; ErrNoGrammar is returned when no grammar covers it.
func (p *Parser) Parse(path string, source []byte) (ports.Node, *ports.Buffer, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGrammar, filepath.Base(path))
	}
	return p.ParseLanguage(lang, source)
}

// ParseLanguage parses source with a named grammar, resolving it from the
// built-ins first and the dynamic loader second.
func (p *Parser) ParseLanguage(langName string, source []byte) (ports.Node, *ports.Buffer, error) {
	lang, ok := p.languages[langName]
	if !ok && p.loader != nil {
		loaded, err := p.loader.LoadGrammar(langName)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s (%v)", ErrNoGrammar, langName, err)
		}
		p.languages[langName] = loaded
		lang = loaded
		ok = true
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGrammar, langName)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, nil, fmt.Errorf("set language %s: %w", langName, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("parse with %s: no tree produced", langName)
	}
	t := newTree(tree, source)
	return t.Root(), t.Buffer(), nil
}

// SupportsExtension returns true if the parser recognizes this file extension.
func (p *Parser) SupportsExtension(ext string) bool {
	_, ok := p.extToLang[strings.ToLower(ext)]
	return ok
}

// SupportedExtensions returns all registered file extensions.
func (p *Parser) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extToLang))
	for ext := range p.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

// SetGrammarPaths configures the parser to load grammars dynamically from
// shared libraries found in the given directories. Project-local paths
// should come first, global paths last.
func (p *Parser) SetGrammarPaths(paths []string) {
	p.loader = NewDynamicLoader(paths)
}

// Loader returns the dynamic grammar loader, or nil if not configured.
func (p *Parser) Loader() *DynamicLoader {
	return p.loader
}

// HasLanguage returns true if a grammar is available (compiled-in or
// dynamically loadable) for the given language name.
func (p *Parser) HasLanguage(lang string) bool {
	if _, ok := p.languages[lang]; ok {
		return true
	}
	if p.loader != nil {
		return p.loader.GrammarPath(lang) != ""
	}
	return false
}

// detectLanguage determines the language from the file path.
func (p *Parser) detectLanguage(filePath string) string {
	// Special filenames (no extension)
	if lang, ok := p.extToLang[filepath.Base(filePath)]; ok {
		return lang
	}
	if lang, ok := p.extToLang[strings.ToLower(filepath.Ext(filePath))]; ok {
		return lang
	}
	return ""
}
