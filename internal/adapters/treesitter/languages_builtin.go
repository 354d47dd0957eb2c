//go:build !lean

package treesitter

// This file registers the compiled-in grammars. It is included in the
// default build but excluded when building with -tags lean, which produces
// a binary that loads every grammar dynamically from .so/.dylib files.

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	ts_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	ts_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ts_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

// registerBuiltinLanguages adds all compiled-in grammars to the parser.
// html and css are included for embedded-fragment support (script/style
// blocks), not just as host languages.
func (p *Parser) registerBuiltinLanguages() {
	p.addLang("go", langPtr(ts_go.Language()))
	p.addLang("java", langPtr(ts_java.Language()))
	p.addLang("javascript", langPtr(ts_javascript.Language()))
	p.addLang("typescript", langPtr(ts_typescript.LanguageTypescript()))
	p.addLang("tsx", langPtr(ts_typescript.LanguageTSX()))
	p.addLang("python", langPtr(ts_python.Language()))
	p.addLang("rust", langPtr(ts_rust.Language()))
	p.addLang("html", langPtr(ts_html.Language()))
	p.addLang("css", langPtr(ts_css.Language()))
}
