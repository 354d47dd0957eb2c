//go:build lean

package treesitter

// Included only when building with -tags lean. All grammar loading happens
// through the DynamicLoader (purego), keeping the binary free of CGo grammar
// objects.
//
// Build with: go build -tags lean ./cmd/treegrep/

// registerBuiltinLanguages is a no-op in lean builds.
func (p *Parser) registerBuiltinLanguages() {}
