package treesitter

// File extension mappings. Registered regardless of build tags — they're
// needed for both compiled-in and dynamically-loaded grammars.

// registerExtensions maps file extensions to language names. Languages
// beyond the compiled-in set resolve through the dynamic loader when one is
// configured.
func (p *Parser) registerExtensions() {
	// Compiled-in
	p.addExt("go", ".go")
	p.addExt("java", ".java")
	p.addExt("javascript", ".js", ".jsx", ".mjs", ".cjs")
	p.addExt("typescript", ".ts", ".mts")
	p.addExt("tsx", ".tsx")
	p.addExt("python", ".py", ".pyw")
	p.addExt("rust", ".rs")
	p.addExt("html", ".html", ".htm")
	p.addExt("css", ".css")

	// Dynamic-only
	p.addExt("c", ".c", ".h")
	p.addExt("cpp", ".cpp", ".hpp", ".cc", ".cxx", ".hxx")
	p.addExt("c_sharp", ".cs")
	p.addExt("ruby", ".rb")
	p.addExt("php", ".php")
	p.addExt("swift", ".swift")
	p.addExt("kotlin", ".kt", ".kts")
	p.addExt("scala", ".scala", ".sc")
	p.addExt("bash", ".sh", ".bash")
	p.addExt("lua", ".lua")
	p.addExt("elixir", ".ex", ".exs")
	p.addExt("haskell", ".hs", ".lhs")
	p.addExt("ocaml", ".ml", ".mli")
	p.addExt("zig", ".zig")
	p.addExt("json", ".json")
	p.addExt("yaml", ".yaml", ".yml")
	p.addExt("toml", ".toml")
	p.addExt("markdown", ".md", ".mdx")
	p.addExt("hcl", ".tf", ".hcl")
	p.addExt("dockerfile", "Dockerfile", ".dockerfile")
	p.addExt("sql", ".sql")
}
