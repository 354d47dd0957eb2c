package treesitter

import (
	"log/slog"
	"sync"

	"github.com/corey/treegrep/internal/ports"
)

// InjectionProvider resolves embedded-language fragments inside host trees:
// HTML <script> bodies parse as javascript and <style> bodies as css.
// Parsed fragments are cached per host node, so repeated probes during a
// traversal parse each fragment once. Safe for concurrent use; one provider
// is shared across parallel file searches.
type InjectionProvider struct {
	parser *Parser
	log    *slog.Logger

	mu    sync.Mutex
	cache map[uintptr][]ports.Region
}

// NewInjectionProvider builds a provider that parses fragments with the
// given parser. log may be nil.
func NewInjectionProvider(parser *Parser, log *slog.Logger) *InjectionProvider {
	if log == nil {
		log = slog.Default()
	}
	return &InjectionProvider{
		parser: parser,
		log:    log,
		cache:  make(map[uintptr][]ports.Region),
	}
}

// injectionLanguage returns the embedded language for a host node, or "".
func injectionLanguage(host *Node) string {
	if host.Kind() != "raw_text" {
		return ""
	}
	parent := host.n.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Kind() {
	case "script_element":
		return "javascript"
	case "style_element":
		return "css"
	}
	return ""
}

// InjectedRegions returns the embedded regions hosted by n. Nodes from
// other tree implementations, and nodes hosting nothing, yield nil.
func (ip *InjectionProvider) InjectedRegions(n ports.Node) []ports.Region {
	host, ok := n.(*Node)
	if !ok {
		return nil
	}
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if cached, ok := ip.cache[host.n.Id()]; ok {
		return cached
	}

	regions := ip.resolve(host)
	ip.cache[host.n.Id()] = regions
	return regions
}

func (ip *InjectionProvider) resolve(host *Node) []ports.Region {
	lang := injectionLanguage(host)
	if lang == "" {
		return nil
	}
	text := host.Text()
	if text == "" {
		return nil
	}

	root, buf, err := ip.parser.ParseLanguage(lang, []byte(text))
	if err != nil {
		ip.log.Warn("embedded fragment not parsed",
			"language", lang, "host_kind", host.Kind(), "err", err)
		return nil
	}
	return []ports.Region{{
		Root:  root,
		Buf:   buf,
		Range: ports.TextRange{Start: 0, End: len(text)},
	}}
}
