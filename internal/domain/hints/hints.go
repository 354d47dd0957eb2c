// Package hints manages inline-hint display settings: global defaults,
// per-language overrides, and the merge between them. Persistence goes
// through the HintStore port; writes are skipped when nothing changed.
package hints

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/corey/treegrep/internal/ports"
)

// DefaultSettings returns the built-in hint settings used when a project has
// no saved configuration.
func DefaultSettings() ports.HintSettings {
	return ports.HintSettings{Enabled: true}
}

// Clone returns a deep copy of s.
func Clone(s ports.HintSettings) ports.HintSettings {
	out := ports.HintSettings{Enabled: s.Enabled}
	if len(s.Options) > 0 {
		out.Options = maps.Clone(s.Options)
	}
	return out
}

// Equal reports whether two settings are identical. A nil and an empty
// option map compare equal.
func Equal(a, b ports.HintSettings) bool {
	if a.Enabled != b.Enabled || len(a.Options) != len(b.Options) {
		return false
	}
	for k, v := range a.Options {
		if b.Options[k] != v {
			return false
		}
	}
	return true
}

// Effective merges the per-language settings over the global defaults.
// A language entry fully owns the Enabled flag; its options overlay the
// global option map key by key.
func Effective(p *ports.ProjectHints, language string) ports.HintSettings {
	if p == nil {
		return DefaultSettings()
	}
	base := Clone(p.Global)
	lang, ok := p.Languages[language]
	if !ok {
		return base
	}
	base.Enabled = lang.Enabled
	if len(lang.Options) > 0 {
		if base.Options == nil {
			base.Options = make(map[string]bool, len(lang.Options))
		}
		maps.Copy(base.Options, lang.Options)
	}
	return base
}

// Service exposes read/modify operations over a project's hint settings.
type Service struct {
	store ports.HintStore
	log   *slog.Logger
}

// NewService builds a hint settings service. log may be nil.
func NewService(store ports.HintStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Get loads the project's configuration, falling back to defaults when none
// has been saved yet.
func (s *Service) Get(projectID string) (*ports.ProjectHints, error) {
	p, err := s.store.LoadHints(projectID)
	if err != nil {
		return nil, fmt.Errorf("load hints for %q: %w", projectID, err)
	}
	if p == nil {
		p = &ports.ProjectHints{Global: DefaultSettings()}
	}
	return p, nil
}

// Effective returns the merged settings for one language. An empty language
// selects the global settings.
func (s *Service) Effective(projectID, language string) (ports.HintSettings, error) {
	p, err := s.Get(projectID)
	if err != nil {
		return ports.HintSettings{}, err
	}
	if language == "" {
		return Clone(p.Global), nil
	}
	return Effective(p, language), nil
}

// SetEnabled flips the enabled flag for a language (or globally when
// language is empty). It reports whether anything actually changed; an
// unchanged value is not re-saved.
func (s *Service) SetEnabled(projectID, language string, on bool) (bool, error) {
	return s.update(projectID, language, func(h *ports.HintSettings) {
		h.Enabled = on
	})
}

// SetOption sets one hint option for a language (or globally when language
// is empty) and reports whether the stored value changed.
func (s *Service) SetOption(projectID, language, option string, on bool) (bool, error) {
	return s.update(projectID, language, func(h *ports.HintSettings) {
		if h.Options == nil {
			h.Options = make(map[string]bool)
		}
		h.Options[option] = on
	})
}

// Reset drops the project's saved configuration, returning it to defaults.
func (s *Service) Reset(projectID string) error {
	if err := s.store.DeleteHints(projectID); err != nil {
		return fmt.Errorf("reset hints for %q: %w", projectID, err)
	}
	return nil
}

func (s *Service) update(projectID, language string, mutate func(*ports.HintSettings)) (bool, error) {
	p, err := s.Get(projectID)
	if err != nil {
		return false, err
	}

	// Seed from the merged view so a language override starts from what the
	// user currently sees, not from a zero value.
	var target ports.HintSettings
	if language == "" {
		target = Clone(p.Global)
	} else {
		target = Effective(p, language)
	}
	before := Clone(target)
	mutate(&target)
	if Equal(before, target) {
		return false, nil
	}

	if language == "" {
		p.Global = target
	} else {
		if p.Languages == nil {
			p.Languages = make(map[string]ports.HintSettings)
		}
		p.Languages[language] = target
	}
	if err := s.store.SaveHints(projectID, p); err != nil {
		return false, fmt.Errorf("save hints for %q: %w", projectID, err)
	}
	s.log.Debug("hint settings updated", "project", projectID, "language", language)
	return true, nil
}
