// Package flags tracks named boolean facts about the world and evaluates
// compound conditions over them. Flags have no value payload: a flag is
// either present or absent.
package flags

import (
	"log/slog"
	"sort"

	"github.com/jwebster45206/world-engine/pkg/bus"
)

// Change is the payload published on the flag_changed channel.
type Change struct {
	Flag   string `json:"flag"`
	Action string `json:"action"` // "set" or "clear"
	Source string `json:"source"`
}

// Store holds the flag set for one world instance.
type Store struct {
	bus    *bus.Bus
	logger *slog.Logger
	flags  map[string]struct{}
}

// NewStore creates an empty flag store. The bus may be nil, in which
// case no notifications are published.
func NewStore(b *bus.Bus, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{bus: b, logger: logger, flags: make(map[string]struct{})}
}

// Set adds a flag and reports whether it was newly set. Setting an
// already-present flag is a no-op and publishes nothing.
func (s *Store) Set(flag, source string) bool {
	if _, ok := s.flags[flag]; ok {
		return false
	}
	s.flags[flag] = struct{}{}
	s.logger.Debug("flag set", "flag", flag, "source", source)
	if s.bus != nil {
		s.bus.Publish(bus.FlagChanged, Change{Flag: flag, Action: "set", Source: source}, "flags", 0)
	}
	return true
}

// Clear removes a flag and reports whether it was present. Clearing an
// absent flag is a no-op and publishes nothing.
func (s *Store) Clear(flag, source string) bool {
	if _, ok := s.flags[flag]; !ok {
		return false
	}
	delete(s.flags, flag)
	s.logger.Debug("flag cleared", "flag", flag, "source", source)
	if s.bus != nil {
		s.bus.Publish(bus.FlagChanged, Change{Flag: flag, Action: "clear", Source: source}, "flags", 0)
	}
	return true
}

// Has reports whether a flag is present.
func (s *Store) Has(flag string) bool {
	_, ok := s.flags[flag]
	return ok
}

// HasAll reports whether every listed flag is present.
func (s *Store) HasAll(names []string) bool {
	for _, f := range names {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one listed flag is present.
func (s *Store) HasAny(names []string) bool {
	for _, f := range names {
		if s.Has(f) {
			return true
		}
	}
	return false
}

// All returns the current flag set, sorted, for prompt context and saves.
func (s *Store) All() []string {
	out := make([]string, 0, len(s.flags))
	for f := range s.flags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Check evaluates a compound condition against the store.
func (s *Store) Check(c Condition) bool {
	return c.Eval(s)
}

// Snapshot returns the flag set for persistence.
func (s *Store) Snapshot() []string {
	return s.All()
}

// Restore replaces the flag set from a snapshot without publishing.
func (s *Store) Restore(names []string) {
	s.flags = make(map[string]struct{}, len(names))
	for _, f := range names {
		s.flags[f] = struct{}{}
	}
}
