package domain

import (
	"sort"
	"strings"
)

// StationRegistry is a set of lake/reservoir station names stored in
// NormalizeStationName form. It is not safe for concurrent mutation; callers
// that share one across goroutines must serialize writers.
type StationRegistry struct {
	names map[string]struct{}
}

// NewStationRegistry creates a registry seeded with names.
func NewStationRegistry(names ...string) *StationRegistry {
	r := &StationRegistry{names: make(map[string]struct{})}
	r.Set(names)
	return r
}

// Set replaces the registry contents with names.
func (r *StationRegistry) Set(names []string) {
	r.names = make(map[string]struct{}, len(names))
	for _, name := range names {
		r.Add(name)
	}
}

// Add registers name. Names that normalize to "" are ignored.
func (r *StationRegistry) Add(name string) {
	key := NormalizeStationName(name)
	if key == "" {
		return
	}
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	r.names[key] = struct{}{}
}

// Remove unregisters name if present.
func (r *StationRegistry) Remove(name string) {
	delete(r.names, NormalizeStationName(name))
}

// Len returns the number of registered stations.
func (r *StationRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns the normalized registered names in sorted order.
func (r *StationRegistry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsMember reports whether name is a registered station. With fuzzy set, a
// failed exact lookup falls back to containment in either direction, so
// "朱家尖水库监测点" matches a registered "朱家尖". A nil or empty registry
// and an empty name never match.
func (r *StationRegistry) IsMember(name string, fuzzy bool) bool {
	if r == nil || len(r.names) == 0 {
		return false
	}
	key := NormalizeStationName(name)
	if key == "" {
		return false
	}
	if _, ok := r.names[key]; ok {
		return true
	}
	if !fuzzy {
		return false
	}
	for registered := range r.names {
		if strings.Contains(registered, key) || strings.Contains(key, registered) {
			return true
		}
	}
	return false
}
