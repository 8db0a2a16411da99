package styles

import (
	"sort"
	"sync"
)

// ClassSet collects classes seen across pages. It is safe for concurrent use.
type ClassSet struct {
	mu      sync.Mutex
	classes map[string]struct{}
}

func NewClassSet() *ClassSet {
	return &ClassSet{classes: map[string]struct{}{}}
}

func (s *ClassSet) Add(classes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range classes {
		s.classes[c] = struct{}{}
	}
}

// List returns the collected classes, sorted. It never returns nil.
func (s *ClassSet) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.classes))
	for c := range s.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
