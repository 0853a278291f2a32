package worksheet

import (
	"fmt"
	"strings"
)

// Registry is an ordered list of names (treatment options or outcomes).
// Duplicate names are allowed and occupy separate positions.
type Registry struct {
	items []string
}

func NewRegistry(names ...string) *Registry {
	r := &Registry{}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

// Add appends the trimmed name. Blank input is ignored and reported as false.
func (r *Registry) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	r.items = append(r.items, name)
	return true
}

// Remove deletes the entry at index and returns it.
func (r *Registry) Remove(index int) (string, error) {
	if index < 0 || index >= len(r.items) {
		return "", fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(r.items))
	}
	removed := r.items[index]
	r.items = append(r.items[:index], r.items[index+1:]...)
	return removed, nil
}

func (r *Registry) Len() int { return len(r.items) }

// Items returns a copy of the current sequence.
func (r *Registry) Items() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Contains reports whether any position holds name.
func (r *Registry) Contains(name string) bool {
	for _, it := range r.items {
		if it == name {
			return true
		}
	}
	return false
}
