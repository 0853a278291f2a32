package worksheet

import (
	"fmt"
	"strings"
)

// Constraint is a free-text concern weighted by importance (0-100).
// Constraints are identified by position only.
type Constraint struct {
	Description string `json:"description" yaml:"description"`
	Importance  int    `json:"importance" yaml:"importance"`
}

type ConstraintList struct {
	items []Constraint
}

func NewConstraintList() *ConstraintList {
	return &ConstraintList{}
}

// Add appends a constraint at the default importance. Blank descriptions are ignored.
func (l *ConstraintList) Add(description string) bool {
	description = strings.TrimSpace(description)
	if description == "" {
		return false
	}
	l.items = append(l.items, Constraint{Description: description, Importance: DefaultLevel})
	return true
}

func (l *ConstraintList) Remove(index int) (Constraint, error) {
	if err := l.check(index); err != nil {
		return Constraint{}, err
	}
	removed := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	return removed, nil
}

// SetImportance clamps value into [0,100] and returns the updated constraint.
func (l *ConstraintList) SetImportance(index, value int) (Constraint, error) {
	if err := l.check(index); err != nil {
		return Constraint{}, err
	}
	l.items[index].Importance = Clamp(value)
	return l.items[index], nil
}

func (l *ConstraintList) Len() int { return len(l.items) }

func (l *ConstraintList) Items() []Constraint {
	out := make([]Constraint, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ConstraintList) check(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}
