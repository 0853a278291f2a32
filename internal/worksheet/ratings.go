package worksheet

import "fmt"

const (
	MinScale = 0
	MaxScale = 100

	// DefaultLevel is the midpoint assigned to newly reconciled ratings and constraints.
	DefaultLevel = 50
)

// Field selects which half of a Rating is being set.
type Field string

const (
	FieldValue      Field = "value"
	FieldLikelihood Field = "likelihood"
)

// ParseField validates a wire-level field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldValue, FieldLikelihood:
		return Field(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// Rating is the subjective importance (value) and probability (likelihood)
// of one outcome under one option, both on a 0-100 scale.
type Rating struct {
	Value      int `json:"value" yaml:"value"`
	Likelihood int `json:"likelihood" yaml:"likelihood"`
}

func DefaultRating() Rating {
	return Rating{Value: DefaultLevel, Likelihood: DefaultLevel}
}

// Clamp pins v into [MinScale, MaxScale].
func Clamp(v int) int {
	if v < MinScale {
		return MinScale
	}
	if v > MaxScale {
		return MaxScale
	}
	return v
}

// PairKey addresses a rating by option and outcome name.
type PairKey struct {
	Option  string
	Outcome string
}

// RatingMatrix maps (option, outcome) pairs to ratings.
type RatingMatrix struct {
	ratings map[PairKey]Rating
}

func NewRatingMatrix() *RatingMatrix {
	return &RatingMatrix{ratings: make(map[PairKey]Rating)}
}

// Reconcile ensures a rating exists for every pair of the given registries
// and drops pairs whose option or outcome is no longer listed. Existing
// ratings for listed pairs are left as they are. It returns the number of
// pairs created and dropped; a second call with the same input returns (0, 0).
func (m *RatingMatrix) Reconcile(options, outcomes []string) (created, dropped int) {
	live := make(map[PairKey]struct{}, len(options)*len(outcomes))
	for _, opt := range options {
		for _, out := range outcomes {
			k := PairKey{Option: opt, Outcome: out}
			live[k] = struct{}{}
			if _, ok := m.ratings[k]; !ok {
				m.ratings[k] = DefaultRating()
				created++
			}
		}
	}
	for k := range m.ratings {
		if _, ok := live[k]; !ok {
			delete(m.ratings, k)
			dropped++
		}
	}
	return created, dropped
}

// Get returns the rating for a reconciled pair.
func (m *RatingMatrix) Get(option, outcome string) (Rating, error) {
	r, ok := m.ratings[PairKey{Option: option, Outcome: outcome}]
	if !ok {
		return Rating{}, fmt.Errorf("%w: %q/%q", ErrRatingNotFound, option, outcome)
	}
	return r, nil
}

// Set overwrites one field of an existing rating, clamping value into range.
func (m *RatingMatrix) Set(option, outcome string, field Field, value int) (Rating, error) {
	k := PairKey{Option: option, Outcome: outcome}
	r, ok := m.ratings[k]
	if !ok {
		return Rating{}, fmt.Errorf("%w: %q/%q", ErrRatingNotFound, option, outcome)
	}
	switch field {
	case FieldValue:
		r.Value = Clamp(value)
	case FieldLikelihood:
		r.Likelihood = Clamp(value)
	default:
		return Rating{}, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	m.ratings[k] = r
	return r, nil
}

// Row returns every outcome rated for option.
func (m *RatingMatrix) Row(option string) map[string]Rating {
	row := make(map[string]Rating)
	for k, r := range m.ratings {
		if k.Option == option {
			row[k.Outcome] = r
		}
	}
	return row
}

func (m *RatingMatrix) Len() int { return len(m.ratings) }
