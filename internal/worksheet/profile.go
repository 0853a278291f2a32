package worksheet

import (
	"fmt"
	"strings"
)

const (
	MinAge = 0
	MaxAge = 120
)

// Profile is the demographic selection captured by the gating step.
// It is fixed for the lifetime of a session.
type Profile struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Region string `json:"region" yaml:"region"`
	Age    int    `json:"age" yaml:"age"`
}

// NewProfile validates and normalizes a gating submission.
func NewProfile(name, region string, age int) (Profile, error) {
	if age < MinAge || age > MaxAge {
		return Profile{}, fmt.Errorf("%w: age %d outside [%d,%d]", ErrInvalidProfile, age, MinAge, MaxAge)
	}
	return Profile{
		Name:   strings.TrimSpace(name),
		Region: strings.TrimSpace(region),
		Age:    age,
	}, nil
}
