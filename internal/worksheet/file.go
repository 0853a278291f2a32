package worksheet

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML form of a worksheet.
type File struct {
	Profile     Profile          `yaml:"profile"`
	Options     []string         `yaml:"options"`
	Outcomes    []string         `yaml:"outcomes"`
	Ratings     []FileRating     `yaml:"ratings,omitempty"`
	Constraints []FileConstraint `yaml:"constraints,omitempty"`
}

// FileConstraint leaves importance optional so omitted entries get the default.
type FileConstraint struct {
	Description string `yaml:"description"`
	Importance  *int   `yaml:"importance,omitempty"`
}

// FileRating leaves both fields optional; an omitted field keeps the
// reconciled default.
type FileRating struct {
	Option     string `yaml:"option"`
	Outcome    string `yaml:"outcome"`
	Value      *int   `yaml:"value,omitempty"`
	Likelihood *int   `yaml:"likelihood,omitempty"`
}

// LoadFile reads a worksheet from a YAML file.
func LoadFile(path string) (*Worksheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open worksheet: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML and replays it through the worksheet operations, so the
// result obeys the same trimming, clamping and reconciliation rules as
// interactive input. Ratings for pairs not present in the registries are an error.
func Decode(r io.Reader) (*Worksheet, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse worksheet: %w", err)
	}

	profile, err := NewProfile(f.Profile.Name, f.Profile.Region, f.Profile.Age)
	if err != nil {
		return nil, err
	}

	w := New(profile, Defaults{Options: f.Options, Outcomes: f.Outcomes})
	for _, re := range f.Ratings {
		if err := applyRating(w, re); err != nil {
			return nil, fmt.Errorf("rating %q/%q: %w", re.Option, re.Outcome, err)
		}
	}
	for _, c := range f.Constraints {
		if !w.AddConstraint(c.Description) || c.Importance == nil {
			continue
		}
		if _, err := w.SetConstraintImportance(w.constraints.Len()-1, *c.Importance); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func applyRating(w *Worksheet, re FileRating) error {
	if _, err := w.Rating(re.Option, re.Outcome); err != nil {
		return err
	}
	if re.Value != nil {
		if _, err := w.SetRating(re.Option, re.Outcome, FieldValue, *re.Value); err != nil {
			return err
		}
	}
	if re.Likelihood != nil {
		if _, err := w.SetRating(re.Option, re.Outcome, FieldLikelihood, *re.Likelihood); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the worksheet as YAML.
func Encode(out io.Writer, w *Worksheet) error {
	f := File{
		Profile:  w.profile,
		Options:  w.options.Items(),
		Outcomes: w.outcomes.Items(),
	}
	for _, e := range w.Grid() {
		v, l := e.Value, e.Likelihood
		f.Ratings = append(f.Ratings, FileRating{Option: e.Option, Outcome: e.Outcome, Value: &v, Likelihood: &l})
	}
	for _, c := range w.constraints.Items() {
		imp := c.Importance
		f.Constraints = append(f.Constraints, FileConstraint{Description: c.Description, Importance: &imp})
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode worksheet: %w", err)
	}
	return enc.Close()
}
