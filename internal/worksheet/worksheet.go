package worksheet

// Defaults seeds a new worksheet.
type Defaults struct {
	Options  []string
	Outcomes []string
}

// Worksheet is the full state of one OOVL elicitation: the profile, the
// option and outcome registries, their rating matrix and the constraint list.
// All mutations go through its methods so the matrix is reconciled after
// every registry change. A Worksheet is not safe for concurrent use.
type Worksheet struct {
	profile     Profile
	options     *Registry
	outcomes    *Registry
	ratings     *RatingMatrix
	constraints *ConstraintList
}

func New(profile Profile, d Defaults) *Worksheet {
	w := &Worksheet{
		profile:     profile,
		options:     NewRegistry(d.Options...),
		outcomes:    NewRegistry(d.Outcomes...),
		ratings:     NewRatingMatrix(),
		constraints: NewConstraintList(),
	}
	w.Reconcile()
	return w
}

func (w *Worksheet) Profile() Profile          { return w.profile }
func (w *Worksheet) Options() []string         { return w.options.Items() }
func (w *Worksheet) Outcomes() []string        { return w.outcomes.Items() }
func (w *Worksheet) Constraints() []Constraint { return w.constraints.Items() }
func (w *Worksheet) Ratings() *RatingMatrix    { return w.ratings }

// Reconcile brings the rating matrix in line with the registries.
func (w *Worksheet) Reconcile() (created, dropped int) {
	return w.ratings.Reconcile(w.options.Items(), w.outcomes.Items())
}

func (w *Worksheet) AddOption(name string) bool {
	ok := w.options.Add(name)
	if ok {
		w.Reconcile()
	}
	return ok
}

func (w *Worksheet) RemoveOption(index int) (string, error) {
	removed, err := w.options.Remove(index)
	if err != nil {
		return "", err
	}
	w.Reconcile()
	return removed, nil
}

func (w *Worksheet) AddOutcome(name string) bool {
	ok := w.outcomes.Add(name)
	if ok {
		w.Reconcile()
	}
	return ok
}

func (w *Worksheet) RemoveOutcome(index int) (string, error) {
	removed, err := w.outcomes.Remove(index)
	if err != nil {
		return "", err
	}
	w.Reconcile()
	return removed, nil
}

func (w *Worksheet) Rating(option, outcome string) (Rating, error) {
	w.Reconcile()
	return w.ratings.Get(option, outcome)
}

func (w *Worksheet) SetRating(option, outcome string, field Field, value int) (Rating, error) {
	w.Reconcile()
	return w.ratings.Set(option, outcome, field, value)
}

func (w *Worksheet) AddConstraint(description string) bool {
	return w.constraints.Add(description)
}

func (w *Worksheet) RemoveConstraint(index int) (Constraint, error) {
	return w.constraints.Remove(index)
}

func (w *Worksheet) SetConstraintImportance(index, value int) (Constraint, error) {
	return w.constraints.SetImportance(index, value)
}

// RatingEntry is one row of the display grid.
type RatingEntry struct {
	Option     string `json:"option" yaml:"option"`
	Outcome    string `json:"outcome" yaml:"outcome"`
	Value      int    `json:"value" yaml:"value"`
	Likelihood int    `json:"likelihood" yaml:"likelihood"`
}

// Grid returns the reconciled ratings in option-major registry order.
// Pairs repeated through duplicate names are listed once.
func (w *Worksheet) Grid() []RatingEntry {
	w.Reconcile()
	seen := make(map[PairKey]bool)
	var grid []RatingEntry
	for _, opt := range w.options.items {
		for _, out := range w.outcomes.items {
			k := PairKey{Option: opt, Outcome: out}
			if seen[k] {
				continue
			}
			seen[k] = true
			r := w.ratings.ratings[k]
			grid = append(grid, RatingEntry{Option: opt, Outcome: out, Value: r.Value, Likelihood: r.Likelihood})
		}
	}
	if grid == nil {
		grid = []RatingEntry{}
	}
	return grid
}

// View is a display snapshot of the worksheet.
type View struct {
	Profile     Profile       `json:"profile"`
	Options     []string      `json:"options"`
	Outcomes    []string      `json:"outcomes"`
	Ratings     []RatingEntry `json:"ratings"`
	Constraints []Constraint  `json:"constraints"`
}

func (w *Worksheet) View() View {
	return View{
		Profile:     w.profile,
		Options:     w.options.Items(),
		Outcomes:    w.outcomes.Items(),
		Ratings:     w.Grid(),
		Constraints: w.constraints.Items(),
	}
}
