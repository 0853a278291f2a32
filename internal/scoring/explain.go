package scoring

import "github.com/MikeSquared-Agency/oovl/internal/worksheet"

// Contribution is one outcome's share of an option score.
type Contribution struct {
	Outcome    string  `json:"outcome"`
	Value      int     `json:"value"`
	Likelihood int     `json:"likelihood"`
	Weighted   float64 `json:"weighted"`
}

// Breakdown explains how an option's score was built.
type Breakdown struct {
	Option        string         `json:"option"`
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Explain returns a breakdown per option in registry order, with
// contributions listed in outcome registry order. Outcomes repeated through
// duplicate names contribute once, matching ScoreOption.
func (s *Scorer) Explain(ws *worksheet.Worksheet) []Breakdown {
	ws.Reconcile()
	outcomes := ws.Outcomes()
	out := make([]Breakdown, 0, len(ws.Options()))
	for _, opt := range ws.Options() {
		b := Breakdown{Option: opt, Contributions: []Contribution{}}
		seen := make(map[string]bool, len(outcomes))
		for _, o := range outcomes {
			if seen[o] {
				continue
			}
			seen[o] = true
			r, err := ws.Ratings().Get(opt, o)
			if err != nil {
				s.logger.Warn("rating missing after reconcile", "option", opt, "outcome", o)
				continue
			}
			c := Contribution{Outcome: o, Value: r.Value, Likelihood: r.Likelihood, Weighted: contribution(r)}
			b.Score += c.Weighted
			b.Contributions = append(b.Contributions, c)
		}
		out = append(out, b)
	}
	return out
}
