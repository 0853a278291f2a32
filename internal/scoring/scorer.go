package scoring

import (
	"log/slog"

	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

// OptionScore is the raw OOVL score of one registry entry.
type OptionScore struct {
	Option string  `json:"option"`
	Score  float64 `json:"score"`
}

// Comparison is the result of a compare action. The option scores and the
// constraint score are reported side by side; no combined figure is derived
// from them.
type Comparison struct {
	Options         []OptionScore `json:"options"`
	ConstraintScore float64       `json:"constraint_score"`
}

// Scorer reduces a worksheet's ratings into per-option scores.
type Scorer struct {
	logger *slog.Logger
}

func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// ScoreOption sums value/100 * likelihood/100 over every outcome rated for
// option. An option with no rated outcomes scores 0.
func ScoreOption(m *worksheet.RatingMatrix, option string) float64 {
	var total float64
	for _, r := range m.Row(option) {
		total += contribution(r)
	}
	return total
}

// ScoreAllOptions scores each option in the given order. Duplicate names
// yield one entry per position.
func ScoreAllOptions(m *worksheet.RatingMatrix, options []string) []OptionScore {
	scores := make([]OptionScore, 0, len(options))
	for _, opt := range options {
		scores = append(scores, OptionScore{Option: opt, Score: ScoreOption(m, opt)})
	}
	return scores
}

// AggregateConstraintScore sums importance/100 over all constraints.
func AggregateConstraintScore(constraints []worksheet.Constraint) float64 {
	var total float64
	for _, c := range constraints {
		total += float64(c.Importance) / 100.0
	}
	return total
}

// Compare reconciles the worksheet and scores every option and the constraint list.
func (s *Scorer) Compare(ws *worksheet.Worksheet) Comparison {
	ws.Reconcile()
	result := Comparison{
		Options:         ScoreAllOptions(ws.Ratings(), ws.Options()),
		ConstraintScore: AggregateConstraintScore(ws.Constraints()),
	}
	s.logger.Debug("comparison computed",
		"options", len(result.Options),
		"outcomes", len(ws.Outcomes()),
		"constraints", len(ws.Constraints()),
		"constraint_score", result.ConstraintScore,
	)
	return result
}

func contribution(r worksheet.Rating) float64 {
	return (float64(r.Value) / 100.0) * (float64(r.Likelihood) / 100.0)
}
