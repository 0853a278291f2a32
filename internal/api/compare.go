package api

import (
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/oovl/internal/hermes"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

// Compare handles POST /api/v1/sessions/{session_id}/compare.
// Option scores and the constraint score are returned separately; how they
// trade off is left to the user.
func (h *SessionsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var result scoring.Comparison
	var constraints int
	_ = s.Do(func(ws *worksheet.Worksheet) error {
		result = h.scorer.Compare(ws)
		constraints = len(ws.Constraints())
		return nil
	})

	h.metrics.Applied("compare", true)
	h.metrics.Comparisons.Inc()
	for _, o := range result.Options {
		h.metrics.OptionScore.Observe(o.Score)
	}

	if h.hermes != nil {
		scores := make([]hermes.OptionScore, 0, len(result.Options))
		for _, o := range result.Options {
			scores = append(scores, hermes.OptionScore{Option: o.Option, Score: o.Score})
		}
		_ = h.hermes.Publish(hermes.SubjectSessionCompared(s.ID.String()), hermes.SessionComparedEvent{
			SessionID:       s.ID.String(),
			Scores:          scores,
			ConstraintScore: result.ConstraintScore,
			Constraints:     constraints,
			ComparedAt:      time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, result)
}

// Explain handles GET /api/v1/sessions/{session_id}/compare/explain
func (h *SessionsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var breakdown []scoring.Breakdown
	_ = sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		breakdown = h.scorer.Explain(ws)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"options": breakdown})
}
