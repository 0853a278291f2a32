package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

type constraintRequest struct {
	Description string `json:"description"`
}

type importanceRequest struct {
	Importance *int `json:"importance"`
}

// AddConstraint handles POST /api/v1/sessions/{session_id}/constraints
func (h *SessionsHandler) AddConstraint(w http.ResponseWriter, r *http.Request) {
	var req constraintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var added bool
	var items []worksheet.Constraint
	_ = sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		added = ws.AddConstraint(req.Description)
		items = ws.Constraints()
		return nil
	})
	h.metrics.Applied("add_constraint", added)

	writeJSON(w, http.StatusOK, map[string]interface{}{"added": added, "constraints": items})
}

// RemoveConstraint handles DELETE /api/v1/sessions/{session_id}/constraints/{index}
func (h *SessionsHandler) RemoveConstraint(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var removed worksheet.Constraint
	var items []worksheet.Constraint
	err := sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		var err error
		removed, err = ws.RemoveConstraint(index)
		items = ws.Constraints()
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.Applied("remove_constraint", true)

	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed, "constraints": items})
}

// SetImportance handles PUT /api/v1/sessions/{session_id}/constraints/{index}/importance.
// Values outside 0-100 are clamped.
func (h *SessionsHandler) SetImportance(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req importanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Importance == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "importance required"})
		return
	}

	var c worksheet.Constraint
	err := sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		var err error
		c, err = ws.SetConstraintImportance(index, *req.Importance)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.Applied("set_constraint_importance", true)

	writeJSON(w, http.StatusOK, map[string]interface{}{"index": index, "constraint": c})
}
