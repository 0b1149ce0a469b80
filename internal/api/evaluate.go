package api

import (
	"encoding/json"
	"net/http"

	"github.com/argos-av/scorecard/internal/evaluator"
	"github.com/argos-av/scorecard/internal/matcher"
	"github.com/argos-av/scorecard/internal/perception"
)

type EvaluateHandler struct {
	svc     *evaluator.Service
	matcher matcher.Client
}

func NewEvaluateHandler(svc *evaluator.Service, m matcher.Client) *EvaluateHandler {
	return &EvaluateHandler{svc: svc, matcher: m}
}

// EvaluateRequest carries either pre-matched records or raw predictions.
// When match_records is empty the predictions are sent to the matcher first.
type EvaluateRequest struct {
	MatchRecords []perception.MatchRecord `json:"match_records,omitempty"`
	Predictions  []perception.Prediction  `json:"predictions,omitempty"`
	GroundTruths []perception.GroundTruth `json:"ground_truths"`
}

func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	records := req.MatchRecords
	if len(records) == 0 && len(req.Predictions) > 0 {
		if h.matcher == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no matcher configured"})
			return
		}
		matched, err := h.matcher.Match(r.Context(), req.Predictions, req.GroundTruths)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		records = matched
	}

	eval, err := h.svc.EvaluateRecords(records, req.GroundTruths)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, eval)
}
