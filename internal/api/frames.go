package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/evaluator"
	"github.com/argos-av/scorecard/internal/perception"
	"github.com/argos-av/scorecard/internal/store"
)

type FramesHandler struct {
	store store.Store
	svc   *evaluator.Service
}

func NewFramesHandler(s store.Store, svc *evaluator.Service) *FramesHandler {
	return &FramesHandler{store: s, svc: svc}
}

type CreateFrameRequest struct {
	Scene        string                   `json:"scene"`
	CapturedAt   time.Time                `json:"captured_at,omitempty"`
	MatchRecords []perception.MatchRecord `json:"match_records"`
	GroundTruths []perception.GroundTruth `json:"ground_truths"`
}

func (h *FramesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frame store configured"})
		return
	}

	var req CreateFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Scene == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scene required"})
		return
	}

	frame := &store.Frame{
		Scene:        req.Scene,
		CapturedAt:   req.CapturedAt,
		MatchRecords: req.MatchRecords,
		GroundTruths: req.GroundTruths,
	}
	if frame.CapturedAt.IsZero() {
		frame.CapturedAt = time.Now()
	}

	if err := h.store.CreateFrame(r.Context(), frame); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, frame)
}

func (h *FramesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frame store configured"})
		return
	}

	filter := store.FrameFilter{
		Scene: r.URL.Query().Get("scene"),
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	frames, err := h.store.ListFrames(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if frames == nil {
		frames = []*store.Frame{}
	}
	writeJSON(w, http.StatusOK, frames)
}

func (h *FramesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frame store configured"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame id"})
		return
	}

	frame, err := h.store.GetFrame(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if frame == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "frame not found"})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (h *FramesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frame store configured"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame id"})
		return
	}

	if err := h.store.DeleteFrame(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *FramesHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame id"})
		return
	}

	eval, err := h.svc.EvaluateFrame(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if eval == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "frame not found"})
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (h *FramesHandler) SceneMetrics(w http.ResponseWriter, r *http.Request) {
	scene := chi.URLParam(r, "scene")
	if scene == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scene required"})
		return
	}

	eval, err := h.svc.EvaluateScene(r.Context(), scene)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if eval == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no frames for scene"})
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
