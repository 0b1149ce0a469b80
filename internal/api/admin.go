package api

import (
	"net/http"

	"github.com/argos-av/scorecard/internal/store"
)

type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

type StatsResponse struct {
	Scenes      []store.SceneCount `json:"scenes"`
	TotalFrames int                `json:"total_frames"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frame store configured"})
		return
	}

	counts, err := h.store.SceneCounts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if counts == nil {
		counts = []store.SceneCount{}
	}

	total := 0
	for _, c := range counts {
		total += c.Frames
	}
	writeJSON(w, http.StatusOK, StatsResponse{Scenes: counts, TotalFrames: total})
}
