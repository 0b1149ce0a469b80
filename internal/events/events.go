package events

import "github.com/argos-av/scorecard/internal/metrics"

// FrameEvaluatedEvent is emitted after every successful frame evaluation.
type FrameEvaluatedEvent struct {
	FrameID   string          `json:"frame_id"`
	Scene     string          `json:"scene,omitempty"`
	Metrics   metrics.Result  `json:"metrics"`
	Summary   metrics.Summary `json:"summary"`
	FailCount int             `json:"fail_count"`
	Passed    bool            `json:"passed"`
}

// FrameFailedEvent is emitted in addition when a frame fails the safety gate.
type FrameFailedEvent struct {
	FrameID   string `json:"frame_id"`
	Scene     string `json:"scene,omitempty"`
	FailCount int    `json:"fail_count"`
	FNCount   int    `json:"fn_count"`
	FPCount   int    `json:"fp_count"`
}

// SceneEvaluatedEvent is emitted after a whole-scene evaluation.
type SceneEvaluatedEvent struct {
	Scene      string          `json:"scene"`
	FrameCount int             `json:"frame_count"`
	Metrics    metrics.Result  `json:"metrics"`
	Summary    metrics.Summary `json:"summary"`
}
