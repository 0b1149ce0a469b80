// Package store persists evaluation inputs: frames of match records and
// ground-truth annotations, grouped by scene. Computed scores are never
// stored; callers re-evaluate frames on demand.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/perception"
)

// Frame is one capture's worth of evaluation input: the matcher's output and
// the frame's annotations.
type Frame struct {
	ID           uuid.UUID                `json:"frame_id"`
	Scene        string                   `json:"scene"`
	CapturedAt   time.Time                `json:"captured_at"`
	MatchRecords []perception.MatchRecord `json:"match_records"`
	GroundTruths []perception.GroundTruth `json:"ground_truths"`
	CreatedAt    time.Time                `json:"created_at"`
}

// FrameFilter narrows ListFrames. Zero values match everything.
type FrameFilter struct {
	Scene string
	Limit int
}

// SceneCount is one scene's stored-frame tally.
type SceneCount struct {
	Scene  string `json:"scene"`
	Frames int    `json:"frames"`
}

type Store interface {
	CreateFrame(ctx context.Context, frame *Frame) error
	GetFrame(ctx context.Context, id uuid.UUID) (*Frame, error)
	ListFrames(ctx context.Context, filter FrameFilter) ([]*Frame, error)
	DeleteFrame(ctx context.Context, id uuid.UUID) error
	SceneCounts(ctx context.Context) ([]SceneCount, error)
	Close() error
}
