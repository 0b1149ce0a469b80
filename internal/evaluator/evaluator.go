// Package evaluator ties the frame store, the metrics engine, the pass/fail
// classifier and the event publisher together. Every evaluation is a
// synchronous batch computation over its inputs; nothing is cached or
// carried between calls.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/events"
	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/metrics"
	"github.com/argos-av/scorecard/internal/passfail"
	"github.com/argos-av/scorecard/internal/perception"
	"github.com/argos-av/scorecard/internal/store"
)

// Service runs evaluations. The store and event client are optional: without
// a store only ad hoc evaluation works, without events nothing is published.
type Service struct {
	store      store.Store
	events     events.Client
	metricsCfg metrics.Config
	classifier *passfail.Classifier
	logger     *slog.Logger
}

func New(
	st store.Store,
	ev events.Client,
	metricsCfg metrics.Config,
	passFailCfg passfail.Config,
	criticalCfg filter.CriticalConfig,
	logger *slog.Logger,
) (*Service, error) {
	if err := metricsCfg.Validate(); err != nil {
		return nil, err
	}
	classifier, err := passfail.NewClassifier(passFailCfg, criticalCfg, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:      st,
		events:     ev,
		metricsCfg: metricsCfg,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Evaluation is the complete outcome of one evaluation run.
type Evaluation struct {
	FrameID    string          `json:"frame_id,omitempty"`
	Scene      string          `json:"scene,omitempty"`
	FrameCount int             `json:"frame_count,omitempty"`
	Metrics    metrics.Result  `json:"metrics"`
	Summary    metrics.Summary `json:"summary"`
	PassFail   passfail.Result `json:"pass_fail"`
	Report     string          `json:"report"`
}

// EvaluateRecords scores one batch of pre-matched records. The full
// ground-truth set doubles as the critical-filter candidate set.
func (s *Service) EvaluateRecords(records []perception.MatchRecord, groundTruths []perception.GroundTruth) (*Evaluation, error) {
	score, err := metrics.NewScore(s.metricsCfg, s.logger)
	if err != nil {
		return nil, err
	}
	if err := score.Evaluate(records, groundTruths); err != nil {
		return nil, err
	}

	return &Evaluation{
		Metrics:  score.Result(),
		Summary:  metrics.Summarize(score),
		PassFail: s.classifier.Evaluate(records, groundTruths),
		Report:   score.String(),
	}, nil
}

// EvaluateFrame loads one stored frame, evaluates it and publishes the
// outcome.
func (s *Service) EvaluateFrame(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no frame store configured")
	}
	frame, err := s.store.GetFrame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", id, err)
	}
	if frame == nil {
		return nil, nil
	}

	eval, err := s.EvaluateRecords(frame.MatchRecords, frame.GroundTruths)
	if err != nil {
		return nil, err
	}
	eval.FrameID = frame.ID.String()
	eval.Scene = frame.Scene

	s.publishFrame(eval)
	return eval, nil
}

// EvaluateScene concatenates every stored frame of a scene into one
// dataset-scale evaluation.
func (s *Service) EvaluateScene(ctx context.Context, scene string) (*Evaluation, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no frame store configured")
	}
	frames, err := s.store.ListFrames(ctx, store.FrameFilter{Scene: scene})
	if err != nil {
		return nil, fmt.Errorf("list frames for scene %s: %w", scene, err)
	}
	if len(frames) == 0 {
		return nil, nil
	}

	var records []perception.MatchRecord
	var groundTruths []perception.GroundTruth
	for _, frame := range frames {
		records = append(records, frame.MatchRecords...)
		groundTruths = append(groundTruths, frame.GroundTruths...)
	}

	eval, err := s.EvaluateRecords(records, groundTruths)
	if err != nil {
		return nil, err
	}
	eval.Scene = scene
	eval.FrameCount = len(frames)

	if s.events != nil {
		_ = s.events.Publish(events.SubjectSceneEvaluated(scene), events.SceneEvaluatedEvent{
			Scene:      scene,
			FrameCount: len(frames),
			Metrics:    eval.Metrics,
			Summary:    eval.Summary,
		})
	}
	return eval, nil
}

func (s *Service) publishFrame(eval *Evaluation) {
	if s.events == nil {
		return
	}
	failCount := eval.PassFail.FailCount()
	if err := s.events.Publish(events.SubjectFrameEvaluated(eval.FrameID), events.FrameEvaluatedEvent{
		FrameID:   eval.FrameID,
		Scene:     eval.Scene,
		Metrics:   eval.Metrics,
		Summary:   eval.Summary,
		FailCount: failCount,
		Passed:    failCount == 0,
	}); err != nil {
		s.logger.Warn("failed to publish evaluation event", "frame", eval.FrameID, "error", err)
	}
	if failCount > 0 {
		_ = s.events.Publish(events.SubjectFrameFailed(eval.FrameID), events.FrameFailedEvent{
			FrameID:   eval.FrameID,
			Scene:     eval.Scene,
			FailCount: failCount,
			FNCount:   len(eval.PassFail.FN),
			FPCount:   len(eval.PassFail.FP),
		})
	}
}
