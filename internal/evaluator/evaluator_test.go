package evaluator

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/argos-av/scorecard/internal/events"
	"github.com/argos-av/scorecard/internal/filter"
	"github.com/argos-av/scorecard/internal/metrics"
	"github.com/argos-av/scorecard/internal/passfail"
	"github.com/argos-av/scorecard/internal/perception"
	"github.com/argos-av/scorecard/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore keeps frames in memory.
type fakeStore struct {
	frames map[uuid.UUID]*store.Frame
}

func newFakeStore() *fakeStore {
	return &fakeStore{frames: make(map[uuid.UUID]*store.Frame)}
}

func (f *fakeStore) CreateFrame(_ context.Context, frame *store.Frame) error {
	frame.ID = uuid.New()
	frame.CreatedAt = time.Now()
	f.frames[frame.ID] = frame
	return nil
}

func (f *fakeStore) GetFrame(_ context.Context, id uuid.UUID) (*store.Frame, error) {
	return f.frames[id], nil
}

func (f *fakeStore) ListFrames(_ context.Context, filter store.FrameFilter) ([]*store.Frame, error) {
	var out []*store.Frame
	for _, fr := range f.frames {
		if filter.Scene == "" || fr.Scene == filter.Scene {
			out = append(out, fr)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteFrame(_ context.Context, id uuid.UUID) error {
	delete(f.frames, id)
	return nil
}

func (f *fakeStore) SceneCounts(_ context.Context) ([]store.SceneCount, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

// fakeEvents records published subjects.
type fakeEvents struct {
	subjects []string
}

func (f *fakeEvents) Publish(subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeEvents) Close() {}

func testService(t *testing.T, st store.Store, ev *fakeEvents) *Service {
	t.Helper()
	metricsCfg := metrics.Config{
		TargetLabels:             []perception.Label{perception.LabelCar},
		CenterDistanceThresholds: []float64{1.0},
	}
	passFailCfg := passfail.Config{
		TargetLabels: []perception.Label{perception.LabelCar},
		Mode:         perception.ModeCenterDistance,
		Thresholds:   map[perception.Label]float64{perception.LabelCar: 1.0},
	}
	var client events.Client
	if ev != nil {
		client = ev
	}
	svc, err := New(st, client, metricsCfg, passFailCfg, filter.CriticalConfig{}, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc
}

func carFrame() ([]perception.MatchRecord, []perception.GroundTruth) {
	gt := perception.GroundTruth{ID: uuid.New(), Label: perception.LabelCar}
	missed := perception.GroundTruth{ID: uuid.New(), Label: perception.LabelCar, X: 2, Y: 2}
	record := perception.MatchRecord{
		Prediction:     perception.Prediction{Label: perception.LabelCar, Confidence: 0.9},
		GroundTruth:    &gt,
		CenterDistance: 0.4,
		LabelMatch:     true,
	}
	return []perception.MatchRecord{record}, []perception.GroundTruth{gt, missed}
}

func TestEvaluateRecords(t *testing.T) {
	svc := testService(t, nil, nil)
	records, gts := carFrame()

	eval, err := svc.EvaluateRecords(records, gts)
	if err != nil {
		t.Fatalf("EvaluateRecords failed: %v", err)
	}
	if len(eval.Metrics.MAPs) != 1 {
		t.Fatalf("expected 1 mAP entry, got %d", len(eval.Metrics.MAPs))
	}
	// One of two ground truths detected at full precision: AP 0.5.
	if eval.Metrics.MAPs[0].Value != 0.5 {
		t.Errorf("mAP = %v, want 0.5", eval.Metrics.MAPs[0].Value)
	}
	if eval.PassFail.FailCount() != 1 {
		t.Errorf("FailCount = %d, want 1 (one missed car)", eval.PassFail.FailCount())
	}
	if !strings.Contains(eval.Report, "mAP") {
		t.Errorf("report missing mAP line:\n%s", eval.Report)
	}
}

func TestEvaluateFrame(t *testing.T) {
	st := newFakeStore()
	ev := &fakeEvents{}
	svc := testService(t, st, ev)

	records, gts := carFrame()
	frame := &store.Frame{Scene: "city-night", MatchRecords: records, GroundTruths: gts}
	if err := st.CreateFrame(context.Background(), frame); err != nil {
		t.Fatalf("CreateFrame failed: %v", err)
	}

	eval, err := svc.EvaluateFrame(context.Background(), frame.ID)
	if err != nil {
		t.Fatalf("EvaluateFrame failed: %v", err)
	}
	if eval == nil {
		t.Fatal("expected evaluation for stored frame")
	}
	if eval.Scene != "city-night" {
		t.Errorf("scene = %q, want city-night", eval.Scene)
	}

	// Frame fails (one FN), so both evaluated and failed events fire.
	if len(ev.subjects) != 2 {
		t.Fatalf("expected 2 events, got %v", ev.subjects)
	}
	if !strings.HasSuffix(ev.subjects[0], ".evaluated") {
		t.Errorf("first event = %q, want .evaluated", ev.subjects[0])
	}
	if !strings.HasSuffix(ev.subjects[1], ".failed") {
		t.Errorf("second event = %q, want .failed", ev.subjects[1])
	}
}

func TestEvaluateFrameMissing(t *testing.T) {
	svc := testService(t, newFakeStore(), nil)
	eval, err := svc.EvaluateFrame(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("EvaluateFrame failed: %v", err)
	}
	if eval != nil {
		t.Error("expected nil evaluation for unknown frame")
	}
}

func TestEvaluateScene(t *testing.T) {
	st := newFakeStore()
	ev := &fakeEvents{}
	svc := testService(t, st, ev)

	for i := 0; i < 3; i++ {
		records, gts := carFrame()
		frame := &store.Frame{Scene: "highway", MatchRecords: records, GroundTruths: gts}
		if err := st.CreateFrame(context.Background(), frame); err != nil {
			t.Fatalf("CreateFrame failed: %v", err)
		}
	}

	eval, err := svc.EvaluateScene(context.Background(), "highway")
	if err != nil {
		t.Fatalf("EvaluateScene failed: %v", err)
	}
	if eval == nil {
		t.Fatal("expected evaluation for stored scene")
	}
	if eval.FrameCount != 3 {
		t.Errorf("frame count = %d, want 3", eval.FrameCount)
	}
	if len(ev.subjects) != 1 || !strings.HasSuffix(ev.subjects[0], ".evaluated") {
		t.Errorf("expected one scene evaluated event, got %v", ev.subjects)
	}

	missing, err := svc.EvaluateScene(context.Background(), "desert")
	if err != nil {
		t.Fatalf("EvaluateScene failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil evaluation for empty scene")
	}
}

func TestEvaluateWithoutStore(t *testing.T) {
	svc := testService(t, nil, nil)
	if _, err := svc.EvaluateFrame(context.Background(), uuid.New()); err == nil {
		t.Error("expected error without a frame store")
	}
	if _, err := svc.EvaluateScene(context.Background(), "any"); err == nil {
		t.Error("expected error without a frame store")
	}
}
