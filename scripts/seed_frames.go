// seed_frames.go — standalone script to post synthetic perception frames to the scorecard API.
//
// Usage:
//
//	go run scripts/seed_frames.go -api http://localhost:8700 -scene city-day -frames 20
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

type groundTruth struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

type prediction struct {
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

type matchRecord struct {
	Prediction     prediction   `json:"prediction"`
	GroundTruth    *groundTruth `json:"ground_truth,omitempty"`
	CenterDistance float64      `json:"center_distance"`
	IoU3D          float64      `json:"iou_3d"`
	PlaneDistance  float64      `json:"plane_distance"`
	LabelMatch     bool         `json:"label_match"`
}

type frameRequest struct {
	Scene        string        `json:"scene"`
	CapturedAt   time.Time     `json:"captured_at"`
	MatchRecords []matchRecord `json:"match_records"`
	GroundTruths []groundTruth `json:"ground_truths"`
}

var seedLabels = []string{"car", "car", "car", "truck", "pedestrian", "bicycle"}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "scorecard API base URL")
	scene := flag.String("scene", "synthetic", "scene name")
	frames := flag.Int("frames", 10, "number of frames to post")
	objects := flag.Int("objects", 6, "ground truths per frame")
	missRate := flag.Float64("miss-rate", 0.2, "fraction of ground truths left undetected")
	dryRun := flag.Bool("dry-run", false, "print frames without posting")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	capturedAt := time.Now().Add(-time.Duration(*frames) * 100 * time.Millisecond)

	posted := 0
	for i := 0; i < *frames; i++ {
		req := synthFrame(rng, *scene, capturedAt.Add(time.Duration(i)*100*time.Millisecond), *objects, *missRate)

		if *dryRun {
			out, _ := json.MarshalIndent(req, "", "  ")
			fmt.Println(string(out))
			continue
		}

		if err := postFrame(*apiURL, req); err != nil {
			log.Fatalf("post frame %d: %v", i, err)
		}
		posted++
	}

	if !*dryRun {
		fmt.Printf("posted %d frames to scene %q\n", posted, *scene)
	}
}

func synthFrame(rng *rand.Rand, scene string, capturedAt time.Time, objects int, missRate float64) frameRequest {
	req := frameRequest{Scene: scene, CapturedAt: capturedAt}

	for j := 0; j < objects; j++ {
		gt := groundTruth{
			ID:    fmt.Sprintf("%08x-0000-4000-8000-%012x", rng.Uint32(), rng.Int63n(1<<40)),
			Label: seedLabels[rng.Intn(len(seedLabels))],
			X:     rng.Float64()*60 - 30,
			Y:     rng.Float64()*60 - 30,
		}
		req.GroundTruths = append(req.GroundTruths, gt)

		if rng.Float64() < missRate {
			continue
		}

		// Detection near the ground truth, occasionally mislabeled.
		offset := rng.Float64() * 1.5
		rec := matchRecord{
			Prediction: prediction{
				Label:      gt.Label,
				X:          gt.X + offset,
				Y:          gt.Y,
				Confidence: 0.5 + rng.Float64()*0.5,
			},
			GroundTruth:    &gt,
			CenterDistance: offset,
			IoU3D:          1.0 - offset/2,
			PlaneDistance:  offset * 1.2,
			LabelMatch:     true,
		}
		if rng.Float64() < 0.1 {
			rec.Prediction.Label = "unknown"
			rec.LabelMatch = false
		}
		req.MatchRecords = append(req.MatchRecords, rec)
	}

	// A stray false positive with no matching ground truth.
	if rng.Float64() < 0.5 {
		req.MatchRecords = append(req.MatchRecords, matchRecord{
			Prediction: prediction{
				Label:      "car",
				X:          rng.Float64()*60 - 30,
				Y:          rng.Float64()*60 - 30,
				Confidence: 0.3 + rng.Float64()*0.4,
			},
		})
	}

	return req
}

func postFrame(apiURL string, req frameRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := http.Post(apiURL+"/api/v1/frames", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
