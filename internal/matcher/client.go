// Package matcher is the client interface to the external geometric matcher.
// The matcher pairs predictions with ground-truth candidates and computes the
// per-mode match scores; no geometry is ever computed in this repository.
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/argos-av/scorecard/internal/perception"
)

type Client interface {
	Match(ctx context.Context, predictions []perception.Prediction, groundTruths []perception.GroundTruth) ([]perception.MatchRecord, error)
}

type matchRequest struct {
	Predictions  []perception.Prediction  `json:"predictions"`
	GroundTruths []perception.GroundTruth `json:"ground_truths"`
}

type matchResponse struct {
	MatchRecords []perception.MatchRecord `json:"match_records"`
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Match(ctx context.Context, predictions []perception.Prediction, groundTruths []perception.GroundTruth) ([]perception.MatchRecord, error) {
	payload, err := json.Marshal(matchRequest{Predictions: predictions, GroundTruths: groundTruths})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/match", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("matcher POST /api/v1/match: %d %s", resp.StatusCode, string(body))
	}

	var out matchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.MatchRecords, nil
}
