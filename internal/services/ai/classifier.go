package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// NeutralEmotion is the sentinel label used whenever classification is
// disabled or fails.
const NeutralEmotion = "neutral"

const defaultClassifyTimeout = 10 * time.Second

// Classification is the outcome of emotion inference for one entry.
type Classification struct {
	Emotion    string
	Confidence float64
}

var neutralClassification = Classification{Emotion: NeutralEmotion, Confidence: 1.0}

// ClassifierConfig carries the classification backend credentials. An empty
// APIKey selects fallback-only mode once, at construction; the decision is
// never re-checked per call.
type ClassifierConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Classifier labels journal text with an emotion by calling a HuggingFace
// text-classification endpoint. A downed or unconfigured provider must never
// block entry creation, so every failure path degrades to the neutral label
// instead of returning an error.
type Classifier struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}
	return &Classifier{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: strings.TrimSpace(cfg.Endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the classifier will make real network calls.
func (c *Classifier) Enabled() bool {
	return c.apiKey != ""
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify infers the dominant emotion of text. The caller is responsible
// for trimming and rejecting empty input beforehand.
func (c *Classifier) Classify(ctx context.Context, text string) Classification {
	if !c.Enabled() {
		return neutralClassification
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return neutralClassification
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return neutralClassification
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("emotion classification failed: %v", err)
		return neutralClassification
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("emotion classification response read failed: %v", err)
		return neutralClassification
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("emotion classification backend returned status %d", resp.StatusCode)
		return neutralClassification
	}

	// The backend wraps the label list in an outer single-element array.
	var results [][]labelScore
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 || len(results[0]) == 0 {
		log.Println("emotion classification returned an unusable response")
		return neutralClassification
	}

	// Highest score wins. Strict > keeps the first-seen pair on ties; the
	// upstream ordering of equal scores is not a stability guarantee.
	top := results[0][0]
	for _, cand := range results[0][1:] {
		if cand.Score > top.Score {
			top = cand
		}
	}
	return Classification{Emotion: top.Label, Confidence: top.Score}
}
