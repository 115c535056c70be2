package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifierWith(t *testing.T, handler http.HandlerFunc) *Classifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClassifier(ClassifierConfig{APIKey: "test-key", Endpoint: srv.URL})
}

func TestClassifyPicksHighestScore(t *testing.T) {
	c := classifierWith(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "rough day at work", body["inputs"])

		json.NewEncoder(w).Encode([][]labelScore{{
			{Label: "joy", Score: 0.2},
			{Label: "sadness", Score: 0.9},
			{Label: "anger", Score: 0.5},
		}})
	})

	got := c.Classify(context.Background(), "rough day at work")
	assert.Equal(t, "sadness", got.Emotion)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
}

func TestClassifyTieKeepsFirstLabel(t *testing.T) {
	c := classifierWith(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]labelScore{{
			{Label: "fear", Score: 0.5},
			{Label: "anger", Score: 0.5},
		}})
	})

	got := c.Classify(context.Background(), "tied")
	assert.Equal(t, "fear", got.Emotion)
}

func TestClassifyDisabledSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "", Endpoint: srv.URL})
	require.False(t, c.Enabled())

	got := c.Classify(context.Background(), "anything")
	assert.Equal(t, neutralClassification, got)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClassifyErrorStatusFallsBackToNeutral(t *testing.T) {
	c := classifierWith(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	got := c.Classify(context.Background(), "text")
	assert.Equal(t, neutralClassification, got)
}

func TestClassifyMalformedResponseFallsBackToNeutral(t *testing.T) {
	cases := map[string]string{
		"not json":    `{{{`,
		"empty outer": `[]`,
		"empty inner": `[[]]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			payload := body
			c := classifierWith(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(payload))
			})
			got := c.Classify(context.Background(), "text")
			assert.Equal(t, neutralClassification, got)
		})
	}
}

func TestClassifyTruncatedResponseFallsBackToNeutral(t *testing.T) {
	// Declaring a longer Content-Length than is written makes the body read
	// fail client-side partway through.
	c := classifierWith(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "512")
		w.Write([]byte(`[[{"label":"joy"`))
	})

	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	got := c.Classify(context.Background(), "text")
	assert.Equal(t, neutralClassification, got)
	assert.Contains(t, logs.String(), "response read failed")
}

func TestClassifyTimeoutFallsBackToNeutral(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	// Unblock the handler before srv.Close (defers run LIFO), otherwise
	// Close waits forever on the still-active connection.
	defer close(release)

	c := NewClassifier(ClassifierConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
		Timeout:  50 * time.Millisecond,
	})

	got := c.Classify(context.Background(), "slow backend")
	assert.Equal(t, neutralClassification, got)
}

func TestClassifyUnreachableEndpointFallsBackToNeutral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClassifier(ClassifierConfig{APIKey: "test-key", Endpoint: srv.URL})
	got := c.Classify(context.Background(), "text")
	assert.Equal(t, neutralClassification, got)
}
