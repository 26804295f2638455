package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteEmbedder calls an OpenAI-compatible embeddings endpoint. Ollama
// serves the same route, so one client covers both backends.
type RemoteEmbedder struct {
	baseURL    string
	model      string
	apiKey     string
	client     *http.Client
	dimension  int
	maxRetries int
}

// RemoteConfig configures the embeddings client.
type RemoteConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

func NewRemoteEmbedder(cfg RemoteConfig) *RemoteEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &RemoteEmbedder{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: 3,
	}
}

// Prepare is a no-op for remote embedding; the dimension is learned
// from the first response.
func (e *RemoteEmbedder) Prepare([]string) error { return nil }

func (e *RemoteEmbedder) Dimension() int { return e.dimension }

// Embed requests one embedding vector, retrying transient failures with
// exponential backoff.
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	type reqBody struct {
		Input  string `json:"input,omitempty"`
		Prompt string `json:"prompt,omitempty"`
		Model  string `json:"model"`
	}

	url := fmt.Sprintf("%s/v1/embeddings", e.baseURL)
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}

		body, _ := json.Marshal(reqBody{Input: text, Prompt: text, Model: e.model})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if e.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+e.apiKey)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("embeddings backend: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("embeddings backend: %s", resp.Status)
		}

		if vec, ok := decodeEmbedding(payload); ok {
			if e.dimension == 0 {
				e.dimension = len(vec)
			}
			return vec, nil
		}
		lastErr = errors.New("no embedding in response")
	}
	return nil, lastErr
}

// Ping issues a minimal embed request to verify reachability.
func (e *RemoteEmbedder) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := e.Embed(ctx, "ping")
	return err
}

// decodeEmbedding accepts the OpenAI response shape and falls back to
// Ollama's native {"embedding": [...]} form.
func decodeEmbedding(payload []byte) ([]float64, bool) {
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil {
		if len(openaiOut.Data) > 0 && len(openaiOut.Data[0].Embedding) > 0 {
			return openaiOut.Data[0].Embedding, true
		}
	}
	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embedding) > 0 {
		return ollamaOut.Embedding, true
	}
	return nil, false
}

func retryDelay(attempt int) time.Duration {
	d := 200 * time.Millisecond << attempt
	if d > 3*time.Second {
		d = 3 * time.Second
	}
	return d
}
