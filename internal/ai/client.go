package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hakwonplus/academy-api/internal/circuitbreaker"
)

// Client talks to the AI backend over HTTP. Calls are wrapped in a
// circuit breaker so a struggling upstream sheds load quickly instead
// of tying up request handlers.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

var _ Generator = (*Client)(nil)

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New(circuitbreaker.Config{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
	}
}

func (c *Client) GenerateSimilarProblems(ctx context.Context, req SimilarProblemRequest) (*Result, error) {
	return c.post(ctx, "/v1/similar-problems", req)
}

func (c *Client) AnalyzeWeakConcepts(ctx context.Context, req AnalysisRequest) (*Result, error) {
	return c.post(ctx, "/v1/weak-concepts", req)
}

func (c *Client) AnalyzeCompetency(ctx context.Context, req AnalysisRequest) (*Result, error) {
	return c.post(ctx, "/v1/competency", req)
}

func (c *Client) GradeHomework(ctx context.Context, req GradingRequest) (*Result, error) {
	return c.post(ctx, "/v1/grade-homework", req)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var result *Result
	err = c.breaker.Call(func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("ai backend returned %d: %s", resp.StatusCode, snippet)
		}

		var r Result
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return fmt.Errorf("failed to decode ai response: %w", err)
		}

		result = &r
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
