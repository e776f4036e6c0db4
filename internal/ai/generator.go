// Package ai defines the contract between the quota-gated endpoints and
// the AI backend. Prompt construction and model selection live behind
// the upstream service; this side only ships requests and results.
package ai

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type SimilarProblemRequest struct {
	StudentID uuid.UUID `json:"student_id"`
	Concept   string    `json:"concept,omitempty"`
}

type AnalysisRequest struct {
	StudentID uuid.UUID `json:"student_id"`
}

type GradingRequest struct {
	StudentID    uuid.UUID `json:"student_id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	ImageURL     string    `json:"image_url,omitempty"`
}

// Result carries the generated content verbatim; the API layer returns
// it to the client without interpreting it.
type Result struct {
	Content json.RawMessage `json:"content"`
	Model   string          `json:"model,omitempty"`
}

type Generator interface {
	GenerateSimilarProblems(ctx context.Context, req SimilarProblemRequest) (*Result, error)
	AnalyzeWeakConcepts(ctx context.Context, req AnalysisRequest) (*Result, error)
	AnalyzeCompetency(ctx context.Context, req AnalysisRequest) (*Result, error)
	GradeHomework(ctx context.Context, req GradingRequest) (*Result, error)
}
