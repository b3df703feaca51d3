// Package agents defines the collaborator interfaces the core calls into:
// problem generation (examiner), solution evaluation (checker), and concept
// explanation (explainer). The core treats them as black boxes with their own
// internal deadlines; their failures surface as wrapped server-class errors
// and are never retried here.
package agents

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

// Examiner generates a batch of practice problems for a topic.
type Examiner interface {
	GenerateProblems(ctx context.Context, dataStructure, topic string) ([]models.Problem, error)
}

// Checker evaluates a submission against a stored problem.
type Checker interface {
	// Evaluate runs the full verdict flow, including the reference solution.
	Evaluate(ctx context.Context, problem models.Problem, code, language string) (*models.EvaluationResult, error)

	// RunTests executes only the visible test cases, without a verdict on
	// hidden cases.
	RunTests(ctx context.Context, problem models.Problem, code, language string) (*models.EvaluationResult, error)
}

// Explainer produces a concept explanation for later saving.
type Explainer interface {
	Explain(ctx context.Context, topic, language, difficulty string) (*models.Explanation, error)
}
