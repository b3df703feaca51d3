package agents

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

type checkRequest struct {
	Problem  models.Problem `json:"problem"`
	Code     string         `json:"code"`
	Language string         `json:"language"`
}

// Evaluate submits the solution to the checker agent for a full verdict.
func (c *HTTPClient) Evaluate(ctx context.Context, problem models.Problem, code, language string) (*models.EvaluationResult, error) {
	var resp models.EvaluationResult
	err := c.post(ctx, "/checker/evaluate", checkRequest{
		Problem:  problem,
		Code:     code,
		Language: language,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunTests executes the submission against the visible test cases only.
func (c *HTTPClient) RunTests(ctx context.Context, problem models.Problem, code, language string) (*models.EvaluationResult, error) {
	var resp models.EvaluationResult
	err := c.post(ctx, "/checker/run", checkRequest{
		Problem:  problem,
		Code:     code,
		Language: language,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
