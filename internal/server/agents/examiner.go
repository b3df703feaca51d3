package agents

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

type generateProblemsRequest struct {
	DataStructure string `json:"data_structure"`
	Topic         string `json:"topic"`
}

type generateProblemsResponse struct {
	Problems []models.Problem `json:"problems"`
}

// GenerateProblems asks the examiner agent for a batch of problems on the
// given data structure and topic. Each problem arrives with its own id.
func (c *HTTPClient) GenerateProblems(ctx context.Context, dataStructure, topic string) ([]models.Problem, error) {
	var resp generateProblemsResponse
	err := c.post(ctx, "/examiner/problems", generateProblemsRequest{
		DataStructure: dataStructure,
		Topic:         topic,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Problems, nil
}
