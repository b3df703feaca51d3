package agents

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

type explainRequest struct {
	Topic      string `json:"topic"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

// Explain asks the explainer agent for a concept explanation.
func (c *HTTPClient) Explain(ctx context.Context, topic, language, difficulty string) (*models.Explanation, error) {
	var resp models.Explanation
	err := c.post(ctx, "/explainer/explain", explainRequest{
		Topic:      topic,
		Language:   language,
		Difficulty: difficulty,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
