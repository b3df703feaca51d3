package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codequest-dev/codequest/internal/common"
	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/agents"
	"github.com/codequest-dev/codequest/internal/server/models"
	"github.com/codequest-dev/codequest/internal/server/problemcache"
)

// QuestService drives the practice-problem lifecycle: it asks the examiner
// collaborator for a problem batch, parks the results in the in-memory
// session store, and later hands a stored problem to the checker together
// with a submitted solution. Submissions against an id the store no longer
// holds fail; there is no silent regeneration.
type QuestService struct {
	examiner agents.Examiner
	checker  agents.Checker
	cache    *problemcache.Cache
	logger   logging.Logger
}

func NewQuestService(e agents.Examiner, c agents.Checker, cache *problemcache.Cache, l logging.Logger) *QuestService {
	return &QuestService{
		examiner: e,
		checker:  c,
		cache:    cache,
		logger:   l.With("module", "quest_service"),
	}
}

// GenerateProblems requests a fresh batch for the topic and stores every
// problem under its id before returning. A problem that arrives without an
// id gets one assigned here, so the batch the caller sees is always
// addressable for evaluation.
func (s *QuestService) GenerateProblems(ctx context.Context, dataStructure, topic string) ([]models.Problem, error) {
	problems, err := s.examiner.GenerateProblems(ctx, dataStructure, topic)
	if err != nil {
		return nil, fmt.Errorf("error generating problems: %w", err)
	}

	for i := range problems {
		if problems[i].ID == "" {
			problems[i].ID = uuid.NewString()
		}
		s.cache.Put(problems[i].ID, problems[i])
	}

	s.logger.Debug(ctx, "problem batch stored",
		"data_structure", dataStructure, "topic", topic, "count", len(problems))

	return problems, nil
}

// lookupProblem fetches the stored problem or reports the expired-session
// error every submission path shares.
func (s *QuestService) lookupProblem(problemID string) (models.Problem, error) {
	problem, ok := s.cache.Get(problemID)
	if !ok {
		return models.Problem{}, fmt.Errorf("%w: problem not found or expired", common.ErrorNotFound)
	}
	return problem, nil
}

// EvaluateSolution submits the stored problem and the user's code to the
// checker for a full verdict.
func (s *QuestService) EvaluateSolution(ctx context.Context, problemID, code, language string) (*models.EvaluationResult, error) {
	problem, err := s.lookupProblem(problemID)
	if err != nil {
		return nil, err
	}

	result, err := s.checker.Evaluate(ctx, problem, code, language)
	if err != nil {
		return nil, fmt.Errorf("error evaluating solution: %w", err)
	}
	return result, nil
}

// RunTests executes the user's code against the problem's visible test cases
// only. The stored problem must still be present, same as for evaluation.
func (s *QuestService) RunTests(ctx context.Context, problemID, code, language string) (*models.EvaluationResult, error) {
	problem, err := s.lookupProblem(problemID)
	if err != nil {
		return nil, err
	}

	result, err := s.checker.RunTests(ctx, problem, code, language)
	if err != nil {
		return nil, fmt.Errorf("error running tests: %w", err)
	}
	return result, nil
}
