package models

// Problem is a generated coding exercise. Instances live in the in-memory
// problem session store between generation and evaluation; they are never
// persisted.
type Problem struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Difficulty        string     `json:"difficulty"`
	Examples          []Example  `json:"examples"`
	Constraints       []string   `json:"constraints"`
	TestCases         []TestCase `json:"test_cases"`
	ReferenceSolution string     `json:"reference_solution,omitempty"`
	Explanation       string     `json:"explanation,omitempty"`
}

// Example is a worked input/output pair shown with the problem statement.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// TestCase is a single check the checker collaborator runs a submission
// against.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// TestResult is the per-test outcome of an evaluation.
type TestResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

// EvaluationResult is the checker's verdict for a submitted solution.
type EvaluationResult struct {
	Passed   bool         `json:"passed"`
	Results  []TestResult `json:"results"`
	Feedback string       `json:"feedback,omitempty"`
}
