package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequest-dev/codequest/internal/common"
	"github.com/codequest-dev/codequest/internal/dbx"
	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/auth"
	"github.com/codequest-dev/codequest/internal/server/config"
	"github.com/codequest-dev/codequest/internal/server/models"
	"github.com/codequest-dev/codequest/internal/server/problemcache"
	conceptsrepo "github.com/codequest-dev/codequest/internal/server/repositories/concepts"
	usersrepo "github.com/codequest-dev/codequest/internal/server/repositories/users"
	"github.com/codequest-dev/codequest/internal/server/services"
)

// --- fakes ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	updatedID  string
	updatedKey string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) add(u *models.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.add(u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateProfilePhoto(ctx context.Context, id, storageKey string) error {
	f.updatedID, f.updatedKey = id, storageKey
	return nil
}

type fakeConceptsRepo struct {
	rows []*models.Concept
}

func (f *fakeConceptsRepo) Create(ctx context.Context, c *models.Concept) (*models.Concept, error) {
	f.rows = append([]*models.Concept{c}, f.rows...)
	return c, nil
}

func (f *fakeConceptsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Concept, error) {
	var out []*models.Concept
	for _, c := range f.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeConceptsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Concepts(db dbx.DBTX) conceptsrepo.Repository { return m.c }

type fakeExaminer struct {
	out []models.Problem
	err error
}

func (f *fakeExaminer) GenerateProblems(ctx context.Context, dataStructure, topic string) ([]models.Problem, error) {
	return f.out, f.err
}

type fakeChecker struct {
	out *models.EvaluationResult
	err error
}

func (f *fakeChecker) Evaluate(ctx context.Context, p models.Problem, code, language string) (*models.EvaluationResult, error) {
	return f.out, f.err
}

func (f *fakeChecker) RunTests(ctx context.Context, p models.Problem, code, language string) (*models.EvaluationResult, error) {
	return f.out, f.err
}

type fakeExplainer struct {
	out *models.Explanation
	err error
}

func (f *fakeExplainer) Explain(ctx context.Context, topic, language, difficulty string) (*models.Explanation, error) {
	return f.out, f.err
}

// --- test harness ---

type testEnv struct {
	srv      *httptest.Server
	mock     sqlmock.Sqlmock
	users    *fakeUsersRepo
	concepts *fakeConceptsRepo
	examiner *fakeExaminer
	checker  *fakeChecker
	cache    *problemcache.Cache
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		ProblemCacheTTL:       time.Hour,
		S3Region:              "us-east-1",
		S3RootUser:            "minioadmin",
		S3RootPassword:        "minioadmin",
		S3Bucket:              "avatars",
		S3BaseEndpoint:        "http://127.0.0.1:9000",
	}

	env := &testEnv{
		mock:     mock,
		users:    newFakeUsersRepo(),
		concepts: &fakeConceptsRepo{},
		examiner: &fakeExaminer{},
		checker:  &fakeChecker{},
		cache:    problemcache.New(cfg.ProblemCacheTTL),
		cfg:      cfg,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rm := &fakeRepoManager{u: env.users, c: env.concepts}

	explainer := &fakeExplainer{out: &models.Explanation{Title: "t", Content: "c", MarkdownContent: "# t"}}

	us := services.NewUserService(db, rm, cfg, logger)
	qs := services.NewQuestService(env.examiner, env.checker, env.cache, logger)
	ps := services.NewProfileService(db, rm, explainer, cfg, logger)

	server := NewServer(":0", db, us, qs, ps, logger)
	env.srv = httptest.NewServer(server.Router())
	t.Cleanup(env.srv.Close)

	return env
}

// seedUser registers a user directly in the fake store and returns a valid
// bearer token for it.
func (e *testEnv) seedUser(t *testing.T, id, name, email, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	e.users.add(&models.User{
		ID: id, Name: name, Email: email, PasswordHash: hash,
		Level: "beginner", Profile: models.DefaultProfile(),
	})
	token, err := auth.GenerateToken(id, email, []byte(e.cfg.SecretKey), time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerSchemePrefix+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

// --- tests ---

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectCommit()

	resp, body := env.do(t, http.MethodPost, "/signup", "", map[string]any{
		"name": "Alice", "email": "Alice@Example.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var out struct {
		Message string `json:"message"`
		User    struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Account created Successfully", out.Message)
	assert.Equal(t, "Alice", out.User.Name)
	assert.NotEmpty(t, out.User.ID)

	// email stored lowercased
	_, ok := env.users.byEmail["alice@example.com"]
	assert.True(t, ok)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	env.mock.ExpectBegin()
	env.mock.ExpectRollback()

	resp, body := env.do(t, http.MethodPost, "/signup", "", map[string]any{
		"name": "Other", "email": "ALICE@example.com", "password": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Email Already Exists"}`, string(body))
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice@example.com", "pw12345")

	resp, body := env.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "Alice@Example.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var out struct {
		Message  string `json:"message"`
		Token    string `json:"token"`
		UserName string `json:"user_name"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Welcome back Alice", out.Message)
	assert.Equal(t, "Alice", out.UserName)

	claims, err := auth.ParseToken(out.Token, []byte(env.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestLogin_FailureBodiesAreIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice@example.com", "right")

	respUnknown, bodyUnknown := env.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "ghost@example.com", "password": "whatever",
	})
	respWrong, bodyWrong := env.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, respUnknown.StatusCode)
	assert.Equal(t, http.StatusBadRequest, respWrong.StatusCode)
	assert.Equal(t, bodyUnknown, bodyWrong, "unknown-email and wrong-password responses must be byte-identical")
	assert.JSONEq(t, `{"detail":"Invalid email or password"}`, string(bodyWrong))
}

func TestLogin_ResponseNeverContainsHash(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice@example.com", "pw12345")

	_, body := env.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "alice@example.com", "password": "pw12345",
	})
	assert.NotContains(t, string(body), "$2a$", "bcrypt hash leaked into response")
	assert.NotContains(t, strings.ToLower(string(body)), "password")
}

func TestProtected_UniformUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	expired, err := auth.GenerateToken("u1", "a@b.io", []byte(env.cfg.SecretKey), -time.Minute)
	require.NoError(t, err)
	wrongKey, err := auth.GenerateToken("u1", "a@b.io", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"bare token without scheme", wrongKey},
		{"garbage token", common.BearerSchemePrefix + "not.a.jwt"},
		{"wrong signature", common.BearerSchemePrefix + wrongKey},
		{"expired token", common.BearerSchemePrefix + expired},
	}

	var bodies [][]byte
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/profile", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set(common.AuthorizationHeaderName, tc.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			bodies = append(bodies, body)
		})
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "all 401 bodies must be identical")
	}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	resp, body := env.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var out struct {
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Email   string          `json:"email"`
		Level   string          `json:"level"`
		Profile json.RawMessage `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, "beginner", out.Level)
	assert.JSONEq(t, string(models.DefaultProfile()), string(out.Profile))
	assert.NotContains(t, string(body), "$2a$")
}

func TestGenerateEvaluateFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	env.examiner.out = []models.Problem{
		{ID: "p1", Title: "Two Sum", Difficulty: "easy"},
		{ID: "p2", Title: "Reverse List", Difficulty: "medium"},
	}
	env.checker.out = &models.EvaluationResult{Passed: true, Feedback: "all green"}

	resp, body := env.do(t, http.MethodPost, "/problems/generate", token, map[string]any{
		"data_structure": "arrays", "topic": "two pointers",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var gen struct {
		Problems []models.Problem `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(body, &gen))
	require.Len(t, gen.Problems, 2)

	// evaluate against a generated id
	resp, body = env.do(t, http.MethodPost, "/problems/evaluate", token, map[string]any{
		"problem_id": gen.Problems[0].ID, "code": "x", "language": "go",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
	var eval models.EvaluationResult
	require.NoError(t, json.Unmarshal(body, &eval))
	assert.True(t, eval.Passed)

	// run against the same id
	resp, _ = env.do(t, http.MethodPost, "/problems/run", token, map[string]any{
		"problem_id": gen.Problems[1].ID, "code": "x", "language": "go",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerate_AgentFailureSurfacesMessage(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	env.examiner.err = errors.New("examiner unavailable: quota exceeded")

	resp, body := env.do(t, http.MethodPost, "/problems/generate", token, map[string]any{
		"data_structure": "arrays", "topic": "sorting",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out detailBody
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.Detail, "error generating problems")
	assert.Contains(t, out.Detail, "quota exceeded")
}

func TestEvaluate_CheckerFailureSurfacesMessage(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")
	env.cache.Put("p1", models.Problem{ID: "p1"})

	env.checker.err = errors.New("sandbox crashed")

	resp, body := env.do(t, http.MethodPost, "/problems/evaluate", token, map[string]any{
		"problem_id": "p1", "code": "x", "language": "go",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out detailBody
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.Detail, "error evaluating solution")
	assert.Contains(t, out.Detail, "sandbox crashed")
}

func TestEvaluate_UnknownProblem(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	resp, body := env.do(t, http.MethodPost, "/problems/evaluate", token, map[string]any{
		"problem_id": "never-generated", "code": "x", "language": "go",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Problem not found or expired"}`, string(body))
}

func TestConceptsFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	resp, body := env.do(t, http.MethodPost, "/concepts/explain", token, map[string]any{
		"topic": "binary search", "language": "go", "difficulty": "easy",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var created conceptDTO
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "t", created.Title)
	assert.NotEmpty(t, created.ID)

	resp, body = env.do(t, http.MethodGet, "/concepts", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var list conceptsResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, "u1", list.UserID)
	require.Len(t, list.Concepts, 1)
	assert.Equal(t, created.ID, list.Concepts[0].ID)
}

func TestAvatarUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "Alice", "alice@example.com", "pw")

	resp, body := env.do(t, http.MethodPost, "/profile/avatar", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var out avatarUploadResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Key)
	assert.NotEmpty(t, out.UploadURL)
	assert.Equal(t, "u1", env.users.updatedID)
	assert.Equal(t, out.Key, env.users.updatedKey)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectPing()

	resp, body := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(body))
}

func TestBadRequestBody(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/signup", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
