package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/codequest-dev/codequest/internal/server/models"
	"github.com/codequest-dev/codequest/internal/server/services"
)

// --- request/response DTOs ---

type signupRequest struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	ProfilePhoto string          `json:"profilePhoto"`
	Level        string          `json:"level"`
	Problems     []string        `json:"problems"`
	Quizzes      []string        `json:"quizzes"`
	Profile      json.RawMessage `json:"profile"`
}

type signupResponse struct {
	Message string     `json:"message"`
	User    signupUser `json:"user"`
}

type signupUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto"`
}

type profileResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	ProfilePhoto string          `json:"profilePhoto"`
	Level        string          `json:"level"`
	Profile      json.RawMessage `json:"profile"`
}

type conceptDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	MarkdownContent string    `json:"markdown_content"`
	Language        string    `json:"language"`
	Difficulty      string    `json:"difficulty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type conceptsResponse struct {
	UserID   string       `json:"user_id"`
	Concepts []conceptDTO `json:"concepts"`
}

type generateProblemsRequest struct {
	DataStructure string `json:"data_structure"`
	Topic         string `json:"topic"`
}

type generateProblemsResponse struct {
	Problems []models.Problem `json:"problems"`
}

type solutionRequest struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

type explainConceptRequest struct {
	Topic      string `json:"topic"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

type avatarUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// --- auth ---

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Signup(r.Context(), services.SignupParams{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ProfilePhoto: req.ProfilePhoto,
		Level:        req.Level,
		Problems:     req.Problems,
		Quizzes:      req.Quizzes,
		Profile:      req.Profile,
	})
	if err != nil {
		s.logger.Warn(r.Context(), "signup failed", "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{
		Message: "Account created Successfully",
		User:    signupUser{ID: user.ID, Name: user.Name},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:      fmt.Sprintf("Welcome back %s", user.Name),
		Token:        token,
		UserName:     user.Name,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
	})
}

// --- profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	view, err := s.profile.GetProfile(r.Context(), user)
	if err != nil {
		s.logger.Error(r.Context(), "profile view failed", "user_id", user.ID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	photo := user.ProfilePhoto
	if view.AvatarURL != "" {
		photo = view.AvatarURL
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfilePhoto: photo,
		Level:        user.Level,
		Profile:      user.Profile,
	})
}

func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	key, url, err := s.profile.AvatarUploadURL(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "avatar upload url failed", "user_id", user.ID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarUploadResponse{Key: key, UploadURL: url})
}

func (s *Server) handleListConcepts(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	concepts, err := s.profile.ListConcepts(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "concept listing failed", "user_id", user.ID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	resp := conceptsResponse{UserID: user.ID, Concepts: make([]conceptDTO, 0, len(concepts))}
	for _, c := range concepts {
		resp.Concepts = append(resp.Concepts, newConceptDTO(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExplainConcept(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req explainConceptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	concept, err := s.profile.ExplainConcept(r.Context(), user.ID, req.Topic, req.Language, req.Difficulty)
	if err != nil {
		s.logger.Error(r.Context(), "concept explanation failed", "user_id", user.ID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newConceptDTO(concept))
}

func newConceptDTO(c *models.Concept) conceptDTO {
	return conceptDTO{
		ID:              c.ID,
		Title:           c.Title,
		Content:         c.Content,
		MarkdownContent: c.MarkdownContent,
		Language:        c.Language,
		Difficulty:      c.Difficulty,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// --- problems ---

func (s *Server) handleGenerateProblems(w http.ResponseWriter, r *http.Request) {
	var req generateProblemsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	problems, err := s.quests.GenerateProblems(r.Context(), req.DataStructure, req.Topic)
	if err != nil {
		s.logger.Error(r.Context(), "problem generation failed", "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateProblemsResponse{Problems: problems})
}

func (s *Server) handleEvaluateSolution(w http.ResponseWriter, r *http.Request) {
	var req solutionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.quests.EvaluateSolution(r.Context(), req.ProblemID, req.Code, req.Language)
	if err != nil {
		s.logger.Warn(r.Context(), "solution evaluation failed", "problem_id", req.ProblemID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunTests(w http.ResponseWriter, r *http.Request) {
	var req solutionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.quests.RunTests(r.Context(), req.ProblemID, req.Code, req.Language)
	if err != nil {
		s.logger.Warn(r.Context(), "test run failed", "problem_id", req.ProblemID, "error", err.Error())
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
