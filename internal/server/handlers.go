package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/mathlingo/mathlingo/internal/chat"
	"github.com/mathlingo/mathlingo/internal/gamify"
	"github.com/mathlingo/mathlingo/internal/grading"
	"github.com/mathlingo/mathlingo/internal/problems"
	"github.com/mathlingo/mathlingo/internal/store"
	"github.com/mathlingo/mathlingo/internal/vision"
)

type generateRequest struct {
	Topic      string                  `json:"topic"`
	Difficulty int                     `json:"difficulty"`
	History    []problems.HistoryEntry `json:"history"`
	Kind       problems.Kind           `json:"kind"`
}

type generateResponse struct {
	problems.Public
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Kind != "" && !req.Kind.Valid() {
		respondError(w, http.StatusBadRequest, "unknown kind "+strconv.Quote(string(req.Kind)))
		return
	}

	res, err := s.generator.Generate(r.Context(), problems.GenerateInput{
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		History:    req.History,
		Kind:       req.Kind,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "problem generation failed")
		return
	}

	out := generateResponse{Public: res.Problem, Degraded: res.Degraded}
	if res.Degraded {
		// The fallback problem is still usable; the flag tells the client
		// the quiz is running without the LLM.
		out.Error = "problem service temporarily degraded"
	}
	respondJSON(w, http.StatusOK, out)
}

type gradeRequest struct {
	ID     string       `json:"id"`
	Answer string       `json:"answer"`
	Record *gradeRecord `json:"record,omitempty"`
}

// gradeRecord lets a caller resubmit the full problem when the store has
// already expired it.
type gradeRecord struct {
	Prompt   string        `json:"prompt"`
	Answer   string        `json:"answer"`
	Solution string        `json:"solution"`
	Kind     problems.Kind `json:"kind"`
	Options  []string      `json:"options,omitempty"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" && req.Record == nil {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	in := grading.Input{ProblemID: req.ID, Answer: req.Answer}
	if req.Record != nil {
		in.Record = &problems.Problem{
			ID:       req.ID,
			Prompt:   req.Record.Prompt,
			Answer:   req.Record.Answer,
			Solution: req.Record.Solution,
			Kind:     req.Record.Kind,
			Options:  req.Record.Options,
		}
	}

	res, err := s.grader.Grade(r.Context(), in)
	if errors.Is(err, grading.ErrNotFound) {
		respondError(w, http.StatusNotFound, "problem not found or expired")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "grading failed")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

type solveRequest struct {
	Problem string `json:"problem"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Problem == "" {
		respondError(w, http.StatusBadRequest, "problem is required")
		return
	}

	out, err := s.solver.Solve(r.Context(), req.Problem)
	if err != nil {
		s.log.WithError(err).Warn("solve call failed")
		respondError(w, http.StatusServiceUnavailable, "solver unavailable")
		return
	}
	respondJSON(w, http.StatusOK, out)
}

type extractRequest struct {
	// Image is the raster bytes, base64-encoded.
	Image     string        `json:"image"`
	MediaType string        `json:"media_type"`
	Kind      problems.Kind `json:"kind"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "image is not valid base64")
		return
	}

	text, err := s.extractor.Extract(r.Context(), image, req.MediaType, req.Kind)
	if err == nil {
		respondJSON(w, http.StatusOK, map[string]string{"extracted_text": text})
		return
	}
	if errors.Is(err, vision.ErrNoImage) {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	s.log.WithError(err).Warn("vision extraction failed")
	respondError(w, http.StatusServiceUnavailable, "vision service unavailable")
}

func (s *Server) handleListTopics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"topics": chat.SuggestedTopics})
}

type discussRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

func (s *Server) handleDiscussTopic(w http.ResponseWriter, r *http.Request) {
	var req discussRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := s.topics.Discuss(r.Context(), req.History, req.Message)
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

type attemptRequest struct {
	UserID           *string `json:"user_id,omitempty"`
	QuestionText     string  `json:"question_text"`
	StudentAnswer    string  `json:"student_answer"`
	LLMAnswer        string  `json:"llm_answer"`
	TimeTakenSeconds *int    `json:"time_taken_seconds,omitempty"`
	Points           int     `json:"points"`
	Topic            string  `json:"topic"`
	Difficulty       int     `json:"difficulty"`
}

func (s *Server) handleInsertAttempt(w http.ResponseWriter, r *http.Request) {
	if s.attempts == nil {
		respondError(w, http.StatusServiceUnavailable, "attempt log unavailable")
		return
	}

	var req attemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionText == "" {
		respondError(w, http.StatusBadRequest, "question_text is required")
		return
	}

	id, err := s.attempts.Insert(r.Context(), store.Attempt{
		UserID:           req.UserID,
		QuestionText:     req.QuestionText,
		StudentAnswer:    req.StudentAnswer,
		LLMAnswer:        req.LLMAnswer,
		TimeTakenSeconds: req.TimeTakenSeconds,
		Points:           req.Points,
		Topic:            req.Topic,
		Difficulty:       req.Difficulty,
	})
	if err != nil {
		s.log.WithError(err).Error("insert attempt failed")
		respondError(w, http.StatusInternalServerError, "could not record attempt")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleRecentAttempts(w http.ResponseWriter, r *http.Request) {
	if s.attempts == nil {
		respondError(w, http.StatusServiceUnavailable, "attempt log unavailable")
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	attempts, err := s.attempts.Recent(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("query attempts failed")
		respondError(w, http.StatusInternalServerError, "could not read attempts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}

type feedbackRequest struct {
	AttemptID int64  `json:"attempt_id"`
	ThumbsUp  bool   `json:"thumbs_up"`
	Comment   string `json:"comment"`
}

func (s *Server) handleInsertFeedback(w http.ResponseWriter, r *http.Request) {
	if s.feedback == nil {
		respondError(w, http.StatusServiceUnavailable, "attempt log unavailable")
		return
	}

	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AttemptID == 0 {
		respondError(w, http.StatusBadRequest, "attempt_id is required")
		return
	}

	id, err := s.feedback.Insert(r.Context(), store.Feedback{
		AttemptID: req.AttemptID,
		ThumbsUp:  req.ThumbsUp,
		Comment:   req.Comment,
	})
	if err != nil {
		s.log.WithError(err).Error("insert feedback failed")
		respondError(w, http.StatusBadRequest, "could not record feedback")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.attempts == nil {
		respondError(w, http.StatusServiceUnavailable, "attempt log unavailable")
		return
	}

	totals, err := s.attempts.Totals(r.Context())
	if err != nil {
		s.log.WithError(err).Error("query totals failed")
		respondError(w, http.StatusInternalServerError, "could not read stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"attempts":       totals.Attempts,
		"total_points":   totals.TotalPoints,
		"level":          gamify.Level(totals.TotalPoints),
		"level_progress": gamify.LevelProgress(totals.TotalPoints),
	})
}
