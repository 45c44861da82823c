package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-assessor/internal/schemas"
	"github.com/jonathan/career-assessor/internal/types"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Navigation actions
const (
	NavigateNext     = "next"
	NavigatePrevious = "previous"
	NavigateGoTo     = "goto"
)

// NavigateRequest moves the question cursor
type NavigateRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// handleGetAssessment returns the current view
func (s *Server) handleGetAssessment(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleStart begins a fresh attempt
func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	if err := s.orch.Start(); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleSubmitProfile validates the profile and blocks until questions are generated
func (s *Server) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	var profile types.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.orch.SubmitProfile(r.Context(), profile); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleGetQuestion returns the question at the cursor
func (s *Server) handleGetQuestion(w http.ResponseWriter, _ *http.Request) {
	view, err := s.orch.CurrentQuestion()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleSubmitAnswers records one or more answers. The body is a JSON array
// of {question_id, value}; answers are applied in order until one fails.
func (s *Server) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := schemas.ValidateJSONString(schemas.Answers, string(body)); err != nil {
		s.handleError(w, &ErrValidation{Field: "answers", Message: strings.TrimSpace(err.Error())})
		return
	}

	var answers []types.Answer
	if err := json.Unmarshal(body, &answers); err != nil {
		s.handleError(w, &ErrValidation{Field: "answers", Message: err.Error()})
		return
	}
	for _, a := range answers {
		if err := s.orch.Answer(a.QuestionID, a.Value); err != nil {
			s.handleError(w, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleNavigate moves the cursor and returns the question it lands on
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var err error
	switch req.Action {
	case NavigateNext:
		err = s.orch.Next()
	case NavigatePrevious:
		err = s.orch.Previous()
	case NavigateGoTo:
		err = s.orch.GoTo(req.Index)
	default:
		err = &ErrValidation{Field: "action", Message: fmt.Sprintf("must be one of %s, %s, %s", NavigateNext, NavigatePrevious, NavigateGoTo)}
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.handleGetQuestion(w, r)
}

// handleComplete scores the answers and blocks until the report is ready
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.Complete(r.Context()); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleRetake starts over from a finished report
func (s *Server) handleRetake(w http.ResponseWriter, _ *http.Request) {
	if err := s.orch.Retake(); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleAbandon returns to Idle from any state
func (s *Server) handleAbandon(w http.ResponseWriter, _ *http.Request) {
	s.orch.Abandon()
	s.jsonResponse(w, http.StatusOK, s.orch.Snapshot())
}

// handleGetScores returns normalized scores of the finished attempt
func (s *Server) handleGetScores(w http.ResponseWriter, _ *http.Request) {
	scores, err := s.orch.Scores()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, scores)
}

// handleGetReport returns the report of the finished attempt
func (s *Server) handleGetReport(w http.ResponseWriter, _ *http.Request) {
	report, err := s.orch.Report()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleError maps err to a status code and writes the error body
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err))
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return body, nil
}

// decodeJSON decodes the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}
