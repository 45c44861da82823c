package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-assessor/internal/orchestrator"
	"github.com/jonathan/career-assessor/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error  string             `json:"error"`
	Field  string             `json:"field,omitempty"`
	Fields []types.FieldError `json:"fields,omitempty"`
	State  string             `json:"state,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr        *ErrValidation
		validationErr *orchestrator.ValidationError
		transitionErr *orchestrator.TransitionError
		generationErr *orchestrator.GenerationError
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &transitionErr), errors.Is(err, orchestrator.ErrStaleResponse):
		return http.StatusConflict
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response body for err
func errorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}

	var reqErr *ErrValidation
	if errors.As(err, &reqErr) {
		body.Field = reqErr.Field
	}
	var validationErr *orchestrator.ValidationError
	if errors.As(err, &validationErr) {
		body.Field = validationErr.Field
	}
	var profileErr *types.ProfileError
	if errors.As(err, &profileErr) {
		body.Fields = profileErr.Fields
	}
	var transitionErr *orchestrator.TransitionError
	if errors.As(err, &transitionErr) {
		body.State = transitionErr.State.String()
	}
	return body
}
