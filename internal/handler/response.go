package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-auth-tasks/internal/model"
	"go-auth-tasks/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain errors onto the public error taxonomy. Anything
// unclassified is treated as an infrastructure failure: it surfaces as 503,
// never as an authentication failure, and never leaks internal detail.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	body := &model.APIError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: "Service temporarily unavailable",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrDuplicateUsername):
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_USERNAME"
		body.Message = "Username already registered"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Incorrect username or password"
	case errors.Is(err, model.ErrInvalidToken):
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Message = "Invalid or expired token"
	case errors.Is(err, model.ErrWrongTokenType):
		status = http.StatusUnauthorized
		body.Code = "WRONG_TOKEN_TYPE"
		body.Message = "Invalid token type"
	case errors.Is(err, model.ErrMalformedClaims):
		status = http.StatusUnauthorized
		body.Code = "MALFORMED_CLAIMS"
		body.Message = "Invalid token payload"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusUnauthorized
		body.Code = "USER_NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Task not found"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// Already the 503 default; a timed-out store call must not be
		// conflated with a credential or token failure.
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
