package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "invalid or expired token"
	case errors.Is(err, model.ErrSpriteNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Pokemon not found"
	case errors.Is(err, model.ErrUpstream):
		status = http.StatusBadGateway
		body.Code = "BAD_GATEWAY"
		body.Message = "Error fetching pokemon from PokeAPI"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
