package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types to HTTP statuses. Internal
// details never leak to the client.
func respondWithAppError(w http.ResponseWriter, err error) {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, notFoundMessage(err))
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
	case apperrors.ErrorTypeTimeout:
		respondWithError(w, http.StatusGatewayTimeout, "upstream timed out")
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, "upstream unavailable")
	case apperrors.ErrorTypeRateLimited:
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func notFoundMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "resource not found"
}

func validationMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "invalid request"
}
