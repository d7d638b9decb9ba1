package handler

import (
	"errors"
	"net/http"
	"strconv"

	"doctor-connect/internal/usecase"
	"doctor-connect/pkg/response"
)

// parseID accepts only a base-10 integer.
func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeValidationError reports whether err carried field messages and, if so, answers 400.
func writeValidationError(w http.ResponseWriter, message string, err error) bool {
	var vErr *usecase.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}
	response.ValidationError(w, message, vErr.Fields)
	return true
}
