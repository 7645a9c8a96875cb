package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/postboard-be/internal/apperr"
)

// errorBody is the uniform error shape shared by the REST and GraphQL edges.
type errorBody struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    []apperr.Detail `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	respondJSON(w, appErr.HTTPStatus, errorBody{
		Message: appErr.Message,
		Status:  appErr.HTTPStatus,
		Data:    appErr.Details,
	})
}
