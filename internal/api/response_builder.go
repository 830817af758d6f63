package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"finledger/internal/core"
)

// detailResponse mirrors the API error envelope: a string for simple
// failures, a list of field errors for validation rejections.
type detailResponse struct {
	Detail any `json:"detail"`
}

// listResponse is the paginated list envelope.
type listResponse struct {
	Items []core.Record `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, detailResponse{Detail: detail})
}

// writeValidationErrors renders a 422 with one entry per failing field.
func writeValidationErrors(w http.ResponseWriter, errs core.ValidationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: errs})
}

func writeNotFound(w http.ResponseWriter, id int64) {
	writeDetail(w, http.StatusNotFound, fmt.Sprintf("item with id %d not found", id))
}
