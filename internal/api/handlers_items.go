package api

import (
	"errors"
	"log/slog"
	"net/http"

	"finledger/internal/core"
	"finledger/internal/storage"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeItemPayload(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, errBadBody.Error())
		return
	}

	rec, err := s.records.Create(r.Context(), payload.toCreate())
	if err != nil {
		var errs core.ValidationErrors
		if errors.As(err, &errs) {
			writeValidationErrors(w, errs)
			return
		}
		slog.ErrorContext(r.Context(), "Create record failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "storage failure")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	filter, skip, limit, err := parseListParams(r.URL.Query())
	if err != nil {
		var errs core.ValidationErrors
		if errors.As(err, &errs) {
			writeValidationErrors(w, errs)
			return
		}
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := s.records.List(r.Context(), filter, skip, limit)
	if err != nil {
		var errs core.ValidationErrors
		if errors.As(err, &errs) {
			writeValidationErrors(w, errs)
			return
		}
		slog.ErrorContext(r.Context(), "List records failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "storage failure")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeValidationErrors(w, err.(core.ValidationErrors))
		return
	}

	rec, err := s.records.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeNotFound(w, id)
			return
		}
		slog.ErrorContext(r.Context(), "Get record failed", "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "storage failure")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeValidationErrors(w, err.(core.ValidationErrors))
		return
	}

	payload, err := decodeItemPayload(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, errBadBody.Error())
		return
	}

	rec, err := s.records.Update(r.Context(), id, payload.toPatch())
	if err != nil {
		var errs core.ValidationErrors
		if errors.As(err, &errs) {
			writeValidationErrors(w, errs)
			return
		}
		if errors.Is(err, storage.ErrNotFound) {
			writeNotFound(w, id)
			return
		}
		slog.ErrorContext(r.Context(), "Update record failed", "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "storage failure")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeValidationErrors(w, err.(core.ValidationErrors))
		return
	}

	if err := s.records.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeNotFound(w, id)
			return
		}
		slog.ErrorContext(r.Context(), "Delete record failed", "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "storage failure")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
