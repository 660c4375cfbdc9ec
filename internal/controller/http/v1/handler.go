package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type RunsRepository interface {
	Runs(ctx context.Context, limit, offset uint64) ([]*domain.Run, int, error)
	RunByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	RecordsByRun(ctx context.Context, id uuid.UUID, limit, offset uint64) ([]*domain.StoredRecord, int, error)
}

type RunsHandler struct {
	runsRepository RunsRepository
}

func NewRunsHandler(runsRepository RunsRepository) *RunsHandler {
	return &RunsHandler{
		runsRepository: runsRepository,
	}
}

type GetRunsResponse struct {
	Runs       []*domain.Run `json:"runs"`
	Pagination Pagination    `json:"pagination"`
}

type GetRecordsResponse struct {
	RunID      uuid.UUID              `json:"run_id"`
	Records    []*domain.StoredRecord `json:"records"`
	Pagination Pagination             `json:"pagination"`
}

func (h *RunsHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runs, total, err := h.runsRepository.Runs(r.Context(), limit, (page-1)*limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, GetRunsResponse{
		Runs:       runs,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "run_id"))
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	run, err := h.runsRepository.RunByID(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, run)
}

func (h *RunsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "run_id"))
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, total, err := h.runsRepository.RecordsByRun(r.Context(), id, limit, (page-1)*limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, GetRecordsResponse{
		RunID:      id,
		Records:    records,
		Pagination: newPagination(page, limit, total),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
