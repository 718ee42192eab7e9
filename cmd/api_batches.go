package main

import (
	"net/http"

	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/production"
)

func (a *api) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := a.producer.ListBatches(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	respondJSON(w, http.StatusOK, batches)
}

func (a *api) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req production.CreateBatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	b, err := a.producer.CreateBatch(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (a *api) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	b, err := a.producer.GetBatch(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (a *api) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := a.producer.DeleteBatch(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *api) handleRecordActuals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req production.RecordActualsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	b, err := a.producer.RecordActuals(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}
