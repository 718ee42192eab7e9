package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/store"
)

func (a *api) handleListFormulations(w http.ResponseWriter, r *http.Request) {
	var filter store.FormulationFilter
	// ingredient_id is accepted as a single-value alias for ingredient_ids
	raw := r.URL.Query().Get("ingredient_ids")
	if raw == "" {
		raw = r.URL.Query().Get("ingredient_id")
	}
	if raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.IngredientIDs = append(filter.IngredientIDs, id)
			}
		}
	}

	formulations, err := a.store.ListFormulations(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	if formulations == nil {
		formulations = []model.Formulation{}
	}
	respondJSON(w, http.StatusOK, formulations)
}

func validateFormulation(f *model.Formulation) error {
	if f.Name == "" {
		return apperror.Validationf("name is required")
	}
	if f.BaseBatchSize <= 0 {
		return apperror.Validationf("base_batch_size must be a positive number")
	}
	if f.Status == "" {
		f.Status = model.StatusTesting
	}
	if !model.ValidStatus(f.Status) {
		return apperror.Validationf("invalid status: %s", f.Status)
	}
	if f.Unit == "" {
		f.Unit = "g"
	}
	return nil
}

func validateLine(l *model.FormulationLine) error {
	if l.IngredientID == "" {
		return apperror.Validationf("ingredient_id is required")
	}
	if l.Percentage <= 0 || l.Percentage > 100 {
		return apperror.Validationf("percentage must be in (0, 100]")
	}
	return nil
}

func (a *api) handleCreateFormulation(w http.ResponseWriter, r *http.Request) {
	var f model.Formulation
	if err := decodeBody(r, &f); err != nil {
		respondError(w, err)
		return
	}
	if err := validateFormulation(&f); err != nil {
		respondError(w, err)
		return
	}
	if f.VersionNumber == 0 {
		f.VersionNumber = 1
	}
	if len(f.Lines) == 0 {
		respondError(w, apperror.Validationf("at least one ingredient is required"))
		return
	}
	lines := f.Lines
	for i := range lines {
		if err := validateLine(&lines[i]); err != nil {
			respondError(w, err)
			return
		}
	}

	created, err := a.store.CreateFormulation(r.Context(), f, lines)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (a *api) handleGetFormulation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	f, err := a.store.GetFormulation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

func (a *api) handleUpdateFormulation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var f model.Formulation
	if err := decodeBody(r, &f); err != nil {
		respondError(w, err)
		return
	}
	if err := validateFormulation(&f); err != nil {
		respondError(w, err)
		return
	}

	if err := a.store.UpdateFormulation(r.Context(), id, f); err != nil {
		respondError(w, err)
		return
	}
	updated, err := a.store.GetFormulation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (a *api) handleDeleteFormulation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := a.store.DeleteFormulation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleCalculate scales a formulation to the requested batch size without
// persisting anything. Any status may be previewed.
func (a *api) handleCalculate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	raw := r.URL.Query().Get("batch_size")
	if raw == "" {
		respondError(w, apperror.Validationf("batch_size query parameter is required"))
		return
	}
	size, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(w, apperror.Validationf("batch_size must be a positive number"))
		return
	}

	res, err := a.producer.PreviewScale(r.Context(), id, size)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (a *api) handleAddFormulationLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var line model.FormulationLine
	if err := decodeBody(r, &line); err != nil {
		respondError(w, err)
		return
	}
	if err := validateLine(&line); err != nil {
		respondError(w, err)
		return
	}

	created, err := a.store.AddFormulationLine(r.Context(), id, line)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (a *api) handleRemoveFormulationLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	ingredientID, err := pathID(r, "ingredientID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := a.store.RemoveFormulationLine(r.Context(), id, ingredientID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
