package main

import (
	"net/http"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
)

func (a *api) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := a.store.ListIngredients(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func (a *api) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing model.Ingredient
	if err := decodeBody(r, &ing); err != nil {
		respondError(w, err)
		return
	}
	if ing.Name == "" {
		respondError(w, apperror.Validationf("name is required"))
		return
	}
	created, err := a.store.CreateIngredient(r.Context(), ing)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (a *api) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	ing, err := a.store.GetIngredient(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ing)
}

func (a *api) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing model.Ingredient
	if err := decodeBody(r, &ing); err != nil {
		respondError(w, err)
		return
	}
	if ing.Name == "" {
		respondError(w, apperror.Validationf("name is required"))
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	updated, err := a.store.UpdateIngredient(r.Context(), id, ing)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (a *api) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := a.store.DeleteIngredient(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
