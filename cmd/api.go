package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/config"
	"github.com/formulab/batchcalc/internal/production"
	"github.com/formulab/batchcalc/internal/store"
)

// api bundles the handler dependencies.
type api struct {
	store    store.Store
	producer *production.Producer
}

// newRouter builds the HTTP API. All responses are JSON; errors carry an
// "error" field with the classified message.
func newRouter(st store.Store, serverCfg config.ServerConfig) http.Handler {
	a := &api{store: st, producer: production.NewProducer(st)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if serverCfg.RateLimit > 0 {
		r.Use(rateLimiter(rate.Limit(serverCfg.RateLimit), serverCfg.Burst))
	}

	r.Get("/health", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", a.handleListIngredients)
			r.Post("/", a.handleCreateIngredient)
			r.Get("/{id}", a.handleGetIngredient)
			r.Put("/{id}", a.handleUpdateIngredient)
			r.Delete("/{id}", a.handleDeleteIngredient)
		})

		r.Route("/formulations", func(r chi.Router) {
			r.Get("/", a.handleListFormulations)
			r.Post("/", a.handleCreateFormulation)
			r.Get("/{id}", a.handleGetFormulation)
			r.Put("/{id}", a.handleUpdateFormulation)
			r.Delete("/{id}", a.handleDeleteFormulation)
			r.Get("/{id}/calculate", a.handleCalculate)
			r.Post("/{id}/ingredients", a.handleAddFormulationLine)
			r.Delete("/{id}/ingredients/{ingredientID}", a.handleRemoveFormulationLine)
		})

		r.Route("/batches", func(r chi.Router) {
			r.Get("/", a.handleListBatches)
			r.Post("/", a.handleCreateBatch)
			r.Get("/{id}", a.handleGetBatch)
			r.Delete("/{id}", a.handleDeleteBatch)
			r.Put("/{id}/actuals", a.handleRecordActuals)
		})
	})

	return r
}

// rateLimiter applies a shared token bucket across all requests.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respondJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		zap.L().Error("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the error taxonomy to HTTP statuses. Gate rejections
// include the formulation's current status and the statuses that would
// permit production.
func respondError(w http.ResponseWriter, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		zap.L().Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	switch ae.Kind {
	case apperror.KindValidation:
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": ae.Msg})
	case apperror.KindNotFound:
		respondJSON(w, http.StatusNotFound, map[string]string{"error": ae.Msg})
	case apperror.KindProductionNotAllowed:
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":            ae.Msg,
			"current_status":   ae.CurrentStatus,
			"allowed_statuses": ae.Allowed,
		})
	case apperror.KindConflict:
		respondJSON(w, http.StatusConflict, map[string]string{"error": ae.Msg})
	default:
		zap.L().Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validationf("invalid request body")
	}
	return nil
}

// pathID extracts a UUID path parameter, rejecting malformed values before
// any store access.
func pathID(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.Validationf("invalid %s: %s", name, id)
	}
	return id, nil
}
