package store

import (
	"context"

	"github.com/formulab/batchcalc/internal/model"
)

// FormulationFilter narrows formulation listings.
type FormulationFilter struct {
	// IngredientIDs keeps only formulations containing at least one of the
	// given ingredients.
	IngredientIDs []string
}

// LineActual is one measured amount applied to a batch line.
type LineActual struct {
	LineID       string
	ActualAmount float64
	Notes        *string
}

// BatchActualsUpdate describes an atomic actuals recording. Nil header fields
// leave the stored values unchanged; lines not referenced retain their prior
// actual amounts.
type BatchActualsUpdate struct {
	ActualTotal *float64
	Notes       *string
	Lines       []LineActual
}

// Store is the persistence interface for the formulation catalog and
// production batches. Multi-row writes (formulation create, batch create,
// actuals recording) are atomic: either every row lands or none do.
type Store interface {
	// Ingredients
	CreateIngredient(ctx context.Context, ing model.Ingredient) (*model.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*model.Ingredient, error)
	ListIngredients(ctx context.Context) ([]model.Ingredient, error)
	UpdateIngredient(ctx context.Context, id string, ing model.Ingredient) (*model.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error

	// Formulations
	CreateFormulation(ctx context.Context, f model.Formulation, lines []model.FormulationLine) (*model.Formulation, error)
	GetFormulation(ctx context.Context, id string) (*model.Formulation, error)
	ListFormulations(ctx context.Context, filter FormulationFilter) ([]model.Formulation, error)
	UpdateFormulation(ctx context.Context, id string, f model.Formulation) error
	AddFormulationLine(ctx context.Context, formulationID string, line model.FormulationLine) (*model.FormulationLine, error)
	RemoveFormulationLine(ctx context.Context, formulationID, ingredientID string) error
	DeleteFormulation(ctx context.Context, id string) error

	// Production batches
	CreateBatch(ctx context.Context, b model.Batch, lines []model.BatchLine) (*model.Batch, error)
	GetBatch(ctx context.Context, id string) (*model.Batch, error)
	ListBatches(ctx context.Context) ([]model.Batch, error)
	RecordBatchActuals(ctx context.Context, batchID string, update BatchActualsUpdate) error
	DeleteBatch(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
