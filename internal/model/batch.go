package model

import "time"

// Batch is a physical production run of a formulation. Its lines are a
// snapshot of planned quantities fixed at creation time; later edits to the
// source formulation never change them.
type Batch struct {
	ID            string     `json:"id"`
	FormulationID string     `json:"formulation_id"`
	// Joined from the formulation on reads.
	FormulationName   string            `json:"formulation_name,omitempty"`
	FormulationStatus FormulationStatus `json:"formulation_status,omitempty"`
	BatchName         string            `json:"batch_name,omitempty"`
	TargetAmount      float64           `json:"target_amount"`
	ActualAmount      *float64          `json:"actual_amount,omitempty"`
	Unit              string            `json:"unit"`
	ProductionDate    time.Time         `json:"production_date"`
	Notes             string            `json:"notes,omitempty"`
	Lines             []BatchLine       `json:"ingredients,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// BatchLine is one ingredient entry within a batch. PlannedAmount is computed
// once at batch creation and never updated; ActualAmount is null until
// recorded. Variance and VariancePercent are derived on read and are never
// persisted.
type BatchLine struct {
	ID             string   `json:"batch_ingredient_id"`
	BatchID        string   `json:"-"`
	IngredientID   string   `json:"ingredient_id"`
	IngredientName string   `json:"ingredient_name,omitempty"`
	INCIName       string   `json:"inci_name,omitempty"`
	PlannedAmount  float64  `json:"planned_amount"`
	ActualAmount   *float64 `json:"actual_amount,omitempty"`
	Unit           string   `json:"unit"`
	Notes          string   `json:"notes,omitempty"`

	Variance        *float64 `json:"variance,omitempty"`
	VariancePercent *float64 `json:"variance_percent,omitempty"`
}
