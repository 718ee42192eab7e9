package model

import "time"

// FormulationStatus is the lifecycle state of a formulation.
type FormulationStatus string

const (
	StatusTesting      FormulationStatus = "testing"
	StatusFinalized    FormulationStatus = "finalized"
	StatusFreeze       FormulationStatus = "freeze"
	StatusArchived     FormulationStatus = "archived"
	StatusDiscontinued FormulationStatus = "discontinued"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s FormulationStatus) bool {
	switch s {
	case StatusTesting, StatusFinalized, StatusFreeze, StatusArchived, StatusDiscontinued:
		return true
	}
	return false
}

// Formulation is a percentage-based recipe with a reference batch size.
type Formulation struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	BaseBatchSize       float64           `json:"base_batch_size"`
	Unit                string            `json:"unit"`
	Status              FormulationStatus `json:"status"`
	VersionNumber       int               `json:"version_number"`
	ParentFormulationID *string           `json:"parent_formulation_id,omitempty"`
	Phases              string            `json:"phases,omitempty"`
	Instructions        string            `json:"instructions,omitempty"`
	Notes               string            `json:"notes,omitempty"`
	Lines               []FormulationLine `json:"ingredients,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// FormulationLine is one ingredient entry within a formulation, expressed as
// a percentage of the batch in (0, 100].
type FormulationLine struct {
	ID           string  `json:"formulation_ingredient_id"`
	IngredientID string  `json:"ingredient_id"`
	// Display fields joined from the ingredient catalog on reads.
	IngredientName string  `json:"ingredient_name,omitempty"`
	INCIName       string  `json:"inci_name,omitempty"`
	Percentage     float64 `json:"percentage"`
	Phase          string  `json:"phase,omitempty"`
	SortOrder      int     `json:"sort_order"`
	Notes          string  `json:"notes,omitempty"`
}
