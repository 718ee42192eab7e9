package model

import "time"

// Ingredient is a raw material in the catalog. Classification flags and
// property metadata are informational; the production engine only consumes
// ingredients by reference.
type Ingredient struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	INCIName       string   `json:"inci_name,omitempty"`
	IngredientType string   `json:"ingredient_type,omitempty"`
	IsHumectant    bool     `json:"is_humectant"`
	IsEmollient    bool     `json:"is_emollient"`
	IsOcclusive    bool     `json:"is_occlusive"`
	IsMoisturizing bool     `json:"is_moisturizing"`
	IsAnhydrous    bool     `json:"is_anhydrous"`
	PHMin          *float64 `json:"ph_min,omitempty"`
	PHMax          *float64 `json:"ph_max,omitempty"`
	Solubility     string   `json:"solubility,omitempty"`
	MaxUsageRate   *float64 `json:"max_usage_rate,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
