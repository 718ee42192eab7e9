// Package scale converts percentage-based formulations into concrete
// per-ingredient amounts for a requested batch size. It is pure computation:
// no persistence, safe to call repeatedly for previews.
package scale

import (
	"math"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
)

// Line is one scaled ingredient amount. OriginalAmount is the quantity at the
// formulation's base batch size, reported for preview display.
type Line struct {
	IngredientID   string  `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name,omitempty"`
	INCIName       string  `json:"inci_name,omitempty"`
	Percentage     float64 `json:"percentage"`
	Phase          string  `json:"phase,omitempty"`
	OriginalAmount float64 `json:"original_amount"`
	PlannedAmount  float64 `json:"planned_amount"`
	Unit           string  `json:"unit"`
}

// Result holds the outcome of scaling a formulation to a target size.
type Result struct {
	ScaleFactor float64 `json:"scale_factor"`
	Lines       []Line  `json:"ingredients"`
}

// Scale computes per-line planned amounts for the target batch size. Amounts
// keep full floating-point precision; rounding happens only in variance
// percent reporting.
func Scale(f *model.Formulation, target float64) (*Result, error) {
	if err := CheckSize(target); err != nil {
		return nil, err
	}

	res := &Result{
		ScaleFactor: target / f.BaseBatchSize,
		Lines:       make([]Line, 0, len(f.Lines)),
	}
	for _, l := range f.Lines {
		res.Lines = append(res.Lines, Line{
			IngredientID:   l.IngredientID,
			IngredientName: l.IngredientName,
			INCIName:       l.INCIName,
			Percentage:     l.Percentage,
			Phase:          l.Phase,
			OriginalAmount: (l.Percentage / 100) * f.BaseBatchSize,
			PlannedAmount:  (l.Percentage / 100) * target,
			Unit:           f.Unit,
		})
	}
	return res, nil
}

// CheckSize validates a requested batch size: it must be a finite positive
// number.
func CheckSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return apperror.Validationf("batch_size must be a positive number")
	}
	return nil
}
