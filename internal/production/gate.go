// Package production orchestrates the batch lifecycle: gating batch creation
// on formulation status, snapshotting scaled amounts at creation time,
// recording measured actuals, and deriving variance on reads.
package production

import (
	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
)

// producibleStatuses are the lifecycle states that permit production runs.
// A formulation still in testing, or discontinued, cannot be batched.
var producibleStatuses = []model.FormulationStatus{
	model.StatusFinalized,
	model.StatusFreeze,
	model.StatusArchived,
}

// CanProduce reports whether a formulation in the given status may be used
// for a production batch.
func CanProduce(status model.FormulationStatus) bool {
	for _, s := range producibleStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CheckProducible returns the gate rejection for a non-producible status,
// carrying the current status and the permitted set for the API response.
func CheckProducible(status model.FormulationStatus) error {
	if CanProduce(status) {
		return nil
	}
	return apperror.ProductionNotAllowed(status, producibleStatuses)
}
