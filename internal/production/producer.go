package production

import (
	"context"

	"go.uber.org/zap"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/scale"
	"github.com/formulab/batchcalc/internal/store"
)

// Producer runs batch operations against a store.
type Producer struct {
	store store.Store
}

// NewProducer creates a Producer backed by the given store.
func NewProducer(s store.Store) *Producer {
	return &Producer{store: s}
}

// PreviewScale loads a formulation and scales it to the target size without
// persisting anything. Any formulation status may be previewed.
func (p *Producer) PreviewScale(ctx context.Context, formulationID string, target float64) (*scale.Result, error) {
	if err := scale.CheckSize(target); err != nil {
		return nil, err
	}
	f, err := p.store.GetFormulation(ctx, formulationID)
	if err != nil {
		return nil, err
	}
	return scale.Scale(f, target)
}

// CreateBatchRequest carries the caller's inputs for a production run.
type CreateBatchRequest struct {
	FormulationID  string  `json:"formulation_id"`
	BatchName      string  `json:"batch_name"`
	TargetAmount   float64 `json:"target_amount"`
	ProductionDate string  `json:"production_date"`
	Notes          string  `json:"notes"`
}

// CreateBatch gates on the formulation's status, scales every line to the
// target amount, and persists the batch with its line snapshot atomically.
// The snapshot is fixed at this moment; later formulation edits do not
// affect it.
func (p *Producer) CreateBatch(ctx context.Context, req CreateBatchRequest) (*model.Batch, error) {
	if req.FormulationID == "" {
		return nil, apperror.Validationf("formulation_id is required")
	}
	if err := scale.CheckSize(req.TargetAmount); err != nil {
		return nil, apperror.Validationf("target_amount must be a positive number")
	}

	f, err := p.store.GetFormulation(ctx, req.FormulationID)
	if err != nil {
		return nil, err
	}
	if err := CheckProducible(f.Status); err != nil {
		return nil, err
	}

	scaled, err := scale.Scale(f, req.TargetAmount)
	if err != nil {
		return nil, err
	}

	lines := make([]model.BatchLine, 0, len(scaled.Lines))
	for _, l := range scaled.Lines {
		lines = append(lines, model.BatchLine{
			IngredientID:  l.IngredientID,
			PlannedAmount: l.PlannedAmount,
			Unit:          f.Unit,
		})
	}

	b := model.Batch{
		FormulationID: f.ID,
		BatchName:     req.BatchName,
		TargetAmount:  req.TargetAmount,
		Unit:          f.Unit,
		Notes:         req.Notes,
	}
	if req.ProductionDate != "" {
		d, err := parseDate(req.ProductionDate)
		if err != nil {
			return nil, apperror.Validationf("production_date must be an ISO date: %s", req.ProductionDate)
		}
		b.ProductionDate = d
	}

	created, err := p.store.CreateBatch(ctx, b, lines)
	if err != nil {
		return nil, err
	}
	zap.L().Info("batch created",
		zap.String("batch_id", created.ID),
		zap.String("formulation_id", f.ID),
		zap.Float64("target_amount", req.TargetAmount),
		zap.Float64("scale_factor", scaled.ScaleFactor),
		zap.Int("lines", len(lines)))

	// read back through GetBatch so joined fields and line IDs are populated
	return p.GetBatch(ctx, created.ID)
}

// LineActualRequest is one measured line amount in an actuals recording.
type LineActualRequest struct {
	LineID       string   `json:"batch_ingredient_id"`
	ActualAmount *float64 `json:"actual_amount"`
	Notes        *string  `json:"notes"`
}

// RecordActualsRequest carries measured outcomes for a batch. Omitted header
// fields leave stored values unchanged; omitted lines keep their prior
// actuals.
type RecordActualsRequest struct {
	ActualAmount *float64            `json:"actual_amount"`
	Notes        *string             `json:"notes"`
	Lines        []LineActualRequest `json:"ingredients"`
}

// RecordActuals validates and applies measured amounts to a batch in one
// atomic write, then returns the batch with variance derived.
func (p *Producer) RecordActuals(ctx context.Context, batchID string, req RecordActualsRequest) (*model.Batch, error) {
	if req.ActualAmount != nil && *req.ActualAmount < 0 {
		return nil, apperror.Validationf("actual_amount must not be negative")
	}
	// nil means the ingredients key was absent or null, which is distinct
	// from an explicit empty list.
	if req.Lines == nil {
		return nil, apperror.Validationf("ingredients array is required")
	}

	update := store.BatchActualsUpdate{
		ActualTotal: req.ActualAmount,
		Notes:       req.Notes,
	}
	for _, l := range req.Lines {
		if l.LineID == "" {
			return nil, apperror.Validationf("batch_ingredient_id is required for each line")
		}
		if l.ActualAmount == nil {
			return nil, apperror.Validationf("actual_amount is required for line %s", l.LineID)
		}
		if *l.ActualAmount < 0 {
			return nil, apperror.Validationf("actual_amount must not be negative for line %s", l.LineID)
		}
		update.Lines = append(update.Lines, store.LineActual{
			LineID:       l.LineID,
			ActualAmount: *l.ActualAmount,
			Notes:        l.Notes,
		})
	}

	if err := p.store.RecordBatchActuals(ctx, batchID, update); err != nil {
		return nil, err
	}
	zap.L().Info("batch actuals recorded",
		zap.String("batch_id", batchID),
		zap.Int("lines", len(update.Lines)))

	return p.GetBatch(ctx, batchID)
}

// GetBatch loads a batch and derives per-line variance for lines with a
// recorded actual amount. Variance is computed here, never stored.
func (p *Producer) GetBatch(ctx context.Context, batchID string) (*model.Batch, error) {
	b, err := p.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	attachVariance(b)
	return b, nil
}

// ListBatches returns all batches, newest production date first.
func (p *Producer) ListBatches(ctx context.Context) ([]model.Batch, error) {
	return p.store.ListBatches(ctx)
}

// DeleteBatch removes a batch and its line snapshot.
func (p *Producer) DeleteBatch(ctx context.Context, batchID string) error {
	return p.store.DeleteBatch(ctx, batchID)
}

func attachVariance(b *model.Batch) {
	for i := range b.Lines {
		l := &b.Lines[i]
		if l.ActualAmount == nil {
			continue
		}
		v := scale.Variance(*l.ActualAmount, l.PlannedAmount)
		vp := scale.VariancePercent(*l.ActualAmount, l.PlannedAmount)
		l.Variance = &v
		l.VariancePercent = &vp
	}
}
