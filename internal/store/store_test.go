package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedIngredient(t *testing.T, s Store, name string) *model.Ingredient {
	t.Helper()
	ing, err := s.CreateIngredient(context.Background(), model.Ingredient{
		Name:        name,
		IsHumectant: name == "Glycerin",
	})
	require.NoError(t, err)
	return ing
}

func seedFormulation(t *testing.T, s Store, status model.FormulationStatus, lines []model.FormulationLine) *model.Formulation {
	t.Helper()
	f, err := s.CreateFormulation(context.Background(), model.Formulation{
		Name:          "Hydrating Gel",
		BaseBatchSize: 100,
		Unit:          "g",
		Status:        status,
		VersionNumber: 1,
	}, lines)
	require.NoError(t, err)
	return f
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("IngredientCRUD", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		ph := 5.5
		ing, err := s.CreateIngredient(ctx, model.Ingredient{
			Name:        "Glycerin",
			INCIName:    "Glycerin",
			IsHumectant: true,
			PHMax:       &ph,
			Solubility:  "water",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, ing.ID)
		assert.False(t, ing.CreatedAt.IsZero())

		got, err := s.GetIngredient(ctx, ing.ID)
		require.NoError(t, err)
		assert.Equal(t, "Glycerin", got.Name)
		assert.True(t, got.IsHumectant)
		require.NotNil(t, got.PHMax)
		assert.Equal(t, 5.5, *got.PHMax)
		assert.Nil(t, got.PHMin)

		got.Notes = "vegetable derived"
		updated, err := s.UpdateIngredient(ctx, ing.ID, *got)
		require.NoError(t, err)
		assert.Equal(t, "vegetable derived", updated.Notes)

		require.NoError(t, s.DeleteIngredient(ctx, ing.ID))
		_, err = s.GetIngredient(ctx, ing.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("IngredientNameUniqueConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seedIngredient(t, s, "Squalane")
		_, err := s.CreateIngredient(ctx, model.Ingredient{Name: "Squalane"})
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("IngredientNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetIngredient(ctx, "missing")
		assert.True(t, apperror.IsNotFound(err))
		assert.True(t, apperror.IsNotFound(s.DeleteIngredient(ctx, "missing")))
		_, err = s.UpdateIngredient(ctx, "missing", model.Ingredient{Name: "x"})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("CreateAndGetFormulation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		glycerin := seedIngredient(t, s, "Glycerin")

		f := seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 70, Phase: "A", SortOrder: 0},
			{IngredientID: glycerin.ID, Percentage: 30, Phase: "A", SortOrder: 1},
		})

		got, err := s.GetFormulation(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hydrating Gel", got.Name)
		assert.Equal(t, model.StatusTesting, got.Status)
		assert.Equal(t, 100.0, got.BaseBatchSize)
		require.Len(t, got.Lines, 2)
		assert.Equal(t, "Water", got.Lines[0].IngredientName)
		assert.Equal(t, 70.0, got.Lines[0].Percentage)
		assert.Equal(t, "Glycerin", got.Lines[1].IngredientName)
	})

	t.Run("FormulationLinesOrderedBySortOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a := seedIngredient(t, s, "Aloe")
		z := seedIngredient(t, s, "Zinc Oxide")

		f := seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
			{IngredientID: z.ID, Percentage: 10, SortOrder: 0},
			{IngredientID: a.ID, Percentage: 90, SortOrder: 1},
		})

		got, err := s.GetFormulation(ctx, f.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 2)
		assert.Equal(t, "Zinc Oxide", got.Lines[0].IngredientName)
		assert.Equal(t, "Aloe", got.Lines[1].IngredientName)
	})

	t.Run("CreateFormulationUnknownIngredientRollsBack", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		_, err := s.CreateFormulation(ctx, model.Formulation{
			Name: "Broken", BaseBatchSize: 100, Unit: "g",
			Status: model.StatusTesting, VersionNumber: 1,
		}, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 50},
			{IngredientID: "no-such-ingredient", Percentage: 50},
		})
		require.Error(t, err)

		// the header insert must not survive the failed line insert
		list, err := s.ListFormulations(ctx, FormulationFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ListFormulationsFilterByIngredient", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		oil := seedIngredient(t, s, "Jojoba Oil")

		withWater := seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})
		withOil, err := s.CreateFormulation(ctx, model.Formulation{
			Name: "Body Oil", BaseBatchSize: 50, Unit: "g",
			Status: model.StatusTesting, VersionNumber: 1,
		}, []model.FormulationLine{{IngredientID: oil.ID, Percentage: 100}})
		require.NoError(t, err)

		all, err := s.ListFormulations(ctx, FormulationFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		filtered, err := s.ListFormulations(ctx, FormulationFilter{IngredientIDs: []string{oil.ID}})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, withOil.ID, filtered[0].ID)

		both, err := s.ListFormulations(ctx, FormulationFilter{IngredientIDs: []string{oil.ID, water.ID}})
		require.NoError(t, err)
		assert.Len(t, both, 2)
		_ = withWater
	})

	t.Run("UpdateFormulation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := seedFormulation(t, s, model.StatusTesting, nil)
		f.Status = model.StatusFinalized
		f.Name = "Hydrating Gel v2"
		require.NoError(t, s.UpdateFormulation(ctx, f.ID, *f))

		got, err := s.GetFormulation(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusFinalized, got.Status)
		assert.Equal(t, "Hydrating Gel v2", got.Name)
	})

	t.Run("AddAndRemoveFormulationLine", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := seedFormulation(t, s, model.StatusTesting, nil)
		ing := seedIngredient(t, s, "Xanthan Gum")

		line, err := s.AddFormulationLine(ctx, f.ID, model.FormulationLine{
			IngredientID: ing.ID, Percentage: 0.5, Phase: "C",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, line.ID)

		got, err := s.GetFormulation(ctx, f.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)

		require.NoError(t, s.RemoveFormulationLine(ctx, f.ID, ing.ID))
		assert.True(t, apperror.IsNotFound(s.RemoveFormulationLine(ctx, f.ID, ing.ID)))

		got, err = s.GetFormulation(ctx, f.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Lines)
	})

	t.Run("DeleteFormulationCascadesLines", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		f := seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})

		require.NoError(t, s.DeleteFormulation(ctx, f.ID))
		_, err := s.GetFormulation(ctx, f.ID)
		assert.True(t, apperror.IsNotFound(err))

		// the ingredient itself survives
		_, err = s.GetIngredient(ctx, water.ID)
		require.NoError(t, err)
	})

	t.Run("DeleteIngredientStillReferencedConflicts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})

		err := s.DeleteIngredient(ctx, water.ID)
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("CreateAndGetBatch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		glycerin := seedIngredient(t, s, "Glycerin")
		f := seedFormulation(t, s, model.StatusFinalized, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 70},
			{IngredientID: glycerin.ID, Percentage: 30},
		})

		b, err := s.CreateBatch(ctx, model.Batch{
			FormulationID: f.ID,
			BatchName:     "run 1",
			TargetAmount:  250,
			Unit:          "g",
		}, []model.BatchLine{
			{IngredientID: water.ID, PlannedAmount: 175, Unit: "g"},
			{IngredientID: glycerin.ID, PlannedAmount: 75, Unit: "g"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)

		got, err := s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hydrating Gel", got.FormulationName)
		assert.Equal(t, model.StatusFinalized, got.FormulationStatus)
		assert.Equal(t, 250.0, got.TargetAmount)
		assert.Nil(t, got.ActualAmount)
		require.Len(t, got.Lines, 2)
		// lines come back ordered by ingredient name
		assert.Equal(t, "Glycerin", got.Lines[0].IngredientName)
		assert.Equal(t, 75.0, got.Lines[0].PlannedAmount)
		assert.Equal(t, "Water", got.Lines[1].IngredientName)
		assert.Equal(t, 175.0, got.Lines[1].PlannedAmount)
	})

	t.Run("BatchSnapshotSurvivesFormulationEdit", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		f := seedFormulation(t, s, model.StatusFinalized, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})

		b, err := s.CreateBatch(ctx, model.Batch{
			FormulationID: f.ID, TargetAmount: 200, Unit: "g",
		}, []model.BatchLine{{IngredientID: water.ID, PlannedAmount: 200, Unit: "g"}})
		require.NoError(t, err)

		// changing the recipe afterwards must not touch the batch lines
		require.NoError(t, s.RemoveFormulationLine(ctx, f.ID, water.ID))

		got, err := s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, 200.0, got.Lines[0].PlannedAmount)
	})

	t.Run("ListBatchesNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := seedFormulation(t, s, model.StatusFinalized, nil)

		first, err := s.CreateBatch(ctx, model.Batch{FormulationID: f.ID, TargetAmount: 100, Unit: "g"}, nil)
		require.NoError(t, err)
		second, err := s.CreateBatch(ctx, model.Batch{FormulationID: f.ID, TargetAmount: 200, Unit: "g"}, nil)
		require.NoError(t, err)

		list, err := s.ListBatches(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		if list[0].ProductionDate.Equal(list[1].ProductionDate) {
			// same-date ties break on creation time, newest first
			assert.Equal(t, second.ID, list[0].ID)
			assert.Equal(t, first.ID, list[1].ID)
		} else {
			assert.True(t, list[0].ProductionDate.After(list[1].ProductionDate))
		}
	})

	t.Run("RecordBatchActuals", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		f := seedFormulation(t, s, model.StatusFinalized, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})
		b, err := s.CreateBatch(ctx, model.Batch{
			FormulationID: f.ID, TargetAmount: 100, Unit: "g",
		}, []model.BatchLine{{IngredientID: water.ID, PlannedAmount: 100, Unit: "g"}})
		require.NoError(t, err)

		got, err := s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)
		lineID := got.Lines[0].ID

		total := 98.5
		lineActual := 98.5
		err = s.RecordBatchActuals(ctx, b.ID, BatchActualsUpdate{
			ActualTotal: &total,
			Lines:       []LineActual{{LineID: lineID, ActualAmount: lineActual}},
		})
		require.NoError(t, err)

		got, err = s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ActualAmount)
		assert.Equal(t, 98.5, *got.ActualAmount)
		require.NotNil(t, got.Lines[0].ActualAmount)
		assert.Equal(t, 98.5, *got.Lines[0].ActualAmount)

		// a later recording overwrites the earlier one
		total2 := 101.0
		err = s.RecordBatchActuals(ctx, b.ID, BatchActualsUpdate{
			ActualTotal: &total2,
			Lines:       []LineActual{{LineID: lineID, ActualAmount: 101}},
		})
		require.NoError(t, err)

		got, err = s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 101.0, *got.ActualAmount)
		assert.Equal(t, 101.0, *got.Lines[0].ActualAmount)
	})

	t.Run("RecordBatchActualsNilHeaderLeavesValues", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		f := seedFormulation(t, s, model.StatusFinalized, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})
		b, err := s.CreateBatch(ctx, model.Batch{
			FormulationID: f.ID, TargetAmount: 100, Unit: "g", Notes: "keep me",
		}, []model.BatchLine{{IngredientID: water.ID, PlannedAmount: 100, Unit: "g"}})
		require.NoError(t, err)

		total := 99.0
		require.NoError(t, s.RecordBatchActuals(ctx, b.ID, BatchActualsUpdate{ActualTotal: &total}))

		// a follow-up with no header fields set leaves the stored values alone
		require.NoError(t, s.RecordBatchActuals(ctx, b.ID, BatchActualsUpdate{}))

		got, err := s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ActualAmount)
		assert.Equal(t, 99.0, *got.ActualAmount)
		assert.Equal(t, "keep me", got.Notes)
	})

	t.Run("RecordBatchActualsUnknownLineRollsBack", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := seedFormulation(t, s, model.StatusFinalized, nil)
		b, err := s.CreateBatch(ctx, model.Batch{FormulationID: f.ID, TargetAmount: 100, Unit: "g"}, nil)
		require.NoError(t, err)

		total := 95.0
		err = s.RecordBatchActuals(ctx, b.ID, BatchActualsUpdate{
			ActualTotal: &total,
			Lines:       []LineActual{{LineID: "no-such-line", ActualAmount: 1}},
		})
		assert.True(t, apperror.IsNotFound(err))

		// the header update must have rolled back with the failed line
		got, err := s.GetBatch(ctx, b.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ActualAmount)
	})

	t.Run("RecordBatchActualsUnknownBatch", func(t *testing.T) {
		s := newStore(t)
		total := 1.0
		err := s.RecordBatchActuals(context.Background(), "missing", BatchActualsUpdate{ActualTotal: &total})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("DeleteBatchCascadesLines", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		water := seedIngredient(t, s, "Water")
		f := seedFormulation(t, s, model.StatusFinalized, []model.FormulationLine{
			{IngredientID: water.ID, Percentage: 100},
		})
		b, err := s.CreateBatch(ctx, model.Batch{
			FormulationID: f.ID, TargetAmount: 100, Unit: "g",
		}, []model.BatchLine{{IngredientID: water.ID, PlannedAmount: 100, Unit: "g"}})
		require.NoError(t, err)

		require.NoError(t, s.DeleteBatch(ctx, b.ID))
		_, err = s.GetBatch(ctx, b.ID)
		assert.True(t, apperror.IsNotFound(err))
		assert.True(t, apperror.IsNotFound(s.DeleteBatch(ctx, b.ID)))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestSQLitePing(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteDSNWithQueryParams(t *testing.T) {
	// a DSN that already carries query parameters must still get foreign
	// key enforcement
	dsn := filepath.Join(t.TempDir(), "test.db") + "?cache=shared"
	s, err := NewSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	water := seedIngredient(t, s, "Water")
	seedFormulation(t, s, model.StatusTesting, []model.FormulationLine{
		{IngredientID: water.ID, Percentage: 100, SortOrder: 1},
	})

	err = s.DeleteIngredient(context.Background(), water.ID)
	assert.True(t, apperror.KindOf(err) == apperror.KindConflict)
}
