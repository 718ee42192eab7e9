package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulab/batchcalc/internal/model"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validationf("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflictf("duplicate")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := eris.Wrap(NotFoundf("batch not found: b1"), "store: get batch")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsNotFound(err))

	err = fmt.Errorf("handler: %w", Validationf("batch_size must be a positive number"))
	assert.True(t, IsValidation(err))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := &Error{Kind: KindConflict, Msg: "a record with that value already exists", Err: cause}
	assert.Equal(t, "a record with that value already exists: duplicate key value", err.Error())
	assert.Same(t, cause, errors.Unwrap(err))

	bare := Validationf("percentage must be in (0, 100]")
	assert.Equal(t, "percentage must be in (0, 100]", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestProductionNotAllowed(t *testing.T) {
	allowed := []model.FormulationStatus{
		model.StatusFinalized, model.StatusFreeze, model.StatusArchived,
	}
	err := ProductionNotAllowed(model.StatusTesting, allowed)
	assert.Equal(t, KindProductionNotAllowed, err.Kind)
	assert.Equal(t, model.StatusTesting, err.CurrentStatus)
	assert.Equal(t, allowed, err.Allowed)
	assert.Equal(t, "cannot create batch for testing formulation", err.Error())
}

func TestClassifyPg(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Kind
	}{
		{"unique violation", "23505", KindConflict},
		{"foreign key violation", "23503", KindConflict},
		{"not null violation", "23502", KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &pgconn.PgError{Code: tt.code, ColumnName: "name"}
			out := ClassifyPg(in)
			assert.Equal(t, tt.want, KindOf(out))

			// the original pg error stays reachable
			var pgErr *pgconn.PgError
			assert.True(t, errors.As(out, &pgErr))
		})
	}
}

func TestClassifyPg_NotNullNamesColumn(t *testing.T) {
	out := ClassifyPg(&pgconn.PgError{Code: "23502", ColumnName: "target_amount"})
	assert.Contains(t, out.Error(), "target_amount")
}

func TestClassifyPg_Passthrough(t *testing.T) {
	assert.Nil(t, ClassifyPg(nil))

	plain := errors.New("connection refused")
	assert.Same(t, plain, ClassifyPg(plain))

	other := &pgconn.PgError{Code: "57014"} // query_canceled
	require.Same(t, error(other), ClassifyPg(other))
}
