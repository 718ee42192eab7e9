package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/db"
	"github.com/formulab/batchcalc/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ingredients (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	inci_name       TEXT,
	ingredient_type TEXT,
	is_humectant    BOOLEAN NOT NULL DEFAULT false,
	is_emollient    BOOLEAN NOT NULL DEFAULT false,
	is_occlusive    BOOLEAN NOT NULL DEFAULT false,
	is_moisturizing BOOLEAN NOT NULL DEFAULT false,
	is_anhydrous    BOOLEAN NOT NULL DEFAULT false,
	ph_min          DOUBLE PRECISION,
	ph_max          DOUBLE PRECISION,
	solubility      TEXT,
	max_usage_rate  DOUBLE PRECISION,
	notes           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS formulations (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	description           TEXT,
	base_batch_size       DOUBLE PRECISION NOT NULL CHECK (base_batch_size > 0),
	unit                  TEXT NOT NULL DEFAULT 'g',
	status                TEXT NOT NULL DEFAULT 'testing',
	version_number        INTEGER NOT NULL DEFAULT 1,
	parent_formulation_id TEXT REFERENCES formulations(id),
	phases                TEXT,
	instructions          TEXT,
	notes                 TEXT,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS formulation_ingredients (
	id             TEXT PRIMARY KEY,
	formulation_id TEXT NOT NULL REFERENCES formulations(id) ON DELETE CASCADE,
	ingredient_id  TEXT NOT NULL REFERENCES ingredients(id),
	percentage     DOUBLE PRECISION NOT NULL CHECK (percentage > 0 AND percentage <= 100),
	phase          TEXT,
	sort_order     INTEGER NOT NULL DEFAULT 0,
	notes          TEXT
);

CREATE TABLE IF NOT EXISTS production_batches (
	id              TEXT PRIMARY KEY,
	formulation_id  TEXT NOT NULL REFERENCES formulations(id),
	batch_name      TEXT,
	target_amount   DOUBLE PRECISION NOT NULL CHECK (target_amount > 0),
	actual_amount   DOUBLE PRECISION,
	unit            TEXT NOT NULL DEFAULT 'g',
	production_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	notes           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS batch_ingredients (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL REFERENCES production_batches(id) ON DELETE CASCADE,
	ingredient_id  TEXT NOT NULL REFERENCES ingredients(id),
	planned_amount DOUBLE PRECISION NOT NULL,
	actual_amount  DOUBLE PRECISION,
	unit           TEXT NOT NULL DEFAULT 'g',
	notes          TEXT
);

CREATE INDEX IF NOT EXISTS idx_formulation_ingredients_formulation ON formulation_ingredients(formulation_id);
CREATE INDEX IF NOT EXISTS idx_formulation_ingredients_ingredient ON formulation_ingredients(ingredient_id);
CREATE INDEX IF NOT EXISTS idx_production_batches_formulation ON production_batches(formulation_id);
CREATE INDEX IF NOT EXISTS idx_production_batches_date ON production_batches(production_date DESC);
CREATE INDEX IF NOT EXISTS idx_batch_ingredients_batch ON batch_ingredients(batch_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Ingredients

func (s *PostgresStore) CreateIngredient(ctx context.Context, ing model.Ingredient) (*model.Ingredient, error) {
	ing.ID = uuid.New().String()
	now := time.Now().UTC()
	ing.CreatedAt = now
	ing.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingredients (
			id, name, inci_name, ingredient_type,
			is_humectant, is_emollient, is_occlusive, is_moisturizing, is_anhydrous,
			ph_min, ph_max, solubility, max_usage_rate, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		ing.ID, ing.Name, nullif(ing.INCIName), nullif(ing.IngredientType),
		ing.IsHumectant, ing.IsEmollient, ing.IsOcclusive, ing.IsMoisturizing, ing.IsAnhydrous,
		ing.PHMin, ing.PHMax, nullif(ing.Solubility), ing.MaxUsageRate, nullif(ing.Notes), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(apperror.ClassifyPg(err), "postgres: insert ingredient")
	}
	return &ing, nil
}

const ingredientColumns = `id, name, inci_name, ingredient_type,
	is_humectant, is_emollient, is_occlusive, is_moisturizing, is_anhydrous,
	ph_min, ph_max, solubility, max_usage_rate, notes, created_at, updated_at`

func scanIngredient(row scannable) (*model.Ingredient, error) {
	var ing model.Ingredient
	var inci, ingType, solubility, notes *string
	err := row.Scan(&ing.ID, &ing.Name, &inci, &ingType,
		&ing.IsHumectant, &ing.IsEmollient, &ing.IsOcclusive, &ing.IsMoisturizing, &ing.IsAnhydrous,
		&ing.PHMin, &ing.PHMax, &solubility, &ing.MaxUsageRate, &notes, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ing.INCIName = deref(inci)
	ing.IngredientType = deref(ingType)
	ing.Solubility = deref(solubility)
	ing.Notes = deref(notes)
	return &ing, nil
}

func (s *PostgresStore) GetIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	ing, err := scanIngredient(s.pool.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("ingredient not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get ingredient %s", id)
	}
	return ing, nil
}

func (s *PostgresStore) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ingredients")
	}
	defer rows.Close()

	var out []model.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan ingredient")
		}
		out = append(out, *ing)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list ingredients iterate")
}

func (s *PostgresStore) UpdateIngredient(ctx context.Context, id string, ing model.Ingredient) (*model.Ingredient, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ingredients SET
			name = $1, inci_name = $2, ingredient_type = $3,
			is_humectant = $4, is_emollient = $5, is_occlusive = $6,
			is_moisturizing = $7, is_anhydrous = $8,
			ph_min = $9, ph_max = $10, solubility = $11,
			max_usage_rate = $12, notes = $13, updated_at = now()
		WHERE id = $14`,
		ing.Name, nullif(ing.INCIName), nullif(ing.IngredientType),
		ing.IsHumectant, ing.IsEmollient, ing.IsOcclusive, ing.IsMoisturizing, ing.IsAnhydrous,
		ing.PHMin, ing.PHMax, nullif(ing.Solubility), ing.MaxUsageRate, nullif(ing.Notes), id,
	)
	if err != nil {
		return nil, eris.Wrapf(apperror.ClassifyPg(err), "postgres: update ingredient %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NotFoundf("ingredient not found: %s", id)
	}
	return s.GetIngredient(ctx, id)
}

func (s *PostgresStore) DeleteIngredient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(apperror.ClassifyPg(err), "postgres: delete ingredient %s", id)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("ingredient not found: %s", id)
	}
	return nil
}

// Formulations

func (s *PostgresStore) CreateFormulation(ctx context.Context, f model.Formulation, lines []model.FormulationLine) (*model.Formulation, error) {
	f.ID = uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin create formulation")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO formulations (
			id, name, description, base_batch_size, unit, status,
			version_number, parent_formulation_id, phases, instructions, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		f.ID, f.Name, nullif(f.Description), f.BaseBatchSize, f.Unit, string(f.Status),
		f.VersionNumber, f.ParentFormulationID, nullif(f.Phases), nullif(f.Instructions), nullif(f.Notes),
		now, now,
	)
	if err != nil {
		return nil, eris.Wrap(apperror.ClassifyPg(err), "postgres: insert formulation")
	}

	rows := make([][]any, len(lines))
	for i, l := range lines {
		rows[i] = []any{uuid.New().String(), f.ID, l.IngredientID, l.Percentage, nullif(l.Phase), l.SortOrder, nullif(l.Notes)}
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"formulation_ingredients"},
		[]string{"id", "formulation_id", "ingredient_id", "percentage", "phase", "sort_order", "notes"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, eris.Wrap(apperror.ClassifyPg(err), "postgres: insert formulation lines")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit create formulation")
	}
	return s.GetFormulation(ctx, f.ID)
}

func (s *PostgresStore) GetFormulation(ctx context.Context, id string) (*model.Formulation, error) {
	var f model.Formulation
	var desc, phases, instructions, notes *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, base_batch_size, unit, status,
			version_number, parent_formulation_id, phases, instructions, notes,
			created_at, updated_at
		 FROM formulations WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &desc, &f.BaseBatchSize, &f.Unit, &f.Status,
		&f.VersionNumber, &f.ParentFormulationID, &phases, &instructions, &notes,
		&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("formulation not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get formulation %s", id)
	}
	f.Description = deref(desc)
	f.Phases = deref(phases)
	f.Instructions = deref(instructions)
	f.Notes = deref(notes)

	rows, err := s.pool.Query(ctx,
		`SELECT fi.id, fi.ingredient_id, i.name, i.inci_name, fi.percentage, fi.phase, fi.sort_order, fi.notes
		 FROM formulation_ingredients fi
		 JOIN ingredients i ON fi.ingredient_id = i.id
		 WHERE fi.formulation_id = $1
		 ORDER BY fi.sort_order, fi.phase, i.name`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get formulation lines %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.FormulationLine
		var inci, phase, lnotes *string
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.IngredientName, &inci, &l.Percentage, &phase, &l.SortOrder, &lnotes); err != nil {
			return nil, eris.Wrap(err, "postgres: scan formulation line")
		}
		l.INCIName = deref(inci)
		l.Phase = deref(phase)
		l.Notes = deref(lnotes)
		f.Lines = append(f.Lines, l)
	}
	return &f, eris.Wrap(rows.Err(), "postgres: formulation lines iterate")
}

func (s *PostgresStore) ListFormulations(ctx context.Context, filter FormulationFilter) ([]model.Formulation, error) {
	query := `SELECT id, name, description, base_batch_size, unit, status,
		version_number, parent_formulation_id, phases, instructions, notes,
		created_at, updated_at
	 FROM formulations`
	var args []any
	if len(filter.IngredientIDs) > 0 {
		query += ` WHERE EXISTS (
			SELECT 1 FROM formulation_ingredients fi
			WHERE fi.formulation_id = formulations.id AND fi.ingredient_id = ANY($1))`
		args = append(args, filter.IngredientIDs)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list formulations")
	}
	defer rows.Close()

	var out []model.Formulation
	for rows.Next() {
		var f model.Formulation
		var desc, phases, instructions, notes *string
		if err := rows.Scan(&f.ID, &f.Name, &desc, &f.BaseBatchSize, &f.Unit, &f.Status,
			&f.VersionNumber, &f.ParentFormulationID, &phases, &instructions, &notes,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan formulation")
		}
		f.Description = deref(desc)
		f.Phases = deref(phases)
		f.Instructions = deref(instructions)
		f.Notes = deref(notes)
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list formulations iterate")
}

func (s *PostgresStore) UpdateFormulation(ctx context.Context, id string, f model.Formulation) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE formulations SET
			name = $1, description = $2, base_batch_size = $3, unit = $4,
			status = $5, phases = $6, instructions = $7, notes = $8, updated_at = now()
		WHERE id = $9`,
		f.Name, nullif(f.Description), f.BaseBatchSize, f.Unit,
		string(f.Status), nullif(f.Phases), nullif(f.Instructions), nullif(f.Notes), id,
	)
	if err != nil {
		return eris.Wrapf(apperror.ClassifyPg(err), "postgres: update formulation %s", id)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("formulation not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) AddFormulationLine(ctx context.Context, formulationID string, line model.FormulationLine) (*model.FormulationLine, error) {
	line.ID = uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO formulation_ingredients (id, formulation_id, ingredient_id, percentage, phase, sort_order, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		line.ID, formulationID, line.IngredientID, line.Percentage, nullif(line.Phase), line.SortOrder, nullif(line.Notes),
	)
	if err != nil {
		return nil, eris.Wrapf(apperror.ClassifyPg(err), "postgres: add formulation line %s", formulationID)
	}
	return &line, nil
}

func (s *PostgresStore) RemoveFormulationLine(ctx context.Context, formulationID, ingredientID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM formulation_ingredients WHERE formulation_id = $1 AND ingredient_id = $2`,
		formulationID, ingredientID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove formulation line %s", formulationID)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("ingredient not in formulation: %s", ingredientID)
	}
	return nil
}

func (s *PostgresStore) DeleteFormulation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM formulations WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(apperror.ClassifyPg(err), "postgres: delete formulation %s", id)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("formulation not found: %s", id)
	}
	return nil
}

// Production batches

// CreateBatch inserts the batch header and all line snapshots in one
// transaction. A failure on any row rolls back the whole batch so a partial
// batch is never observable.
func (s *PostgresStore) CreateBatch(ctx context.Context, b model.Batch, lines []model.BatchLine) (*model.Batch, error) {
	b.ID = uuid.New().String()
	now := time.Now().UTC()
	b.CreatedAt = now
	if b.ProductionDate.IsZero() {
		b.ProductionDate = now
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin create batch")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO production_batches (id, formulation_id, batch_name, target_amount, unit, production_date, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.FormulationID, nullif(b.BatchName), b.TargetAmount, b.Unit, b.ProductionDate, nullif(b.Notes), now,
	)
	if err != nil {
		return nil, eris.Wrap(apperror.ClassifyPg(err), "postgres: insert batch")
	}

	rows := make([][]any, len(lines))
	for i, l := range lines {
		rows[i] = []any{uuid.New().String(), b.ID, l.IngredientID, l.PlannedAmount, l.Unit, nullif(l.Notes)}
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"batch_ingredients"},
		[]string{"id", "batch_id", "ingredient_id", "planned_amount", "unit", "notes"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, eris.Wrap(apperror.ClassifyPg(err), "postgres: insert batch lines")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit create batch")
	}
	return &b, nil
}

func (s *PostgresStore) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	var b model.Batch
	var name, notes *string
	err := s.pool.QueryRow(ctx,
		`SELECT pb.id, pb.formulation_id, f.name, f.status, pb.batch_name,
			pb.target_amount, pb.actual_amount, pb.unit, pb.production_date, pb.notes, pb.created_at
		 FROM production_batches pb
		 JOIN formulations f ON pb.formulation_id = f.id
		 WHERE pb.id = $1`, id,
	).Scan(&b.ID, &b.FormulationID, &b.FormulationName, &b.FormulationStatus, &name,
		&b.TargetAmount, &b.ActualAmount, &b.Unit, &b.ProductionDate, &notes, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("batch not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get batch %s", id)
	}
	b.BatchName = deref(name)
	b.Notes = deref(notes)

	rows, err := s.pool.Query(ctx,
		`SELECT bi.id, bi.ingredient_id, i.name, i.inci_name,
			bi.planned_amount, bi.actual_amount, bi.unit, bi.notes
		 FROM batch_ingredients bi
		 JOIN ingredients i ON bi.ingredient_id = i.id
		 WHERE bi.batch_id = $1
		 ORDER BY i.name`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get batch lines %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.BatchLine
		var inci, lnotes *string
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.IngredientName, &inci,
			&l.PlannedAmount, &l.ActualAmount, &l.Unit, &lnotes); err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch line")
		}
		l.BatchID = id
		l.INCIName = deref(inci)
		l.Notes = deref(lnotes)
		b.Lines = append(b.Lines, l)
	}
	return &b, eris.Wrap(rows.Err(), "postgres: batch lines iterate")
}

func (s *PostgresStore) ListBatches(ctx context.Context) ([]model.Batch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pb.id, pb.formulation_id, f.name, f.status, pb.batch_name,
			pb.target_amount, pb.actual_amount, pb.unit, pb.production_date, pb.notes, pb.created_at
		 FROM production_batches pb
		 JOIN formulations f ON pb.formulation_id = f.id
		 ORDER BY pb.production_date DESC, pb.created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var out []model.Batch
	for rows.Next() {
		var b model.Batch
		var name, notes *string
		if err := rows.Scan(&b.ID, &b.FormulationID, &b.FormulationName, &b.FormulationStatus, &name,
			&b.TargetAmount, &b.ActualAmount, &b.Unit, &b.ProductionDate, &notes, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch")
		}
		b.BatchName = deref(name)
		b.Notes = deref(notes)
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list batches iterate")
}

// RecordBatchActuals applies measured amounts to the batch header and each
// referenced line in one transaction. All updates commit together or none
// do; it is safe to re-apply the same payload (last write wins).
func (s *PostgresStore) RecordBatchActuals(ctx context.Context, batchID string, update BatchActualsUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin record actuals")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE production_batches
		 SET actual_amount = COALESCE($1, actual_amount),
		     notes = COALESCE($2, notes)
		 WHERE id = $3`,
		update.ActualTotal, update.Notes, batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update batch actuals %s", batchID)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("batch not found: %s", batchID)
	}

	for _, l := range update.Lines {
		tag, err := tx.Exec(ctx,
			`UPDATE batch_ingredients SET actual_amount = $1, notes = $2 WHERE id = $3 AND batch_id = $4`,
			l.ActualAmount, l.Notes, l.LineID, batchID,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: update batch line actuals %s", l.LineID)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFoundf("batch line not found: %s", l.LineID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit record actuals")
}

func (s *PostgresStore) DeleteBatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM production_batches WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(apperror.ClassifyPg(err), "postgres: delete batch %s", id)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFoundf("batch not found: %s", id)
	}
	return nil
}
