package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/formulab/batchcalc/internal/apperror"
	"github.com/formulab/batchcalc/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is intended for
// development and tests; production deployments use PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode
// and foreign key enforcement (required for line cascades).
func NewSQLite(dsn string) (*SQLiteStore, error) {
	// foreign_keys is per-connection, so it goes in the DSN where the driver
	// applies it to every connection the pool opens.
	if !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ingredients (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	inci_name       TEXT,
	ingredient_type TEXT,
	is_humectant    BOOLEAN NOT NULL DEFAULT 0,
	is_emollient    BOOLEAN NOT NULL DEFAULT 0,
	is_occlusive    BOOLEAN NOT NULL DEFAULT 0,
	is_moisturizing BOOLEAN NOT NULL DEFAULT 0,
	is_anhydrous    BOOLEAN NOT NULL DEFAULT 0,
	ph_min          REAL,
	ph_max          REAL,
	solubility      TEXT,
	max_usage_rate  REAL,
	notes           TEXT,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS formulations (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	description           TEXT,
	base_batch_size       REAL NOT NULL CHECK (base_batch_size > 0),
	unit                  TEXT NOT NULL DEFAULT 'g',
	status                TEXT NOT NULL DEFAULT 'testing',
	version_number        INTEGER NOT NULL DEFAULT 1,
	parent_formulation_id TEXT REFERENCES formulations(id),
	phases                TEXT,
	instructions          TEXT,
	notes                 TEXT,
	created_at            DATETIME NOT NULL,
	updated_at            DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS formulation_ingredients (
	id             TEXT PRIMARY KEY,
	formulation_id TEXT NOT NULL REFERENCES formulations(id) ON DELETE CASCADE,
	ingredient_id  TEXT NOT NULL REFERENCES ingredients(id),
	percentage     REAL NOT NULL CHECK (percentage > 0 AND percentage <= 100),
	phase          TEXT,
	sort_order     INTEGER NOT NULL DEFAULT 0,
	notes          TEXT
);

CREATE TABLE IF NOT EXISTS production_batches (
	id              TEXT PRIMARY KEY,
	formulation_id  TEXT NOT NULL REFERENCES formulations(id),
	batch_name      TEXT,
	target_amount   REAL NOT NULL CHECK (target_amount > 0),
	actual_amount   REAL,
	unit            TEXT NOT NULL DEFAULT 'g',
	production_date DATETIME NOT NULL,
	notes           TEXT,
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_ingredients (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL REFERENCES production_batches(id) ON DELETE CASCADE,
	ingredient_id  TEXT NOT NULL REFERENCES ingredients(id),
	planned_amount REAL NOT NULL,
	actual_amount  REAL,
	unit           TEXT NOT NULL DEFAULT 'g',
	notes          TEXT
);

CREATE INDEX IF NOT EXISTS idx_formulation_ingredients_formulation ON formulation_ingredients(formulation_id);
CREATE INDEX IF NOT EXISTS idx_formulation_ingredients_ingredient ON formulation_ingredients(ingredient_id);
CREATE INDEX IF NOT EXISTS idx_production_batches_formulation ON production_batches(formulation_id);
CREATE INDEX IF NOT EXISTS idx_batch_ingredients_batch ON batch_ingredients(batch_id);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ingredients

func (s *SQLiteStore) CreateIngredient(ctx context.Context, ing model.Ingredient) (*model.Ingredient, error) {
	ing.ID = uuid.New().String()
	now := time.Now().UTC()
	ing.CreatedAt = now
	ing.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (
			id, name, inci_name, ingredient_type,
			is_humectant, is_emollient, is_occlusive, is_moisturizing, is_anhydrous,
			ph_min, ph_max, solubility, max_usage_rate, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ing.ID, ing.Name, nullif(ing.INCIName), nullif(ing.IngredientType),
		ing.IsHumectant, ing.IsEmollient, ing.IsOcclusive, ing.IsMoisturizing, ing.IsAnhydrous,
		ing.PHMin, ing.PHMax, nullif(ing.Solubility), ing.MaxUsageRate, nullif(ing.Notes), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(classifySQLite(err), "sqlite: insert ingredient")
	}
	return &ing, nil
}

func (s *SQLiteStore) GetIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	ing, err := scanIngredient(s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFoundf("ingredient not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get ingredient %s", id)
	}
	return ing, nil
}

func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ingredients")
	}
	defer rows.Close()

	var out []model.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ingredient")
		}
		out = append(out, *ing)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list ingredients iterate")
}

func (s *SQLiteStore) UpdateIngredient(ctx context.Context, id string, ing model.Ingredient) (*model.Ingredient, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ingredients SET
			name = ?, inci_name = ?, ingredient_type = ?,
			is_humectant = ?, is_emollient = ?, is_occlusive = ?,
			is_moisturizing = ?, is_anhydrous = ?,
			ph_min = ?, ph_max = ?, solubility = ?,
			max_usage_rate = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		ing.Name, nullif(ing.INCIName), nullif(ing.IngredientType),
		ing.IsHumectant, ing.IsEmollient, ing.IsOcclusive, ing.IsMoisturizing, ing.IsAnhydrous,
		ing.PHMin, ing.PHMax, nullif(ing.Solubility), ing.MaxUsageRate, nullif(ing.Notes),
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, eris.Wrapf(classifySQLite(err), "sqlite: update ingredient %s", id)
	}
	if err := rowsAffectedNotFound(res, "ingredient", id); err != nil {
		return nil, err
	}
	return s.GetIngredient(ctx, id)
}

func (s *SQLiteStore) DeleteIngredient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(classifySQLite(err), "sqlite: delete ingredient %s", id)
	}
	return rowsAffectedNotFound(res, "ingredient", id)
}

// Formulations

func (s *SQLiteStore) CreateFormulation(ctx context.Context, f model.Formulation, lines []model.FormulationLine) (*model.Formulation, error) {
	f.ID = uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin create formulation")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO formulations (
			id, name, description, base_batch_size, unit, status,
			version_number, parent_formulation_id, phases, instructions, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, nullif(f.Description), f.BaseBatchSize, f.Unit, string(f.Status),
		f.VersionNumber, f.ParentFormulationID, nullif(f.Phases), nullif(f.Instructions), nullif(f.Notes),
		now, now,
	)
	if err != nil {
		return nil, eris.Wrap(classifySQLite(err), "sqlite: insert formulation")
	}

	for _, l := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO formulation_ingredients (id, formulation_id, ingredient_id, percentage, phase, sort_order, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), f.ID, l.IngredientID, l.Percentage, nullif(l.Phase), l.SortOrder, nullif(l.Notes),
		)
		if err != nil {
			return nil, eris.Wrap(classifySQLite(err), "sqlite: insert formulation line")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit create formulation")
	}
	return s.GetFormulation(ctx, f.ID)
}

func (s *SQLiteStore) GetFormulation(ctx context.Context, id string) (*model.Formulation, error) {
	var f model.Formulation
	var desc, phases, instructions, notes *string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, base_batch_size, unit, status,
			version_number, parent_formulation_id, phases, instructions, notes,
			created_at, updated_at
		 FROM formulations WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &desc, &f.BaseBatchSize, &f.Unit, &f.Status,
		&f.VersionNumber, &f.ParentFormulationID, &phases, &instructions, &notes,
		&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFoundf("formulation not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get formulation %s", id)
	}
	f.Description = deref(desc)
	f.Phases = deref(phases)
	f.Instructions = deref(instructions)
	f.Notes = deref(notes)

	rows, err := s.db.QueryContext(ctx,
		`SELECT fi.id, fi.ingredient_id, i.name, i.inci_name, fi.percentage, fi.phase, fi.sort_order, fi.notes
		 FROM formulation_ingredients fi
		 JOIN ingredients i ON fi.ingredient_id = i.id
		 WHERE fi.formulation_id = ?
		 ORDER BY fi.sort_order, fi.phase, i.name`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get formulation lines %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.FormulationLine
		var inci, phase, lnotes *string
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.IngredientName, &inci, &l.Percentage, &phase, &l.SortOrder, &lnotes); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan formulation line")
		}
		l.INCIName = deref(inci)
		l.Phase = deref(phase)
		l.Notes = deref(lnotes)
		f.Lines = append(f.Lines, l)
	}
	return &f, eris.Wrap(rows.Err(), "sqlite: formulation lines iterate")
}

func (s *SQLiteStore) ListFormulations(ctx context.Context, filter FormulationFilter) ([]model.Formulation, error) {
	query := `SELECT id, name, description, base_batch_size, unit, status,
		version_number, parent_formulation_id, phases, instructions, notes,
		created_at, updated_at
	 FROM formulations`
	var args []any
	if n := len(filter.IngredientIDs); n > 0 {
		query += ` WHERE EXISTS (
			SELECT 1 FROM formulation_ingredients fi
			WHERE fi.formulation_id = formulations.id
			AND fi.ingredient_id IN (?` + strings.Repeat(", ?", n-1) + `))`
		for _, id := range filter.IngredientIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list formulations")
	}
	defer rows.Close()

	var out []model.Formulation
	for rows.Next() {
		var f model.Formulation
		var desc, phases, instructions, notes *string
		if err := rows.Scan(&f.ID, &f.Name, &desc, &f.BaseBatchSize, &f.Unit, &f.Status,
			&f.VersionNumber, &f.ParentFormulationID, &phases, &instructions, &notes,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan formulation")
		}
		f.Description = deref(desc)
		f.Phases = deref(phases)
		f.Instructions = deref(instructions)
		f.Notes = deref(notes)
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list formulations iterate")
}

func (s *SQLiteStore) UpdateFormulation(ctx context.Context, id string, f model.Formulation) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE formulations SET
			name = ?, description = ?, base_batch_size = ?, unit = ?,
			status = ?, phases = ?, instructions = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		f.Name, nullif(f.Description), f.BaseBatchSize, f.Unit,
		string(f.Status), nullif(f.Phases), nullif(f.Instructions), nullif(f.Notes),
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(classifySQLite(err), "sqlite: update formulation %s", id)
	}
	return rowsAffectedNotFound(res, "formulation", id)
}

func (s *SQLiteStore) AddFormulationLine(ctx context.Context, formulationID string, line model.FormulationLine) (*model.FormulationLine, error) {
	line.ID = uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO formulation_ingredients (id, formulation_id, ingredient_id, percentage, phase, sort_order, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		line.ID, formulationID, line.IngredientID, line.Percentage, nullif(line.Phase), line.SortOrder, nullif(line.Notes),
	)
	if err != nil {
		return nil, eris.Wrapf(classifySQLite(err), "sqlite: add formulation line %s", formulationID)
	}
	return &line, nil
}

func (s *SQLiteStore) RemoveFormulationLine(ctx context.Context, formulationID, ingredientID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM formulation_ingredients WHERE formulation_id = ? AND ingredient_id = ?`,
		formulationID, ingredientID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove formulation line %s", formulationID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return apperror.NotFoundf("ingredient not in formulation: %s", ingredientID)
	}
	return nil
}

func (s *SQLiteStore) DeleteFormulation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM formulations WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(classifySQLite(err), "sqlite: delete formulation %s", id)
	}
	return rowsAffectedNotFound(res, "formulation", id)
}

// Production batches

func (s *SQLiteStore) CreateBatch(ctx context.Context, b model.Batch, lines []model.BatchLine) (*model.Batch, error) {
	b.ID = uuid.New().String()
	now := time.Now().UTC()
	b.CreatedAt = now
	if b.ProductionDate.IsZero() {
		b.ProductionDate = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin create batch")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO production_batches (id, formulation_id, batch_name, target_amount, unit, production_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.FormulationID, nullif(b.BatchName), b.TargetAmount, b.Unit, b.ProductionDate, nullif(b.Notes), now,
	)
	if err != nil {
		return nil, eris.Wrap(classifySQLite(err), "sqlite: insert batch")
	}

	for _, l := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_ingredients (id, batch_id, ingredient_id, planned_amount, unit, notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), b.ID, l.IngredientID, l.PlannedAmount, l.Unit, nullif(l.Notes),
		)
		if err != nil {
			return nil, eris.Wrap(classifySQLite(err), "sqlite: insert batch line")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit create batch")
	}
	return &b, nil
}

func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	var b model.Batch
	var name, notes *string
	err := s.db.QueryRowContext(ctx,
		`SELECT pb.id, pb.formulation_id, f.name, f.status, pb.batch_name,
			pb.target_amount, pb.actual_amount, pb.unit, pb.production_date, pb.notes, pb.created_at
		 FROM production_batches pb
		 JOIN formulations f ON pb.formulation_id = f.id
		 WHERE pb.id = ?`, id,
	).Scan(&b.ID, &b.FormulationID, &b.FormulationName, &b.FormulationStatus, &name,
		&b.TargetAmount, &b.ActualAmount, &b.Unit, &b.ProductionDate, &notes, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFoundf("batch not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get batch %s", id)
	}
	b.BatchName = deref(name)
	b.Notes = deref(notes)

	rows, err := s.db.QueryContext(ctx,
		`SELECT bi.id, bi.ingredient_id, i.name, i.inci_name,
			bi.planned_amount, bi.actual_amount, bi.unit, bi.notes
		 FROM batch_ingredients bi
		 JOIN ingredients i ON bi.ingredient_id = i.id
		 WHERE bi.batch_id = ?
		 ORDER BY i.name`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get batch lines %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.BatchLine
		var inci, lnotes *string
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.IngredientName, &inci,
			&l.PlannedAmount, &l.ActualAmount, &l.Unit, &lnotes); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch line")
		}
		l.BatchID = id
		l.INCIName = deref(inci)
		l.Notes = deref(lnotes)
		b.Lines = append(b.Lines, l)
	}
	return &b, eris.Wrap(rows.Err(), "sqlite: batch lines iterate")
}

func (s *SQLiteStore) ListBatches(ctx context.Context) ([]model.Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pb.id, pb.formulation_id, f.name, f.status, pb.batch_name,
			pb.target_amount, pb.actual_amount, pb.unit, pb.production_date, pb.notes, pb.created_at
		 FROM production_batches pb
		 JOIN formulations f ON pb.formulation_id = f.id
		 ORDER BY pb.production_date DESC, pb.created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var out []model.Batch
	for rows.Next() {
		var b model.Batch
		var name, notes *string
		if err := rows.Scan(&b.ID, &b.FormulationID, &b.FormulationName, &b.FormulationStatus, &name,
			&b.TargetAmount, &b.ActualAmount, &b.Unit, &b.ProductionDate, &notes, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		b.BatchName = deref(name)
		b.Notes = deref(notes)
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

func (s *SQLiteStore) RecordBatchActuals(ctx context.Context, batchID string, update BatchActualsUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin record actuals")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE production_batches
		 SET actual_amount = COALESCE(?, actual_amount),
		     notes = COALESCE(?, notes)
		 WHERE id = ?`,
		update.ActualTotal, update.Notes, batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update batch actuals %s", batchID)
	}
	if err := rowsAffectedNotFound(res, "batch", batchID); err != nil {
		return err
	}

	for _, l := range update.Lines {
		res, err := tx.ExecContext(ctx,
			`UPDATE batch_ingredients SET actual_amount = ?, notes = ? WHERE id = ? AND batch_id = ?`,
			l.ActualAmount, l.Notes, l.LineID, batchID,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: update batch line actuals %s", l.LineID)
		}
		if err := rowsAffectedNotFound(res, "batch line", l.LineID); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit record actuals")
}

func (s *SQLiteStore) DeleteBatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM production_batches WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(classifySQLite(err), "sqlite: delete batch %s", id)
	}
	return rowsAffectedNotFound(res, "batch", id)
}

// helpers

func rowsAffectedNotFound(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return apperror.NotFoundf("%s not found: %s", entity, id)
	}
	return nil
}

// classifySQLite maps sqlite constraint failures onto the taxonomy by message
// inspection; modernc.org/sqlite does not expose structured error codes the
// way pgconn does.
func classifySQLite(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &apperror.Error{Kind: apperror.KindConflict, Msg: "a record with that value already exists", Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &apperror.Error{Kind: apperror.KindConflict, Msg: "referenced record does not exist or is still referenced", Err: err}
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return &apperror.Error{Kind: apperror.KindValidation, Msg: "missing required field", Err: err}
	}
	return err
}
