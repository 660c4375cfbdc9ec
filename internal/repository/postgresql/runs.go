package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

const (
	TableRuns       = "runs"
	TableRunFiles   = "run_files"
	TableRunSchemas = "run_schemas"
	TableRunRecords = "run_records"
)

type RunsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewRunsRepository(pool *pgxpool.Pool) *RunsRepository {
	return &RunsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun stores the run with its files and schemas. Records are stored
// separately by SaveRecords.
func (r *RunsRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableRuns).
		Columns("id", "directory", "trimmed", "run_at", "record_count").
		Values(run.ID, run.Directory, run.Trimmed, run.RunAt, run.RecordCount).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return executeQueryError(err)
	}

	_, err = db.CopyFrom(ctx, pgx.Identifier{TableRunFiles},
		[]string{"run_id", "position", "name", "record_type"},
		pgx.CopyFromSlice(len(run.Files), func(i int) ([]any, error) {
			f := run.Files[i]
			return []any{run.ID, f.Position, f.Name, int16(f.RecordType)}, nil
		}),
	)
	if err != nil {
		return copyRowsError(TableRunFiles, err)
	}

	schemaRows := make([][]any, 0)
	for recordType, schema := range run.Schemas {
		for i, f := range schema.Fields() {
			schemaRows = append(schemaRows, []any{run.ID, int16(recordType), i + 1, f.Name, f.Type})
		}
	}

	_, err = db.CopyFrom(ctx, pgx.Identifier{TableRunSchemas},
		[]string{"run_id", "record_type", "position", "field_name", "field_type"},
		pgx.CopyFromRows(schemaRows),
	)
	if err != nil {
		return copyRowsError(TableRunSchemas, err)
	}

	return nil
}

func (r *RunsRepository) SaveRecords(ctx context.Context, runID uuid.UUID, records []domain.Record) error {
	db := extractDB(ctx, r.pool)

	copied, err := db.CopyFrom(ctx, pgx.Identifier{TableRunRecords},
		[]string{"run_id", "n", "data"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			data, err := json.Marshal(records[i])
			if err != nil {
				return nil, fmt.Errorf("failed to encode record #%d: %w", i+1, err)
			}
			return []any{runID, i + 1, data}, nil
		}),
	)
	if err != nil {
		return copyRowsError(TableRunRecords, err)
	}

	if copied != int64(len(records)) {
		return fmt.Errorf("failed to save records: copied %d rows, expected %d", copied, len(records))
	}

	return nil
}

func (r *RunsRepository) Runs(ctx context.Context, limit, offset uint64) ([]*domain.Run, int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableRuns).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select("id", "directory", "trimmed", "run_at", "record_count").
		From(TableRuns).
		OrderBy("run_at DESC", "id").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	runs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.Run])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return runs, total, nil
}

// RunByID returns domain.ErrRunNotFound for unknown ids.
func (r *RunsRepository) RunByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("id", "directory", "trimmed", "run_at", "record_count").
		From(TableRuns).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Run])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, collectRowsError(err)
	}

	if run.Files, err = r.runFiles(ctx, db, id); err != nil {
		return nil, err
	}

	if run.Schemas, err = r.runSchemas(ctx, db, id); err != nil {
		return nil, err
	}

	return run, nil
}

func (r *RunsRepository) runFiles(ctx context.Context, db DBTX, id uuid.UUID) ([]*domain.RunFile, error) {
	sql, args, err := r.qb.
		Select("position", "name", "record_type").
		From(TableRunFiles).
		Where(sq.Eq{"run_id": id.String()}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	files, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.RunFile])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return files, nil
}

type schemaRow struct {
	RecordType domain.RecordType `db:"record_type"`
	FieldName  string            `db:"field_name"`
	FieldType  string            `db:"field_type"`
}

func (r *RunsRepository) runSchemas(ctx context.Context, db DBTX, id uuid.UUID) (map[domain.RecordType]*domain.Schema, error) {
	sql, args, err := r.qb.
		Select("record_type", "field_name", "field_type").
		From(TableRunSchemas).
		Where(sq.Eq{"run_id": id.String()}).
		OrderBy("record_type ASC", "position ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	fields, err := pgx.CollectRows(rows, pgx.RowToStructByName[schemaRow])
	if err != nil {
		return nil, collectRowsError(err)
	}

	schemas := make(map[domain.RecordType]*domain.Schema)
	for _, f := range fields {
		schema, ok := schemas[f.RecordType]
		if !ok {
			schema = domain.NewSchema(nil, nil)
			schemas[f.RecordType] = schema
		}
		schema.Set(f.FieldName, f.FieldType)
	}

	return schemas, nil
}

func (r *RunsRepository) RecordsByRun(
	ctx context.Context,
	id uuid.UUID,
	limit, offset uint64,
) ([]*domain.StoredRecord, int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableRunRecords).
		Where(sq.Eq{"run_id": id.String()}).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select("n", "data").
		From(TableRunRecords).
		Where(sq.Eq{"run_id": id.String()}).
		OrderBy("n ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.StoredRecord])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return records, total, nil
}
