package tablestore

import (
	"context"
	"fmt"
	"math/big"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres implements Client on a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

func (p *Postgres) Select(ctx context.Context, q Query) ([]Row, error) {
	stmt := sq.Select("*").From(q.Table).PlaceholderFormat(sq.Dollar)

	if len(q.Eq) != 0 {
		stmt = stmt.Where(sq.Eq(q.Eq))
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}

		stmt = stmt.OrderBy(fmt.Sprintf("%s %s", q.OrderBy, dir))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row

	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, row)
	}

	return out, rows.Err()
}

func (p *Postgres) Insert(ctx context.Context, table string, row Row) (Row, error) {
	stmt := sq.Insert(table).
		SetMap(map[string]any(row)).
		Suffix("RETURNING *").
		PlaceholderFormat(sq.Dollar)

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}

		return nil, fmt.Errorf("insert into %s returned no row", table)
	}

	inserted, err := scanRow(rows)
	if err != nil {
		return nil, err
	}

	return inserted, rows.Err()
}

func (p *Postgres) Update(ctx context.Context, table string, id uuid.UUID, eq map[string]any, row Row) error {
	stmt := sq.Update(table).
		SetMap(map[string]any(row)).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	if len(eq) != 0 {
		stmt = stmt.Where(sq.Eq(eq))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	// Zero rows affected is deliberately not an error: updating a record
	// deleted by a concurrent session, or one the filter excludes, mirrors
	// the table-store semantics the collection layer is written against.
	_, err = p.db.Exec(ctx, sql, args...)

	return err
}

func (p *Postgres) Delete(ctx context.Context, table string, id uuid.UUID, eq map[string]any) error {
	stmt := sq.Delete(table).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	if len(eq) != 0 {
		stmt = stmt.Where(sq.Eq(eq))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = p.db.Exec(ctx, sql, args...)

	return err
}

func scanRow(rows pgx.Rows) (Row, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}

	fields := rows.FieldDescriptions()
	row := make(Row, len(fields))

	for i, fd := range fields {
		row[fd.Name] = normalize(values[i])
	}

	return row, nil
}

// normalize converts pgx-native column values into the small set of types
// codecs understand.
func normalize(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val)
	case pgtype.Numeric:
		if !val.Valid || val.Int == nil {
			return nil
		}

		if val.NaN {
			return nil
		}

		return decimal.NewFromBigInt(new(big.Int).Set(val.Int), val.Exp)
	default:
		return v
	}
}
