// Package tablestore abstracts the remote relational store behind the four
// primitives the collection layer needs: filtered ordered select, insert
// returning the stored row, and update/delete scoped by id plus an optional
// equality filter (the owner column, for actor-scoped collections).
package tablestore

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// Row is the wire shape of one record: flat, snake_case keys. Values are
// whatever the backend hands back (strings, time.Time, decimals, uuids);
// codecs are responsible for coercing them.
type Row map[string]any

// Query describes a full-table read with an optional equality filter and a
// fixed server-side order.
type Query struct {
	Table      string
	Eq         map[string]any
	OrderBy    string
	Descending bool
}

type Client interface {
	// Select returns all rows matching the query in the requested order.
	Select(ctx context.Context, q Query) ([]Row, error)
	// Insert stores the row and returns it as persisted, with all
	// server-computed columns (id, created_at, ...) filled in.
	Insert(ctx context.Context, table string, row Row) (Row, error)
	// Update applies the partial row to the record with the given id,
	// narrowed by the optional equality filter. A missing or filtered-out
	// id affects zero rows and is not an error.
	Update(ctx context.Context, table string, id uuid.UUID, eq map[string]any, row Row) error
	// Delete removes the record with the given id, narrowed by the
	// optional equality filter. A missing or filtered-out id is not an
	// error.
	Delete(ctx context.Context, table string, id uuid.UUID, eq map[string]any) error
}
