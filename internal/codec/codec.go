// Package codec translates between the wire rows of the table store and the
// domain entities. One codec per table; all of them are pure and stateless.
//
// Decoding is tolerant about value representation (the store may deliver
// native types or ISO-8601 / numeric strings) but strict about vocabulary:
// an enum value outside the mapped set fails the whole row rather than being
// silently defaulted.
package codec

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/bizdesk/backend/internal/tablestore"
)

// rowDecoder reads typed values out of a Row, remembering the first failure
// so call sites can stay flat.
type rowDecoder struct {
	row tablestore.Row
	err error
}

func decoderFor(row tablestore.Row) *rowDecoder {
	return &rowDecoder{row: row}
}

func (d *rowDecoder) fail(key string, format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("column %q: %s", key, fmt.Sprintf(format, args...))
	}
}

// str returns the column as a string, or "" when the column is absent or
// null. Absent optional text is always decoded as empty, never as an error.
func (d *rowDecoder) str(key string) string {
	v, ok := d.row[key]
	if !ok || v == nil {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		d.fail(key, "expected string, got %T", v)
		return ""
	}

	return s
}

// strDefault is str with a documented substitute for absent values.
func (d *rowDecoder) strDefault(key, def string) string {
	if v, ok := d.row[key]; !ok || v == nil || v == "" {
		return def
	}

	return d.str(key)
}

func (d *rowDecoder) uuid(key string) uuid.UUID {
	v, ok := d.row[key]
	if !ok || v == nil {
		d.fail(key, "required uuid is missing")
		return uuid.Nil
	}

	switch val := v.(type) {
	case uuid.UUID:
		return val
	case [16]byte:
		return uuid.UUID(val)
	case string:
		id, err := uuid.FromString(val)
		if err != nil {
			d.fail(key, "parse uuid %q: %v", val, err)
			return uuid.Nil
		}

		return id
	default:
		d.fail(key, "expected uuid, got %T", v)
		return uuid.Nil
	}
}

// tstamp returns a required timestamp column. A missing or unparsable value
// fails the row; there is no "substitute now" fallback.
func (d *rowDecoder) tstamp(key string) time.Time {
	v, ok := d.row[key]
	if !ok || v == nil {
		d.fail(key, "required timestamp is missing")
		return time.Time{}
	}

	t, err := coerceTime(v)
	if err != nil {
		d.fail(key, "%v", err)
		return time.Time{}
	}

	return t
}

// tstampPtr returns an optional timestamp column, nil when absent or null.
func (d *rowDecoder) tstampPtr(key string) *time.Time {
	v, ok := d.row[key]
	if !ok || v == nil {
		return nil
	}

	t, err := coerceTime(v)
	if err != nil {
		d.fail(key, "%v", err)
		return nil
	}

	return &t
}

func (d *rowDecoder) dec(key string) decimal.Decimal {
	v, ok := d.row[key]
	if !ok || v == nil {
		d.fail(key, "required numeric is missing")
		return decimal.Zero
	}

	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case string:
		dec, err := decimal.NewFromString(val)
		if err != nil {
			d.fail(key, "parse numeric %q: %v", val, err)
			return decimal.Zero
		}

		return dec
	case float64:
		return decimal.NewFromFloat(val)
	case int64:
		return decimal.NewFromInt(val)
	case int:
		return decimal.NewFromInt(int64(val))
	default:
		d.fail(key, "expected numeric, got %T", v)
		return decimal.Zero
	}
}

func (d *rowDecoder) integer(key string) int64 {
	v, ok := d.row[key]
	if !ok || v == nil {
		d.fail(key, "required integer is missing")
		return 0
	}

	switch val := v.(type) {
	case int64:
		return val
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		n, err := decimal.NewFromString(val)
		if err != nil {
			d.fail(key, "parse integer %q: %v", val, err)
			return 0
		}

		return n.IntPart()
	default:
		d.fail(key, "expected integer, got %T", v)
		return 0
	}
}

func (d *rowDecoder) boolean(key string) bool {
	v, ok := d.row[key]
	if !ok || v == nil {
		return false
	}

	b, ok := v.(bool)
	if !ok {
		d.fail(key, "expected bool, got %T", v)
		return false
	}

	return b
}

func coerceTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, nil
			}
		}

		return time.Time{}, fmt.Errorf("parse timestamp %q", val)
	default:
		return time.Time{}, fmt.Errorf("expected timestamp, got %T", v)
	}
}

// put copies a set patch field into the outgoing row under its wire key.
// Unset fields never reach the row, so untouched columns are never sent.
func put[T any](row tablestore.Row, key string, v *T) {
	if v != nil {
		row[key] = *v
	}
}

// putString is put for typed string enums, storing the raw string.
func putString[T ~string](row tablestore.Row, key string, v *T) {
	if v != nil {
		row[key] = string(*v)
	}
}

// enumMap is an explicit bidirectional vocabulary mapping between a domain
// enum and the strings a table stores. Unmapped variants are an error in
// both directions.
type enumMap[D ~string] struct {
	toWire   map[D]string
	toDomain map[string]D
}

func newEnumMap[D ~string](pairs map[D]string) enumMap[D] {
	m := enumMap[D]{
		toWire:   pairs,
		toDomain: make(map[string]D, len(pairs)),
	}

	for d, w := range pairs {
		m.toDomain[w] = d
	}

	return m
}

func (m enumMap[D]) wire(d D) (string, error) {
	w, ok := m.toWire[d]
	if !ok {
		return "", fmt.Errorf("unmapped value %q", string(d))
	}

	return w, nil
}

func (m enumMap[D]) domain(w string) (D, error) {
	d, ok := m.toDomain[w]
	if !ok {
		return "", fmt.Errorf("unmapped stored value %q", w)
	}

	return d, nil
}
