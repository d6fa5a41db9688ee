// Package collection keeps a session-local ordered mirror of one remote
// table per entity type and funnels every mutation through the table store.
//
// The contract, shared by all ten collections:
//
//   - Fetch replaces the whole mirror atomically with the server-ordered
//     result set and returns that snapshot; on any failure the mirror is
//     left untouched. Callers serving a request must build responses from
//     the returned snapshot, never from a later read of the shared mirror.
//   - Add/Update/Delete mutate the mirror only after the remote call
//     succeeded, so a failed remote call never changes local state. On
//     actor-scoped collections every mutation carries the actor filter to
//     the remote store and ignores mirrored records owned by someone else.
//   - Preconditions and local misses are explicit sentinel errors
//     (entity.ErrNoActor, entity.ErrNotCached) instead of silent no-ops.
//   - Overlapping mutations on the same id are serialized by a keyed lock,
//     so the last call issued wins rather than the last response to arrive.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Codec is the per-entity translation contract the store relies on.
type Codec[T, P any] interface {
	ID(T) uuid.UUID
	// Owner returns the actor id stamped on the record.
	Owner(T) uuid.UUID
	Decode(tablestore.Row) (T, error)
	// Encode produces the insert row for a draft, omitting server-computed
	// columns (id, created_at) and the owner column the store injects. A
	// draft carrying an out-of-vocabulary enum fails here, before any
	// remote call.
	Encode(T) (tablestore.Row, error)
	// EncodePatch produces a row holding only the set patch fields.
	EncodePatch(P) (tablestore.Row, error)
	// Apply merges a patch into an entity, stamping UpdatedAt with now for
	// entities that track it.
	Apply(T, P, time.Time) T
}

type InsertPosition int

const (
	// Prepend puts newly added records at the front of the mirror, the
	// convention for created-descending collections.
	Prepend InsertPosition = iota
	// Append puts them at the back, for naturally ascending collections.
	Append
)

type Options struct {
	Table string
	// ScopeToActor restricts Fetch to rows owned by the context actor.
	// Add always requires an actor regardless; ownership is stamped at
	// creation time.
	ScopeToActor bool
	ActorColumn  string
	OrderBy      string
	Descending   bool
	Insert       InsertPosition
	// TouchUpdatedAt makes Update send updated_at and stamp the merged
	// local entity, for tables that track it.
	TouchUpdatedAt bool
}

type Store[T, P any] struct {
	client tablestore.Client
	codec  Codec[T, P]
	notify Notifier
	opts   Options

	mu    sync.RWMutex
	items []T

	keys *keyedLocks
	now  func() time.Time
}

func New[T, P any](client tablestore.Client, codec Codec[T, P], notify Notifier, opts Options) *Store[T, P] {
	if opts.ActorColumn == "" {
		opts.ActorColumn = "user_id"
	}

	if notify == nil {
		notify = NopNotifier{}
	}

	return &Store[T, P]{
		client: client,
		codec:  codec,
		notify: notify,
		opts:   opts,
		keys:   newKeyedLocks(),
		now:    time.Now,
	}
}

// Items returns a copy of the mirror in its current order.
func (s *Store[T, P]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *Store[T, P]) Get(id uuid.UUID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if s.codec.ID(item) == id {
			return item, true
		}
	}

	var zero T

	return zero, false
}

// Fetch replaces the mirror with all rows of the table, decoded, in the
// server's delivered order, and returns that snapshot. On any error the
// mirror is left unchanged. The mirror is shared between requests, so a
// response must be built from the returned snapshot: a concurrent Fetch
// under another actor may replace the mirror before Items is read.
func (s *Store[T, P]) Fetch(ctx context.Context) ([]T, error) {
	q := tablestore.Query{
		Table:      s.opts.Table,
		OrderBy:    s.opts.OrderBy,
		Descending: s.opts.Descending,
	}

	eq, _, err := s.scope(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.opts.Table, err)
	}

	q.Eq = eq

	rows, err := s.client.Select(ctx, q)
	if err != nil {
		slog.ErrorContext(ctx, "fetch collection", "table", s.opts.Table, "error", err)
		return nil, fmt.Errorf("fetch %s: %w: %w", s.opts.Table, entity.ErrRemote, err)
	}

	fetched := make([]T, 0, len(rows))

	for _, row := range rows {
		item, err := s.codec.Decode(row)
		if err != nil {
			slog.ErrorContext(ctx, "decode row", "table", s.opts.Table, "error", err)
			return nil, fmt.Errorf("fetch %s: decode row: %w", s.opts.Table, err)
		}

		fetched = append(fetched, item)
	}

	s.mu.Lock()
	s.items = slices.Clone(fetched)
	s.mu.Unlock()

	return fetched, nil
}

// scope returns the remote equality filter and the actor id for ownership
// checks on actor-scoped collections; unscoped collections get neither.
func (s *Store[T, P]) scope(ctx context.Context) (map[string]any, uuid.UUID, error) {
	if !s.opts.ScopeToActor {
		return nil, uuid.Nil, nil
	}

	actor, err := entity.ActorFromCtx(ctx)
	if err != nil {
		return nil, uuid.Nil, entity.ErrNoActor
	}

	return map[string]any{s.opts.ActorColumn: actor.ID}, actor.ID, nil
}

// owned reports whether the mirrored item belongs to the given actor. On
// unscoped collections every item qualifies.
func (s *Store[T, P]) owned(item T, actorID uuid.UUID) bool {
	return !s.opts.ScopeToActor || s.codec.Owner(item) == actorID
}

// Add inserts a draft owned by the context actor and mirrors the stored row
// at the collection's insert position. Without an actor no remote call is
// made and no notification is fired.
func (s *Store[T, P]) Add(ctx context.Context, draft T) (T, error) {
	var zero T

	actor, err := entity.ActorFromCtx(ctx)
	if err != nil {
		return zero, fmt.Errorf("add to %s: %w", s.opts.Table, entity.ErrNoActor)
	}

	row, err := s.codec.Encode(draft)
	if err != nil {
		return zero, fmt.Errorf("add to %s: %w", s.opts.Table, err)
	}

	row[s.opts.ActorColumn] = actor.ID

	inserted, err := s.client.Insert(ctx, s.opts.Table, row)
	if err != nil {
		s.notify.Failure(ctx, s.opts.Table, ActionCreated, err)
		return zero, fmt.Errorf("add to %s: %w: %w", s.opts.Table, entity.ErrRemote, err)
	}

	item, err := s.codec.Decode(inserted)
	if err != nil {
		s.notify.Failure(ctx, s.opts.Table, ActionCreated, err)
		return zero, fmt.Errorf("add to %s: decode inserted row: %w", s.opts.Table, err)
	}

	s.mu.Lock()
	if s.opts.Insert == Prepend {
		s.items = append([]T{item}, s.items...)
	} else {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.notify.Success(ctx, s.opts.Table, ActionCreated, s.codec.ID(item))

	return item, nil
}

// Update sends only the set patch fields to the remote record and, on
// success, merges them into the matching mirror entry. A patch with no set
// fields is a no-op. If the id is not mirrored locally, or the mirrored
// entry belongs to another actor, the scoped remote update still happened
// (affecting nothing in the latter case) and ErrNotCached reports the miss.
func (s *Store[T, P]) Update(ctx context.Context, id uuid.UUID, patch P) error {
	row, err := s.codec.EncodePatch(patch)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", s.opts.Table, id, err)
	}

	if len(row) == 0 {
		return nil
	}

	eq, actorID, err := s.scope(ctx)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", s.opts.Table, id, err)
	}

	s.keys.acquire(id)
	defer s.keys.release(id)

	now := s.now()
	if s.opts.TouchUpdatedAt {
		row["updated_at"] = now
	}

	if err := s.client.Update(ctx, s.opts.Table, id, eq, row); err != nil {
		s.notify.Failure(ctx, s.opts.Table, ActionUpdated, err)
		return fmt.Errorf("update %s %s: %w: %w", s.opts.Table, id, entity.ErrRemote, err)
	}

	merged := false

	s.mu.Lock()
	for i, item := range s.items {
		if s.codec.ID(item) != id {
			continue
		}

		if s.owned(item, actorID) {
			s.items[i] = s.codec.Apply(item, patch, now)
			merged = true
		}

		break
	}
	s.mu.Unlock()

	s.notify.Success(ctx, s.opts.Table, ActionUpdated, id)

	if !merged {
		return fmt.Errorf("update %s %s: %w", s.opts.Table, id, entity.ErrNotCached)
	}

	return nil
}

// Delete removes the remote record and, on success, the mirror entry. If
// the id is not mirrored locally, or the mirrored entry belongs to another
// actor, the scoped remote delete still happened and ErrNotCached reports
// the miss.
func (s *Store[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	eq, actorID, err := s.scope(ctx)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.opts.Table, id, err)
	}

	s.keys.acquire(id)
	defer s.keys.release(id)

	if err := s.client.Delete(ctx, s.opts.Table, id, eq); err != nil {
		s.notify.Failure(ctx, s.opts.Table, ActionDeleted, err)
		return fmt.Errorf("delete %s %s: %w: %w", s.opts.Table, id, entity.ErrRemote, err)
	}

	removed := false

	s.mu.Lock()
	for i, item := range s.items {
		if s.codec.ID(item) != id {
			continue
		}

		if s.owned(item, actorID) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
		}

		break
	}
	s.mu.Unlock()

	s.notify.Success(ctx, s.opts.Table, ActionDeleted, id)

	if !removed {
		return fmt.Errorf("delete %s %s: %w", s.opts.Table, id, entity.ErrNotCached)
	}

	return nil
}

// keyedLocks serializes operations per record id.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[uuid.UUID]*lockEntry)}
}

func (k *keyedLocks) acquire(id uuid.UUID) {
	k.mu.Lock()

	e, ok := k.entries[id]
	if !ok {
		e = &lockEntry{}
		k.entries[id] = e
	}

	e.refs++
	k.mu.Unlock()

	e.Lock()
}

func (k *keyedLocks) release(id uuid.UUID) {
	k.mu.Lock()

	e := k.entries[id]

	e.refs--
	if e.refs == 0 {
		delete(k.entries, id)
	}
	k.mu.Unlock()

	e.Unlock()
}
