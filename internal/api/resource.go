package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/collection"
)

// resource exposes one collection store as a uniform CRUD surface:
// GET / refreshes and lists, POST / creates, PATCH and DELETE /{id} mutate.
// All ten record types mount through this adapter.
type resource[T, P any] struct {
	store *collection.Store[T, P]
}

// mountResource registers the CRUD routes on an already-scoped subrouter so
// call sites can add sibling routes (static paths win over the id wildcard).
func mountResource[T, P any](r chi.Router, store *collection.Store[T, P]) {
	res := &resource[T, P]{store: store}

	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Patch("/{id}", res.update)
	r.Delete("/{id}", res.delete)
}

func (res *resource[T, P]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The mirror is shared between requests; respond with the snapshot
	// selected under this request's actor, not a later mirror read.
	items, err := res.store.Fetch(ctx)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to load records")
		return
	}

	SendJSON(ctx, w, http.StatusOK, items)
}

func (res *resource[T, P]) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft T

	err := json.NewDecoder(r.Body).Decode(&draft)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	created, err := res.store.Add(ctx, draft)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to create record")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, created)
}

func (res *resource[T, P]) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be a UUID")
		return
	}

	var patch P

	err = json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	err = res.store.Update(ctx, id, patch)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to update record")
		return
	}

	item, ok := res.store.Get(id)
	if !ok {
		SendJSON(ctx, w, http.StatusOK, struct{}{})
		return
	}

	SendJSON(ctx, w, http.StatusOK, item)
}

func (res *resource[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be a UUID")
		return
	}

	err = res.store.Delete(ctx, id)
	if err != nil {
		sendMappedErr(ctx, w, err, "Failed to delete record")
		return
	}

	SendJSON(ctx, w, http.StatusOK, struct{}{})
}
