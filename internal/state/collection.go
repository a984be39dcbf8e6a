// Package state holds the per-user in-memory entity collections that sit
// between the HTTP layer and the query repositories.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/logging"
)

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
	StatusErrored       Status = "errored"
)

// Loader fetches the full list for one owner, already ordered.
type Loader[T any] func(ctx context.Context, userID string) ([]T, error)

// Names is used to build the fallback error messages ("failed to fetch profiles").
type Names struct {
	Singular string
	Plural   string
}

// Snapshot is an immutable view of a collection. Items must not be modified
// by callers.
type Snapshot[T any] struct {
	UserID  string
	Items   []T
	Status  Status
	Loading bool
	Err     error
}

// Collection caches the entities owned by one user.
//
// Refreshes are numbered: a fetch result is only applied when no newer
// refresh (or user switch) started in the meantime. Mutations are applied in
// the order their remote calls complete, so the last responder wins.
type Collection[T any] struct {
	names Names
	load  Loader[T]
	idOf  func(T) string
	log   zerolog.Logger

	mu     sync.Mutex
	userID string
	status Status
	items  []T
	err    error
	gen    uint64
}

func NewCollection[T any](names Names, load Loader[T], idOf func(T) string, log zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		names:  names,
		load:   load,
		idOf:   idOf,
		log:    log,
		status: StatusUninitialized,
		items:  []T{},
	}
}

func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot[T]{
		UserID:  c.userID,
		Items:   c.items,
		Status:  c.status,
		Loading: c.status == StatusLoading || (c.status == StatusUninitialized && c.userID != ""),
		Err:     c.err,
	}
}

// SetUser scopes the collection to userID. A different id drops the cached
// list and triggers a fetch; so does the same id after a failed fetch.
func (c *Collection[T]) SetUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	if userID == c.userID && !c.needsFetch() {
		c.mu.Unlock()
		return nil
	}
	if userID != c.userID {
		c.userID = userID
		c.items = []T{}
		c.err = nil
		c.status = StatusUninitialized
		c.gen++
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// EnsureLoaded fetches when nothing was fetched yet or the last fetch failed.
func (c *Collection[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	pending := c.needsFetch()
	c.mu.Unlock()

	if !pending {
		return nil
	}
	return c.Refresh(ctx)
}

// needsFetch must be called with mu held.
func (c *Collection[T]) needsFetch() bool {
	return c.status == StatusUninitialized || c.status == StatusErrored
}

// Refresh replaces the list with the server's. On failure the previous list
// stays visible and the error is recorded.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	userID := c.userID
	c.status = StatusLoading
	c.mu.Unlock()

	l := logging.Ctx(ctx, c.log)
	items, err := guard("failed to fetch "+c.names.Plural, func() ([]T, error) {
		return c.load(ctx, userID)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		l.Debug().Str("user_id", userID).Uint64("generation", gen).Msg("discarding stale fetch result")
		return err
	}
	if err != nil {
		c.status = StatusErrored
		c.err = err
		l.Warn().Err(err).Str("user_id", userID).Msgf("fetch %s failed", c.names.Plural)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.err = nil
	c.status = StatusReady
	return nil
}

// Create runs fn and prepends its result.
func (c *Collection[T]) Create(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	created, err := guard("failed to create "+c.names.Singular, func() (T, error) {
		return fn(ctx)
	})
	if err != nil {
		return created, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.items)+1)
	next = append(next, created)
	next = append(next, c.items...)
	c.items = next
	return created, nil
}

// Update runs fn and swaps the record carrying id for its result.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(context.Context) (T, error)) (T, error) {
	updated, err := guard("failed to update "+c.names.Singular, func() (T, error) {
		return fn(ctx)
	})
	if err != nil {
		return updated, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, len(c.items))
	for i, item := range c.items {
		if c.idOf(item) == id {
			next[i] = updated
			continue
		}
		next[i] = item
	}
	c.items = next
	return updated, nil
}

// Delete runs fn and drops the record carrying id.
func (c *Collection[T]) Delete(ctx context.Context, id string, fn func(context.Context) error) error {
	_, err := guard("failed to delete "+c.names.Singular, func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.idOf(item) != id {
			next = append(next, item)
		}
	}
	c.items = next
	return nil
}

// Find looks id up in the cached list.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FallbackError stands in for a failure that carried no usable message: a
// panic with a non-error value, or an error whose message is empty.
type FallbackError struct {
	Message string
	Err     error
}

func (e *FallbackError) Error() string { return e.Message }

func (e *FallbackError) Unwrap() error { return e.Err }

// IsFallback reports whether err is a generic stand-in, so callers can swap
// in their own wording.
func IsFallback(err error) bool {
	var fe *FallbackError
	return errors.As(err, &fe)
}

// guard runs fn, turning a panic into an error. Panics that do not carry an
// error, and errors with an empty message, become a FallbackError.
func guard[R any](fallback string, fn func() (R, error)) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = &FallbackError{Message: fallback}
		}
	}()

	res, err = fn()
	if err != nil && err.Error() == "" {
		err = &FallbackError{Message: fallback, Err: err}
	}
	return res, err
}
