// Package cache keeps every consumer of a collection converged on server
// truth. Reads go through a collection-keyed snapshot cache with singleflight
// de-duplication; writes are confirm-then-invalidate: the store commits
// first, then the collection is marked stale and every subscriber is told to
// refetch. A failed mutation leaves the cached snapshot untouched.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"
	"golang.org/x/sync/singleflight"

	"github.com/craftline/orderdesk/internal/logging"
	"github.com/craftline/orderdesk/internal/notify"
)

type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// FetchFunc loads the authoritative contents of one collection.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value any
	fresh bool
	// gen is bumped on every invalidation so a fetch that raced with an
	// invalidation does not install a stale snapshot as fresh.
	gen uint64
}

type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	fetchers map[string]FetchFunc

	group    singleflight.Group
	bus      EventBus.Bus
	notifier notify.Notifier
}

func New(notifier notify.Notifier) *Cache {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Cache{
		entries:  map[string]*entry{},
		fetchers: map[string]FetchFunc{},
		bus:      EventBus.New(),
		notifier: notifier,
	}
}

// RegisterFetcher binds a collection key to its loader. Get panics on a key
// without a fetcher; registration happens once at startup.
func (c *Cache) RegisterFetcher(collection string, fn FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchers[collection] = fn
	c.entries[collection] = &entry{}
}

// Get returns the cached snapshot of a collection, fetching it if the entry
// is stale. Concurrent callers of a stale key share one underlying fetch.
func (c *Cache) Get(ctx context.Context, collection string) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[collection]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("cache: no fetcher registered for %q", collection))
	}
	if e.fresh {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	fetch := c.fetchers[collection]
	gen := e.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(collection, func() (any, error) {
		val, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.entries[collection].gen == gen {
			c.entries[collection].value = val
			c.entries[collection].fresh = true
		}
		c.mu.Unlock()
		return val, nil
	})
	return v, err
}

// Invalidate marks a collection stale and signals every subscriber to
// refetch. It never precedes a successful commit.
func (c *Cache) Invalidate(collection string) {
	c.mu.Lock()
	if e, ok := c.entries[collection]; ok {
		e.fresh = false
		e.gen++
	}
	c.mu.Unlock()
	c.bus.Publish(topic(collection))
}

// Subscribe registers fn to run whenever the collection is invalidated.
// This stands in for the mounted views of the source app.
func (c *Cache) Subscribe(collection string, fn func()) error {
	return c.bus.Subscribe(topic(collection), fn)
}

func (c *Cache) Unsubscribe(collection string, fn func()) error {
	return c.bus.Unsubscribe(topic(collection), fn)
}

func topic(collection string) string {
	return "cache:invalidated:" + collection
}

// Mutate runs one store mutation against a collection. On success the
// collection is invalidated and an operation-specific success notification is
// emitted; on failure the cache is untouched, the error is logged in full and
// only a generic message reaches the user. Concurrent mutations on the same
// collection are deliberately not serialized: the last commit at the store
// wins, and every completion triggers its own invalidation.
func (c *Cache) Mutate(ctx context.Context, collection string, op Operation, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		logging.FromContext(ctx).Error("mutation failed",
			"collection", collection, "operation", string(op), "error", err)
		c.notifier.Notify(ctx, "Error", failureMessage(op), notify.SeverityError)
		return err
	}
	c.Invalidate(collection)
	c.notifier.Notify(ctx, "Success", successMessage(collection, op), notify.SeveritySuccess)
	return nil
}

func successMessage(collection string, op Operation) string {
	switch op {
	case OpInsert:
		return fmt.Sprintf("New record added to %s", collection)
	case OpUpdate:
		return fmt.Sprintf("Record in %s updated", collection)
	case OpDelete:
		return fmt.Sprintf("Record removed from %s", collection)
	}
	return "Operation completed"
}

func failureMessage(op Operation) string {
	switch op {
	case OpInsert:
		return "Failed to add record"
	case OpUpdate:
		return "Failed to update record"
	case OpDelete:
		return "Failed to delete record"
	}
	return "Operation failed"
}
