// Package query is the keyed cache sitting between the views and the API
// client. Queries are addressed by a structured (resource, date) key. A view
// asks Begin whether it should start a fetch, runs the fetch however it likes
// (a tea.Cmd in the TUI), and hands the result back to Store stamped with the
// generation Begin issued. Invalidation bumps the generation, so a response
// that was already in flight when the key was invalidated can never freshen
// the slot. Stale responses are discarded by construction, keyed by the
// request's originating key rather than by arrival order.
//
// The cache is the only shared mutable state between views; every mutation
// effect reaches the views through Invalidate followed by a refetch.
package query

import "sync"

// Resource tags the kind of data a key addresses.
type Resource string

const (
	Entries       Resource = "entries"
	DailySummary  Resource = "daily-summary"
	WeeklySummary Resource = "weekly-summary"
	Calendar      Resource = "calendar-summary"
	Tips          Resource = "tips"
)

// Key addresses one cached query result: a resource plus its day, week-start,
// or month string. Keys compare by value; no string concatenation.
type Key struct {
	Resource Resource
	Date     string
}

// State describes a cache slot.
type State int

const (
	// Missing means nothing is known for the key.
	Missing State = iota
	// Loading means a fetch is in flight.
	Loading
	// Fresh means the cached value is current.
	Fresh
	// Stale means the cached value is readable but a refetch is due.
	Stale
)

type slot struct {
	state State
	gen   uint64
	value any
}

// Cache holds query results keyed by Key.
type Cache struct {
	mu    sync.Mutex
	slots map[Key]*slot
}

func New() *Cache {
	return &Cache{slots: make(map[Key]*slot)}
}

// Begin reports whether the caller should start a fetch for key. When it
// should, the returned generation must be passed to Store with the result.
// Missing and Stale slots transition to Loading; Fresh and already-Loading
// slots do not start another fetch. Callers gate Begin on session state:
// a query that is not enabled yet simply never calls Begin.
func (c *Cache) Begin(key Key) (gen uint64, start bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		s = &slot{gen: 1}
		c.slots[key] = s
		s.state = Loading
		return s.gen, true
	}

	switch s.state {
	case Missing, Stale:
		s.state = Loading
		return s.gen, true
	default:
		return 0, false
	}
}

// Store applies a fetched value if gen is still the slot's current
// generation. A mismatched generation means the key was invalidated while
// the fetch was in flight: the result is discarded and the slot is marked
// Stale so the next Begin refetches. Returns whether the value was applied.
func (c *Cache) Store(key Key, gen uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		return false
	}
	if s.gen != gen {
		if s.state == Loading {
			s.state = Stale
		}
		return false
	}

	s.state = Fresh
	s.value = value
	return true
}

// Fail records a fetch that ended without a value, so the slot never wedges
// in Loading. The slot returns to Missing (or Stale when an earlier value is
// still readable) and the next Begin refetches. A mismatched generation is
// handled like Store's: the slot was invalidated while the failed fetch was
// in flight and is marked Stale.
func (c *Cache) Fail(key Key, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		return
	}
	if s.state != Loading {
		return
	}
	if s.gen != gen || s.value != nil {
		s.state = Stale
		return
	}
	s.state = Missing
}

// Lookup returns the cached value and slot state. Stale values stay readable
// while their refetch is pending.
func (c *Cache) Lookup(key Key) (any, State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		return nil, Missing
	}
	return s.value, s.state
}

// Invalidate marks the given keys stale and bumps their generations so any
// in-flight fetch started before the invalidation cannot freshen them.
// Loading slots are marked Stale too: their in-flight response is already
// dead (generation mismatch), and the next Begin must refetch rather than
// wait on it. Unknown keys are ignored; they will be fetched on first Begin
// anyway. Mutation success paths call Invalidate before rendering any
// success notification, so a subsequent read observes at least the
// post-mutation state.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		s, ok := c.slots[key]
		if !ok {
			continue
		}
		s.gen++
		if s.state == Fresh || s.state == Loading {
			s.state = Stale
		}
	}
}

// Value looks up key and asserts the cached value to T. The second return is
// false when the slot is empty or holds a different type. Views use this to
// project typed data (or a selected slice of it) out of the cache.
func Value[T any](c *Cache, key Key) (T, bool) {
	v, _ := c.Lookup(key)
	typed, ok := v.(T)
	return typed, ok
}
