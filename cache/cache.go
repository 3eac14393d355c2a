// Package cache implements a fixed-budget store of coded fragments that can
// tell whether an incoming coded transmission resolves to a missing fragment.
package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ppopth/coded-caching/fragment"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("cache")

var (
	// ErrCapacityExceeded is returned when an admission would overflow the budget
	ErrCapacityExceeded = errors.New("cache capacity exceeded")
	// ErrMalformed is returned for invalid cache entries and snapshots
	ErrMalformed = errors.New("malformed cache snapshot")
)

// Option configures a FragmentCache at construction
type Option func(*FragmentCache) error

// WithFragments admits the given coded fragments in order. Construction fails
// if any of them is rejected.
func WithFragments(cfs ...*fragment.Coded) Option {
	return func(c *FragmentCache) error {
		for _, cf := range cfs {
			if err := c.Add(cf); err != nil {
				return err
			}
		}
		return nil
	}
}

// FragmentCache holds coded fragments keyed by id within a budget of capacity
// size units. It never evicts on its own: an admission that does not fit is
// rejected. For every fragment size it memoizes a reduced basis of the stored
// combinations, rebuilt on the next decode after an entry of that size
// changes.
type FragmentCache struct {
	mutex    sync.Mutex
	capacity int
	used     int
	contents map[string]*fragment.Coded

	generations map[int]uint64    // per size class, bumped on add/remove
	snapshots   map[int]*snapshot // per size class, valid while generations match
}

// New creates an empty cache with the given capacity and applies opts
func New(capacity int, opts ...Option) (*FragmentCache, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("negative capacity %d", capacity)
	}
	c := &FragmentCache{
		capacity:    capacity,
		contents:    make(map[string]*fragment.Coded),
		generations: make(map[int]uint64),
		snapshots:   make(map[int]*snapshot),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add stores a copy of cf. An unseen id is admitted when its size fits in the
// free space. A known id is replaced when the size difference still fits.
func (c *FragmentCache) Add(cf *fragment.Coded) error {
	if cf == nil || cf.Len() == 0 {
		return fmt.Errorf("empty coded fragment: %w", ErrMalformed)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := cf.ID()
	used := c.used
	old, replacing := c.contents[id]
	if replacing {
		used -= old.Size()
	}
	if used+cf.Size() > c.capacity {
		log.Warnf("rejecting %s: needs %d, %d of %d in use", cf, cf.Size(), c.used, c.capacity)
		return fmt.Errorf("fragment %s of size %d with %d of %d in use: %w", id, cf.Size(), c.used, c.capacity, ErrCapacityExceeded)
	}

	if replacing {
		c.invalidate(old.Size())
	}
	c.contents[id] = cf.Clone()
	c.used = used + cf.Size()
	c.invalidate(cf.Size())
	return nil
}

// Remove evicts the fragment with the given id and reports whether it was present
func (c *FragmentCache) Remove(id string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cf, ok := c.contents[id]
	if !ok {
		return false
	}
	delete(c.contents, id)
	c.used -= cf.Size()
	if c.used < 0 {
		c.used = 0
	}
	c.invalidate(cf.Size())
	return true
}

// invalidate marks the basis snapshot of a size class stale
func (c *FragmentCache) invalidate(size int) {
	c.generations[size]++
}

// Capacity returns the budget M
func (c *FragmentCache) Capacity() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.capacity
}

// UsedSpace returns the sum of the sizes of the stored fragments
func (c *FragmentCache) UsedSpace() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.used
}

// FreeSpace returns Capacity() - UsedSpace()
func (c *FragmentCache) FreeSpace() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.capacity - c.used
}

// Len returns the number of stored fragments
func (c *FragmentCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.contents)
}

// Has reports whether a fragment with the given id is stored
func (c *FragmentCache) Has(id string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, ok := c.contents[id]
	return ok
}

// Get returns a copy of the stored fragment with the given id
func (c *FragmentCache) Get(id string) (*fragment.Coded, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	cf, ok := c.contents[id]
	if !ok {
		return nil, false
	}
	return cf.Clone(), true
}

// IDs returns the stored ids in ascending order
func (c *FragmentCache) IDs() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sortedIDs()
}

func (c *FragmentCache) sortedIDs() []string {
	ids := make([]string, 0, len(c.contents))
	for id := range c.contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
