package cache

import (
	"encoding/json"
	"fmt"

	"github.com/ppopth/coded-caching/fragment"
	"github.com/ppopth/coded-caching/pb"

	"github.com/gogo/protobuf/proto"
)

type cacheJSON struct {
	M *int                       `json:"M"`
	Z map[string]*fragment.Coded `json:"Z"`
}

// MarshalJSON encodes the cache as {"M": capacity, "Z": {id: coded fragment, ...}}
func (c *FragmentCache) MarshalJSON() ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	capacity := c.capacity
	return json.Marshal(cacheJSON{M: &capacity, Z: c.contents})
}

// UnmarshalJSON replaces the cache state with a decoded snapshot. Entries are
// admitted through Add, so a snapshot over its own budget is rejected. The
// cache is left untouched on error.
func (c *FragmentCache) UnmarshalJSON(data []byte) error {
	var raw cacheJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.M == nil || raw.Z == nil {
		return fmt.Errorf("cache snapshot is missing M or Z: %w", ErrMalformed)
	}
	entries := make([]*fragment.Coded, 0, len(raw.Z))
	for id, cf := range raw.Z {
		if cf == nil || cf.ID() != id {
			return fmt.Errorf("cache key %q does not match its fragment: %w", id, ErrMalformed)
		}
		entries = append(entries, cf)
	}
	return c.restore(*raw.M, entries)
}

// MarshalBinary encodes the cache as a protobuf FragmentCache with entries in id order
func (c *FragmentCache) MarshalBinary() ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	m := &pb.FragmentCache{Capacity: int64(c.capacity)}
	for _, id := range c.sortedIDs() {
		m.Z = append(m.Z, c.contents[id].ToProto())
	}
	return proto.Marshal(m)
}

// UnmarshalBinary replaces the cache state with a decoded protobuf snapshot
func (c *FragmentCache) UnmarshalBinary(data []byte) error {
	var m pb.FragmentCache
	if err := proto.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	entries := make([]*fragment.Coded, 0, len(m.GetZ()))
	for _, pm := range m.GetZ() {
		cf, err := fragment.CodedFromProto(pm)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		entries = append(entries, cf)
	}
	return c.restore(int(m.GetCapacity()), entries)
}

// restore builds a fresh cache from decoded parts and swaps its state in
func (c *FragmentCache) restore(capacity int, entries []*fragment.Coded) error {
	fresh, err := New(capacity)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for _, cf := range entries {
		if _, dup := fresh.contents[cf.ID()]; dup {
			return fmt.Errorf("fragment %s listed twice: %w", cf.ID(), ErrMalformed)
		}
		if err := fresh.Add(cf); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.capacity = fresh.capacity
	c.used = fresh.used
	c.contents = fresh.contents
	c.generations = fresh.generations
	c.snapshots = fresh.snapshots
	return nil
}
