package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ppopth/coded-caching/fragment"
	"github.com/ppopth/coded-caching/pb"

	"github.com/gogo/protobuf/proto"
)

// FragmentBatch is an id-keyed collection of coded fragments sent together.
// Adding a fragment whose id is already present replaces it in place.
type FragmentBatch struct {
	byID  map[string]*fragment.Coded
	order []string
}

// NewFragmentBatch returns a batch holding copies of cfs in order
func NewFragmentBatch(cfs ...*fragment.Coded) *FragmentBatch {
	b := &FragmentBatch{byID: make(map[string]*fragment.Coded)}
	for _, cf := range cfs {
		b.Add(cf)
	}
	return b
}

// Add stores a copy of cf, replacing any member with the same id
func (b *FragmentBatch) Add(cf *fragment.Coded) {
	if cf == nil {
		return
	}
	if b.byID == nil {
		b.byID = make(map[string]*fragment.Coded)
	}
	id := cf.ID()
	if _, ok := b.byID[id]; !ok {
		b.order = append(b.order, id)
	}
	b.byID[id] = cf.Clone()
}

// Remove drops the member with the given id and reports whether it was present
func (b *FragmentBatch) Remove(id string) bool {
	if b == nil {
		return false
	}
	if _, ok := b.byID[id]; !ok {
		return false
	}
	delete(b.byID, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether a member with the given id exists
func (b *FragmentBatch) Has(id string) bool {
	if b == nil {
		return false
	}
	_, ok := b.byID[id]
	return ok
}

// Get returns a copy of the member with the given id
func (b *FragmentBatch) Get(id string) (*fragment.Coded, bool) {
	if b == nil {
		return nil, false
	}
	cf, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return cf.Clone(), true
}

// Len returns the number of members
func (b *FragmentBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// IDs returns the member ids in batch order
func (b *FragmentBatch) IDs() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.order...)
}

// Members returns copies of the members in batch order
func (b *FragmentBatch) Members() []*fragment.Coded {
	out := make([]*fragment.Coded, 0, b.Len())
	for _, cf := range b.members() {
		out = append(out, cf.Clone())
	}
	return out
}

func (b *FragmentBatch) members() []*fragment.Coded {
	if b == nil {
		return nil
	}
	out := make([]*fragment.Coded, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

// MarshalJSON encodes the batch as {id: coded fragment, ...}
func (b *FragmentBatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]*fragment.Coded, b.Len())
	for _, cf := range b.members() {
		out[cf.ID()] = cf
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes {id: coded fragment, ...}. Every key must match the
// id of its value. Members are ordered by id.
func (b *FragmentBatch) UnmarshalJSON(data []byte) error {
	var raw map[string]*fragment.Coded
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return fmt.Errorf("batch is not an object: %w", ErrMalformed)
	}
	ids := make([]string, 0, len(raw))
	for id, cf := range raw {
		if cf == nil || cf.ID() != id {
			return fmt.Errorf("batch key %q does not match its fragment: %w", id, ErrMalformed)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fresh := NewFragmentBatch()
	for _, id := range ids {
		fresh.Add(raw[id])
	}
	*b = *fresh
	return nil
}

// MarshalBinary encodes the batch as a protobuf FragmentBatch in batch order
func (b *FragmentBatch) MarshalBinary() ([]byte, error) {
	m := &pb.FragmentBatch{}
	for _, cf := range b.members() {
		m.Members = append(m.Members, cf.ToProto())
	}
	return proto.Marshal(m)
}

// UnmarshalBinary decodes a protobuf FragmentBatch. Duplicate ids replace
// earlier members.
func (b *FragmentBatch) UnmarshalBinary(data []byte) error {
	var m pb.FragmentBatch
	if err := proto.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	fresh := NewFragmentBatch()
	for _, pm := range m.GetMembers() {
		cf, err := fragment.CodedFromProto(pm)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		fresh.Add(cf)
	}
	*b = *fresh
	return nil
}
