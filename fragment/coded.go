package fragment

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
)

// IDSeparator joins the canonical tag strings hashed into a coded fragment id
const IDSeparator = ","

// Coded is the XOR combination of a set of same-sized fragments. A tag
// combined twice cancels out. The zero value is an empty accumulator.
type Coded struct {
	brief   map[Tag]struct{}
	size    int
	content []byte

	// generation is bumped on every mutation; id caches the digest of the
	// brief together with the generation it was computed at.
	generation uint64
	id         cachedID
}

type cachedID struct {
	value      string
	generation uint64
	valid      bool
}

// NewCoded combines the given fragments. Duplicate tags are ignored.
func NewCoded(fragments ...Fragment) (*Coded, error) {
	c := &Coded{}
	for _, f := range fragments {
		if err := c.AddFragment(f); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Coded) checkSize(size int) error {
	if len(c.brief) > 0 && size != c.size {
		return fmt.Errorf("size %d does not match %d: %w", size, c.size, ErrIncompatibleSize)
	}
	return nil
}

func (c *Coded) touch() {
	if len(c.brief) == 0 {
		c.size = 0
		c.content = nil
	}
	c.generation++
}

// toggle flips tag in the brief and XORs content into the running content
func (c *Coded) toggle(tag Tag, size int, content []byte) {
	if c.brief == nil {
		c.brief = make(map[Tag]struct{})
	}
	if len(c.brief) == 0 {
		c.size = size
		c.content = make([]byte, size)
	}
	if _, ok := c.brief[tag]; ok {
		delete(c.brief, tag)
	} else {
		c.brief[tag] = struct{}{}
	}
	xorInto(c.content, content)
}

// AddFragment combines f into c. A tag already present is left alone.
func (c *Coded) AddFragment(f Fragment) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := c.checkSize(f.Size); err != nil {
		return err
	}
	if c.Has(f.Tag) {
		return nil
	}
	c.toggle(f.Tag, f.Size, f.Content)
	c.touch()
	return nil
}

// RemoveFragment XORs f out of c. If f's tag is absent it is introduced instead.
func (c *Coded) RemoveFragment(f Fragment) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := c.checkSize(f.Size); err != nil {
		return err
	}
	c.toggle(f.Tag, f.Size, f.Content)
	c.touch()
	return nil
}

// XorWith combines o into c tag by tag. Applying the same operand twice
// restores c.
func (c *Coded) XorWith(o *Coded) error {
	if o == nil || len(o.brief) == 0 {
		return nil
	}
	if err := c.checkSize(o.size); err != nil {
		return err
	}
	if c.brief == nil {
		c.brief = make(map[Tag]struct{})
	}
	if len(c.brief) == 0 {
		c.size = o.size
		c.content = make([]byte, o.size)
	}
	for tag := range o.brief {
		if _, ok := c.brief[tag]; ok {
			delete(c.brief, tag)
		} else {
			c.brief[tag] = struct{}{}
		}
	}
	xorInto(c.content, o.content)
	c.touch()
	return nil
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// Downgrade returns the plain fragment c reduces to when exactly one tag is left
func (c *Coded) Downgrade() (Fragment, bool) {
	if len(c.brief) != 1 {
		return Fragment{}, false
	}
	var tag Tag
	for t := range c.brief {
		tag = t
	}
	return New(tag, c.content), true
}

// ID returns the hex SHA-256 digest of the sorted canonical tags joined with
// IDSeparator. It is recomputed only after a mutation.
func (c *Coded) ID() string {
	if c.id.valid && c.id.generation == c.generation {
		return c.id.value
	}
	c.id = cachedID{value: BriefID(c.Brief()), generation: c.generation, valid: true}
	return c.id.value
}

// BriefID computes the id of any coded fragment whose brief is exactly tags.
// tags may be in any order but must not repeat.
func BriefID(tags []Tag) string {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = t.String()
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, IDSeparator)))
	return hex.EncodeToString(sum[:])
}

// Brief returns the tags of c ordered by their canonical string
func (c *Coded) Brief() []Tag {
	tags := make([]Tag, 0, len(c.brief))
	for t := range c.brief {
		tags = append(tags, t)
	}
	SortTags(tags)
	return tags
}

// SortTags orders tags by their canonical string, the order ids are built in
func SortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].String() < tags[j].String()
	})
}

// Has reports whether tag is part of the combination
func (c *Coded) Has(tag Tag) bool {
	_, ok := c.brief[tag]
	return ok
}

// Len returns the number of tags in the brief
func (c *Coded) Len() int {
	return len(c.brief)
}

// Size returns the shared fragment size, 0 for an empty brief
func (c *Coded) Size() int {
	return c.size
}

// Content returns a copy of the XORed content
func (c *Coded) Content() []byte {
	if c.content == nil {
		return nil
	}
	return append([]byte(nil), c.content...)
}

// Clone returns an independent copy of c
func (c *Coded) Clone() *Coded {
	clone := &Coded{
		size:       c.size,
		content:    c.Content(),
		generation: c.generation,
		id:         c.id,
	}
	if c.brief != nil {
		clone.brief = make(map[Tag]struct{}, len(c.brief))
		for t := range c.brief {
			clone.brief[t] = struct{}{}
		}
	}
	return clone
}

// Equal reports whether both combinations have the same brief, size and content
func (c *Coded) Equal(o *Coded) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.size != o.size || len(c.brief) != len(o.brief) {
		return false
	}
	for t := range c.brief {
		if _, ok := o.brief[t]; !ok {
			return false
		}
	}
	return bytes.Equal(c.content, o.content)
}

func (c *Coded) String() string {
	tags := c.Brief()
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return fmt.Sprintf("{%s}(%d bytes)", strings.Join(parts, IDSeparator), c.size)
}
