package fragment

import (
	"encoding/json"
	"fmt"
)

type fragmentJSON struct {
	ID          []int64 `json:"id"`
	SubfileSize *int    `json:"subfileSize"`
	Content     *[]byte `json:"content"`
}

type codedJSON struct {
	ID      *string   `json:"id"`
	Size    *int      `json:"size"`
	Subfile [][]int64 `json:"subfile"`
	Content *[]byte   `json:"content"`
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func tagFromPair(pair []int64) (Tag, error) {
	if len(pair) != 2 {
		return Tag{}, fmt.Errorf("tag has %d components, expected 2: %w", len(pair), ErrMalformed)
	}
	return Tag{FileID: pair[0], SubfileID: pair[1]}, nil
}

// MarshalJSON encodes f as {"id": [fileId, subfileId], "subfileSize": n, "content": base64}
func (f Fragment) MarshalJSON() ([]byte, error) {
	size := f.Size
	content := nonNil(f.Content)
	return json.Marshal(fragmentJSON{
		ID:          []int64{f.Tag.FileID, f.Tag.SubfileID},
		SubfileSize: &size,
		Content:     &content,
	})
}

// UnmarshalJSON decodes a fragment and rejects missing keys or a size mismatch.
// f is left untouched on error.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	var raw fragmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%v: %w", err, ErrMalformed)
	}
	if raw.ID == nil || raw.SubfileSize == nil || raw.Content == nil {
		return fmt.Errorf("fragment is missing id, subfileSize or content: %w", ErrMalformed)
	}
	tag, err := tagFromPair(raw.ID)
	if err != nil {
		return err
	}
	decoded := Fragment{Tag: tag, Size: *raw.SubfileSize, Content: *raw.Content}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*f = decoded
	return nil
}

// MarshalJSON encodes c as {"id": hex, "size": n, "subfile": [[f, s], ...], "content": base64}
func (c *Coded) MarshalJSON() ([]byte, error) {
	id := c.ID()
	size := c.size
	content := nonNil(c.content)
	subfile := make([][]int64, 0, len(c.brief))
	for _, t := range c.Brief() {
		subfile = append(subfile, []int64{t.FileID, t.SubfileID})
	}
	return json.Marshal(codedJSON{
		ID:      &id,
		Size:    &size,
		Subfile: subfile,
		Content: &content,
	})
}

// UnmarshalJSON decodes a coded fragment. The id must match the brief and the
// content length must match the size. c is left untouched on error.
func (c *Coded) UnmarshalJSON(data []byte) error {
	var raw codedJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%v: %w", err, ErrMalformed)
	}
	if raw.ID == nil || raw.Size == nil || raw.Subfile == nil || raw.Content == nil {
		return fmt.Errorf("coded fragment is missing id, size, subfile or content: %w", ErrMalformed)
	}
	tags := make([]Tag, 0, len(raw.Subfile))
	for _, pair := range raw.Subfile {
		tag, err := tagFromPair(pair)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	decoded, err := assemble(*raw.ID, *raw.Size, tags, *raw.Content)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

// assemble rebuilds a coded fragment from its serialized parts
func assemble(id string, size int, tags []Tag, content []byte) (*Coded, error) {
	if size < 0 || len(content) != size {
		return nil, fmt.Errorf("coded fragment has %d content bytes, size %d: %w", len(content), size, ErrMalformed)
	}
	if len(tags) == 0 && size != 0 {
		return nil, fmt.Errorf("empty coded fragment with size %d: %w", size, ErrMalformed)
	}
	c := &Coded{
		brief:   make(map[Tag]struct{}, len(tags)),
		size:    size,
		content: append([]byte(nil), content...),
	}
	for _, t := range tags {
		if _, dup := c.brief[t]; dup {
			return nil, fmt.Errorf("tag %s listed twice: %w", t, ErrMalformed)
		}
		c.brief[t] = struct{}{}
	}
	if len(tags) == 0 {
		c.content = nil
	}
	if got := c.ID(); got != id {
		return nil, fmt.Errorf("id %q does not match brief digest %q: %w", id, got, ErrMalformed)
	}
	return c, nil
}
