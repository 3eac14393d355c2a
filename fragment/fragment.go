// Package fragment defines the addressable data units of a coded-caching
// system: plain fragments and their XOR combinations.
package fragment

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleSize is returned when combining fragments of different sizes
	ErrIncompatibleSize = errors.New("incompatible fragment size")
	// ErrMalformed is returned for structurally invalid fragments or encodings
	ErrMalformed = errors.New("malformed fragment")
)

// Tag identifies a fragment: subfile SubfileID of file FileID
type Tag struct {
	FileID    int64
	SubfileID int64
}

// String returns the canonical form "fileId-subfileId" used for ids
func (t Tag) String() string {
	return fmt.Sprintf("%d-%d", t.FileID, t.SubfileID)
}

// Fragment is an uncoded piece of a file
type Fragment struct {
	Tag     Tag
	Size    int
	Content []byte
}

// New returns a fragment holding a copy of content
func New(tag Tag, content []byte) Fragment {
	return Fragment{
		Tag:     tag,
		Size:    len(content),
		Content: append([]byte(nil), content...),
	}
}

// Validate checks that the content length matches the declared size
func (f Fragment) Validate() error {
	if f.Size < 0 {
		return fmt.Errorf("fragment %s has negative size %d: %w", f.Tag, f.Size, ErrMalformed)
	}
	if len(f.Content) != f.Size {
		return fmt.Errorf("fragment %s has %d content bytes, size %d: %w", f.Tag, len(f.Content), f.Size, ErrMalformed)
	}
	return nil
}

// Equal reports whether both fragments carry the same tag and content
func (f Fragment) Equal(o Fragment) bool {
	return f.Tag == o.Tag && f.Size == o.Size && string(f.Content) == string(o.Content)
}

func (f Fragment) String() string {
	return fmt.Sprintf("%s(%d bytes)", f.Tag, f.Size)
}
