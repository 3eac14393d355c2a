package fragment

import (
	"fmt"

	"github.com/ppopth/coded-caching/pb"
)

// ToProto converts f to its wire message
func (f Fragment) ToProto() *pb.Fragment {
	return &pb.Fragment{
		Tag:     &pb.Tag{FileId: f.Tag.FileID, SubfileId: f.Tag.SubfileID},
		Size:    int64(f.Size),
		Content: append([]byte(nil), f.Content...),
	}
}

// FragmentFromProto converts a wire message back to a validated fragment
func FragmentFromProto(m *pb.Fragment) (Fragment, error) {
	if m == nil || m.GetTag() == nil {
		return Fragment{}, fmt.Errorf("fragment message without tag: %w", ErrMalformed)
	}
	f := Fragment{
		Tag:     Tag{FileID: m.GetTag().GetFileId(), SubfileID: m.GetTag().GetSubfileId()},
		Size:    int(m.GetSize()),
		Content: append([]byte{}, m.GetContent()...),
	}
	if err := f.Validate(); err != nil {
		return Fragment{}, err
	}
	return f, nil
}

// ToProto converts c to its wire message
func (c *Coded) ToProto() *pb.CodedFragment {
	m := &pb.CodedFragment{
		Id:      c.ID(),
		Size:    int64(c.size),
		Content: c.Content(),
	}
	for _, t := range c.Brief() {
		m.Brief = append(m.Brief, &pb.Tag{FileId: t.FileID, SubfileId: t.SubfileID})
	}
	return m
}

// CodedFromProto converts a wire message back to a coded fragment, checking
// its id and size the same way UnmarshalJSON does
func CodedFromProto(m *pb.CodedFragment) (*Coded, error) {
	if m == nil {
		return nil, fmt.Errorf("nil coded fragment message: %w", ErrMalformed)
	}
	tags := make([]Tag, 0, len(m.GetBrief()))
	for _, t := range m.GetBrief() {
		if t == nil {
			return nil, fmt.Errorf("nil tag in brief: %w", ErrMalformed)
		}
		tags = append(tags, Tag{FileID: t.GetFileId(), SubfileID: t.GetSubfileId()})
	}
	return assemble(m.GetId(), int(m.GetSize()), tags, m.GetContent())
}
