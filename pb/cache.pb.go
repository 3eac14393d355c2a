// Mirror of cache.proto for the table-driven path of
// github.com/gogo/protobuf/proto. `go generate` replaces this file with
// protoc-gen-gogofaster output; cache_test.go fails if the two drift apart.

package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

type Tag struct {
	FileId    int64 `protobuf:"varint,1,opt,name=file_id,json=fileId,proto3" json:"file_id,omitempty"`
	SubfileId int64 `protobuf:"varint,2,opt,name=subfile_id,json=subfileId,proto3" json:"subfile_id,omitempty"`
}

func (m *Tag) Reset()         { *m = Tag{} }
func (m *Tag) String() string { return proto.CompactTextString(m) }
func (*Tag) ProtoMessage()    {}

func (m *Tag) GetFileId() int64 {
	if m != nil {
		return m.FileId
	}
	return 0
}

func (m *Tag) GetSubfileId() int64 {
	if m != nil {
		return m.SubfileId
	}
	return 0
}

type Fragment struct {
	Tag     *Tag   `protobuf:"bytes,1,opt,name=tag,proto3" json:"tag,omitempty"`
	Size    int64  `protobuf:"varint,2,opt,name=size,proto3" json:"size,omitempty"`
	Content []byte `protobuf:"bytes,3,opt,name=content,proto3" json:"content,omitempty"`
}

func (m *Fragment) Reset()         { *m = Fragment{} }
func (m *Fragment) String() string { return proto.CompactTextString(m) }
func (*Fragment) ProtoMessage()    {}

func (m *Fragment) GetTag() *Tag {
	if m != nil {
		return m.Tag
	}
	return nil
}

func (m *Fragment) GetSize() int64 {
	if m != nil {
		return m.Size
	}
	return 0
}

func (m *Fragment) GetContent() []byte {
	if m != nil {
		return m.Content
	}
	return nil
}

type CodedFragment struct {
	Id      string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Size    int64  `protobuf:"varint,2,opt,name=size,proto3" json:"size,omitempty"`
	Brief   []*Tag `protobuf:"bytes,3,rep,name=brief,proto3" json:"brief,omitempty"`
	Content []byte `protobuf:"bytes,4,opt,name=content,proto3" json:"content,omitempty"`
}

func (m *CodedFragment) Reset()         { *m = CodedFragment{} }
func (m *CodedFragment) String() string { return proto.CompactTextString(m) }
func (*CodedFragment) ProtoMessage()    {}

func (m *CodedFragment) GetId() string {
	if m != nil {
		return m.Id
	}
	return ""
}

func (m *CodedFragment) GetSize() int64 {
	if m != nil {
		return m.Size
	}
	return 0
}

func (m *CodedFragment) GetBrief() []*Tag {
	if m != nil {
		return m.Brief
	}
	return nil
}

func (m *CodedFragment) GetContent() []byte {
	if m != nil {
		return m.Content
	}
	return nil
}

type FragmentCache struct {
	Capacity int64            `protobuf:"varint,1,opt,name=capacity,proto3" json:"capacity,omitempty"`
	Z        []*CodedFragment `protobuf:"bytes,2,rep,name=z,proto3" json:"z,omitempty"`
}

func (m *FragmentCache) Reset()         { *m = FragmentCache{} }
func (m *FragmentCache) String() string { return proto.CompactTextString(m) }
func (*FragmentCache) ProtoMessage()    {}

func (m *FragmentCache) GetCapacity() int64 {
	if m != nil {
		return m.Capacity
	}
	return 0
}

func (m *FragmentCache) GetZ() []*CodedFragment {
	if m != nil {
		return m.Z
	}
	return nil
}

type FragmentBatch struct {
	Members []*CodedFragment `protobuf:"bytes,1,rep,name=members,proto3" json:"members,omitempty"`
}

func (m *FragmentBatch) Reset()         { *m = FragmentBatch{} }
func (m *FragmentBatch) String() string { return proto.CompactTextString(m) }
func (*FragmentBatch) ProtoMessage()    {}

func (m *FragmentBatch) GetMembers() []*CodedFragment {
	if m != nil {
		return m.Members
	}
	return nil
}

func init() {
	proto.RegisterType((*Tag)(nil), "codedcaching.Tag")
	proto.RegisterType((*Fragment)(nil), "codedcaching.Fragment")
	proto.RegisterType((*CodedFragment)(nil), "codedcaching.CodedFragment")
	proto.RegisterType((*FragmentCache)(nil), "codedcaching.FragmentCache")
	proto.RegisterType((*FragmentBatch)(nil), "codedcaching.FragmentBatch")
}
