package catalog

import "github.com/gogo/protobuf/proto"

// CatalogState is the catalog's persisted header record.
type CatalogState struct {
	MajorVers int32 `protobuf:"varint,1,opt,name=MajorVers,proto3" json:"MajorVers,omitempty"`
	MinorVers int32 `protobuf:"varint,2,opt,name=MinorVers,proto3" json:"MinorVers,omitempty"`

	// NumEntries[d] is the number of catalogued triangulations of dimension d.
	NumEntries []uint64 `protobuf:"varint,3,rep,packed,name=NumEntries,proto3" json:"NumEntries,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}
