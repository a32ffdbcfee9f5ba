package libtri

import (
	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// TriDef is the wire form of a triangulation.
type TriDef struct {
	Dim       int32         `protobuf:"varint,1,opt,name=Dim,proto3" json:"Dim,omitempty"`
	Simplices []*SimplexDef `protobuf:"bytes,2,rep,name=Simplices,proto3" json:"Simplices,omitempty"`
	Sig       string        `protobuf:"bytes,3,opt,name=Sig,proto3" json:"Sig,omitempty"`
	Name      string        `protobuf:"bytes,4,opt,name=Name,proto3" json:"Name,omitempty"`
}

func (m *TriDef) Reset()         { *m = TriDef{} }
func (m *TriDef) String() string { return proto.CompactTextString(m) }
func (*TriDef) ProtoMessage()    {}

// SimplexDef holds one simplex: for each facet, the adjacent simplex index (-1 for boundary)
// and the packed gluing permutation.
type SimplexDef struct {
	Desc    string   `protobuf:"bytes,1,opt,name=Desc,proto3" json:"Desc,omitempty"`
	Adj     []int32  `protobuf:"zigzag32,2,rep,packed,name=Adj,proto3" json:"Adj,omitempty"`
	Gluings []uint64 `protobuf:"varint,3,rep,packed,name=Gluings,proto3" json:"Gluings,omitempty"`
}

func (m *SimplexDef) Reset()         { *m = SimplexDef{} }
func (m *SimplexDef) String() string { return proto.CompactTextString(m) }
func (*SimplexDef) ProtoMessage()    {}

// MarshalDef exports the current labelling of this triangulation.
func (tri *Triangulation) MarshalDef() *TriDef {
	def := &TriDef{
		Dim:       int32(tri.dim),
		Simplices: make([]*SimplexDef, len(tri.simplices)),
	}
	for i, simp := range tri.simplices {
		sd := &SimplexDef{
			Desc:    simp.desc,
			Adj:     make([]int32, tri.dim+1),
			Gluings: make([]uint64, tri.dim+1),
		}
		for f, adj := range simp.adj {
			if adj == nil {
				sd.Adj[f] = -1
				continue
			}
			sd.Adj[f] = int32(adj.index)
			sd.Gluings[f] = simp.gluing[f].Pack()
		}
		def.Simplices[i] = sd
	}
	return def
}

// Marshal encodes this triangulation as a protobuf TriDef.
func (tri *Triangulation) Marshal() ([]byte, error) {
	return proto.Marshal(tri.MarshalDef())
}

// NewFromDef rebuilds a triangulation from def, checking that both sides of every gluing agree.
func NewFromDef(def *TriDef) (*Triangulation, error) {
	tri, err := New(int(def.Dim))
	if err != nil {
		return nil, err
	}
	n := len(def.Simplices)
	dim := tri.dim

	span := tri.StartChanges()
	defer span.End()

	for _, sd := range def.Simplices {
		if len(sd.Adj) != dim+1 || len(sd.Gluings) != dim+1 {
			return nil, errors.Wrapf(gotri.ErrUnmarshal, "simplex %d has %d facets", len(tri.simplices), len(sd.Adj))
		}
		tri.newSimplex(sd.Desc)
	}
	for i, sd := range def.Simplices {
		simp := tri.simplices[i]
		for f, adjIdx := range sd.Adj {
			if adjIdx < 0 {
				continue
			}
			if int(adjIdx) >= n {
				return nil, errors.Wrapf(gotri.ErrUnmarshal, "simplex %d facet %d: adjacent %d out of range", i, f, adjIdx)
			}
			g, err := perm.FromPack(dim+1, sd.Gluings[f])
			if err != nil {
				return nil, errors.Wrapf(gotri.ErrUnmarshal, "simplex %d facet %d: %v", i, f, err)
			}
			adj := tri.simplices[adjIdx]
			af := g.Image(f)
			if adj == simp && af == f {
				return nil, errors.Wrapf(gotri.ErrUnmarshal, "simplex %d facet %d glued to itself", i, f)
			}
			back := def.Simplices[adjIdx]
			if back.Adj[af] != int32(i) || back.Gluings[af] != g.Inverse().Pack() {
				return nil, errors.Wrapf(gotri.ErrUnmarshal, "simplex %d facet %d: gluing is not symmetric", i, f)
			}
			simp.adj[f], simp.gluing[f] = adj, g
		}
	}
	return tri, nil
}

// Unmarshal decodes a protobuf TriDef produced by Marshal.
func Unmarshal(buf []byte) (*Triangulation, error) {
	var def TriDef
	if err := proto.Unmarshal(buf, &def); err != nil {
		return nil, errors.Wrap(gotri.ErrUnmarshal, err.Error())
	}
	return NewFromDef(&def)
}
