package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GeometryType is the CityJSON geometry type name
type GeometryType string

const (
	GeometryTypeMultiPoint       GeometryType = "MultiPoint"
	GeometryTypeMultiLineString  GeometryType = "MultiLineString"
	GeometryTypeMultiSurface     GeometryType = "MultiSurface"
	GeometryTypeCompositeSurface GeometryType = "CompositeSurface"
	GeometryTypeSolid            GeometryType = "Solid"
	GeometryTypeMultiSolid       GeometryType = "MultiSolid"
	GeometryTypeCompositeSolid   GeometryType = "CompositeSolid"
	GeometryTypeInstance         GeometryType = "GeometryInstance"
)

// Ring is a closed sequence of vertices; the closing vertex is not repeated
type Ring []Vector3

// Surface is an exterior ring followed by zero or more interior rings
type Surface []Ring

// Exterior returns the outer ring, or nil for an empty surface.
func (s Surface) Exterior() Ring {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Shell is a closed set of surfaces bounding a volume
type Shell []Surface

// Solid is an exterior shell followed by zero or more interior shells (cavities)
type Solid []Shell

// Geometry is one resolved entry of a city object's geometry array.
//
// Exactly one of Points, Lines, Surfaces or Solids is populated depending on Type.
// GeometryInstance entries reference geometry-templates, which are kept opaque, so
// only Template and the raw boundaries are retained for them.
type Geometry struct {
	Type     GeometryType
	LOD      string
	Points   []Vector3
	Lines    [][]Vector3
	Surfaces []Surface
	Solids   []Solid

	// Template is the geometry-templates index of a GeometryInstance
	Template int
	// Semantics is the raw semantics object, not interpreted here
	Semantics json.RawMessage
}

// AllSurfaces returns every surface, flattening solids and shells.
func (g Geometry) AllSurfaces() []Surface {
	if len(g.Solids) == 0 {
		return g.Surfaces
	}
	out := make([]Surface, 0)
	for _, solid := range g.Solids {
		for _, shell := range solid {
			out = append(out, shell...)
		}
	}
	return out
}

// Vertices returns every coordinate the geometry references, in boundary order.
func (g Geometry) Vertices() []Vector3 {
	out := make([]Vector3, 0, len(g.Points))
	out = append(out, g.Points...)
	for _, line := range g.Lines {
		out = append(out, line...)
	}
	for _, surface := range g.AllSurfaces() {
		for _, ring := range surface {
			out = append(out, ring...)
		}
	}
	return out
}

// Bounds returns the box around the geometry. ok is false when it has no coordinates.
func (g Geometry) Bounds() (Box, bool) {
	return boundsOf(g.Vertices())
}

// GeometryInterpreter turns the raw geometry member of a city object into a
// renderable representation. It is invoked once per city object, after vertex
// decoding and before parent linking.
type GeometryInterpreter interface {
	Interpret(objectID string, geometry json.RawMessage, crs CoordinateSystem, vertices []Vector3) ([]Geometry, error)
}

// ParseCompleter is implemented by interpreters that need to know when every
// city object of a document has been linked.
type ParseCompleter interface {
	ParseCompleted(obj *CityObject)
}

// BoundaryInterpreter resolves CityJSON boundary arrays against the vertex list.
// Coordinates stay in the document's reference system.
type BoundaryInterpreter struct{}

// geometryNode is the raw form of one geometry array entry
type geometryNode struct {
	Type       GeometryType    `json:"type"`
	LOD        json.RawMessage `json:"lod"`
	Boundaries json.RawMessage `json:"boundaries"`
	Semantics  json.RawMessage `json:"semantics"`
	Template   *int            `json:"template"`
}

// Interpret decodes every geometry object of a city object.
func (BoundaryInterpreter) Interpret(objectID string, geometry json.RawMessage, crs CoordinateSystem, vertices []Vector3) ([]Geometry, error) {
	if isNull(geometry) {
		return nil, nil
	}

	var nodes []geometryNode
	if err := json.Unmarshal(geometry, &nodes); err != nil {
		return nil, &ErrInvalidGeometry{ObjectID: objectID, Reason: "geometry must be an array of geometry objects"}
	}

	r := &boundaryResolver{objectID: objectID, vertices: vertices}
	result := make([]Geometry, 0, len(nodes))
	for i, node := range nodes {
		g, err := r.resolve(node)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		result = append(result, g)
	}
	return result, nil
}

// boundaryResolver maps vertex indices of one city object to coordinates
type boundaryResolver struct {
	objectID string
	vertices []Vector3
}

func (r *boundaryResolver) invalid(t GeometryType, reason string) error {
	return &ErrInvalidGeometry{ObjectID: r.objectID, Type: t, Reason: reason}
}

func (r *boundaryResolver) resolve(node geometryNode) (Geometry, error) {
	g := Geometry{
		Type:      node.Type,
		LOD:       parseLOD(node.LOD),
		Semantics: node.Semantics,
	}

	switch node.Type {
	case GeometryTypeMultiPoint:
		var b []int
		if err := json.Unmarshal(node.Boundaries, &b); err != nil {
			return g, r.invalid(node.Type, "boundaries must be an array of vertex indices")
		}
		pts, err := r.ring(b)
		if err != nil {
			return g, err
		}
		g.Points = pts

	case GeometryTypeMultiLineString:
		var b [][]int
		if err := json.Unmarshal(node.Boundaries, &b); err != nil {
			return g, r.invalid(node.Type, "boundaries must be an array of linestrings")
		}
		for _, line := range b {
			pts, err := r.ring(line)
			if err != nil {
				return g, err
			}
			g.Lines = append(g.Lines, pts)
		}

	case GeometryTypeMultiSurface, GeometryTypeCompositeSurface:
		var b [][][]int
		if err := json.Unmarshal(node.Boundaries, &b); err != nil {
			return g, r.invalid(node.Type, "boundaries must be an array of surfaces")
		}
		surfaces, err := r.surfaces(b)
		if err != nil {
			return g, err
		}
		g.Surfaces = surfaces

	case GeometryTypeSolid:
		var b [][][][]int
		if err := json.Unmarshal(node.Boundaries, &b); err != nil {
			return g, r.invalid(node.Type, "boundaries must be an array of shells")
		}
		solid, err := r.solid(b)
		if err != nil {
			return g, err
		}
		g.Solids = []Solid{solid}

	case GeometryTypeMultiSolid, GeometryTypeCompositeSolid:
		var b [][][][][]int
		if err := json.Unmarshal(node.Boundaries, &b); err != nil {
			return g, r.invalid(node.Type, "boundaries must be an array of solids")
		}
		for _, sb := range b {
			solid, err := r.solid(sb)
			if err != nil {
				return g, err
			}
			g.Solids = append(g.Solids, solid)
		}

	case GeometryTypeInstance:
		if node.Template == nil {
			return g, r.invalid(node.Type, "missing template index")
		}
		g.Template = *node.Template
		// Reference point is a single vertex index
		var b []int
		if err := json.Unmarshal(node.Boundaries, &b); err == nil {
			pts, err := r.ring(b)
			if err != nil {
				return g, err
			}
			g.Points = pts
		}

	case "":
		return g, r.invalid("", "missing geometry type")

	default:
		return g, r.invalid(node.Type, "unsupported geometry type")
	}

	return g, nil
}

func (r *boundaryResolver) ring(indices []int) ([]Vector3, error) {
	out := make([]Vector3, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(r.vertices) {
			return nil, &ErrVertexIndexOutOfRange{ObjectID: r.objectID, Index: idx, Count: len(r.vertices)}
		}
		out[i] = r.vertices[idx]
	}
	return out, nil
}

func (r *boundaryResolver) surfaces(b [][][]int) ([]Surface, error) {
	out := make([]Surface, 0, len(b))
	for _, sb := range b {
		surface := make(Surface, 0, len(sb))
		for _, rb := range sb {
			ring, err := r.ring(rb)
			if err != nil {
				return nil, err
			}
			surface = append(surface, ring)
		}
		out = append(out, surface)
	}
	return out, nil
}

func (r *boundaryResolver) solid(b [][][][]int) (Solid, error) {
	solid := make(Solid, 0, len(b))
	for _, shellBoundaries := range b {
		surfaces, err := r.surfaces(shellBoundaries)
		if err != nil {
			return nil, err
		}
		solid = append(solid, Shell(surfaces))
	}
	return solid, nil
}

// parseLOD accepts both the numeric (1.0) and string (1.1) lod encodings
func parseLOD(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
