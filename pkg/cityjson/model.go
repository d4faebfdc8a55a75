package cityjson

import (
	"encoding/json"

	"github.com/beetlebugorg/cityjson/internal/parser"
	"github.com/beetlebugorg/cityjson/pkg/coordconv"
)

// Model is a parsed CityJSON document with a spatial index over its city objects.
//
// Document accessors (Version, CityObjects, Extent, ExtensionNodes, ...) are
// available directly on the model.
type Model struct {
	*Document
	index    *spatialIndex
	position map[*CityObject]int
}

// newModel indexes a parsed document
func newModel(doc *Document) *Model {
	m := &Model{
		Document: doc,
		position: make(map[*CityObject]int, len(doc.CityObjects())),
	}
	for i, obj := range doc.CityObjects() {
		m.position[obj] = i
	}
	m.index = buildSpatialIndex(doc.CityObjects())
	return m
}

// ObjectCount returns the number of city objects.
func (m *Model) ObjectCount() int {
	return len(m.CityObjects())
}

// Roots returns the objects without parents, in document order.
func (m *Model) Roots() []*CityObject {
	roots := make([]*CityObject, 0)
	for _, obj := range m.CityObjects() {
		if len(obj.Parents()) == 0 {
			roots = append(roots, obj)
		}
	}
	return roots
}

// Descendants returns every object below id in breadth-first order. Objects
// reachable through several parents are listed once.
func (m *Model) Descendants(id string) []*CityObject {
	start, ok := m.CityObject(id)
	if !ok {
		return nil
	}

	seen := map[*CityObject]bool{start: true}
	queue := []*CityObject{start}
	result := make([]*CityObject, 0)
	for len(queue) > 0 {
		obj := queue[0]
		queue = queue[1:]
		for _, child := range obj.Children() {
			if seen[child] {
				continue
			}
			seen[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result
}

// ObjectsOfType returns the objects with the given CityJSON type.
func (m *Model) ObjectsOfType(objectType string) []*CityObject {
	result := make([]*CityObject, 0)
	for _, obj := range m.CityObjects() {
		if obj.Type() == objectType {
			result = append(result, obj)
		}
	}
	return result
}

// Center returns the center of the model extent. ok is false when the extent is absent.
func (m *Model) Center() (Vector3, bool) {
	box, ok := m.Extent()
	if !ok {
		return Vector3{}, false
	}
	return box.Center(), true
}

// PublishRelativeCenter sets conv's relative center to the center of an RD
// model. It reports whether the center was published.
func (m *Model) PublishRelativeCenter(conv *coordconv.Converter) bool {
	center, ok := m.Center()
	if !ok || m.CoordinateSystem() != CoordinateSystemRD {
		return false
	}
	conv.SetRelativeCenter(center.X, center.Y, center.Z)
	return true
}

// ToLocal converts a model coordinate to the converter's local frame.
// Coordinates of unrecognized systems are already local and returned as-is.
func (m *Model) ToLocal(conv *coordconv.Converter, v Vector3) coordconv.Vector3Local {
	switch m.CoordinateSystem() {
	case CoordinateSystemRD:
		return conv.RDToLocal(coordconv.Vector3RD{X: v.X, Y: v.Y, Z: v.Z})
	case CoordinateSystemWGS84:
		return conv.WGS84ToLocal(coordconv.Vector3WGS84{Lon: v.X, Lat: v.Y, H: v.Z})
	default:
		return coordconv.Vector3Local{X: v.X, Y: v.Z, Z: v.Y}
	}
}

// RemoveExtensionNodes removes extension nodes by key and returns how many were removed.
func (m *Model) RemoveExtensionNodes(keys ...string) int {
	return parser.RemoveExtensionNodes(m.Document, keys...)
}

// AddExtensionNode stores a raw top-level member to be written on export.
func (m *Model) AddExtensionNode(key string, value json.RawMessage) error {
	return parser.AddExtensionNode(m.Document, key, value)
}

// RemoveExtensionNodes removes extension nodes from doc by key.
func RemoveExtensionNodes(doc *Document, keys ...string) int {
	return parser.RemoveExtensionNodes(doc, keys...)
}

// AddExtensionNode stores a raw top-level member on doc.
func AddExtensionNode(doc *Document, key string, value json.RawMessage) error {
	return parser.AddExtensionNode(doc, key, value)
}
