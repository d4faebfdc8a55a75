package parser

import (
	"encoding/json"
)

// Document is a parsed CityJSON file.
// This is the top-level structure returned by the parser.
type Document struct {
	version           string
	versionRaw        json.RawMessage
	extensions        json.RawMessage
	metadata          json.RawMessage
	appearance        json.RawMessage
	geometryTemplates json.RawMessage

	transform        Transform
	coordinateSystem CoordinateSystem
	extent           Box
	hasExtent        bool

	vertices       []Vector3
	cityObjects    []*CityObject
	objectsByID    map[string]*CityObject
	extensionNodes []ExtensionNode
	warnings       []Warning
}

// Version returns the CityJSON version. Informational only. A version written
// as a JSON number is returned as its literal text, e.g. "1.0".
func (d *Document) Version() string { return d.version }

// VersionRaw returns the version member exactly as it appeared, or nil.
func (d *Document) VersionRaw() json.RawMessage { return d.versionRaw }

// Transform returns the vertex transform that was applied while parsing.
func (d *Document) Transform() Transform { return d.transform }

// TransformScale returns the transform scale, (1,1,1) when absent.
func (d *Document) TransformScale() Vector3 { return d.transform.Scale }

// TransformTranslate returns the transform translation, (0,0,0) when absent.
func (d *Document) TransformTranslate() Vector3 { return d.transform.Translate }

// CoordinateSystem returns the resolved reference system.
func (d *Document) CoordinateSystem() CoordinateSystem { return d.coordinateSystem }

// Extent returns the bounding box of the model. ok is false when the document had
// neither a geographicalExtent nor any vertices; the box is then meaningless.
func (d *Document) Extent() (box Box, ok bool) { return d.extent, d.hasExtent }

// MinExtent returns the lower corner of the extent. It is the zero vector when
// the extent is absent; check the ok result of Extent first.
func (d *Document) MinExtent() Vector3 { return d.extent.Min }

// MaxExtent returns the upper corner of the extent. It is the zero vector when
// the extent is absent; check the ok result of Extent first.
func (d *Document) MaxExtent() Vector3 { return d.extent.Max }

// Vertices returns the transformed vertex list. Geometry indices refer to it.
func (d *Document) Vertices() []Vector3 { return d.vertices }

// CityObjects returns all objects in document key order.
func (d *Document) CityObjects() []*CityObject { return d.cityObjects }

// CityObject returns the object with the given id.
func (d *Document) CityObject(id string) (*CityObject, bool) {
	obj, ok := d.objectsByID[id]
	return obj, ok
}

// ExtensionNodes returns a copy of the extension nodes in document order.
func (d *Document) ExtensionNodes() []ExtensionNode {
	out := make([]ExtensionNode, len(d.extensionNodes))
	copy(out, d.extensionNodes)
	return out
}

// ExtensionNode returns the raw value of one extension node.
func (d *Document) ExtensionNode(key string) (json.RawMessage, bool) {
	for _, n := range d.extensionNodes {
		if n.Key == key {
			return n.Value, true
		}
	}
	return nil, false
}

// ExtensionKeys returns the keys of all extension nodes.
func (d *Document) ExtensionKeys() []string {
	keys := make([]string, len(d.extensionNodes))
	for i, n := range d.extensionNodes {
		keys[i] = n.Key
	}
	return keys
}

// Metadata returns the raw metadata member.
func (d *Document) Metadata() json.RawMessage { return d.metadata }

// Extensions returns the raw extensions member.
func (d *Document) Extensions() json.RawMessage { return d.extensions }

// Appearance returns the raw appearance member. Not interpreted.
func (d *Document) Appearance() json.RawMessage { return d.appearance }

// GeometryTemplates returns the raw geometry-templates member. Not interpreted.
func (d *Document) GeometryTemplates() json.RawMessage { return d.geometryTemplates }

// Warnings returns the non-fatal conditions found while parsing.
func (d *Document) Warnings() []Warning { return d.warnings }
