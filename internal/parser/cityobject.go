package parser

import (
	"encoding/json"
)

// CityObject is one entry of the CityObjects map.
//
// Parent and child links are lookups into the same document's object set; the
// document owns every CityObject.
type CityObject struct {
	id         string
	objectType string
	raw        json.RawMessage
	attributes json.RawMessage
	parentIDs  []string
	geometry   []Geometry

	parents  []*CityObject
	children []*CityObject
}

// ID returns the CityObjects key of this object.
func (c *CityObject) ID() string { return c.id }

// Type returns the CityJSON object type, e.g. "Building" or "BuildingPart".
func (c *CityObject) Type() string { return c.objectType }

// Raw returns the object's JSON exactly as it appeared in the document.
func (c *CityObject) Raw() json.RawMessage { return c.raw }

// Attributes returns the raw attributes member, or nil.
func (c *CityObject) Attributes() json.RawMessage { return c.attributes }

// Geometry returns the interpreted geometry.
func (c *CityObject) Geometry() []Geometry { return c.geometry }

// ParentIDs returns the ids listed in the parents member.
func (c *CityObject) ParentIDs() []string { return c.parentIDs }

// Parents returns the resolved parent objects in parents order.
func (c *CityObject) Parents() []*CityObject { return c.parents }

// Children returns every object that lists this object as a parent, in document order.
func (c *CityObject) Children() []*CityObject { return c.children }

// Bounds returns the box around all geometry of the object.
func (c *CityObject) Bounds() (Box, bool) {
	var (
		box   Box
		found bool
	)
	for _, g := range c.geometry {
		b, ok := g.Bounds()
		if !ok {
			continue
		}
		if !found {
			box, found = b, true
			continue
		}
		box = box.Extend(b.Min).Extend(b.Max)
	}
	return box, found
}

// cityObjectNode holds the members the core reads from a city object
type cityObjectNode struct {
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
	Geometry   json.RawMessage `json:"geometry"`
	Parents    json.RawMessage `json:"parents"`
}

// newCityObject decodes one CityObjects entry and hands its geometry to the interpreter
func newCityObject(id string, raw json.RawMessage, crs CoordinateSystem, vertices []Vector3, interp GeometryInterpreter) (*CityObject, error) {
	var node cityObjectNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, &ErrInvalidCityObject{ID: id, Reason: "must be a JSON object"}
	}

	obj := &CityObject{
		id:         id,
		objectType: node.Type,
		raw:        raw,
		attributes: node.Attributes,
	}

	if !isNull(node.Parents) {
		if err := json.Unmarshal(node.Parents, &obj.parentIDs); err != nil {
			return nil, &ErrInvalidCityObject{ID: id, Reason: "parents must be an array of ids"}
		}
	}

	if interp != nil {
		geometry, err := interp.Interpret(id, node.Geometry, crs, vertices)
		if err != nil {
			return nil, err
		}
		obj.geometry = geometry
	}

	return obj, nil
}

// parseCityObjects is pass 1: one CityObject per key, in document order.
func parseCityObjects(raw json.RawMessage, crs CoordinateSystem, vertices []Vector3, interp GeometryInterpreter) ([]*CityObject, map[string]*CityObject, error) {
	objects := make([]*CityObject, 0)
	byID := make(map[string]*CityObject)
	if isNull(raw) {
		return objects, byID, nil
	}

	members, err := decodeMembers(raw)
	if err != nil {
		return nil, nil, &ErrInvalidFormat{Reason: "CityObjects must be a JSON object"}
	}

	for _, m := range members {
		if _, exists := byID[m.Key]; exists {
			return nil, nil, &ErrDuplicateObjectID{ID: m.Key}
		}
		obj, err := newCityObject(m.Key, m.Value, crs, vertices, interp)
		if err != nil {
			return nil, nil, err
		}
		objects = append(objects, obj)
		byID[m.Key] = obj
	}

	return objects, byID, nil
}

// linkCityObjects is pass 2. A child may precede its parent in the document, so
// links can only be resolved once every object exists. The id index makes this
// linear in the total number of parent references.
func linkCityObjects(objects []*CityObject, byID map[string]*CityObject) error {
	for _, obj := range objects {
		parents := make([]*CityObject, len(obj.parentIDs))
		for i, parentID := range obj.parentIDs {
			parent, ok := byID[parentID]
			if !ok {
				return &ErrDanglingParentReference{ChildID: obj.id, ParentID: parentID}
			}
			parents[i] = parent
		}
		obj.parents = parents
	}

	// Children are the reverse edges, appended in child document order
	for _, obj := range objects {
		for _, parent := range obj.parents {
			parent.children = append(parent.children, obj)
		}
	}

	return nil
}
