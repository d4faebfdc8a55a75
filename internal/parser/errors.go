package parser

import (
	"fmt"
)

// ErrInvalidFormat indicates the input is not a CityJSON document
type ErrInvalidFormat struct {
	Reason string
}

func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid CityJSON document: %s", e.Reason)
}

// ErrInvalidVertex indicates an entry of the vertices array is not a 3-element numeric array
type ErrInvalidVertex struct {
	Index  int
	Reason string
}

func (e *ErrInvalidVertex) Error() string {
	return fmt.Sprintf("invalid vertex %d: %s", e.Index, e.Reason)
}

// ErrInvalidCityObject indicates a CityObjects entry cannot be decoded
type ErrInvalidCityObject struct {
	ID     string
	Reason string
}

func (e *ErrInvalidCityObject) Error() string {
	return fmt.Sprintf("invalid city object %q: %s", e.ID, e.Reason)
}

// ErrDuplicateObjectID indicates the CityObjects map repeats a key
type ErrDuplicateObjectID struct {
	ID string
}

func (e *ErrDuplicateObjectID) Error() string {
	return fmt.Sprintf("duplicate city object id %q", e.ID)
}

// ErrDanglingParentReference indicates a parents entry names no city object in the document
type ErrDanglingParentReference struct {
	ChildID  string
	ParentID string
}

func (e *ErrDanglingParentReference) Error() string {
	return fmt.Sprintf("city object %q references missing parent %q", e.ChildID, e.ParentID)
}

// ErrVertexIndexOutOfRange indicates a geometry boundary points past the vertex list
type ErrVertexIndexOutOfRange struct {
	ObjectID string
	Index    int
	Count    int
}

func (e *ErrVertexIndexOutOfRange) Error() string {
	return fmt.Sprintf("city object %q: vertex index %d out of range (%d vertices)",
		e.ObjectID, e.Index, e.Count)
}

// ErrInvalidGeometry indicates a geometry object violates CityJSON rules
type ErrInvalidGeometry struct {
	ObjectID string
	Type     GeometryType
	Reason   string
}

func (e *ErrInvalidGeometry) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("city object %q: invalid geometry (%s): %s", e.ObjectID, e.Type, e.Reason)
	}
	return fmt.Sprintf("city object %q: invalid geometry: %s", e.ObjectID, e.Reason)
}

// ErrReservedKey indicates an attempt to store a core CityJSON key as an extension node
type ErrReservedKey struct {
	Key string
}

func (e *ErrReservedKey) Error() string {
	return fmt.Sprintf("%q is a reserved CityJSON key and cannot be an extension node", e.Key)
}

// WarningKind classifies non-fatal parse conditions
type WarningKind int

const (
	// WarningEmptyGeometry: the vertex list is empty, nothing can be visualized
	WarningEmptyGeometry WarningKind = iota + 1
)

// String returns the warning kind name.
func (k WarningKind) String() string {
	switch k {
	case WarningEmptyGeometry:
		return "EmptyGeometry"
	default:
		return "Unknown"
	}
}

// Warning is a non-fatal condition reported alongside a valid document
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
