package parser

import (
	"fmt"
)

// minRingVertices is the smallest number of distinct vertices a ring can have
const minRingVertices = 3

// ValidateCoordinate rejects NaN and infinite components
func ValidateCoordinate(v Vector3) error {
	if !v.IsFinite() {
		return fmt.Errorf("coordinate %v is not finite", v)
	}
	return nil
}

// ValidateGeometry checks a resolved geometry against the CityJSON boundary rules
// that index resolution alone cannot catch.
func ValidateGeometry(objectID string, g *Geometry) error {
	if g == nil {
		return &ErrInvalidGeometry{ObjectID: objectID, Reason: "geometry is nil"}
	}

	for i, v := range g.Vertices() {
		if err := ValidateCoordinate(v); err != nil {
			return &ErrInvalidGeometry{
				ObjectID: objectID,
				Type:     g.Type,
				Reason:   fmt.Sprintf("vertex %d: %v", i, err),
			}
		}
	}

	switch g.Type {
	case GeometryTypeMultiLineString:
		for i, line := range g.Lines {
			if len(line) < 2 {
				return &ErrInvalidGeometry{
					ObjectID: objectID,
					Type:     g.Type,
					Reason:   fmt.Sprintf("linestring %d has %d vertices, need at least 2", i, len(line)),
				}
			}
		}

	case GeometryTypeSolid, GeometryTypeMultiSolid, GeometryTypeCompositeSolid:
		for i, solid := range g.Solids {
			if len(solid) == 0 {
				return &ErrInvalidGeometry{
					ObjectID: objectID,
					Type:     g.Type,
					Reason:   fmt.Sprintf("solid %d has no exterior shell", i),
				}
			}
		}
	}

	for i, surface := range g.AllSurfaces() {
		if len(surface) == 0 {
			return &ErrInvalidGeometry{
				ObjectID: objectID,
				Type:     g.Type,
				Reason:   fmt.Sprintf("surface %d has no exterior ring", i),
			}
		}
		for j, ring := range surface {
			if len(ring) < minRingVertices {
				return &ErrInvalidGeometry{
					ObjectID: objectID,
					Type:     g.Type,
					Reason:   fmt.Sprintf("surface %d ring %d has %d vertices, need at least %d", i, j, len(ring), minRingVertices),
				}
			}
		}
	}

	return nil
}

// ValidateCityObject validates every geometry of a city object
func ValidateCityObject(obj *CityObject) error {
	if obj == nil {
		return fmt.Errorf("city object is nil")
	}
	if obj.ID() == "" {
		return &ErrInvalidCityObject{Reason: "empty id"}
	}
	for i := range obj.geometry {
		if err := ValidateGeometry(obj.id, &obj.geometry[i]); err != nil {
			return fmt.Errorf("geometry %d: %w", i, err)
		}
	}
	return nil
}
