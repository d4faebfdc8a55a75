package parser

import (
	"encoding/json"
	"errors"
	"testing"
)

var testVertices = []Vector3{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// TestBoundaryInterpreter tests boundary resolution per geometry type
func TestBoundaryInterpreter(t *testing.T) {
	tests := []struct {
		name         string
		geometry     string
		wantType     GeometryType
		wantLOD      string
		wantSurfaces int
		wantVertices int
	}{
		{
			name:         "MultiPoint",
			geometry:     `[{"type": "MultiPoint", "lod": 1, "boundaries": [0, 6]}]`,
			wantType:     GeometryTypeMultiPoint,
			wantLOD:      "1",
			wantVertices: 2,
		},
		{
			name:         "MultiLineString",
			geometry:     `[{"type": "MultiLineString", "lod": "1.2", "boundaries": [[0, 1], [2, 3, 4]]}]`,
			wantType:     GeometryTypeMultiLineString,
			wantLOD:      "1.2",
			wantVertices: 5,
		},
		{
			name:         "MultiSurface with hole",
			geometry:     `[{"type": "MultiSurface", "lod": 2, "boundaries": [[[0, 1, 2, 3], [4, 5, 6]], [[0, 1, 5]]]}]`,
			wantType:     GeometryTypeMultiSurface,
			wantLOD:      "2",
			wantSurfaces: 2,
			wantVertices: 10,
		},
		{
			name: "Solid cube",
			geometry: `[{"type": "Solid", "lod": 2.2, "boundaries": [[
				[[0, 3, 2, 1]], [[4, 5, 6, 7]], [[0, 1, 5, 4]],
				[[1, 2, 6, 5]], [[2, 3, 7, 6]], [[3, 0, 4, 7]]
			]]}]`,
			wantType:     GeometryTypeSolid,
			wantLOD:      "2.2",
			wantSurfaces: 6,
			wantVertices: 24,
		},
		{
			name: "MultiSolid",
			geometry: `[{"type": "MultiSolid", "lod": 1, "boundaries": [
				[[[[0, 1, 2]], [[0, 2, 3]]]],
				[[[[4, 5, 6]]]]
			]}]`,
			wantType:     GeometryTypeMultiSolid,
			wantLOD:      "1",
			wantSurfaces: 3,
			wantVertices: 9,
		},
		{
			name:         "GeometryInstance",
			geometry:     `[{"type": "GeometryInstance", "template": 3, "boundaries": [7]}]`,
			wantType:     GeometryTypeInstance,
			wantVertices: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BoundaryInterpreter{}.Interpret("obj", json.RawMessage(tt.geometry), CoordinateSystemUnrecognized, testVertices)
			if err != nil {
				t.Fatalf("Interpret() failed: %v", err)
			}
			if len(result) != 1 {
				t.Fatalf("got %d geometries, want 1", len(result))
			}
			g := result[0]
			if g.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", g.Type, tt.wantType)
			}
			if g.LOD != tt.wantLOD {
				t.Errorf("LOD = %q, want %q", g.LOD, tt.wantLOD)
			}
			if got := len(g.AllSurfaces()); got != tt.wantSurfaces {
				t.Errorf("got %d surfaces, want %d", got, tt.wantSurfaces)
			}
			if got := len(g.Vertices()); got != tt.wantVertices {
				t.Errorf("got %d vertices, want %d", got, tt.wantVertices)
			}
		})
	}
}

// TestBoundaryInterpreterErrors tests rejection of bad geometry
func TestBoundaryInterpreterErrors(t *testing.T) {
	tests := []struct {
		name       string
		geometry   string
		wantIndex  bool
		wantReason bool
	}{
		{"index out of range", `[{"type": "MultiSurface", "boundaries": [[[0, 1, 99]]]}]`, true, false},
		{"negative index", `[{"type": "MultiPoint", "boundaries": [-1]}]`, true, false},
		{"unknown type", `[{"type": "Blob", "boundaries": []}]`, false, true},
		{"missing type", `[{"boundaries": []}]`, false, true},
		{"wrong nesting", `[{"type": "Solid", "boundaries": [[0, 1, 2]]}]`, false, true},
		{"instance without template", `[{"type": "GeometryInstance", "boundaries": [0]}]`, false, true},
		{"not an array", `{"type": "MultiPoint"}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BoundaryInterpreter{}.Interpret("obj", json.RawMessage(tt.geometry), CoordinateSystemUnrecognized, testVertices)
			if err == nil {
				t.Fatal("expected error")
			}
			var idxErr *ErrVertexIndexOutOfRange
			if tt.wantIndex && !errors.As(err, &idxErr) {
				t.Errorf("expected ErrVertexIndexOutOfRange, got %v", err)
			}
			var geomErr *ErrInvalidGeometry
			if tt.wantReason && !errors.As(err, &geomErr) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

// TestNoGeometry tests objects without a geometry member
func TestNoGeometry(t *testing.T) {
	result, err := BoundaryInterpreter{}.Interpret("obj", nil, CoordinateSystemRD, testVertices)
	if err != nil {
		t.Fatalf("Interpret() failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil geometry, got %v", result)
	}
}

// TestCityObjectBounds tests the union of geometry bounds
func TestCityObjectBounds(t *testing.T) {
	geometry, err := BoundaryInterpreter{}.Interpret("obj", json.RawMessage(`[
		{"type": "MultiPoint", "boundaries": [0, 2]},
		{"type": "MultiPoint", "boundaries": [6]}
	]`), CoordinateSystemUnrecognized, testVertices)
	if err != nil {
		t.Fatalf("Interpret() failed: %v", err)
	}

	obj := &CityObject{id: "obj", geometry: geometry}
	box, ok := obj.Bounds()
	if !ok {
		t.Fatal("Bounds() returned ok=false")
	}
	if box.Min != (Vector3{0, 0, 0}) || box.Max != (Vector3{1, 1, 1}) {
		t.Errorf("Bounds() = %v, want (0,0,0)-(1,1,1)", box)
	}

	empty := &CityObject{id: "empty"}
	if _, ok := empty.Bounds(); ok {
		t.Error("object without geometry should have no bounds")
	}
}
