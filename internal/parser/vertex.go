package parser

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vector3 is a double precision 3D coordinate
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o component-wise.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o component-wise.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Mul returns v * o component-wise.
func (v Vector3) Mul(o Vector3) Vector3 {
	return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Scale returns v multiplied by f.
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v.X * f, v.Y * f, v.Z * f}
}

// Min returns the component-wise minimum of v and o.
func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// Midpoint returns the point halfway between v and o.
func (v Vector3) Midpoint(o Vector3) Vector3 {
	return v.Add(o).Scale(0.5)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Transform is the CityJSON affine vertex transform
type Transform struct {
	Scale     Vector3
	Translate Vector3
}

// IdentityTransform returns scale (1,1,1) and translate (0,0,0)
func IdentityTransform() Transform {
	return Transform{Scale: Vector3{1, 1, 1}}
}

// IsIdentity reports whether applying t leaves vertices unchanged.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// Apply scales then translates v.
func (t Transform) Apply(v Vector3) Vector3 {
	return v.Mul(t.Scale).Add(t.Translate)
}

// Invert maps a transformed vertex back into the raw vertex space.
func (t Transform) Invert(v Vector3) Vector3 {
	r := v.Sub(t.Translate)
	return Vector3{r.X / t.Scale.X, r.Y / t.Scale.Y, r.Z / t.Scale.Z}
}

// parseTransform reads the transform member. Each of scale and translate is taken only
// when it is a 3-element numeric array; anything else keeps the identity component.
// A scale with a zero component is not invertible and is treated as malformed.
func parseTransform(raw json.RawMessage) Transform {
	t := IdentityTransform()
	if len(raw) == 0 {
		return t
	}

	var node struct {
		Scale     json.RawMessage `json:"scale"`
		Translate json.RawMessage `json:"translate"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return t
	}
	if v, ok := vector3FromJSON(node.Scale); ok && v.X != 0 && v.Y != 0 && v.Z != 0 {
		t.Scale = v
	}
	if v, ok := vector3FromJSON(node.Translate); ok {
		t.Translate = v
	}
	return t
}

// vector3FromJSON decodes a 3-element numeric array
func vector3FromJSON(raw json.RawMessage) (Vector3, bool) {
	if len(raw) == 0 {
		return Vector3{}, false
	}
	var c []float64
	if err := json.Unmarshal(raw, &c); err != nil || len(c) != 3 {
		return Vector3{}, false
	}
	return Vector3{c[0], c[1], c[2]}, true
}

// parseVertices decodes the vertices array and applies the transform to every entry.
// Order is preserved since geometry boundaries index into it.
func parseVertices(raw json.RawMessage, t Transform) ([]Vector3, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Vector3{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &ErrInvalidFormat{Reason: "vertices must be an array"}
	}

	vertices := make([]Vector3, 0, len(entries))
	for i, entry := range entries {
		var c []float64
		if err := json.Unmarshal(entry, &c); err != nil {
			return nil, &ErrInvalidVertex{Index: i, Reason: "not a numeric array"}
		}
		if len(c) != 3 {
			return nil, &ErrInvalidVertex{Index: i, Reason: fmt.Sprintf("expected 3 components, got %d", len(c))}
		}
		vertices = append(vertices, t.Apply(Vector3{c[0], c[1], c[2]}))
	}

	return vertices, nil
}
