package parser

import (
	"encoding/json"
)

// Box is an axis-aligned 3D bounding box
type Box struct {
	Min Vector3
	Max Vector3
}

// Center returns the midpoint of the box.
func (b Box) Center() Vector3 {
	return b.Min.Midpoint(b.Max)
}

// Size returns the box extent along each axis.
func (b Box) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap.
func (b Box) Intersects(o Box) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z)
}

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p Vector3) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// boundsOf computes the box around points. ok is false when points is empty.
func boundsOf(points []Vector3) (box Box, ok bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	box = Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box, true
}

// geographicalExtent decodes a 6-number [minx, miny, minz, maxx, maxy, maxz] array
func geographicalExtent(raw json.RawMessage) (Box, bool) {
	if isNull(raw) {
		return Box{}, false
	}
	var e []float64
	if err := json.Unmarshal(raw, &e); err != nil || len(e) != 6 {
		return Box{}, false
	}
	return Box{
		Min: Vector3{e[0], e[1], e[2]},
		Max: Vector3{e[3], e[4], e[5]},
	}, true
}

// resolveExtent prefers the metadata extent and falls back to the transformed vertices.
func resolveExtent(meta metadataNode, vertices []Vector3) (Box, bool) {
	if box, ok := geographicalExtent(meta.GeographicalExtent); ok {
		return box, true
	}
	return boundsOf(vertices)
}
