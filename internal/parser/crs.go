package parser

import (
	"encoding/json"
	"strings"
)

// CoordinateSystem identifies the reference system of a document's vertices.
//
// Only RD and WGS84 are recognized. Every other reference system, including an
// absent one, is treated as local coordinates that need no conversion.
type CoordinateSystem int

const (
	// CoordinateSystemUnrecognized: local/untransformed coordinates
	CoordinateSystemUnrecognized CoordinateSystem = iota
	// CoordinateSystemRD: Amersfoort / RD New (EPSG:28992)
	CoordinateSystemRD
	// CoordinateSystemWGS84: WGS 84 geographic 3D (EPSG:4979)
	CoordinateSystemWGS84
)

const (
	epsgRD    = "28992"
	epsgWGS84 = "4979"
)

// String returns a human-readable name for the coordinate system.
func (c CoordinateSystem) String() string {
	switch c {
	case CoordinateSystemRD:
		return "RD"
	case CoordinateSystemWGS84:
		return "WGS84"
	default:
		return "Unrecognized"
	}
}

// ResolveCoordinateSystem maps a referenceSystem value to a CoordinateSystem.
//
// Accepted forms:
//   - urn:ogc:def:crs:EPSG::28992 (CityJSON 1.0)
//   - https://www.opengis.net/def/crs/EPSG/0/28992 (CityJSON 1.1)
func ResolveCoordinateSystem(referenceSystem string) CoordinateSystem {
	switch epsgCode(referenceSystem) {
	case epsgRD:
		return CoordinateSystemRD
	case epsgWGS84:
		return CoordinateSystemWGS84
	default:
		return CoordinateSystemUnrecognized
	}
}

// epsgCode extracts the EPSG code from a URN or OGC URL, or "" when it is neither
func epsgCode(referenceSystem string) string {
	rs := strings.TrimSpace(referenceSystem)
	switch {
	case strings.HasPrefix(rs, "urn:ogc:def:crs:EPSG:"):
		// urn:ogc:def:crs:EPSG:<version>:<code>, version is empty or numeric
		parts := strings.Split(strings.TrimPrefix(rs, "urn:ogc:def:crs:EPSG:"), ":")
		if len(parts) != 2 || !isEPSGVersion(parts[0]) {
			return ""
		}
		return parts[1]
	case strings.HasPrefix(rs, "http://www.opengis.net/def/crs/EPSG/"),
		strings.HasPrefix(rs, "https://www.opengis.net/def/crs/EPSG/"):
		// .../def/crs/EPSG/<version>/<code>
		rest := rs[strings.Index(rs, "/EPSG/")+len("/EPSG/"):]
		parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
		if len(parts) != 2 || parts[0] == "" || !isEPSGVersion(parts[0]) {
			return ""
		}
		return parts[1]
	default:
		return ""
	}
}

// isEPSGVersion accepts an empty version or one made of digits and dots, e.g. "8.5"
func isEPSGVersion(v string) bool {
	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// metadataNode holds the metadata members the core interprets
type metadataNode struct {
	ReferenceSystem    json.RawMessage `json:"referenceSystem"`
	GeographicalExtent json.RawMessage `json:"geographicalExtent"`
}

// parseMetadata decodes metadata leniently; a malformed node yields zero values.
func parseMetadata(raw json.RawMessage) metadataNode {
	var node metadataNode
	if isNull(raw) {
		return node
	}
	_ = json.Unmarshal(raw, &node)
	return node
}

// referenceSystemString returns the referenceSystem value if it is a JSON string
func (m metadataNode) referenceSystemString() string {
	var s string
	if len(m.ReferenceSystem) == 0 || json.Unmarshal(m.ReferenceSystem, &s) != nil {
		return ""
	}
	return s
}
