// Package cityjson provides a public API for parsing CityJSON 3D city models.
//
// A parsed Model holds every city object with its parent and child links
// resolved, the transformed vertex list, the model extent and the reference
// system. Unknown top-level members are kept as extension nodes so a model can
// be exported without losing data.
//
// Example:
//
//	p := cityjson.NewParser()
//	model, err := p.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, obj := range model.CityObjects() {
//	    fmt.Println(obj.ID(), obj.Type(), len(obj.Parents()))
//	}
package cityjson

import (
	"sync"

	"github.com/beetlebugorg/cityjson/internal/parser"
)

// Document and model types shared with the parser.
type (
	Document            = parser.Document
	CityObject          = parser.CityObject
	Vector3             = parser.Vector3
	Box                 = parser.Box
	Transform           = parser.Transform
	Geometry            = parser.Geometry
	GeometryType        = parser.GeometryType
	Ring                = parser.Ring
	Surface             = parser.Surface
	Shell               = parser.Shell
	Solid               = parser.Solid
	CoordinateSystem    = parser.CoordinateSystem
	ExtensionNode       = parser.ExtensionNode
	Warning             = parser.Warning
	WarningKind         = parser.WarningKind
	GeometryInterpreter = parser.GeometryInterpreter
	ParseCompleter      = parser.ParseCompleter
	BoundaryInterpreter = parser.BoundaryInterpreter
)

// Reference systems.
const (
	CoordinateSystemUnrecognized = parser.CoordinateSystemUnrecognized
	CoordinateSystemRD           = parser.CoordinateSystemRD
	CoordinateSystemWGS84        = parser.CoordinateSystemWGS84
)

// Geometry types.
const (
	GeometryTypeMultiPoint       = parser.GeometryTypeMultiPoint
	GeometryTypeMultiLineString  = parser.GeometryTypeMultiLineString
	GeometryTypeMultiSurface     = parser.GeometryTypeMultiSurface
	GeometryTypeCompositeSurface = parser.GeometryTypeCompositeSurface
	GeometryTypeSolid            = parser.GeometryTypeSolid
	GeometryTypeMultiSolid       = parser.GeometryTypeMultiSolid
	GeometryTypeCompositeSolid   = parser.GeometryTypeCompositeSolid
	GeometryTypeInstance         = parser.GeometryTypeInstance
)

// WarningEmptyGeometry is reported when the document has no vertices.
const WarningEmptyGeometry = parser.WarningEmptyGeometry

// Errors returned by Parse. Use errors.As to inspect them.
type (
	ErrInvalidFormat           = parser.ErrInvalidFormat
	ErrInvalidVertex           = parser.ErrInvalidVertex
	ErrInvalidCityObject       = parser.ErrInvalidCityObject
	ErrDuplicateObjectID       = parser.ErrDuplicateObjectID
	ErrDanglingParentReference = parser.ErrDanglingParentReference
	ErrVertexIndexOutOfRange   = parser.ErrVertexIndexOutOfRange
	ErrInvalidGeometry         = parser.ErrInvalidGeometry
	ErrReservedKey             = parser.ErrReservedKey
)

// ResolveCoordinateSystem maps a metadata referenceSystem value to a CoordinateSystem.
func ResolveCoordinateSystem(referenceSystem string) CoordinateSystem {
	return parser.ResolveCoordinateSystem(referenceSystem)
}

// IsReservedKey reports whether key is a core CityJSON top-level member.
func IsReservedKey(key string) bool {
	return parser.IsReservedKey(key)
}

// Parser parses CityJSON documents.
//
// Create a parser with NewParser. A Parser holds the result of its last parse;
// parsing again replaces it. Parsers are safe for concurrent use but serialize
// their parses.
type Parser interface {
	// Parse parses a complete CityJSON document held in memory.
	//
	// Returns an error if the document is not CityJSON, a vertex is malformed,
	// geometry is invalid or a parent id does not resolve. No partial model is
	// returned on error.
	Parse(data []byte) (*Model, error)

	// ParseWithOptions parses a CityJSON document with custom options.
	ParseWithOptions(data []byte, opts ParseOptions) (*Model, error)

	// Current returns the model of the last successful parse, or nil if the
	// last parse failed or none has run.
	Current() *Model
}

// NewParser creates a new CityJSON parser with default settings.
//
// Example:
//
//	p := cityjson.NewParser()
//	model, err := p.Parse(data)
func NewParser() Parser {
	return &parserWrapper{
		internal: parser.NewParser(),
	}
}

// parserWrapper wraps the internal parser and builds the spatial index
type parserWrapper struct {
	internal parser.Parser

	mu      sync.Mutex
	current *Model
}

func (p *parserWrapper) Parse(data []byte) (*Model, error) {
	return p.ParseWithOptions(data, DefaultParseOptions())
}

func (p *parserWrapper) ParseWithOptions(data []byte, opts ParseOptions) (*Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = nil
	doc, err := p.internal.ParseWithOptions(data, opts.internal())
	if err != nil {
		return nil, err
	}
	p.current = newModel(doc)
	return p.current, nil
}

func (p *parserWrapper) Current() *Model {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
