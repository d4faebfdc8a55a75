package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Parser parses CityJSON documents into linked city object models.
//
// A CityJSON file holds a shared vertex list, a map of city objects whose
// geometry indexes into that list, and metadata such as the reference system and
// geographical extent. Objects reference each other by id through parents.
//
// References:
//   - CityJSON 1.0.3: https://www.cityjson.org/specs/1.0.3/
type Parser interface {
	// Parse parses a complete CityJSON document held in memory.
	// Returns an error if the document is invalid; no partial document is returned.
	Parse(data []byte) (*Document, error)

	// ParseWithOptions parses with custom options
	ParseWithOptions(data []byte, opts ParseOptions) (*Document, error)

	// Current returns the result of the last successful parse, or nil. Every
	// parse discards the previous result first.
	Current() *Document
}

// CenterPublisher receives the relative center of an RD document.
// Consumers subtract it from absolute RD coordinates to keep values small.
type CenterPublisher interface {
	SetRelativeCenter(x, y, z float64)
}

// ParseOptions configures parsing behavior
type ParseOptions struct {
	// Interpreter decodes per-object geometry.
	// Default: BoundaryInterpreter. nil skips geometry interpretation.
	Interpreter GeometryInterpreter

	// ValidateGeometry: if true, validate interpreted geometry of every object
	// Default: true
	ValidateGeometry bool

	// UseAsRelativeCenter: if true and the document is in RD, publish the center
	// of its extent to CenterPublisher once parsing is otherwise complete
	// Default: false
	UseAsRelativeCenter bool

	// CenterPublisher receives the relative center. Required for UseAsRelativeCenter
	// to have an effect.
	CenterPublisher CenterPublisher

	// OnComplete is called once every object is linked
	OnComplete func()

	// Logger receives diagnostics. Default: discard.
	Logger *slog.Logger
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Interpreter:         BoundaryInterpreter{},
		ValidateGeometry:    true,
		UseAsRelativeCenter: false,
	}
}

// defaultParser implements the Parser interface
type defaultParser struct {
	mu      sync.Mutex
	current *Document
}

// NewParser creates a new CityJSON parser
func NewParser() Parser {
	return &defaultParser{}
}

// Parse parses data with default options
func (p *defaultParser) Parse(data []byte) (*Document, error) {
	return p.ParseWithOptions(data, DefaultParseOptions())
}

// ParseWithOptions parses with custom options
func (p *defaultParser) ParseWithOptions(data []byte, opts ParseOptions) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The previous object set is replaced wholesale, even when this parse fails
	p.current = nil

	doc, err := parseDocument(data, opts)
	if err != nil {
		return nil, err
	}
	p.current = doc
	return doc, nil
}

// Current returns the last successfully parsed document
func (p *defaultParser) Current() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// discardLogger is used when no logger is configured
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// parseDocument runs the full pipeline. Steps are ordered: the transform must be
// known before vertices are decoded, vertices before extents and geometry, and
// every object must exist before parents can be linked.
func parseDocument(data []byte, opts ParseOptions) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger
	}

	// 1. Validate the root
	members, err := decodeMembers(data)
	if err != nil {
		return nil, &ErrInvalidFormat{Reason: err.Error()}
	}
	var docType string
	if err := json.Unmarshal(lookup(members, "type"), &docType); err != nil || docType != "CityJSON" {
		return nil, &ErrInvalidFormat{Reason: `root "type" must be "CityJSON"`}
	}

	doc := &Document{
		extensions:        lookup(members, "extensions"),
		metadata:          lookup(members, "metadata"),
		appearance:        lookup(members, "appearance"),
		geometryTemplates: lookup(members, "geometry-templates"),
	}
	doc.version, doc.versionRaw = parseVersion(lookup(members, "version"), log)

	// 2. Transform, defaulting to identity
	doc.transform = parseTransform(lookup(members, "transform"))

	// 3. Extension nodes, kept for export
	doc.extensionNodes = extensionNodes(members)

	// 4. Vertices
	doc.vertices, err = parseVertices(lookup(members, "vertices"), doc.transform)
	if err != nil {
		return nil, err
	}
	if len(doc.vertices) == 0 {
		w := Warning{
			Kind:    WarningEmptyGeometry,
			Message: "vertex list is empty, city objects will have no geometry",
		}
		doc.warnings = append(doc.warnings, w)
		log.Warn("empty vertex list", "warning", w.Kind.String())
	}

	// 5. Reference system
	meta := parseMetadata(doc.metadata)
	rs := meta.referenceSystemString()
	doc.coordinateSystem = ResolveCoordinateSystem(rs)
	if doc.coordinateSystem == CoordinateSystemUnrecognized {
		log.Debug("reference system not recognized, using local coordinates", "referenceSystem", rs)
	} else {
		log.Debug("resolved reference system", "referenceSystem", rs, "system", doc.coordinateSystem.String())
	}

	// 6. Extent
	doc.extent, doc.hasExtent = resolveExtent(meta, doc.vertices)

	// 7. City objects, pass 1
	doc.cityObjects, doc.objectsByID, err = parseCityObjects(
		lookup(members, "CityObjects"), doc.coordinateSystem, doc.vertices, opts.Interpreter)
	if err != nil {
		return nil, err
	}
	if opts.ValidateGeometry {
		for _, obj := range doc.cityObjects {
			if err := ValidateCityObject(obj); err != nil {
				return nil, fmt.Errorf("city object %q: %w", obj.id, err)
			}
		}
	}

	// 8. Parent links, pass 2
	if err := linkCityObjects(doc.cityObjects, doc.objectsByID); err != nil {
		return nil, err
	}

	// 9. Relative center, after the extent is final
	if opts.UseAsRelativeCenter && opts.CenterPublisher != nil {
		publishRelativeCenter(doc, opts.CenterPublisher, log)
	}

	// 10. Completion
	if completer, ok := opts.Interpreter.(ParseCompleter); ok {
		for _, obj := range doc.cityObjects {
			completer.ParseCompleted(obj)
		}
	}
	if opts.OnComplete != nil {
		opts.OnComplete()
	}

	log.LogAttrs(context.Background(), slog.LevelDebug, "parsed CityJSON document",
		slog.String("version", doc.version),
		slog.Int("cityObjects", len(doc.cityObjects)),
		slog.Int("vertices", len(doc.vertices)),
		slog.Int("extensionNodes", len(doc.extensionNodes)))

	return doc, nil
}

// parseVersion returns the version text and the raw member. Non-string values
// are kept as their literal JSON so export can write them back unchanged.
func parseVersion(raw json.RawMessage, log *slog.Logger) (string, json.RawMessage) {
	if isNull(raw) {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, raw
	}
	text := string(bytes.TrimSpace(raw))
	log.Debug("version is not a string", "version", text)
	return text, raw
}

// publishRelativeCenter publishes the extent midpoint of an RD document
func publishRelativeCenter(doc *Document, publisher CenterPublisher, log *slog.Logger) {
	if doc.coordinateSystem != CoordinateSystemRD || !doc.hasExtent {
		return
	}
	center := doc.extent.Center()
	log.Info("setting relative RD center", "x", center.X, "y", center.Y)
	publisher.SetRelativeCenter(center.X, center.Y, center.Z)
}
