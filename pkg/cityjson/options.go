package cityjson

import (
	"log/slog"

	"github.com/beetlebugorg/cityjson/internal/parser"
	"github.com/beetlebugorg/cityjson/pkg/coordconv"
)

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// ValidateGeometry rejects degenerate rings, short linestrings and
	// non-finite coordinates. Default is true.
	ValidateGeometry bool

	// Interpreter decodes city object geometry. nil uses BoundaryInterpreter.
	Interpreter GeometryInterpreter

	// UseAsRelativeCenter publishes the center of an RD model's extent to
	// Converter so later conversions are relative to this model.
	//
	// The converter is shared state: parses that publish to the same converter
	// must not run concurrently.
	UseAsRelativeCenter bool

	// Converter receives the relative center when UseAsRelativeCenter is set.
	Converter *coordconv.Converter

	// OnComplete is called once all city objects are parsed and linked.
	OnComplete func()

	// Logger receives parse diagnostics. nil discards them.
	Logger *slog.Logger
}

// DefaultParseOptions returns default options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ValidateGeometry:    true,
		UseAsRelativeCenter: false,
	}
}

// internal converts to the parser's options
func (o ParseOptions) internal() parser.ParseOptions {
	opts := parser.DefaultParseOptions()
	opts.ValidateGeometry = o.ValidateGeometry
	opts.UseAsRelativeCenter = o.UseAsRelativeCenter
	opts.OnComplete = o.OnComplete
	opts.Logger = o.Logger
	if o.Interpreter != nil {
		opts.Interpreter = o.Interpreter
	}
	if o.Converter != nil {
		opts.CenterPublisher = o.Converter
	}
	return opts
}
