package cityjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ExportOptions controls document export.
type ExportOptions struct {
	// Indent pretty-prints the output with this indent string. Empty is compact.
	Indent string
}

// Export writes doc as a CityJSON document.
//
// Core members are written first in CityJSON order, followed by the extension
// nodes in their original order. City objects, metadata, version and the other
// opaque members are written verbatim. Vertices are mapped back through the
// inverse transform; when a non-identity transform is present they are rounded
// to the integer grid the transform implies.
func Export(doc *Document, opts ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	w := &objectWriter{buf: &buf}

	buf.WriteByte('{')
	w.member("type", json.RawMessage(`"CityJSON"`))
	w.optional("version", doc.VersionRaw())
	w.optional("extensions", doc.Extensions())
	w.optional("metadata", doc.Metadata())

	t := doc.Transform()
	if !t.IsIdentity() {
		w.value("transform", map[string][3]float64{
			"scale":     {t.Scale.X, t.Scale.Y, t.Scale.Z},
			"translate": {t.Translate.X, t.Translate.Y, t.Translate.Z},
		})
	}

	w.cityObjects(doc.CityObjects())
	w.value("vertices", exportVertices(doc))
	w.optional("appearance", doc.Appearance())
	w.optional("geometry-templates", doc.GeometryTemplates())

	for _, n := range doc.ExtensionNodes() {
		w.member(n.Key, n.Value)
	}
	buf.WriteByte('}')

	if w.err != nil {
		return nil, w.err
	}
	if !json.Valid(buf.Bytes()) {
		return nil, fmt.Errorf("export produced invalid JSON")
	}

	if opts.Indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", opts.Indent); err != nil {
		return nil, fmt.Errorf("failed to indent export: %w", err)
	}
	return out.Bytes(), nil
}

// Export writes the model as a CityJSON document.
func (m *Model) Export(opts ExportOptions) ([]byte, error) {
	return Export(m.Document, opts)
}

// exportVertices maps transformed vertices back to the raw vertex space
func exportVertices(doc *Document) [][3]float64 {
	t := doc.Transform()
	quantize := !t.IsIdentity()

	out := make([][3]float64, len(doc.Vertices()))
	for i, v := range doc.Vertices() {
		raw := t.Invert(v)
		if quantize {
			raw = Vector3{X: math.Round(raw.X), Y: math.Round(raw.Y), Z: math.Round(raw.Z)}
		}
		out[i] = [3]float64{raw.X, raw.Y, raw.Z}
	}
	return out
}

// objectWriter writes JSON object members, remembering the first error
type objectWriter struct {
	buf   *bytes.Buffer
	count int
	err   error
}

func (w *objectWriter) key(k string) {
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.count++
	kb, _ := json.Marshal(k)
	w.buf.Write(kb)
	w.buf.WriteByte(':')
}

func (w *objectWriter) member(k string, raw json.RawMessage) {
	if w.err != nil {
		return
	}
	w.key(k)
	if len(bytes.TrimSpace(raw)) == 0 {
		w.buf.WriteString("null")
		return
	}
	w.buf.Write(raw)
}

func (w *objectWriter) optional(k string, raw json.RawMessage) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	w.member(k, raw)
}

func (w *objectWriter) value(k string, v interface{}) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to encode %s: %w", k, err)
		return
	}
	w.member(k, b)
}

func (w *objectWriter) cityObjects(objects []*CityObject) {
	if w.err != nil {
		return
	}
	w.key("CityObjects")
	inner := &objectWriter{buf: w.buf}
	w.buf.WriteByte('{')
	for _, obj := range objects {
		inner.member(obj.ID(), obj.Raw())
	}
	w.buf.WriteByte('}')
}
