package cityjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/beetlebugorg/cityjson/pkg/coordconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBuildings holds two unit-grid cubes 10 m apart in RD with a building part
// declared before its parent. Raw vertices are millimeters.
const twoBuildings = `{
  "type": "CityJSON",
  "version": "1.0",
  "metadata": {"referenceSystem": "urn:ogc:def:crs:EPSG::28992"},
  "transform": {"scale": [0.001, 0.001, 0.001], "translate": [121000, 487000, 0]},
  "CityObjects": {
    "part-a": {"type": "BuildingPart", "parents": ["building-a"],
      "geometry": [{"type": "Solid", "lod": 2, "boundaries": [[
        [[0, 3, 2, 1]], [[4, 5, 6, 7]], [[0, 1, 5, 4]],
        [[1, 2, 6, 5]], [[2, 3, 7, 6]], [[3, 0, 4, 7]]
      ]]}]},
    "building-a": {"type": "Building", "attributes": {"yearOfConstruction": 1901}},
    "building-b": {"type": "Building",
      "geometry": [{"type": "MultiSurface", "lod": 1, "boundaries": [
        [[8, 9, 10, 11]], [[12, 13, 14, 15]]
      ]}]}
  },
  "vertices": [
    [0, 0, 0], [4000, 0, 0], [4000, 5000, 0], [0, 5000, 0],
    [0, 0, 6000], [4000, 0, 6000], [4000, 5000, 6000], [0, 5000, 6000],
    [10000, 0, 0], [12000, 0, 0], [12000, 2000, 0], [10000, 2000, 0],
    [10000, 0, 3000], [12000, 0, 3000], [12000, 2000, 3000], [10000, 2000, 3000]
  ],
  "+metadata-extended": {"lineage": ["survey"]}
}`

func parseTwoBuildings(t *testing.T) *Model {
	t.Helper()
	model, err := NewParser().Parse([]byte(twoBuildings))
	require.NoError(t, err)
	return model
}

func TestParseModel(t *testing.T) {
	model := parseTwoBuildings(t)

	assert.Equal(t, 3, model.ObjectCount())
	assert.Equal(t, CoordinateSystemRD, model.CoordinateSystem())
	assert.Equal(t, []string{"+metadata-extended"}, model.ExtensionKeys())

	box, ok := model.Extent()
	require.True(t, ok)
	assert.InDelta(t, 121000, box.Min.X, 1e-9)
	assert.InDelta(t, 487000, box.Min.Y, 1e-9)
	assert.InDelta(t, 121012, box.Max.X, 1e-9)
	assert.InDelta(t, 487005, box.Max.Y, 1e-9)
	assert.InDelta(t, 6, box.Max.Z, 1e-9)

	part, ok := model.CityObject("part-a")
	require.True(t, ok)
	parent, ok := model.CityObject("building-a")
	require.True(t, ok)
	require.Len(t, part.Parents(), 1)
	assert.Same(t, parent, part.Parents()[0])
	assert.JSONEq(t, `{"yearOfConstruction": 1901}`, string(parent.Attributes()))
}

func TestHierarchyQueries(t *testing.T) {
	model := parseTwoBuildings(t)

	roots := model.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "building-a", roots[0].ID())
	assert.Equal(t, "building-b", roots[1].ID())

	desc := model.Descendants("building-a")
	require.Len(t, desc, 1)
	assert.Equal(t, "part-a", desc[0].ID())

	assert.Nil(t, model.Descendants("missing"))
	assert.Len(t, model.ObjectsOfType("Building"), 2)
}

func TestObjectsInBounds(t *testing.T) {
	model := parseTwoBuildings(t)

	tests := []struct {
		name string
		box  Box
		want []string
	}{
		{
			name: "first building only",
			box:  Box{Min: Vector3{X: 121001, Y: 487001, Z: 1}, Max: Vector3{X: 121002, Y: 487002, Z: 2}},
			want: []string{"part-a"},
		},
		{
			name: "everything",
			box:  Box{Min: Vector3{X: 120000, Y: 486000, Z: -10}, Max: Vector3{X: 122000, Y: 488000, Z: 100}},
			want: []string{"part-a", "building-b"},
		},
		{
			name: "touching the far edge",
			box:  Box{Min: Vector3{X: 121012, Y: 487000, Z: 0}, Max: Vector3{X: 121020, Y: 487002, Z: 3}},
			want: []string{"building-b"},
		},
		{
			name: "top face level with the ground floor",
			box:  Box{Min: Vector3{X: 121010, Y: 487000, Z: -5}, Max: Vector3{X: 121012, Y: 487002, Z: 0}},
			want: []string{"building-b"},
		},
		{
			name: "resting on a flat roof",
			box:  Box{Min: Vector3{X: 121010.5, Y: 487000.5, Z: 3}, Max: Vector3{X: 121011, Y: 487001, Z: 10}},
			want: []string{"building-b"},
		},
		{
			name: "gap between buildings",
			box:  Box{Min: Vector3{X: 121005, Y: 487000, Z: 0}, Max: Vector3{X: 121009, Y: 487005, Z: 6}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ObjectsInBounds(tt.box)
			ids := make([]string, 0, len(got))
			for _, obj := range got {
				ids = append(ids, obj.ID())
			}
			assert.Equal(t, tt.want, ids)

			unindexed := &Model{Document: model.Document}
			assert.Equal(t, got, unindexed.ObjectsInBounds(tt.box), "index and scan agree")
		})
	}

	at := model.ObjectsAt(Vector3{X: 121011, Y: 487001, Z: 1})
	require.Len(t, at, 1)
	assert.Equal(t, "building-b", at[0].ID())

	// Corners of the bounds are inside, matching Box.Contains
	b, _ := model.CityObject("building-b")
	bounds, ok := b.Bounds()
	require.True(t, ok)
	for _, corner := range []Vector3{bounds.Min, bounds.Max} {
		require.True(t, bounds.Contains(corner))
		at := model.ObjectsAt(corner)
		require.Len(t, at, 1, "corner %v", corner)
		assert.Equal(t, "building-b", at[0].ID())
	}

	nearest := model.NearestObjects(Vector3{X: 121013, Y: 487001, Z: 0}, 1)
	require.Len(t, nearest, 1)
	assert.Equal(t, "building-b", nearest[0].ID())
}

func TestFootprint(t *testing.T) {
	model := parseTwoBuildings(t)

	part, _ := model.CityObject("part-a")
	fp, ok := Footprint(part)
	require.True(t, ok)
	require.Len(t, fp, 1, "only the ground surface of the cube")
	assert.InDelta(t, 20.0, FootprintArea(part), 1e-6)

	building, _ := model.CityObject("building-b")
	assert.InDelta(t, 4.0, FootprintArea(building), 1e-6)

	parent, _ := model.CityObject("building-a")
	_, ok = Footprint(parent)
	assert.False(t, ok, "object without geometry has no footprint")
}

func TestFootprintsGeoJSON(t *testing.T) {
	model := parseTwoBuildings(t)

	data, err := model.FootprintsGeoJSON(GeoJSONOptions{ToWGS84: true})
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string                 `json:"id"`
			Properties map[string]interface{} `json:"properties"`
			Geometry   struct {
				Type        string          `json:"type"`
				Coordinates [][][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "part-a", fc.Features[0].ID)
	assert.Equal(t, "MultiPolygon", fc.Features[0].Geometry.Type)
	assert.Equal(t, []interface{}{"building-a"}, fc.Features[0].Properties["parents"])

	lonLat := fc.Features[0].Geometry.Coordinates[0][0][0]
	assert.True(t, coordconv.IsValidWGS84(lonLat[0], lonLat[1]))
	assert.InDelta(t, 4.89, lonLat[0], 0.02)
	assert.InDelta(t, 52.37, lonLat[1], 0.02)

	onlyParts, err := model.FootprintsGeoJSON(GeoJSONOptions{ObjectTypes: []string{"Building"}})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(onlyParts, &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "building-b", fc.Features[0].ID)
}

func TestExportRoundTrip(t *testing.T) {
	model := parseTwoBuildings(t)

	data, err := model.Export(ExportOptions{})
	require.NoError(t, err)

	again, err := NewParser().Parse(data)
	require.NoError(t, err)

	assert.Equal(t, model.Version(), again.Version())
	assert.Equal(t, model.Transform(), again.Transform())
	assert.Equal(t, model.Vertices(), again.Vertices())
	assert.Equal(t, model.ExtensionNodes(), again.ExtensionNodes())
	require.Equal(t, model.ObjectCount(), again.ObjectCount())
	for i, obj := range model.CityObjects() {
		other := again.CityObjects()[i]
		assert.Equal(t, obj.ID(), other.ID())
		assert.Equal(t, obj.ParentIDs(), other.ParentIDs())
	}

	pretty, err := model.Export(ExportOptions{Indent: "  "})
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"type\": \"CityJSON\"")
	assert.JSONEq(t, string(data), string(pretty))
}

func TestExportKeepsUnusualMembers(t *testing.T) {
	data := []byte(`{"type": "CityJSON", "version": 1.0,
  "transform": {"scale": [0.01, 0, 0.01], "translate": [10, 20, 30]},
  "CityObjects": {}, "vertices": [[1, 2, 3]]}`)
	model, err := NewParser().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Vector3{X: 1, Y: 1, Z: 1}, model.TransformScale(), "zero scale is not invertible")

	out, err := model.Export(ExportOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"version":1.0`)

	again, err := NewParser().Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "1.0", again.Version())
	assert.Equal(t, model.Vertices(), again.Vertices())
}

func TestExportExtensionNodes(t *testing.T) {
	model := parseTwoBuildings(t)

	original := model.ExtensionNodes()
	assert.Equal(t, 1, model.RemoveExtensionNodes(model.ExtensionKeys()...))

	data, err := model.Export(ExportOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "+metadata-extended")

	for _, n := range original {
		require.NoError(t, model.AddExtensionNode(n.Key, n.Value))
	}
	assert.Equal(t, original, model.ExtensionNodes())

	var reserved *ErrReservedKey
	assert.True(t, errors.As(model.AddExtensionNode("metadata", json.RawMessage(`{}`)), &reserved))
}

func TestRelativeCenter(t *testing.T) {
	conv := coordconv.NewDefaultConverter()

	opts := DefaultParseOptions()
	opts.UseAsRelativeCenter = true
	opts.Converter = conv
	completed := false
	opts.OnComplete = func() { completed = true }

	model, err := NewParser().ParseWithOptions([]byte(twoBuildings), opts)
	require.NoError(t, err)
	assert.True(t, completed)

	center := conv.RelativeCenter()
	assert.InDelta(t, 121006, center.X, 1e-9)
	assert.InDelta(t, 487002.5, center.Y, 1e-9)

	local := model.ToLocal(conv, Vector3{X: 121006, Y: 487002.5, Z: 4})
	assert.InDelta(t, 0, local.X, 1e-9)
	assert.InDelta(t, 4, local.Y, 1e-9)
	assert.InDelta(t, 0, local.Z, 1e-9)
}

func TestParserCurrent(t *testing.T) {
	p := NewParser()
	assert.Nil(t, p.Current())

	model, err := p.Parse([]byte(twoBuildings))
	require.NoError(t, err)
	assert.Same(t, model, p.Current())

	_, err = p.Parse([]byte(`{"type": "CityJSON", "CityObjects": {"c": {"parents": ["missingId"]}}}`))
	var dangling *ErrDanglingParentReference
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "missingId", dangling.ParentID)
	assert.Nil(t, p.Current(), "a failed parse discards the previous model")
}
