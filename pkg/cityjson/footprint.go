package cityjson

import (
	"fmt"
	"math"

	"github.com/beetlebugorg/cityjson/pkg/coordconv"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// groundTolerance is how far above an object's lowest vertex a surface may lie
// and still count as ground, in model units
const groundTolerance = 0.01

// Footprint returns the 2D ground outline of a city object.
//
// Ground surfaces are the surfaces whose exterior ring lies at the object's
// lowest height. When an object has none (point clouds, lines, open surfaces),
// the XY bounding rectangle is returned instead. ok is false for objects
// without geometry.
func Footprint(obj *CityObject) (footprint orb.MultiPolygon, ok bool) {
	box, ok := obj.Bounds()
	if !ok {
		return nil, false
	}

	for _, g := range obj.Geometry() {
		for _, surface := range g.AllSurfaces() {
			if !isGroundSurface(surface, box.Min.Z) {
				continue
			}
			poly := surfacePolygon(surface)
			if polygonArea(poly) > 0 {
				footprint = append(footprint, poly)
			}
		}
	}

	if len(footprint) == 0 {
		bound := orb.Bound{
			Min: orb.Point{box.Min.X, box.Min.Y},
			Max: orb.Point{box.Max.X, box.Max.Y},
		}
		footprint = orb.MultiPolygon{bound.ToPolygon()}
	}
	return footprint, true
}

// FootprintArea returns the planar area of an object's footprint.
func FootprintArea(obj *CityObject) float64 {
	fp, ok := Footprint(obj)
	if !ok {
		return 0
	}
	return multiPolygonArea(fp)
}

// polygonArea is the unsigned planar area; ring winding in CityJSON follows the
// 3D surface normal, so projected rings may be clockwise
func polygonArea(poly orb.Polygon) float64 {
	return math.Abs(planar.Area(poly))
}

func multiPolygonArea(mp orb.MultiPolygon) float64 {
	total := 0.0
	for _, poly := range mp {
		total += polygonArea(poly)
	}
	return total
}

func isGroundSurface(surface Surface, minZ float64) bool {
	ext := surface.Exterior()
	if len(ext) < 3 {
		return false
	}
	for _, v := range ext {
		if math.Abs(v.Z-minZ) > groundTolerance {
			return false
		}
	}
	return true
}

// surfacePolygon projects a surface onto the XY plane as a closed orb polygon
func surfacePolygon(surface Surface) orb.Polygon {
	poly := make(orb.Polygon, 0, len(surface))
	for _, ring := range surface {
		r := make(orb.Ring, 0, len(ring)+1)
		for _, v := range ring {
			r = append(r, orb.Point{v.X, v.Y})
		}
		if len(r) > 0 && !r.Closed() {
			r = append(r, r[0])
		}
		poly = append(poly, r)
	}
	return poly
}

// GeoJSONOptions controls footprint export.
type GeoJSONOptions struct {
	// ToWGS84 converts RD footprints to longitude/latitude, as GeoJSON expects.
	// Footprints of other systems are written unchanged.
	ToWGS84 bool

	// ObjectTypes limits export to these CityJSON types. Empty exports all.
	ObjectTypes []string
}

// FootprintsGeoJSON returns the footprints of all city objects as a GeoJSON
// FeatureCollection. Each feature carries the object id, type, parent ids and
// footprint area as properties.
func (m *Model) FootprintsGeoJSON(opts GeoJSONOptions) ([]byte, error) {
	wanted := make(map[string]bool, len(opts.ObjectTypes))
	for _, t := range opts.ObjectTypes {
		wanted[t] = true
	}
	convert := opts.ToWGS84 && m.CoordinateSystem() == CoordinateSystemRD

	fc := geojson.NewFeatureCollection()
	for _, obj := range m.CityObjects() {
		if len(wanted) > 0 && !wanted[obj.Type()] {
			continue
		}
		fp, ok := Footprint(obj)
		if !ok {
			continue
		}

		f := geojson.NewMultiPolygonFeature(multiPolygonCoordinates(fp, convert)...)
		f.ID = obj.ID()
		f.SetProperty("type", obj.Type())
		f.SetProperty("area", multiPolygonArea(fp))
		if ids := obj.ParentIDs(); len(ids) > 0 {
			f.SetProperty("parents", ids)
		}
		fc.AddFeature(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode footprints: %w", err)
	}
	return b, nil
}

func multiPolygonCoordinates(mp orb.MultiPolygon, rdToWGS84 bool) [][][][]float64 {
	out := make([][][][]float64, 0, len(mp))
	for _, poly := range mp {
		rings := make([][][]float64, 0, len(poly))
		for _, ring := range poly {
			pts := make([][]float64, 0, len(ring))
			for _, p := range ring {
				if rdToWGS84 {
					wgs := coordconv.RDToWGS84(coordconv.Vector3RD{X: p[0], Y: p[1]})
					pts = append(pts, []float64{wgs.Lon, wgs.Lat})
					continue
				}
				pts = append(pts, []float64{p[0], p[1]})
			}
			rings = append(rings, pts)
		}
		out = append(out, rings)
	}
	return out
}
