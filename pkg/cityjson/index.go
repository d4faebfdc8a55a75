package cityjson

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// spatialIndex provides O(log n) box queries over city objects using a 3D R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedObject wraps a city object for R-tree storage.
type indexedObject struct {
	obj *CityObject
	box Box
}

// minLength keeps flat and point objects insertable; R-tree rectangles need
// non-zero size on every axis.
const minLength = 1e-6

// boxRect converts a box to an R-tree rectangle
func boxRect(b Box) rtreego.Rect {
	point := rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}
	size := b.Size()
	lengths := []float64{size.X, size.Y, size.Z}
	for i := range lengths {
		if lengths[i] < minLength {
			lengths[i] = minLength
		}
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// searchRect grows a query box by minLength on every side. rtreego treats
// rectangles that only share an edge as disjoint, so candidates are filtered
// with Box.Intersects afterwards.
func searchRect(b Box) rtreego.Rect {
	pad := Vector3{X: minLength, Y: minLength, Z: minLength}
	return boxRect(Box{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)})
}

// Bounds implements rtreego.Spatial interface.
func (o *indexedObject) Bounds() rtreego.Rect {
	return boxRect(o.box)
}

// buildSpatialIndex inserts every object that has geometry
func buildSpatialIndex(objects []*CityObject) *spatialIndex {
	tree := rtreego.NewTree(3, 25, 50)
	for _, obj := range objects {
		box, ok := obj.Bounds()
		if !ok {
			continue
		}
		tree.Insert(&indexedObject{obj: obj, box: box})
	}
	return &spatialIndex{rtree: tree}
}

// ObjectsInBounds returns the objects whose geometry bounds intersect box, in
// document order. Bounds that only touch box count as intersecting. Objects
// without geometry are never returned.
//
// Example:
//
//	box := cityjson.Box{
//	    Min: cityjson.Vector3{X: 121000, Y: 487000, Z: -10},
//	    Max: cityjson.Vector3{X: 122000, Y: 488000, Z: 200},
//	}
//	for _, obj := range model.ObjectsInBounds(box) {
//	    render(obj)
//	}
func (m *Model) ObjectsInBounds(box Box) []*CityObject {
	if m.index == nil || m.index.rtree == nil {
		return m.objectsInBoundsLinear(box)
	}

	spatials := m.index.rtree.SearchIntersect(searchRect(box))
	result := make([]*CityObject, 0, len(spatials))
	for _, spatial := range spatials {
		io := spatial.(*indexedObject)
		if box.Intersects(io.box) {
			result = append(result, io.obj)
		}
	}
	m.sortByPosition(result)
	return result
}

// objectsInBoundsLinear scans every object when no index exists.
func (m *Model) objectsInBoundsLinear(box Box) []*CityObject {
	result := make([]*CityObject, 0)
	for _, obj := range m.CityObjects() {
		ob, ok := obj.Bounds()
		if ok && box.Intersects(ob) {
			result = append(result, obj)
		}
	}
	return result
}

// ObjectsAt returns the objects whose bounds contain p.
func (m *Model) ObjectsAt(p Vector3) []*CityObject {
	return m.ObjectsInBounds(Box{Min: p, Max: p})
}

// NearestObjects returns up to k objects closest to p.
func (m *Model) NearestObjects(p Vector3, k int) []*CityObject {
	if m.index == nil || k <= 0 {
		return nil
	}
	spatials := m.index.rtree.NearestNeighbors(k, rtreego.Point{p.X, p.Y, p.Z})
	result := make([]*CityObject, 0, len(spatials))
	for _, spatial := range spatials {
		if spatial == nil {
			continue
		}
		result = append(result, spatial.(*indexedObject).obj)
	}
	return result
}

func (m *Model) sortByPosition(objs []*CityObject) {
	sort.Slice(objs, func(i, j int) bool {
		return m.position[objs[i]] < m.position[objs[j]]
	})
}
