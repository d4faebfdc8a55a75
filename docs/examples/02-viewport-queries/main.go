package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
)

func main() {
	model, err := cityjson.LoadFile("DenHaag_01.city.json", cityjson.NewParser())
	if err != nil {
		log.Fatal(err)
	}

	// Define viewport (RD coordinates around the Binnenhof)
	viewport := cityjson.Box{
		Min: cityjson.Vector3{X: 81000, Y: 455000, Z: -10},
		Max: cityjson.Vector3{X: 81500, Y: 455500, Z: 200},
	}

	// Query R-tree index for visible objects (O(log n))
	objects := model.ObjectsInBounds(viewport)

	fmt.Printf("Visible objects: %d\n", len(objects))

	for _, obj := range objects {
		for _, geom := range obj.Geometry() {
			fmt.Printf("  %s %s: %s lod %s\n", obj.Type(), obj.ID(), geom.Type, geom.LOD)
		}
	}

	// Closest objects to a point
	for _, obj := range model.NearestObjects(cityjson.Vector3{X: 81250, Y: 455250}, 5) {
		fmt.Printf("Near: %s\n", obj.ID())
	}
}
