package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
	"github.com/beetlebugorg/cityjson/pkg/coordconv"
)

func main() {
	model, err := cityjson.LoadFile("DenHaag_01.city.json", cityjson.NewParser())
	if err != nil {
		log.Fatal(err)
	}

	// Ground area per building
	for _, obj := range model.ObjectsOfType("Building") {
		fmt.Printf("%s: %.1f m2\n", obj.ID(), cityjson.FootprintArea(obj))
	}

	// Footprints as WGS84 GeoJSON, ready for a web map
	data, err := model.FootprintsGeoJSON(cityjson.GeoJSONOptions{
		ToWGS84:     true,
		ObjectTypes: []string{"Building", "BuildingPart"},
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("footprints.geojson", data, 0o644); err != nil {
		log.Fatal(err)
	}

	// Where the model sits on the globe
	if center, ok := model.Center(); ok {
		wgs := coordconv.RDToWGS84(coordconv.Vector3RD{X: center.X, Y: center.Y, Z: center.Z})
		fmt.Printf("Center: %s\n", wgs)
	}
}
