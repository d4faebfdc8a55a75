package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
)

func main() {
	// Load and parse a CityJSON file
	model, err := cityjson.LoadFile("DenHaag_01.city.json", cityjson.NewParser())
	if err != nil {
		log.Fatal(err)
	}

	// Print model info
	fmt.Printf("Version: %s\n", model.Version())
	fmt.Printf("Reference system: %s\n", model.CoordinateSystem())
	fmt.Printf("City objects: %d\n", model.ObjectCount())

	// Get model extent
	if box, ok := model.Extent(); ok {
		fmt.Printf("Extent: [%.2f,%.2f,%.2f] to [%.2f,%.2f,%.2f]\n",
			box.Min.X, box.Min.Y, box.Min.Z,
			box.Max.X, box.Max.Y, box.Max.Z)
	}
}
