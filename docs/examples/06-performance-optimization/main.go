package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
	"github.com/beetlebugorg/cityjson/pkg/coordconv"
)

// Skip geometry validation for trusted input
func parseTrusted(path string) (*cityjson.Model, error) {
	opts := cityjson.DefaultParseOptions()
	opts.ValidateGeometry = false

	return cityjson.LoadFileWithOptions(path, cityjson.NewParser(), opts)
}

func main() {
	fmt.Println("=== Parsing without validation ===")
	model, err := parseTrusted("DenHaag_01.city.json")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Objects loaded: %d\n", model.ObjectCount())

	// Load all tiles of a city in parallel
	fmt.Println("\n=== Parallel tile loading ===")
	paths, err := filepath.Glob("tiles/*.city.json")
	if err != nil {
		log.Fatal(err)
	}
	set, errs := cityjson.LoadFiles(paths, cityjson.LoadOptions{
		Parallel:   true,
		SkipErrors: true,
		Parse:      cityjson.DefaultParseOptions(),
		Progress: func(loaded, total int) {
			fmt.Printf("\rLoading: %d/%d", loaded, total)
		},
	})
	fmt.Println()
	for _, err := range errs {
		log.Printf("skipped: %v", err)
	}
	fmt.Printf("Tiles: %d, objects: %d\n", len(set.Models), set.ObjectCount())

	// One shared origin for every tile
	conv := coordconv.NewDefaultConverter()
	if set.PublishRelativeCenter(conv) {
		fmt.Printf("Relative center: %+v\n", conv.RelativeCenter())
	}
}
