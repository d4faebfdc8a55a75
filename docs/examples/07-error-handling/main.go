package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
)

func safeParseModel(path string) (*cityjson.Model, error) {
	model, err := cityjson.LoadFile(path, cityjson.NewParser())
	if err != nil {
		// Check if file exists
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("model file not found: %s", path)
		}

		// Inspect typed parse errors
		var dangling *cityjson.ErrDanglingParentReference
		if errors.As(err, &dangling) {
			log.Printf("%s: object %s refers to missing parent %s", path, dangling.ChildID, dangling.ParentID)
		}
		var geom *cityjson.ErrInvalidGeometry
		if errors.As(err, &geom) {
			log.Printf("%s: bad %s geometry on %s", path, geom.Type, geom.ObjectID)
		}
		return nil, err
	}

	// Validate model data
	for _, w := range model.Warnings() {
		log.Printf("Warning: %s: %s", path, w.Message)
	}
	if _, ok := model.Extent(); !ok {
		log.Printf("Warning: %s has no extent", path)
	}

	return model, nil
}

func main() {
	// Try to parse a model
	model, err := safeParseModel("DenHaag_01.city.json")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Successfully loaded model: %d objects\n", model.ObjectCount())

	// Try to parse a non-existent model
	_, err = safeParseModel("NONEXISTENT.city.json")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}
