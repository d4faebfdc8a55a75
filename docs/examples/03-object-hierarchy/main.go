package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
)

func printTree(obj *cityjson.CityObject, depth int) {
	fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), obj.ID(), obj.Type())
	for _, child := range obj.Children() {
		printTree(child, depth+1)
	}
}

func main() {
	model, err := cityjson.LoadFile("DenHaag_01.city.json", cityjson.NewParser())
	if err != nil {
		log.Fatal(err)
	}

	// Objects without parents are the top of each hierarchy
	for _, root := range model.Roots() {
		printTree(root, 0)
	}

	// Building parts, whichever building they belong to
	for _, part := range model.ObjectsOfType("BuildingPart") {
		fmt.Printf("%s belongs to %v\n", part.ID(), part.ParentIDs())
	}
}
