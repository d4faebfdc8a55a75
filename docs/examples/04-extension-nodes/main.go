package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/cityjson/pkg/cityjson"
)

func main() {
	model, err := cityjson.LoadFile("DenHaag_01.city.json", cityjson.NewParser())
	if err != nil {
		log.Fatal(err)
	}

	// Top-level members outside the CityJSON core, in document order
	for _, node := range model.ExtensionNodes() {
		fmt.Printf("%s: %d bytes\n", node.Key, len(node.Value))
	}

	// Drop the extension data and tag the file instead
	model.RemoveExtensionNodes(model.ExtensionKeys()...)
	if err := model.AddExtensionNode("+processing", json.RawMessage(`{"stripped": true}`)); err != nil {
		log.Fatal(err)
	}

	data, err := model.Export(cityjson.ExportOptions{Indent: "  "})
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("DenHaag_01.stripped.city.json", data, 0o644); err != nil {
		log.Fatal(err)
	}
}
