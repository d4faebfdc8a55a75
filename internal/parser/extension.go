package parser

import (
	"encoding/json"
)

// reservedKeys are the top-level members defined by CityJSON itself.
// Every other top-level member is an extension node.
var reservedKeys = map[string]bool{
	"type":               true,
	"version":            true,
	"CityObjects":        true,
	"vertices":           true,
	"extensions":         true,
	"metadata":           true,
	"transform":          true,
	"appearance":         true,
	"geometry-templates": true,
}

// IsReservedKey reports whether key is a core CityJSON top-level member.
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// ExtensionNode is a top-level member outside the CityJSON core schema, kept
// verbatim so export does not drop it
type ExtensionNode struct {
	Key   string
	Value json.RawMessage
}

// extensionNodes collects non-reserved members in document order. A repeated key
// keeps its first position and its last value.
func extensionNodes(members []member) []ExtensionNode {
	nodes := make([]ExtensionNode, 0)
	index := make(map[string]int)
	for _, m := range members {
		if IsReservedKey(m.Key) {
			continue
		}
		if i, ok := index[m.Key]; ok {
			nodes[i].Value = m.Value
			continue
		}
		index[m.Key] = len(nodes)
		nodes = append(nodes, ExtensionNode{Key: m.Key, Value: m.Value})
	}
	return nodes
}

// AddExtensionNode stores value under key, replacing an existing node with the same key.
func AddExtensionNode(doc *Document, key string, value json.RawMessage) error {
	if IsReservedKey(key) {
		return &ErrReservedKey{Key: key}
	}
	for i := range doc.extensionNodes {
		if doc.extensionNodes[i].Key == key {
			doc.extensionNodes[i].Value = value
			return nil
		}
	}
	doc.extensionNodes = append(doc.extensionNodes, ExtensionNode{Key: key, Value: value})
	return nil
}

// RemoveExtensionNodes removes the extension nodes with the given keys and
// returns how many were removed. Unknown keys are ignored.
func RemoveExtensionNodes(doc *Document, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	kept := doc.extensionNodes[:0]
	removed := 0
	for _, n := range doc.extensionNodes {
		if drop[n.Key] {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	doc.extensionNodes = kept
	return removed
}
