package parser

import (
	"testing"
)

func TestDecodeMembers(t *testing.T) {
	members, err := decodeMembers([]byte(`{"b": 1, "a": {"x": [1, 2]}, "c": null, "b": "again"}`))
	if err != nil {
		t.Fatalf("decodeMembers() failed: %v", err)
	}

	wantKeys := []string{"b", "a", "c", "b"}
	if len(members) != len(wantKeys) {
		t.Fatalf("got %d members, want %d", len(members), len(wantKeys))
	}
	for i, m := range members {
		if m.Key != wantKeys[i] {
			t.Errorf("member[%d].Key = %q, want %q", i, m.Key, wantKeys[i])
		}
	}
	if string(members[1].Value) != `{"x": [1, 2]}` {
		t.Errorf("member a = %s, want raw value", members[1].Value)
	}

	// Last value wins, like encoding/json
	if got := string(lookup(members, "b")); got != `"again"` {
		t.Errorf("lookup(b) = %s, want %q", got, `"again"`)
	}
	if !isNull(lookup(members, "c")) {
		t.Error("c should be null")
	}
	if !isNull(lookup(members, "missing")) {
		t.Error("missing key should be null")
	}
}

func TestDecodeMembersRejects(t *testing.T) {
	inputs := []string{``, `[]`, `"s"`, `{"a": 1`, `{"a": 1} x`}
	for _, in := range inputs {
		if _, err := decodeMembers([]byte(in)); err == nil {
			t.Errorf("decodeMembers(%q) should fail", in)
		}
	}
}
