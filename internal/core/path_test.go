package core

import "testing"

func TestParsePath(t *testing.T) {
	for _, p := range AllPaths() {
		got, err := ParsePath(p.String())
		if err != nil || got != p {
			t.Fatalf("ParsePath(%q) = %v, %v", p, got, err)
		}
	}
	if _, err := ParsePath("turbo"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	if _, err := ParsePath(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestPath_Description(t *testing.T) {
	for _, p := range AllPaths() {
		if p.Description() == "Unknown path" {
			t.Fatalf("missing description for %s", p)
		}
	}
}
