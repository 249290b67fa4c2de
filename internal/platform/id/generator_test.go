package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	gen := NewUUIDGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if len(first) != 36 {
		t.Fatalf("expected canonical uuid length 36, got %d (%q)", len(first), first)
	}

	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}
