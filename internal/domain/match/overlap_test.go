package match

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical intervals", 0, 60, 0, 60, true},
		{"partial overlap at start", 0, 60, 30, 90, true},
		{"partial overlap at end", 30, 90, 0, 60, true},
		{"contained interval", 0, 120, 30, 60, true},
		{"back to back is free", 0, 60, 60, 120, false},
		{"reversed back to back is free", 60, 120, 0, 60, false},
		{"disjoint", 0, 60, 90, 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(at(tt.aStart), at(tt.aEnd), at(tt.bStart), at(tt.bEnd))
			if got != tt.want {
				t.Fatalf("expected %t, got %t", tt.want, got)
			}
		})
	}
}
