package pipeline

import (
	"testing"

	"pcprep/internal"
	"pcprep/internal/catalog"
)

func TestClassify(t *testing.T) {
	cat := catalog.Default("/images/components")
	cols := NewResolver([]string{"Category", "DETAILS", "BRAND"})

	cases := []struct {
		name   string
		mode   CategoryMode
		row    []string
		ok     bool
		reason internal.Rejection
		id     int
	}{
		{"exact hit", CategoryExact, []string{"GPU", "RTX 4060", "MSI"}, true, "", 3},
		{"short row", CategoryExact, []string{"GPU", "RTX 4060"}, false, internal.RejectIncomplete, 0},
		{"warranty category", CategoryExact, []string{"Warranty", "2 years", "Shop"}, false, internal.RejectWarranty, 0},
		{"warranty name", CategoryExact, []string{"CPU", "Extended WARRANTY", "Shop"}, false, internal.RejectWarranty, 0},
		{"unmapped exact", CategoryExact, []string{"Monitor", "24in", "AOC"}, false, internal.RejectCategory, 0},
		{"keyword hit", CategoryKeyword, []string{"SSD NVMe", "SN770", "WD"}, true, "", 0},
		{"keyword mapped", CategoryKeyword, []string{"RAM", "Fury", "Kingston"}, true, "", 4},
		{"keyword miss", CategoryKeyword, []string{"Mouse", "G102", "Logitech"}, false, internal.RejectCategory, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls, reason, ok := NewClassifier(cat, tc.mode).Classify(tc.row, cols)
			if ok != tc.ok || reason != tc.reason {
				t.Fatalf("got ok=%v reason=%q", ok, reason)
			}
			if ok && cls.CategoryID != tc.id {
				t.Fatalf("category id=%d want %d", cls.CategoryID, tc.id)
			}
		})
	}
}

func TestDeriveNameFallsBackToName(t *testing.T) {
	cols := NewResolver([]string{"Category", "DETAILS", "Name"})
	if got := deriveName([]string{"CPU", " ", "i5-12400F"}, cols); got != "i5-12400F" {
		t.Fatalf("got %q", got)
	}
	if got := deriveName([]string{"CPU", "Core i5", "i5-12400F"}, cols); got != "Core i5" {
		t.Fatalf("got %q", got)
	}
}
