package pipeline

import (
	"testing"

	"pcprep/internal/catalog"
)

func TestNormalizePriceFallback(t *testing.T) {
	cat := catalog.Default("/images/components")
	n := NewNormalizer(cat, NormalizerOptions{})
	cols := NewResolver([]string{"Category", "DETAILS", "VAT-INC (SRP)", "VAT-EX (SPCL)", "VAT-EX (RESELLER)"})

	cases := []struct {
		name string
		row  []string
		want string
	}{
		{"srp first", []string{"CPU", "x", "₱1,234.00", "₱1,000.00", ""}, "1234"},
		{"spcl when srp blank", []string{"CPU", "x", "₱", "₱999.50", ""}, "999.50"},
		{"reseller last", []string{"CPU", "x", "", "", "850"}, "850"},
		{"none", []string{"CPU", "x", "", " ", ""}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Price(tc.row, cols); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	cat := catalog.Default("/images/components")
	n := NewNormalizer(cat, NormalizerOptions{})
	cols := NewResolver([]string{"Category", "DETAILS", "BRAND", "MODEL", "VAT-INC (SRP)", "Socket", "Form Factor"})
	row := []string{"RAM", "Fury 16GB", "Kingston", "KF432", "₱2,150.00", "", "DIMM"}

	cls, _, ok := NewClassifier(cat, CategoryExact).Classify(row, cols)
	if !ok {
		t.Fatal("row rejected")
	}
	rec := n.Normalize(row, cols, cls)

	if rec.CategoryID != 4 || rec.Price != "2150" || rec.Model != "KF432" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ImageURL != "/images/components/ram/Kingston Fury 16GB.png" {
		t.Fatalf("image=%s", rec.ImageURL)
	}
	if rec.StockQuantity != "10" || rec.MinStockLevel != "5" || rec.IsActive != "1" {
		t.Fatalf("constants: %+v", rec)
	}
	// "Form Factor" is not the form_factor key: underscores are not spaces.
	if rec.Attr("form_factor") != "" || rec.Attr("cores") != "" {
		t.Fatalf("attributes: %v", rec.Attributes)
	}
}

func TestNormalizeURLColumnWins(t *testing.T) {
	cat := catalog.Default("/images/components")
	n := NewNormalizer(cat, NormalizerOptions{})
	cols := NewResolver([]string{"Category", "DETAILS", "BRAND", "URL"})
	row := []string{"GPU", "RTX 4060", "MSI", "https://cdn.example/rtx.png"}
	rec := n.Normalize(row, cols, Classification{Name: "RTX 4060", Category: "GPU", CategoryID: 3})
	if rec.ImageURL != "https://cdn.example/rtx.png" {
		t.Fatalf("image=%s", rec.ImageURL)
	}
}

func TestNormalizeEnrich(t *testing.T) {
	cat := catalog.Default("/images/components")
	cols := NewResolver([]string{"Category", "DETAILS", "BRAND", "socket", "form_factor", "wattage"})
	row := []string{"PSU", "MWE 650W Bronze", "Cooler Master", "", "matx", ""}
	cls := Classification{Name: "MWE 650W Bronze", Category: "PSU", CategoryID: 6}

	plain := NewNormalizer(cat, NormalizerOptions{}).Normalize(row, cols, cls)
	if plain.Attr("form_factor") != "matx" || plain.Attr("wattage") != "" {
		t.Fatalf("pass-through changed values: %v", plain.Attributes)
	}

	rich := NewNormalizer(cat, NormalizerOptions{Enrich: true}).Normalize(row, cols, cls)
	if rich.Attr("form_factor") != "Micro-ATX" {
		t.Fatalf("form_factor=%s", rich.Attr("form_factor"))
	}
	if rich.Attr("wattage") != "650" {
		t.Fatalf("wattage=%s", rich.Attr("wattage"))
	}

	cpuRow := []string{"CPU", "Ryzen 5 5600 AM4", "AMD", "", "", ""}
	cpu := NewNormalizer(cat, NormalizerOptions{Enrich: true}).Normalize(cpuRow, cols, Classification{Name: "Ryzen 5 5600 AM4", Category: "CPU", CategoryID: 1})
	if cpu.Attr("socket") != "AM4" {
		t.Fatalf("socket=%s", cpu.Attr("socket"))
	}
}

func TestNormalizeEnrichKeepsPresentWattage(t *testing.T) {
	cat := catalog.Default("/images/components")
	cols := NewResolver([]string{"Category", "DETAILS", "BRAND", "wattage"})
	n := NewNormalizer(cat, NormalizerOptions{Enrich: true})

	row := []string{"PSU", "MWE 750W Gold", "Cooler Master", "650W"}
	rec := n.Normalize(row, cols, Classification{Name: "MWE 750W Gold", Category: "PSU", CategoryID: 6})
	if rec.Attr("wattage") != "650W" {
		t.Fatalf("wattage=%s", rec.Attr("wattage"))
	}

	row[3] = "0"
	rec = n.Normalize(row, cols, Classification{Name: "MWE 750W Gold", Category: "PSU", CategoryID: 6})
	if rec.Attr("wattage") != "750" {
		t.Fatalf("zero wattage not filled: %s", rec.Attr("wattage"))
	}
}
