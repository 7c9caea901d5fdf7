package pipeline

import (
	"strconv"
	"strings"

	"pcprep/internal"
	"pcprep/internal/catalog"
	"pcprep/internal/util"
)

type Normalizer struct {
	cat           *catalog.Catalog
	enrich        bool
	stockQuantity string
	minStockLevel string
}

type NormalizerOptions struct {
	Enrich        bool
	StockQuantity string
	MinStockLevel string
}

func NewNormalizer(cat *catalog.Catalog, opts NormalizerOptions) Normalizer {
	n := Normalizer{
		cat:           cat,
		enrich:        opts.Enrich,
		stockQuantity: opts.StockQuantity,
		minStockLevel: opts.MinStockLevel,
	}
	if n.stockQuantity == "" {
		n.stockQuantity = "10"
	}
	if n.minStockLevel == "" {
		n.minStockLevel = "5"
	}
	return n
}

// Normalize derives the output record for an accepted row.
func (n Normalizer) Normalize(row []string, cols *Resolver, cls Classification) internal.ComponentRecord {
	rec := internal.ComponentRecord{
		Name:          cls.Name,
		Category:      cls.Category,
		CategoryID:    cls.CategoryID,
		Brand:         cols.Value(row, "brand"),
		Model:         cols.Value(row, "model"),
		Price:         n.Price(row, cols),
		Attributes:    make(map[string]string, len(internal.AttributeKeys)),
		StockQuantity: n.stockQuantity,
		MinStockLevel: n.minStockLevel,
		IsActive:      "1",
	}
	for _, key := range internal.AttributeKeys {
		rec.Attributes[key] = cols.Value(row, key)
	}

	rec.ImageURL = cols.Value(row, "url")
	if rec.ImageURL == "" {
		rec.ImageURL = n.cat.ImageURL(rec.Category, rec.Brand, rec.Name)
	}

	if n.enrich {
		enrich(&rec)
	}
	return rec
}

// Price returns the first price column that is non-empty once cleaned, or "".
func (n Normalizer) Price(row []string, cols *Resolver) string {
	for _, key := range n.cat.PriceColumns {
		if price := util.NormalizePrice(cols.Value(row, key)); price != "" {
			return price
		}
	}
	return ""
}

func enrich(rec *internal.ComponentRecord) {
	if ff := rec.Attributes["form_factor"]; ff != "" {
		rec.Attributes["form_factor"] = util.NormalizeFormFactor(ff)
	}
	rec.Attributes["socket"] = util.NormalizeSocket(rec.Attributes["socket"], rec.Name)

	if w := strings.TrimSpace(rec.Attributes["wattage"]); w != "" && w != "0" {
		return
	}
	for _, text := range []string{rec.Name, rec.Model, rec.Attributes["type"]} {
		if w, ok := util.ExtractWattage(text); ok {
			rec.Attributes["wattage"] = strconv.Itoa(w)
			return
		}
	}
}
