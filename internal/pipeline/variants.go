package pipeline

import (
	"strconv"

	"pcprep/internal"
	"pcprep/internal/catalog"
)

// Table is a header row plus data rows, ready for a writer.
type Table struct {
	Header []string
	Rows   [][]string
}

var ConvertColumns = []string{"name", "category", "brand", "price"}

// FilterColumns follows the components table, minus id and timestamps.
var FilterColumns = []string{
	"name", "category_id", "brand", "model", "price", "stock_quantity", "min_stock_level", "image_url", "specs",
	"socket", "cores", "threads", "tdp", "ram_type", "form_factor", "memory", "speed", "capacity", "wattage",
	"efficiency", "fans", "type", "warranty", "is_active",
}

type Options struct {
	Catalog    *catalog.Catalog
	Normalizer NormalizerOptions
}

// split locates the header and returns it with the rows below it.
func split(rows [][]string, cat *catalog.Catalog) ([]string, [][]string, error) {
	idx, err := LocateHeader(rows, cat.Markers)
	if err != nil {
		return nil, nil, err
	}
	return rows[idx], rows[idx+1:], nil
}

// ConvertTable keeps name, category, brand and price, dropping rows where any is blank.
func ConvertTable(rows [][]string, opts Options) (Table, internal.RunStats, error) {
	stats := internal.NewRunStats()
	header, body, err := split(rows, opts.Catalog)
	if err != nil {
		return Table{}, stats, err
	}

	cols := NewResolver(header)
	classifier := NewClassifier(opts.Catalog, CategoryKeyword)
	normalizer := NewNormalizer(opts.Catalog, opts.Normalizer)

	out := Table{Header: ConvertColumns}
	for _, row := range body {
		cls, reason, ok := classifier.Classify(row, cols)
		if !ok {
			stats.Reject(reason)
			continue
		}
		brand := cols.Value(row, "brand")
		price := normalizer.Price(row, cols)
		if cls.Name == "" || cls.Category == "" || brand == "" || price == "" {
			stats.Reject(internal.RejectMissingFields)
			continue
		}
		stats.Accept()
		out.Rows = append(out.Rows, []string{cls.Name, cls.Category, brand, price})
	}
	return out, stats, nil
}

// FilterTable maps rows onto the full import schema, keeping only mapped categories.
func FilterTable(rows [][]string, opts Options) (Table, internal.RunStats, error) {
	stats := internal.NewRunStats()
	header, body, err := split(rows, opts.Catalog)
	if err != nil {
		return Table{}, stats, err
	}

	cols := NewResolver(header)
	classifier := NewClassifier(opts.Catalog, CategoryExact)
	normalizer := NewNormalizer(opts.Catalog, opts.Normalizer)

	out := Table{Header: FilterColumns}
	for _, row := range body {
		cls, reason, ok := classifier.Classify(row, cols)
		if !ok {
			stats.Reject(reason)
			continue
		}
		rec := normalizer.Normalize(row, cols, cls)
		if rec.Name == "" || rec.Category == "" || rec.Brand == "" {
			stats.Reject(internal.RejectMissingFields)
			continue
		}
		stats.Accept()
		out.Rows = append(out.Rows, FilterRow(rec))
	}
	return out, stats, nil
}

func FilterRow(rec internal.ComponentRecord) []string {
	row := []string{
		rec.Name, strconv.Itoa(rec.CategoryID), rec.Brand, rec.Model, rec.Price,
		rec.StockQuantity, rec.MinStockLevel, rec.ImageURL, rec.Specs,
	}
	for _, key := range internal.AttributeKeys {
		row = append(row, rec.Attr(key))
	}
	return append(row, rec.IsActive)
}

// ImagesTable keeps the export's own columns and appends image_url, or fills an
// existing image_url column in place.
func ImagesTable(rows [][]string, opts Options) (Table, internal.RunStats, error) {
	stats := internal.NewRunStats()
	header, body, err := split(rows, opts.Catalog)
	if err != nil {
		return Table{}, stats, err
	}

	cols := NewResolver(header)
	classifier := NewClassifier(opts.Catalog, CategoryKeyword)

	outHeader := append([]string(nil), header...)
	urlIdx, ok := cols.Index("image_url")
	if !ok {
		outHeader = append(outHeader, "image_url")
		urlIdx = len(outHeader) - 1
	}

	out := Table{Header: outHeader}
	for _, row := range body {
		cls, reason, ok := classifier.Classify(row, cols)
		if !ok {
			stats.Reject(reason)
			continue
		}
		cells := make([]string, len(outHeader))
		copy(cells, row[:len(header)])
		cells[urlIdx] = opts.Catalog.ImageURL(cls.Category, cols.Value(row, "brand"), cls.Name)
		stats.Accept()
		out.Rows = append(out.Rows, cells)
	}
	return out, stats, nil
}

// StripLines drops everything above the header line. With firstLineOnly it only drops
// the first line, and only when that line is not already the header; that mode never fails.
func StripLines(lines []string, markers []string, firstLineOnly bool) ([]string, error) {
	if firstLineOnly {
		if len(lines) < 2 {
			return lines, nil
		}
		if _, err := LocateHeaderLine(lines[:1], markers); err != nil {
			return lines[1:], nil
		}
		return lines, nil
	}
	idx, err := LocateHeaderLine(lines, markers)
	if err != nil {
		return nil, err
	}
	return lines[idx:], nil
}

// StripTable is StripLines for inputs that are not line oriented (xlsx, html).
func StripTable(rows [][]string, opts Options) (Table, error) {
	header, body, err := split(rows, opts.Catalog)
	if err != nil {
		return Table{}, err
	}
	return Table{Header: header, Rows: body}, nil
}
