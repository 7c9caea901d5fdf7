package pipeline

import (
	"pcprep/internal"
	"pcprep/internal/catalog"
	"pcprep/internal/util"
)

type CategoryMode int

const (
	// CategoryExact admits only categories that are keys of the category map.
	CategoryExact CategoryMode = iota
	// CategoryKeyword admits categories containing any curated keyword.
	CategoryKeyword
)

type Classification struct {
	Name       string
	Category   string
	CategoryID int
}

type Classifier struct {
	cat  *catalog.Catalog
	mode CategoryMode
}

func NewClassifier(cat *catalog.Catalog, mode CategoryMode) Classifier {
	return Classifier{cat: cat, mode: mode}
}

// Classify decides whether row is an in-scope component. A rejection is reported through
// the returned reason and ok=false; it is never an error.
func (c Classifier) Classify(row []string, cols *Resolver) (Classification, internal.Rejection, bool) {
	if len(row) < cols.Width() {
		return Classification{}, internal.RejectIncomplete, false
	}

	category := cols.Value(row, "category")
	name := deriveName(row, cols)
	if c.cat.IsExcluded(category) || c.cat.IsExcluded(name) {
		return Classification{}, internal.RejectWarranty, false
	}

	out := Classification{Name: name, Category: category}
	switch c.mode {
	case CategoryExact:
		id, ok := c.cat.CategoryID(category)
		if !ok {
			return Classification{}, internal.RejectCategory, false
		}
		out.CategoryID = id
	case CategoryKeyword:
		if !c.cat.MatchesKeyword(category) {
			return Classification{}, internal.RejectCategory, false
		}
		out.CategoryID, _ = c.cat.CategoryID(category)
	}
	return out, "", true
}

// deriveName prefers DETAILS and falls back to a plain name column.
func deriveName(row []string, cols *Resolver) string {
	return util.FirstNonEmpty(cols.Value(row, "details"), cols.Value(row, "name"))
}
