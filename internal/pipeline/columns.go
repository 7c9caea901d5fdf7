package pipeline

import (
	"strings"

	"pcprep/internal/util"
)

// Resolver maps logical field keys onto column positions of one located header.
// Lookups are memoised, so each key scans the header at most once.
type Resolver struct {
	normalized []string
	compact    []string
	cache      map[string]int
}

func NewResolver(header []string) *Resolver {
	r := &Resolver{
		normalized: make([]string, len(header)),
		compact:    make([]string, len(header)),
		cache:      map[string]int{},
	}
	for i, h := range header {
		r.normalized[i] = util.NormalizeKey(h)
		r.compact[i] = util.CompactKey(h)
	}
	return r
}

// Index tries an exact trimmed, lowercased match first and falls back to comparing
// with all spaces removed. The first matching column wins.
func (r *Resolver) Index(key string) (int, bool) {
	norm := util.NormalizeKey(key)
	if idx, ok := r.cache[norm]; ok {
		return idx, idx >= 0
	}

	idx := indexOf(r.normalized, norm)
	if idx < 0 {
		idx = indexOf(r.compact, strings.ReplaceAll(norm, " ", ""))
	}
	r.cache[norm] = idx
	return idx, idx >= 0
}

// Value returns the trimmed cell for key, or "" when the column is absent or the row is short.
func (r *Resolver) Value(row []string, key string) string {
	idx, ok := r.Index(key)
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (r *Resolver) Width() int {
	return len(r.normalized)
}

func indexOf(values []string, want string) int {
	if want == "" {
		return -1
	}
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
