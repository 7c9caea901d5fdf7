package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)
	reBOM    = strings.NewReplacer("\ufeff", "")
)

// NormalizeKey is the case and padding insensitive form of a column or category name.
func NormalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(reBOM.Replace(input)))
}

// CompactKey is NormalizeKey with every space removed, so "VAT-INC (SRP)" and
// "vat-inc(srp)" compare equal.
func CompactKey(input string) string {
	return strings.ReplaceAll(NormalizeKey(input), " ", "")
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// ContainsAll reports whether every marker is a case-sensitive substring of some cell.
func ContainsAll(cells []string, markers []string) bool {
	for _, m := range markers {
		found := false
		for _, c := range cells {
			if strings.Contains(c, m) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
