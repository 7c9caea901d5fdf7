// Package catalog holds the fixed domain tables used to classify and file PC components.
// A Catalog is built once at startup and only read afterwards.
package catalog

import (
	"strings"

	"pcprep/internal/util"
)

type Catalog struct {
	Markers      []string
	PriceColumns []string
	Keywords     []string
	Excluded     []string
	BasePath     string

	categoryIDs map[string]int
	folders     map[string]string
	keywordKeys []string
}

var defaultCategoryIDs = map[string]int{
	"CPU":          1,
	"Motherboard":  2,
	"GPU":          3,
	"RAM":          4,
	"Storage":      5,
	"PSU":          6,
	"Case Gaming":  7,
	"Case Generic": 7,
	"AIO":          8,
	"Cooler Fan":   8,
	"Cooler":       8,
}

var defaultFolders = map[string]string{
	"CPU":           "cpu",
	"Processor":     "cpu",
	"GPU":           "gpu",
	"Graphics Card": "gpu",
	"VGA":           "gpu",
	"Motherboard":   "motherboard",
	"ATX":           "motherboard",
	"mATX":          "motherboard",
	"ITX":           "motherboard",
	"RAM":           "ram",
	"Memory":        "ram",
	"DDR4":          "ram",
	"DDR5":          "ram",
	"SSD":           "ssd",
	"NVMe":          "ssd",
	"SATA":          "ssd",
	"HDD":           "hdd",
	"Storage":       "storage",
	"PSU":           "psu",
	"Power Supply":  "psu",
	"Case":          "case",
	"Case Gaming":   "case",
	"Case Generic":  "case",
	"Cooler":        "cooler",
	"Cooler Fan":    "cooler",
	"AIO":           "cooler",
	"Fan":           "fan",
}

var defaultKeywords = []string{
	"CPU", "Processor", "GPU", "Graphics Card", "Motherboard", "RAM", "Memory", "SSD", "HDD", "Storage",
	"PSU", "Power Supply", "Case", "Cooler", "Fan", "AIO", "VGA", "NVMe", "SATA", "DDR4", "DDR5", "ATX", "mATX", "ITX",
}

// Default returns the catalog for the spreadsheet exports this tool was written for.
func Default(basePath string) *Catalog {
	return New(defaultCategoryIDs, defaultFolders, defaultKeywords, basePath)
}

func New(categoryIDs map[string]int, folders map[string]string, keywords []string, basePath string) *Catalog {
	c := &Catalog{
		Markers:      []string{"Category", "DETAILS"},
		PriceColumns: []string{"vat-inc (srp)", "vat-ex (spcl)", "vat-ex (reseller)"},
		Keywords:     append([]string(nil), keywords...),
		Excluded:     []string{"warranty"},
		BasePath:     strings.TrimRight(basePath, "/"),
		categoryIDs:  make(map[string]int, len(categoryIDs)),
		folders:      make(map[string]string, len(folders)),
		keywordKeys:  make([]string, 0, len(keywords)),
	}
	for k, v := range categoryIDs {
		c.categoryIDs[k] = v
	}
	for k, v := range folders {
		c.folders[k] = v
	}
	for _, kw := range keywords {
		if key := util.NormalizeKey(kw); key != "" {
			c.keywordKeys = append(c.keywordKeys, key)
		}
	}
	return c
}

// CategoryID looks up the trimmed category exactly as written in the export.
func (c *Catalog) CategoryID(category string) (int, bool) {
	id, ok := c.categoryIDs[strings.TrimSpace(category)]
	return id, ok
}

// MatchesKeyword reports whether any curated keyword occurs in category, ignoring case.
func (c *Catalog) MatchesKeyword(category string) bool {
	key := util.NormalizeKey(category)
	if key == "" {
		return false
	}
	for _, kw := range c.keywordKeys {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether text names a line item that is not a component (warranties).
func (c *Catalog) IsExcluded(text string) bool {
	key := util.NormalizeKey(text)
	for _, ex := range c.Excluded {
		if strings.Contains(key, ex) {
			return true
		}
	}
	return false
}

// Folder returns the image subfolder for category. Unknown categories fall back to the
// lowercased category, which is only an approximation of where the image lives.
func (c *Catalog) Folder(category string) string {
	category = strings.TrimSpace(category)
	if folder, ok := c.folders[category]; ok {
		return folder
	}
	return strings.ToLower(category)
}

// ImageURL builds {base}/{folder}/{brand name}.png.
func (c *Catalog) ImageURL(category, brand, name string) string {
	filename := strings.TrimSpace(name)
	if b := strings.TrimSpace(brand); b != "" {
		filename = strings.TrimSpace(b + " " + filename)
	}
	return c.BasePath + "/" + c.Folder(category) + "/" + filename + ".png"
}
