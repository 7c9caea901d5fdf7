package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceCleaner   = strings.NewReplacer("₱", "", ",", "", "\u00a0", "", " ", "")
	wattagePattern = regexp.MustCompile(`(?i)(\d{2,4})\s*(w|watts?)\b`)
)

// NormalizePrice strips the peso glyph, thousands separators and a trailing ".00".
// "₱1,234.00" becomes "1234" and "₱999.50" stays "999.50".
func NormalizePrice(input string) string {
	s := strings.TrimSpace(priceCleaner.Replace(input))
	s = strings.TrimSuffix(s, ".00")
	return strings.TrimSpace(s)
}

// ExtractWattage finds a "650W" or "650 Watts" token in text.
func ExtractWattage(text string) (int, bool) {
	m := wattagePattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeFormFactor maps spelling variants onto ATX, Micro-ATX, Mini-ITX and E-ATX.
// Anything unrecognised is returned unchanged.
func NormalizeFormFactor(ff string) string {
	if ff == "" {
		return ff
	}
	v := strings.ToLower(strings.TrimSpace(ff))
	v = strings.NewReplacer("_", "-", " ", "-").Replace(v)
	switch v {
	case "micro-atx", "matx", "m-atx", "u-atx", "uatx", "microatx":
		return "Micro-ATX"
	case "mini-itx", "mitx", "miniitx":
		return "Mini-ITX"
	case "e-atx", "eatx":
		return "E-ATX"
	}
	switch {
	case strings.Contains(v, "micro") && strings.Contains(v, "atx"):
		return "Micro-ATX"
	case strings.Contains(v, "mini") && strings.Contains(v, "itx"):
		return "Mini-ITX"
	case strings.Contains(v, "atx"):
		return "ATX"
	}
	return ff
}

var knownSockets = []string{"AM4", "AM5", "LGA1200", "LGA1700", "LGA1151", "LGA2066"}

// NormalizeSocket reduces "AMD AM4" style values to the bare socket. When socket is
// blank the name is searched instead.
func NormalizeSocket(socket, name string) string {
	src := socket
	if strings.TrimSpace(src) == "" {
		src = name
	}
	upper := strings.ToUpper(src)
	for _, s := range knownSockets {
		if strings.Contains(upper, s) {
			return s
		}
	}
	return socket
}
