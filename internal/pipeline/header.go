package pipeline

import (
	"errors"
	"strings"

	"pcprep/internal/util"
)

var ErrHeaderNotFound = errors.New("no header row with the marker columns found")

// LocateHeader returns the index of the first row in which every marker is a
// case-sensitive substring of some cell.
func LocateHeader(rows [][]string, markers []string) (int, error) {
	for i, row := range rows {
		if util.ContainsAll(row, markers) {
			return i, nil
		}
	}
	return -1, ErrHeaderNotFound
}

// LocateHeaderLine is LocateHeader over unparsed text lines.
func LocateHeaderLine(lines []string, markers []string) (int, error) {
	for i, line := range lines {
		found := true
		for _, m := range markers {
			if !strings.Contains(line, m) {
				found = false
				break
			}
		}
		if found {
			return i, nil
		}
	}
	return -1, ErrHeaderNotFound
}
