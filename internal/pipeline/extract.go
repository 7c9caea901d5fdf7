package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"pcprep/internal/util"
)

type InputKind string

const (
	KindCSV  InputKind = "csv"
	KindXLSX InputKind = "xlsx"
	KindHTML InputKind = "html"
)

type ReadOptions struct {
	Encoding string
	Sheet    string
	// Markers select the header table of an HTML document.
	Markers []string
}

func KindFromPath(path string) (InputKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xlsx":
		return KindXLSX, nil
	case ".html", ".htm":
		return KindHTML, nil
	default:
		return "", fmt.Errorf("unsupported input type: %s", path)
	}
}

// ReadTable parses an export into raw rows. Nothing is dropped here; header location
// and row filtering happen later.
func ReadTable(kind InputKind, content []byte, opts ReadOptions) ([][]string, error) {
	switch kind {
	case KindCSV:
		return parseCSV(content, opts.Encoding)
	case KindXLSX:
		return parseXLSX(content, opts.Sheet)
	case KindHTML:
		return parseHTMLTable(content, opts.Markers)
	default:
		return nil, fmt.Errorf("unsupported input kind: %s", kind)
	}
}

// ReadLines decodes content and splits it into lines that keep their terminators,
// so joining them back reproduces the decoded text exactly.
func ReadLines(content []byte, encoding string) ([]string, error) {
	text, err := decode(content, encoding)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func decode(content []byte, encoding string) (string, error) {
	var dec transform.Transformer
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case "windows-1252", "cp1252":
		dec = unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		dec = unicode.BOMOverride(charmap.ISO8859_1.NewDecoder())
	default:
		return "", fmt.Errorf("unsupported input encoding: %s", encoding)
	}
	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(out), nil
}

func parseCSV(content []byte, encoding string) ([][]string, error) {
	text, err := decode(content, encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	out := [][]string{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(out)+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// parseXLSX reads one sheet. excelize drops trailing empty cells, so rows are padded
// to the widest row to keep blank trailing columns from looking like short rows.
func parseXLSX(content []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets found")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return padRows(rows), nil
}

// parseHTMLTable returns the rows of the first <table> that has a row carrying every
// marker, one row per <tr>. Cells are not padded: a short <tr> stays short.
func parseHTMLTable(content []byte, markers []string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if _, err := LocateHeader(rows, markers); err != nil {
			return true
		}
		out = rows
		return false
	})
	if out == nil {
		return nil, fmt.Errorf("no html table with columns %v: %w", markers, ErrHeaderNotFound)
	}
	return out, nil
}

func padRows(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}
