package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteTable writes the header and rows to outputPath, replacing any existing file.
// A .xlsx destination becomes a workbook; anything else is written as CSV.
func WriteTable(t Table, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return writeXLSX(t, outputPath)
	}
	return writeCSV(t, outputPath)
}

func writeCSV(t Table, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeXLSX(t Table, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value string) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellStr(sheet, cell, value)
	}
	for i, h := range t.Header {
		set(i+1, 1, h)
	}
	for r, row := range t.Rows {
		for c, value := range row {
			set(c+1, r+2, value)
		}
	}
	return f.SaveAs(outputPath)
}

// WriteLines writes lines verbatim; they are expected to carry their own terminators.
func WriteLines(lines []string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(strings.Join(lines, "")), 0o644)
}
