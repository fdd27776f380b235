package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// applyDefaultFormatting makes row 1 a bold, filterable header and sizes
// every populated column to its content.
func applyDefaultFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	if style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E5E7EB"}},
	}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	}

	_ = f.AutoFilter(sheet, "A1:"+lastCol+"1", nil)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	widths := make([]float64, cols)
	for c := range widths {
		widths[c] = 10
	}
	for rIdx, row := range rows {
		for cIdx := 0; cIdx < cols && cIdx < len(row); cIdx++ {
			w := float64(visualLen(row[cIdx])) * 1.1
			if rIdx == 0 {
				w += 1.5
			}
			if w > 60 {
				w = 60
			}
			if w > widths[cIdx] {
				widths[cIdx] = w
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		_ = f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

// InspectionFilename builds a download name such as
// "Inspection - Moema - 2024-05-01.xlsx".
func InspectionFilename(franchiseName, date string) string {
	name := strings.TrimSpace(franchiseName)
	if name == "" {
		name = "franchise"
	}
	s := fmt.Sprintf("Inspection - %s - %s.xlsx", name, date)
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}
