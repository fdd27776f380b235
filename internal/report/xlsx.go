package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"franchiseops/internal/checklist"
	"franchiseops/internal/inspection"
)

const (
	summarySheet = "Summary"
	itemsSheet   = "Items"
)

// InspectionXLSX exports the unified report as a workbook with a summary
// sheet and one row per checklist item.
func InspectionXLSX(rep inspection.UnifiedReport, h Header) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}

	summary := [][]any{
		{"Sector", "Points achieved", "Total points", "Percentage", "Rating"},
	}
	for _, s := range rep.Sectors {
		summary = append(summary, []any{
			h.sectorName(s.Sector), s.PointsAchieved, s.TotalPoints, FormatPercent(s.Percentage), s.Rating.Label(),
		})
	}
	summary = append(summary,
		[]any{"Total", rep.PointsAchieved, rep.TotalPoints, FormatPercent(rep.Percentage), rep.Rating.Label()},
		[]any{},
		[]any{"Franchise", h.FranchiseName},
		[]any{"Date", DisplayDate(h.Date)},
		[]any{"Items OK", rep.OKCount},
		[]any{"Items not OK", rep.NotOKCount},
	)
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	items := [][]any{
		{"Sector", "Category", "Item", "Status", "Points", "Observation", "Responsible", "Photos"},
	}
	for _, g := range rep.Groups {
		for _, c := range g.Categories {
			for _, it := range c.Items {
				status := "NOT OK"
				if it.Status == checklist.StatusOK {
					status = "OK"
				}
				items = append(items, []any{
					h.sectorName(g.Sector), c.Category, it.ItemName, status, it.Points,
					it.Observation, it.Responsible, strings.Join(it.Photos, "\n"),
				})
			}
		}
	}
	if err := writeRows(f, itemsSheet, items); err != nil {
		return nil, err
	}

	for _, sheet := range []string{summarySheet, itemsSheet} {
		if err := applyDefaultFormatting(f, sheet); err != nil {
			return nil, fmt.Errorf("format %s: %w", sheet, err)
		}
	}

	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
