package inspection

import "franchiseops/internal/checklist"

// DedupeBySector keeps the first record of each sector. Records are
// expected newest-first, so the latest submission wins.
func DedupeBySector(records []Inspection) []Inspection {
	seen := make(map[string]bool, len(records))
	kept := make([]Inspection, 0, len(records))
	for _, r := range records {
		if seen[r.Sector] {
			continue
		}
		seen[r.Sector] = true
		kept = append(kept, r)
	}
	return kept
}

// Aggregate builds the unified cross-sector report. The percentage is
// recomputed from the summed points and never averaged. Items of dropped
// records are ignored.
func Aggregate(records []Inspection, items []ChecklistItem) UnifiedReport {
	kept := DedupeBySector(records)

	rep := UnifiedReport{
		Sectors: make([]SectorSummary, 0, len(kept)),
		Groups:  make([]SectorGroup, 0, len(kept)),
	}
	if len(kept) > 0 {
		rep.FranchiseID = kept[0].FranchiseID
		rep.Date = kept[0].Date
	}

	sectorIdx := make(map[string]int, len(kept))
	byInspection := make(map[string]string, len(kept))

	for _, r := range kept {
		rep.TotalPoints += r.TotalPoints
		rep.PointsAchieved += r.PointsAchieved

		rep.Sectors = append(rep.Sectors, SectorSummary{
			InspectionID:   r.ID,
			Sector:         r.Sector,
			InspectorID:    r.InspectorID,
			TotalPoints:    r.TotalPoints,
			PointsAchieved: r.PointsAchieved,
			Percentage:     r.Percentage,
			Rating:         r.Rating,
		})

		byInspection[r.ID] = r.Sector
		sectorIdx[r.Sector] = len(rep.Groups)
		rep.Groups = append(rep.Groups, SectorGroup{Sector: r.Sector, Categories: []CategoryGroup{}})
	}

	rep.Percentage = checklist.Percentage(rep.PointsAchieved, rep.TotalPoints)
	rep.Rating = checklist.Classify(rep.Percentage)

	catIdx := make(map[[2]string]int)
	for _, it := range items {
		sector, ok := byInspection[it.InspectionID]
		if !ok {
			continue
		}

		g := &rep.Groups[sectorIdx[sector]]
		key := [2]string{sector, it.Category}
		ci, ok := catIdx[key]
		if !ok {
			ci = len(g.Categories)
			catIdx[key] = ci
			g.Categories = append(g.Categories, CategoryGroup{Category: it.Category})
		}

		cg := &g.Categories[ci]
		cg.Items = append(cg.Items, ReportItem{
			ItemName:    it.ItemName,
			Status:      it.Status,
			Points:      it.Points,
			Observation: it.Observation,
			Responsible: it.Responsible,
			Photos:      it.AllPhotos(),
		})

		if it.Status == checklist.StatusOK {
			cg.Approved++
			rep.OKCount++
		} else {
			rep.NotOKCount++
		}
	}

	return rep
}
