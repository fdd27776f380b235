package inspection

import (
	"slices"
	"testing"

	"franchiseops/internal/checklist"
)

func TestDedupeBySector_NewestWins(t *testing.T) {
	records := []Inspection{
		{ID: "t3", Sector: "A"},
		{ID: "t2", Sector: "B"},
		{ID: "t1", Sector: "A"},
	}

	kept := DedupeBySector(records)
	if len(kept) != 2 || kept[0].ID != "t3" || kept[1].ID != "t2" {
		t.Fatalf("kept %+v", kept)
	}
}

func TestAggregate_RecomputesPercentageFromSums(t *testing.T) {
	records := []Inspection{
		{ID: "a", Sector: "A", TotalPoints: 100, PointsAchieved: 80, Percentage: 80, Rating: checklist.RatingGood},
		{ID: "b", Sector: "B", TotalPoints: 50, PointsAchieved: 50, Percentage: 100, Rating: checklist.RatingExcellent},
	}

	rep := Aggregate(records, nil)
	if rep.TotalPoints != 150 || rep.PointsAchieved != 130 {
		t.Fatalf("sums %d/%d", rep.PointsAchieved, rep.TotalPoints)
	}
	want := 130.0 / 150.0 * 100
	if rep.Percentage != want {
		t.Fatalf("percentage %v, want %v", rep.Percentage, want)
	}
	if rep.Rating != checklist.Classify(want) {
		t.Fatalf("rating %s", rep.Rating)
	}
}

func TestAggregate_FullMarksAcrossSectors(t *testing.T) {
	records := []Inspection{
		{ID: "a", Sector: "A", TotalPoints: 100, PointsAchieved: 100},
		{ID: "b", Sector: "B", TotalPoints: 50, PointsAchieved: 50},
	}
	rep := Aggregate(records, nil)
	if rep.Percentage != 100.0 || rep.Rating != checklist.RatingExcellent {
		t.Fatalf("got %v %s", rep.Percentage, rep.Rating)
	}
}

func TestAggregate_UnifiedRatingCanDifferFromSectors(t *testing.T) {
	records := []Inspection{
		{ID: "a", Sector: "A", TotalPoints: 10, PointsAchieved: 10, Rating: checklist.RatingExcellent},
		{ID: "b", Sector: "B", TotalPoints: 90, PointsAchieved: 10, Rating: checklist.RatingAchievedScore},
	}
	rep := Aggregate(records, nil)
	if rep.Percentage != 20 || rep.Rating != checklist.RatingAchievedScore {
		t.Fatalf("got %v %s", rep.Percentage, rep.Rating)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	rep := Aggregate(nil, nil)
	if rep.TotalPoints != 0 || rep.Percentage != 0 || rep.Rating != checklist.RatingAchievedScore {
		t.Fatalf("got %+v", rep)
	}
	if rep.Groups == nil || rep.Sectors == nil {
		t.Fatal("expected empty, non-nil slices")
	}
}

func TestAggregate_GroupingPreservesInputOrder(t *testing.T) {
	records := []Inspection{{ID: "r1", Sector: "A", TotalPoints: 3}}
	items := []ChecklistItem{
		{InspectionID: "r1", Category: "X", ItemName: "item1", Status: checklist.StatusOK},
		{InspectionID: "r1", Category: "Y", ItemName: "item2", Status: checklist.StatusNotOK},
		{InspectionID: "r1", Category: "X", ItemName: "item3", Status: checklist.StatusNotOK},
	}

	rep := Aggregate(records, items)
	if len(rep.Groups) != 1 {
		t.Fatalf("groups %+v", rep.Groups)
	}
	cats := rep.Groups[0].Categories
	if len(cats) != 2 || cats[0].Category != "X" || cats[1].Category != "Y" {
		t.Fatalf("categories %+v", cats)
	}
	if names(cats[0].Items) != "item1,item3" || names(cats[1].Items) != "item2" {
		t.Fatalf("X=%s Y=%s", names(cats[0].Items), names(cats[1].Items))
	}
	if cats[0].Approved != 1 || rep.OKCount != 1 || rep.NotOKCount != 2 {
		t.Fatalf("counts approved=%d ok=%d no=%d", cats[0].Approved, rep.OKCount, rep.NotOKCount)
	}
}

func TestAggregate_SectorsFollowKeptOrderAndDropOldItems(t *testing.T) {
	records := []Inspection{
		{ID: "new-b", Sector: "B"},
		{ID: "new-a", Sector: "A"},
		{ID: "old-b", Sector: "B"},
	}
	items := []ChecklistItem{
		{InspectionID: "new-a", Category: "C", ItemName: "a1"},
		{InspectionID: "old-b", Category: "C", ItemName: "stale"},
		{InspectionID: "new-b", Category: "C", ItemName: "b1"},
	}

	rep := Aggregate(records, items)
	if len(rep.Groups) != 2 || rep.Groups[0].Sector != "B" || rep.Groups[1].Sector != "A" {
		t.Fatalf("groups %+v", rep.Groups)
	}
	if names(rep.Groups[0].Categories[0].Items) != "b1" {
		t.Fatalf("stale item leaked: %+v", rep.Groups[0])
	}
	if len(rep.Sectors) != 2 || rep.Sectors[0].InspectionID != "new-b" {
		t.Fatalf("sectors %+v", rep.Sectors)
	}
}

func TestAggregate_PhotoUnionKeepsDuplicates(t *testing.T) {
	records := []Inspection{{ID: "r1", Sector: "A"}}
	items := []ChecklistItem{{
		InspectionID: "r1",
		Category:     "X",
		ItemName:     "i",
		Photos:       []string{"p1.jpg", "p2.jpg"},
		PhotoURL:     "p1.jpg",
	}}

	got := Aggregate(records, items).Groups[0].Categories[0].Items[0].Photos
	want := []string{"p1.jpg", "p2.jpg", "p1.jpg"}
	if !slices.Equal(got, want) {
		t.Fatalf("photos %v, want %v", got, want)
	}
}

func names(items []ReportItem) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += it.ItemName
	}
	return out
}
