package inspection

import (
	"errors"
	"fmt"
	"time"

	"franchiseops/internal/checklist"
)

var (
	ErrNotFound = errors.New("inspection not found")
	ErrInvalid  = errors.New("invalid inspection")
)

// Inspection is the persisted score of one sector of one franchise visit.
type Inspection struct {
	ID             string           `json:"id"`
	FranchiseID    string           `json:"franchise_id"`
	InspectorID    string           `json:"inspector_id"`
	Date           string           `json:"date"`
	Sector         string           `json:"sector"`
	TotalPoints    int              `json:"total_points"`
	PointsAchieved int              `json:"points_achieved"`
	Percentage     float64          `json:"percentage"`
	Rating         checklist.Rating `json:"rating"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ChecklistItem is one answered line of an inspection. Points are copied
// from the catalog when the inspection is submitted.
type ChecklistItem struct {
	ID           string           `json:"id"`
	InspectionID string           `json:"inspection_id"`
	Category     string           `json:"category"`
	ItemName     string           `json:"item_name"`
	Status       checklist.Status `json:"status"`
	Points       int              `json:"points"`
	Observation  string           `json:"observation"`
	Responsible  string           `json:"responsible"`
	PhotoURL     string           `json:"photo_url,omitempty"`
	Photos       []string         `json:"photos"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AllPhotos is the multi-photo list followed by the legacy single photo.
// Identical URLs are not collapsed.
func (it ChecklistItem) AllPhotos() []string {
	out := make([]string, 0, len(it.Photos)+1)
	out = append(out, it.Photos...)
	if it.PhotoURL != "" {
		out = append(out, it.PhotoURL)
	}
	return out
}

// --------------------------------------------------
// Unified report
// --------------------------------------------------

type UnifiedReport struct {
	FranchiseID    string           `json:"franchise_id"`
	Date           string           `json:"date"`
	TotalPoints    int              `json:"total_points"`
	PointsAchieved int              `json:"points_achieved"`
	Percentage     float64          `json:"percentage"`
	Rating         checklist.Rating `json:"rating"`
	OKCount        int              `json:"ok_count"`
	NotOKCount     int              `json:"not_ok_count"`
	Sectors        []SectorSummary  `json:"sectors"`
	Groups         []SectorGroup    `json:"groups"`
}

// SectorSummary is the stored score of one kept sector record.
type SectorSummary struct {
	InspectionID   string           `json:"inspection_id"`
	Sector         string           `json:"sector"`
	InspectorID    string           `json:"inspector_id"`
	TotalPoints    int              `json:"total_points"`
	PointsAchieved int              `json:"points_achieved"`
	Percentage     float64          `json:"percentage"`
	Rating         checklist.Rating `json:"rating"`
}

type SectorGroup struct {
	Sector     string          `json:"sector"`
	Categories []CategoryGroup `json:"categories"`
}

type CategoryGroup struct {
	Category string       `json:"category"`
	Approved int          `json:"approved"`
	Items    []ReportItem `json:"items"`
}

type ReportItem struct {
	ItemName    string           `json:"item_name"`
	Status      checklist.Status `json:"status"`
	Points      int              `json:"points"`
	Observation string           `json:"observation"`
	Responsible string           `json:"responsible"`
	Photos      []string         `json:"photos"`
}

// --------------------------------------------------
// Inputs
// --------------------------------------------------

// ResponseInput is one answered item as posted by the form.
type ResponseInput struct {
	Sector      string   `json:"sector"`
	Category    string   `json:"category"`
	Item        string   `json:"item"`
	Status      string   `json:"status"`
	Observation string   `json:"observation"`
	Responsible string   `json:"responsible"`
	Photos      []string `json:"photos"`
}

type SubmitRequest struct {
	FranchiseID string          `json:"franchise_id"`
	InspectorID string          `json:"inspector_id"`
	Date        string          `json:"date"`
	Responses   []ResponseInput `json:"responses"`
}

// Patch replaces the fields that are set.
type Patch struct {
	Date           *string  `json:"date"`
	Sector         *string  `json:"sector"`
	InspectorID    *string  `json:"inspector_id"`
	TotalPoints    *int     `json:"total_points"`
	PointsAchieved *int     `json:"points_achieved"`
	Percentage     *float64 `json:"percentage"`
	Rating         *string  `json:"rating"`
}

func (p Patch) empty() bool {
	return p.Date == nil && p.Sector == nil && p.InspectorID == nil &&
		p.TotalPoints == nil && p.PointsAchieved == nil &&
		p.Percentage == nil && p.Rating == nil
}

type ListFilter struct {
	FranchiseID string
	From        string
	To          string
}

// NewSector carries everything persisted for one sector in one transaction.
type NewSector struct {
	Inspection Inspection
	Items      []ChecklistItem
}

// DuplicateGroup is a (franchise, date, sector) with more than one record.
type DuplicateGroup struct {
	FranchiseID string   `json:"franchise_id"`
	Date        string   `json:"date"`
	Sector      string   `json:"sector"`
	KeepID      string   `json:"keep_id"`
	RemoveIDs   []string `json:"remove_ids"`
}

// SectorError reports which sector of a submission failed, and at which step.
type SectorError struct {
	Sector    string
	Op        string
	Committed []string
	Err       error
}

func (e *SectorError) Error() string {
	return fmt.Sprintf("sector %q: %s: %v", e.Sector, e.Op, e.Err)
}

func (e *SectorError) Unwrap() error { return e.Err }
