package checklist

import "fmt"

// Status is the outcome recorded for a checklist item.
type Status string

const (
	StatusOK    Status = "OK"
	StatusNotOK Status = "NO"
)

// ParseStatus accepts the stored values plus the long NOT_OK spelling.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "OK":
		return StatusOK, nil
	case "NO", "NOT_OK":
		return StatusNotOK, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ItemKey identifies a response on the inspection form.
type ItemKey struct {
	Sector   string
	Category string
	Item     string
}

// ItemResponse is what the operator recorded for one item.
type ItemResponse struct {
	Status      Status
	Observation string
	Responsible string
	Photos      []string
}

// Responses holds the form state for every answered item.
type Responses map[ItemKey]ItemResponse

// Lookup returns the response for k, defaulting to NOT_OK when the item
// was never answered.
func (r Responses) Lookup(k ItemKey) ItemResponse {
	if resp, ok := r[k]; ok {
		return resp
	}
	return ItemResponse{Status: StatusNotOK}
}

// SectorScore is the live score of one sector.
type SectorScore struct {
	Total      int     `json:"total"`
	Achieved   int     `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

func (s SectorScore) Rating() Rating {
	return Classify(s.Percentage)
}

// Score walks the catalog, not the responses: every item counts towards the
// total, only items answered OK count towards achieved.
func Score(sector Sector, responses Responses) SectorScore {
	var total, achieved int

	for _, cat := range sector.Categories {
		for _, it := range cat.Items {
			total += it.Points

			key := ItemKey{Sector: sector.ID, Category: cat.Title, Item: it.Name}
			if resp, ok := responses[key]; ok && resp.Status == StatusOK {
				achieved += it.Points
			}
		}
	}

	return SectorScore{
		Total:      total,
		Achieved:   achieved,
		Percentage: Percentage(achieved, total),
	}
}

// Percentage is achieved/total*100, or 0 when total is 0.
func Percentage(achieved, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(achieved) / float64(total) * 100
}
