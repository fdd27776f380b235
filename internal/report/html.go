package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"franchiseops/internal/checklist"
	"franchiseops/internal/inspection"
	"franchiseops/internal/menu"
)

//go:embed templates/*.html
var templateFS embed.FS

// Header is the context printed above a report.
type Header struct {
	FranchiseName string
	Date          string
	GeneratedAt   time.Time
	// SectorNames maps sector ids to display names. Unknown ids print as is.
	SectorNames map[string]string
}

func HeaderFromCatalog(franchiseName, date string, catalog checklist.Catalog) Header {
	names := make(map[string]string, len(catalog))
	for _, s := range catalog {
		names[s.ID] = s.Name
	}
	return Header{
		FranchiseName: franchiseName,
		Date:          date,
		GeneratedAt:   time.Now(),
		SectorNames:   names,
	}
}

func (h Header) sectorName(id string) string {
	if n, ok := h.SectorNames[id]; ok {
		return n
	}
	return id
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"pct":         FormatPercent,
	"displayDate": DisplayDate,
	"ratingLabel": func(r checklist.Rating) string { return r.Label() },
	"ratingClass": func(r checklist.Rating) string { return fmt.Sprintf("rating-%d", r.Rank()) },
	"isOK":        func(s checklist.Status) bool { return s == checklist.StatusOK },
	"add":         func(a, b int) int { return a + b },
}).ParseFS(templateFS, "templates/*.html"))

// FormatPercent rounds to one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// DisplayDate prints YYYY-MM-DD as DD/MM/YYYY, leaving anything else alone.
func DisplayDate(d string) string {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return d
	}
	return t.Format("02/01/2006")
}

type inspectionView struct {
	Header Header
	Report inspection.UnifiedReport
	Groups []sectorView
}

type sectorView struct {
	Name    string
	Summary *inspection.SectorSummary
	inspection.SectorGroup
}

// RenderInspectionHTML writes the printable unified inspection report.
func RenderInspectionHTML(w io.Writer, rep inspection.UnifiedReport, h Header) error {
	summaries := make(map[string]*inspection.SectorSummary, len(rep.Sectors))
	for i := range rep.Sectors {
		summaries[rep.Sectors[i].Sector] = &rep.Sectors[i]
	}

	view := inspectionView{Header: h, Report: rep}
	for _, g := range rep.Groups {
		view.Groups = append(view.Groups, sectorView{
			Name:        h.sectorName(g.Sector),
			Summary:     summaries[g.Sector],
			SectorGroup: g,
		})
	}

	return templates.ExecuteTemplate(w, "inspection.html", view)
}

type menuView struct {
	Date   string
	Groups []menu.CategoryGroup
}

// RenderMenuHTML writes the printable daily menu.
func RenderMenuHTML(w io.Writer, date string, groups []menu.CategoryGroup) error {
	return templates.ExecuteTemplate(w, "menu.html", menuView{Date: date, Groups: groups})
}
