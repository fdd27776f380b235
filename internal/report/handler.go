package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"franchiseops/internal/checklist"
	"franchiseops/internal/core"
	"franchiseops/internal/inspection"
	"franchiseops/internal/menu"
	"franchiseops/internal/observability"
)

type InspectionSource interface {
	Unified(ctx context.Context, id string) (*inspection.UnifiedReport, error)
}

type MenuSource interface {
	List(ctx context.Context, date string) ([]menu.MenuItem, error)
}

type Handler struct {
	inspections InspectionSource
	menus       MenuSource
	franchises  core.FranchiseReader
	catalog     checklist.Catalog
	log         *zap.Logger
}

func NewHandler(
	inspections InspectionSource,
	menus MenuSource,
	franchises core.FranchiseReader,
	catalog checklist.Catalog,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		inspections: inspections,
		menus:       menus,
		franchises:  franchises,
		catalog:     catalog,
		log:         log,
	}
}

// --------------------------------------------------
// GET /inspections/:id/report.html
// --------------------------------------------------
func (h *Handler) InspectionHTML(c *gin.Context) {
	rep, header, ok := h.loadInspection(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := RenderInspectionHTML(&buf, *rep, header); err != nil {
		h.fail(c, "render inspection report", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// --------------------------------------------------
// GET /inspections/:id/report.xlsx
// --------------------------------------------------
func (h *Handler) InspectionXLSX(c *gin.Context) {
	rep, header, ok := h.loadInspection(c)
	if !ok {
		return
	}

	f, err := InspectionXLSX(*rep, header)
	if err != nil {
		h.fail(c, "build spreadsheet", err)
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		h.fail(c, "write spreadsheet", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+InspectionFilename(header.FranchiseName, header.Date)+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// --------------------------------------------------
// GET /menu/report.html?date=
// --------------------------------------------------
func (h *Handler) MenuHTML(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	items, err := h.menus.List(c.Request.Context(), date)
	if errors.Is(err, menu.ErrInvalidItem) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, "load menu", err)
		return
	}

	var buf bytes.Buffer
	if err := RenderMenuHTML(&buf, date, menu.GroupByCategory(items)); err != nil {
		h.fail(c, "render menu", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) loadInspection(c *gin.Context) (*inspection.UnifiedReport, Header, bool) {
	ctx := c.Request.Context()

	rep, err := h.inspections.Unified(ctx, c.Param("id"))
	if errors.Is(err, inspection.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, Header{}, false
	}
	if err != nil {
		h.fail(c, "load inspection", err)
		return nil, Header{}, false
	}

	name := rep.FranchiseID
	if h.franchises != nil {
		if n, err := h.franchises.FranchiseName(ctx, rep.FranchiseID); err == nil {
			name = n
		} else {
			h.log.Warn("franchise name unavailable", zap.String("franchise_id", rep.FranchiseID), zap.Error(err))
		}
	}

	return rep, HeaderFromCatalog(name, rep.Date, h.catalog), true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	observability.CaptureRequest(c, err)
	h.log.Error("report failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op + ": " + err.Error()})
}
