package inspection

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"franchiseops/internal/auth"
	"franchiseops/internal/observability"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /checklist/sectors
// --------------------------------------------------
func (h *Handler) Sectors(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

// --------------------------------------------------
// POST /inspections
// --------------------------------------------------
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// Only admins may file on behalf of another inspector.
	if req.InspectorID == "" || c.GetString("userRole") != auth.RoleAdmin {
		req.InspectorID = c.GetString("userID")
	}

	saved, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		var sErr *SectorError
		if errors.As(err, &sErr) {
			observability.CaptureRequest(c, err)
			committed := sErr.Committed
			if committed == nil {
				committed = []string{}
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "could not " + sErr.Op + " for sector " + sErr.Sector + ": " + sErr.Err.Error(),
				"sector":    sErr.Sector,
				"operation": sErr.Op,
				"committed": committed,
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inspections": saved})
}

// --------------------------------------------------
// GET /inspections?franchise_id&from&to
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), ListFilter{
		FranchiseID: c.Query("franchise_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --------------------------------------------------
// GET /inspections/:id
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	in, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// --------------------------------------------------
// GET /inspections/:id/unified
// --------------------------------------------------
func (h *Handler) Unified(c *gin.Context) {
	rep, err := h.service.Unified(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// --------------------------------------------------
// ADMIN: PATCH /inspections/:id
// --------------------------------------------------
func (h *Handler) Update(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in, err := h.service.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// --------------------------------------------------
// ADMIN: DELETE /inspections/:id
// --------------------------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------------------------------------------------
// ADMIN: POST /admin/inspections/dedupe?dry_run=true
// --------------------------------------------------
func (h *Handler) Dedupe(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	if dryRun {
		groups, err := h.service.FindDuplicates(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dry_run": true, "groups": groups, "deleted": 0})
		return
	}

	groups, n, err := h.service.RemoveDuplicates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dry_run": false, "groups": groups, "deleted": n})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		observability.CaptureRequest(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inspection operation failed: " + err.Error()})
	}
}
