package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"franchiseops/internal/observability"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /menu?date=
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// --------------------------------------------------
// POST /menu (object or array)
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var items []MenuItem
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &items)
	} else {
		var one MenuItem
		err = json.Unmarshal(trimmed, &one)
		items = []MenuItem{one}
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// --------------------------------------------------
// PUT /menu/:id
// --------------------------------------------------
func (h *Handler) Update(c *gin.Context) {
	var req MenuItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// --------------------------------------------------
// DELETE /menu/:id
// --------------------------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------------------------------------------------
// DELETE /menu?date=
// --------------------------------------------------
func (h *Handler) DeleteByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	n, err := h.service.DeleteByDate(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// --------------------------------------------------
// POST /menu/images
// --------------------------------------------------
func (h *Handler) UploadImage(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), req.Image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// --------------------------------------------------
// POST /menu/analyze-image
// --------------------------------------------------
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	res, err := h.service.AnalyzeImage(c.Request.Context(), req.Image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --------------------------------------------------
// POST /menu/analyze-text
// --------------------------------------------------
func (h *Handler) AnalyzeText(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	res, err := h.service.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidItem), errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not analyse the image with any available model, try again or fill the item manually"})
	default:
		observability.CaptureRequest(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "menu operation failed: " + err.Error()})
	}
}
