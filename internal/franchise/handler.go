package franchise

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /franchises
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch franchises"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// --------------------------------------------------
// GET /franchises/:id
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	f, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch franchise"})
		return
	}
	c.JSON(http.StatusOK, f)
}

// --------------------------------------------------
// ADMIN: POST /franchises
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	f, err := h.service.Create(c.Request.Context(), req.Name, req.Location)
	if errors.Is(err, ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create franchise"})
		return
	}
	c.JSON(http.StatusCreated, f)
}
