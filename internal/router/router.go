package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"franchiseops/internal/auth"
	"franchiseops/internal/franchise"
	"franchiseops/internal/inspection"
	"franchiseops/internal/menu"
	"franchiseops/internal/metrics"
	"franchiseops/internal/middleware"
	"franchiseops/internal/report"
)

// Deps is everything the HTTP surface needs. UploadDir is served under
// UploadPath when local blob storage is in use.
type Deps struct {
	Log         *zap.Logger
	Tokens      *auth.Tokens
	CORSOrigins []string

	Auth        *auth.Handler
	Franchises  *franchise.Handler
	Inspections *inspection.Handler
	Menu        *menu.Handler
	Reports     *report.Handler

	UploadDir  string
	UploadPath string
}

func New(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// cors.New panics on an empty origin list; no origins means no CORS.
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── PUBLIC ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if d.UploadDir != "" && d.UploadPath != "" {
		r.Static(d.UploadPath, d.UploadDir)
	}

	if d.Auth != nil {
		r.POST("/auth/login", d.Auth.Login)
	}

	// ───────────────────────── AUTHENTICATED ─────────────────────────
	api := r.Group("")
	api.Use(middleware.Auth(d.Tokens))
	admin := middleware.RequireRole(auth.RoleAdmin)

	if d.Auth != nil {
		api.POST("/auth/register", admin, d.Auth.Register)
	}

	if d.Franchises != nil {
		api.GET("/franchises", d.Franchises.List)
		api.GET("/franchises/:id", d.Franchises.Get)
		api.POST("/franchises", admin, d.Franchises.Create)
	}

	if d.Inspections != nil {
		api.GET("/checklist/sectors", d.Inspections.Sectors)

		inspections := api.Group("/inspections")
		{
			inspections.POST("", d.Inspections.Submit)
			inspections.GET("", d.Inspections.List)
			inspections.GET("/:id", d.Inspections.Get)
			inspections.GET("/:id/unified", d.Inspections.Unified)
			inspections.PATCH("/:id", admin, d.Inspections.Update)
			inspections.DELETE("/:id", admin, d.Inspections.Delete)
		}

		api.POST("/admin/inspections/dedupe", admin, d.Inspections.Dedupe)
	}

	if d.Reports != nil {
		api.GET("/inspections/:id/report.html", d.Reports.InspectionHTML)
		api.GET("/inspections/:id/report.xlsx", d.Reports.InspectionXLSX)
		api.GET("/menu/report.html", d.Reports.MenuHTML)
	}

	if d.Menu != nil {
		m := api.Group("/menu")
		{
			m.GET("", d.Menu.List)
			m.POST("", d.Menu.Create)
			m.PUT("/:id", d.Menu.Update)
			m.DELETE("/:id", d.Menu.Delete)
			m.DELETE("", d.Menu.DeleteByDate)
			m.POST("/images", d.Menu.UploadImage)
			m.POST("/analyze-image", d.Menu.AnalyzeImage)
			m.POST("/analyze-text", d.Menu.AnalyzeText)
		}
	}

	return r
}
