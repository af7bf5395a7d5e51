package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/tabloide-insight/internal/api/handlers"
	"github.com/andresuchdata/tabloide-insight/internal/api/middleware"
	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/insight"
	"github.com/andresuchdata/tabloide-insight/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Services struct {
	InsightService *service.InsightService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))
	router.SetHTMLTemplate(dashboardTemplate())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services != nil && services.InsightService != nil {
		insightHandler := handlers.NewInsightHandler(services.InsightService)
		router.GET("/", insightHandler.Dashboard)

		apiGroup := router.Group("/api/v1")
		{
			apiGroup.GET("/promotions/bounds", insightHandler.GetBounds)
			apiGroup.GET("/promotions", insightHandler.GetPromotions)
			apiGroup.GET("/months", insightHandler.GetMonths)
			apiGroup.GET("/insights", insightHandler.GetInsight)
			apiGroup.GET("/insights/export", insightHandler.ExportCorrelated)
		}
	}

	return router
}

func dashboardTemplate() *template.Template {
	funcs := template.FuncMap{
		"brl":    insight.FormatBRL,
		"number": insight.FormatNumber,
		"optbrl": func(n domain.Number) string {
			if !n.Valid {
				return "-"
			}
			return insight.FormatBRL(n.Float64)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}
	return template.Must(template.New(handlers.DashboardTemplate).Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
