package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/service"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

const dateLayout = "2006-01-02"

type InsightHandler struct {
	service *service.InsightService
}

func NewInsightHandler(service *service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

func (h *InsightHandler) GetBounds(c *gin.Context) {
	bounds, err := h.service.DateBounds(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"min": bounds.Min.Format(dateLayout),
		"max": bounds.Max.Format(dateLayout),
	})
}

func (h *InsightHandler) GetPromotions(c *gin.Context) {
	start, end, err := parseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	names, err := h.service.PromotionNames(c.Request.Context(), start, end)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if len(names) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":     domain.StatusNoPromotions,
			"message":    domain.StatusNoPromotions.Label(),
			"promotions": []string{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"promotions": names})
}

func (h *InsightHandler) GetMonths(c *gin.Context) {
	months, err := h.service.Months(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// GetInsight answers with the full report. Selections with nothing to show
// are a 404 that still carries the report and its status.
func (h *InsightHandler) GetInsight(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}

	status := http.StatusOK
	if report.Status != domain.StatusOK {
		status = http.StatusNotFound
	}
	c.JSON(status, report)
}

// ExportCorrelated downloads the correlated rows of a selection as CSV.
func (h *InsightHandler) ExportCorrelated(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="correlacionados.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := treated.WriteCorrelatedCSV(c.Writer, report.Correlated); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("export correlated rows failed")
	}
}

func (h *InsightHandler) buildReport(c *gin.Context) (*domain.InsightReport, bool) {
	start, end, err := parseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		errorResponse(c, err)
		return nil, false
	}

	name := strings.TrimSpace(c.Query("promotion"))
	if name == "" {
		errorResponse(c, errBadRequest("promotion parameter is required"))
		return nil, false
	}

	report, err := h.service.BuildReport(c.Request.Context(), start, end, name)
	if err != nil {
		errorResponse(c, err)
		return nil, false
	}
	return report, true
}

type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func errBadRequest(msg string) error { return badRequest{msg: msg} }

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, errBadRequest("start and end parameters are required (YYYY-MM-DD)")
	}
	start, err := time.Parse(dateLayout, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, errBadRequest("invalid start date: " + rawStart)
	}
	end, err := time.Parse(dateLayout, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, errBadRequest("invalid end date: " + rawEnd)
	}
	return start, end, nil
}

// statusCode maps service errors onto HTTP statuses.
func statusCode(err error) int {
	var bad badRequest
	switch {
	case errors.As(err, &bad), errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownPromotion), errors.Is(err, domain.ErrNoPromotions):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errors.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c *gin.Context, err error) {
	code := statusCode(err)
	body := gin.H{"error": err.Error()}
	if status, ok := domain.StatusFor(err); ok && status != domain.StatusOK {
		body["status"] = status
		body["message"] = status.Label()
	}
	if code >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(code, body)
}
