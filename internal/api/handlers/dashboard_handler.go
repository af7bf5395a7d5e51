package handlers

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

// DashboardTemplate is the template name the router must register.
const DashboardTemplate = "dashboard.html"

// DashboardView feeds the server-rendered page.
type DashboardView struct {
	Bounds     domain.DateBounds
	Start      string
	End        string
	Names      []string
	Selected   string
	Report     *domain.InsightReport
	Notice     string
	Error      string
	ExportPath string
}

// Dashboard renders the promotion picker and, once a promotion is chosen,
// its metrics. Without a selection the first promotion of the window is used.
func (h *InsightHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	view := DashboardView{}

	bounds, err := h.service.DateBounds(ctx)
	if err != nil {
		view.Error = messageFor(err)
		c.HTML(statusCode(err), DashboardTemplate, view)
		return
	}
	view.Bounds = bounds
	view.Start = c.DefaultQuery("start", bounds.Min.Format(dateLayout))
	view.End = c.DefaultQuery("end", bounds.Max.Format(dateLayout))

	start, end, err := parseRange(view.Start, view.End)
	if err == nil {
		view.Names, err = h.service.PromotionNames(ctx, start, end)
	}
	if err != nil {
		view.Error = messageFor(err)
		c.HTML(statusCode(err), DashboardTemplate, view)
		return
	}
	if len(view.Names) == 0 {
		view.Notice = domain.StatusNoPromotions.Label()
		c.HTML(http.StatusOK, DashboardTemplate, view)
		return
	}

	view.Selected = strings.TrimSpace(c.Query("promotion"))
	if !slices.Contains(view.Names, view.Selected) {
		view.Selected = view.Names[0]
	}

	report, err := h.service.BuildReport(ctx, start, end, view.Selected)
	if err != nil {
		view.Error = messageFor(err)
		c.HTML(statusCode(err), DashboardTemplate, view)
		return
	}
	view.Report = report
	if report.Status != domain.StatusOK {
		view.Notice = report.Message
	}
	view.ExportPath = "/api/v1/insights/export?" + url.Values{
		"start":     {view.Start},
		"end":       {view.End},
		"promotion": {view.Selected},
	}.Encode()
	c.HTML(http.StatusOK, DashboardTemplate, view)
}

func messageFor(err error) string {
	if status, ok := domain.StatusFor(err); ok && status != domain.StatusOK {
		return status.Label()
	}
	if statusCode(err) == http.StatusServiceUnavailable {
		return "Dados indisponíveis para esta seleção."
	}
	return err.Error()
}
