package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	reports   *services.ReportService
	activity  *activity.Logger
	validator *services.ValidationHelper
	log       logrus.FieldLogger
}

func NewDashboardHandler(dashboard *services.DashboardService, reports *services.ReportService, activities *activity.Logger, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		reports:   reports,
		activity:  activities,
		validator: services.NewValidationHelper(),
		log:       log,
	}
}

func (h *DashboardHandler) DashboardRoutes(r chi.Router) {
	r.Get("/", h.Summary)
	r.Post("/closing", h.Close)
	r.Put("/past-cash", h.SetPastCash)
}

func (h *DashboardHandler) ReportRoutes(r chi.Router) {
	r.Get("/income", h.IncomeReport)
	r.Get("/income.xlsx", h.IncomeReportXLSX)
}

// Summary returns today's hisab
// @Summary Dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardSummary
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dashboard.Summary(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "load dashboard")
		return
	}
	services.SendJSON(w, http.StatusOK, sum)
}

// Close stores today's hisab
// @Summary Close the day
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DailyHisab
// @Router /dashboard/closing [post]
func (h *DashboardHandler) Close(w http.ResponseWriter, r *http.Request) {
	hisab, err := h.dashboard.Close(r.Context())
	if err != nil {
		fail(w, r, h.log, err, "close the day")
		return
	}
	services.SendJSON(w, http.StatusOK, hisab)
}

// SetPastCash overrides today's opening cash
// @Summary Set past cash
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PastCashRequest true "Past cash"
// @Success 200 {object} map[string]string
// @Router /dashboard/past-cash [put]
func (h *DashboardHandler) SetPastCash(w http.ResponseWriter, r *http.Request) {
	var req models.PastCashRequest
	if !h.validator.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.dashboard.SetPastCash(r.Context(), req.PastCash); err != nil {
		fail(w, r, h.log, err, "save past cash")
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]string{"message": "Past cash updated"})
}

// IncomeReport aggregates income by period
// @Summary Income report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "daily, monthly or yearly"
// @Success 200 {object} models.IncomeReport
// @Failure 400 {object} services.ErrorResponse
// @Router /reports/income [get]
func (h *DashboardHandler) IncomeReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Income(r.Context(), periodParam(r))
	if err != nil {
		fail(w, r, h.log, err, "build report")
		return
	}
	services.SendJSON(w, http.StatusOK, report)
}

// IncomeReportXLSX downloads the income report
// @Summary Income report workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param period query string false "daily, monthly or yearly"
// @Success 200 {file} file
// @Router /reports/income.xlsx [get]
func (h *DashboardHandler) IncomeReportXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Income(r.Context(), periodParam(r))
	if err != nil {
		fail(w, r, h.log, err, "build report")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=income-"+report.Period+".xlsx")
	if err := services.WriteXLSX(report, w); err != nil {
		h.log.WithError(err).Error("report export failed")
	}
}

// Activities lists today's activity log
// @Summary Activity log
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Module, action or details"
// @Success 200 {array} models.Activity
// @Router /activities [get]
func (h *DashboardHandler) Activities(w http.ResponseWriter, r *http.Request) {
	items, err := h.activity.Today(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		fail(w, r, h.log, err, "load activities")
		return
	}
	services.SendJSON(w, http.StatusOK, items)
}

func periodParam(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return models.PeriodDaily
}
