package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// ReportHandler serves the seven canonical report collections plus the
// financial summaries. Tier gating happens in the PageGuard middleware;
// by the time a request lands here it is allowed.
type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) bindFilter(c echo.Context) (ports.ReportFilter, error) {
	var q reportQuery
	if err := c.Bind(&q); err != nil {
		return ports.ReportFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if q.Month < 0 || q.Month > 12 {
		return ports.ReportFilter{}, echo.NewHTTPError(http.StatusBadRequest, "month must be between 1 and 12")
	}
	return q.filter(), nil
}

// Attendance handles GET /v1/reports/attendance.
//
// @Summary      Attendance report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.AttendanceRecord
// @Router       /v1/reports/attendance [get]
func (h *ReportHandler) Attendance(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Attendance(c.Request().Context(), f))
}

// Salaries handles GET /v1/reports/salaries.
//
// @Summary      Salary report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.SalaryRecord
// @Router       /v1/reports/salaries [get]
func (h *ReportHandler) Salaries(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Salaries(c.Request().Context(), f))
}

// DoctorFees handles GET /v1/reports/doctor-fees.
//
// @Summary      Doctor fee report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.DoctorFeeRecord
// @Router       /v1/reports/doctor-fees [get]
func (h *ReportHandler) DoctorFees(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.DoctorFees(c.Request().Context(), f))
}

// Expenses handles GET /v1/reports/expenses.
//
// @Summary      Expense report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ExpenseRecord
// @Router       /v1/reports/expenses [get]
func (h *ReportHandler) Expenses(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Expenses(c.Request().Context(), f))
}

// Treatments handles GET /v1/reports/treatments.
//
// @Summary      Treatment report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.TreatmentRecord
// @Router       /v1/reports/treatments [get]
func (h *ReportHandler) Treatments(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Treatments(c.Request().Context(), f))
}

// Sales handles GET /v1/reports/sales.
//
// @Summary      Sales report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.SalesRecord
// @Router       /v1/reports/sales [get]
func (h *ReportHandler) Sales(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Sales(c.Request().Context(), f))
}

// FieldTrips handles GET /v1/reports/field-trips.
//
// @Summary      Field trip sales report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.FieldTripSaleRecord
// @Router       /v1/reports/field-trips [get]
func (h *ReportHandler) FieldTrips(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.FieldTrips(c.Request().Context(), f))
}

// Financial handles GET /v1/reports/financial — the per-(month, year)
// summaries reduced from the six source streams.
//
// @Summary      Financial summary report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.FinancialSummary
// @Router       /v1/reports/financial [get]
func (h *ReportHandler) Financial(c echo.Context) error {
	f, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.reports.Financial(c.Request().Context(), f))
}
