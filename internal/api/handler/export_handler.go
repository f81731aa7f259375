package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// ExportHandler renders the financial summaries as an xlsx attachment,
// the printable artifact the dashboard's report pages produce.
type ExportHandler struct {
	reports ports.ReportService
}

func NewExportHandler(reports ports.ReportService) *ExportHandler {
	return &ExportHandler{reports: reports}
}

const exportSheet = "Financial Report"

var exportHeaders = []string{
	"Period", "Treatment Income", "Sales Income", "Field Trip Income",
	"Salary Expense", "Doctor Fee Expense", "Field Trip Expense",
	"Other Expenses", "Net Profit",
}

// FinancialXLSX handles GET /v1/reports/financial/export.
//
// @Summary      Export the financial summaries as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      500  {object}  errorResponse
// @Router       /v1/reports/financial/export [get]
func (h *ExportHandler) FinancialXLSX(c echo.Context) error {
	filter, err := h.bindFilter(c)
	if err != nil {
		return err
	}

	summaries := h.reports.Financial(c.Request().Context(), filter)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
	}

	for i, s := range summaries {
		row := i + 2
		values := []any{
			fmt.Sprintf("%04d-%02d", s.Year, s.Month),
			s.TreatmentIncome,
			s.SalesIncome,
			s.FieldTripIncome,
			s.SalaryExpense,
			s.DoctorFeeExpense,
			s.FieldTripExpense,
			s.Expenses,
			s.NetProfit,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
	}

	filename := fmt.Sprintf("financial-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response()); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func (h *ExportHandler) bindFilter(c echo.Context) (ports.ReportFilter, error) {
	var q reportQuery
	if err := c.Bind(&q); err != nil {
		return ports.ReportFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	return q.filter(), nil
}
