package service

import (
	"sort"
	"strings"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// The filter functions below are stateless: each takes a canonical
// collection and returns the subset matching ALL set criteria, sorted by
// date descending as a final step.

// matchSearch is a case-insensitive substring match over any of the given
// name fields. An empty search matches everything.
func matchSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// matchExact matches a categorical criterion. Empty and "all" mean no
// constraint.
func matchExact(criterion, value string) bool {
	return criterion == "" || criterion == "all" || criterion == value
}

// matchShift matches against a possibly merged shift label ("Pagi + Sore"
// matches both "Pagi" and "Sore").
func matchShift(criterion, shift string) bool {
	if criterion == "" || criterion == "all" {
		return true
	}
	for _, part := range strings.Split(shift, " + ") {
		if part == criterion {
			return true
		}
	}
	return false
}

// matchDate applies inclusive date-range bounds and the month/year
// criteria to an ISO date string.
func matchDate(date string, f ports.ReportFilter) bool {
	if f.DateFrom != "" && (date == "" || date < f.DateFrom) {
		return false
	}
	if f.DateTo != "" && (date == "" || date > f.DateTo) {
		return false
	}
	if f.Month != 0 || f.Year != 0 {
		m, y, ok := monthYear(date)
		if !ok {
			return false
		}
		if f.Month != 0 && m != f.Month {
			return false
		}
		if f.Year != 0 && y != f.Year {
			return false
		}
	}
	return true
}

func filterAttendance(records []domain.AttendanceRecord, f ports.ReportFilter) []domain.AttendanceRecord {
	out := make([]domain.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if matchSearch(f.Search, r.DoctorName) &&
			matchShift(f.Shift, r.Shift) &&
			matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].DoctorName < out[j].DoctorName
	})
	return out
}

func filterSalaries(records []domain.SalaryRecord, f ports.ReportFilter) []domain.SalaryRecord {
	out := make([]domain.SalaryRecord, 0, len(records))
	for _, r := range records {
		if !matchSearch(f.Search, r.EmployeeName) {
			continue
		}
		// Salary periods are explicit month/year fields, not parsed dates.
		if f.Month != 0 && r.Month != f.Month {
			continue
		}
		if f.Year != 0 && r.Year != f.Year {
			continue
		}
		rangeOnly := ports.ReportFilter{DateFrom: f.DateFrom, DateTo: f.DateTo}
		if !matchDate(r.Date, rangeOnly) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out
}

func filterDoctorFees(records []domain.DoctorFeeRecord, f ports.ReportFilter) []domain.DoctorFeeRecord {
	out := make([]domain.DoctorFeeRecord, 0, len(records))
	for _, r := range records {
		if matchSearch(f.Search, r.Doctor) &&
			matchShift(f.Shift, r.Shift) &&
			matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

func filterExpenses(records []domain.ExpenseRecord, f ports.ReportFilter) []domain.ExpenseRecord {
	out := make([]domain.ExpenseRecord, 0, len(records))
	for _, r := range records {
		if matchSearch(f.Search, r.Description) &&
			matchExact(f.Category, r.Category) &&
			matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

func filterTreatments(records []domain.TreatmentRecord, f ports.ReportFilter) []domain.TreatmentRecord {
	out := make([]domain.TreatmentRecord, 0, len(records))
	for _, r := range records {
		if matchSearch(f.Search, r.PatientName, r.DoctorName, r.TreatmentName) &&
			matchShift(f.Shift, r.Shift) &&
			matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

func filterSales(records []domain.SalesRecord, f ports.ReportFilter) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if matchSearch(f.Search, r.ProductName) &&
			matchExact(f.Category, r.Category) &&
			matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

func filterFieldTrips(records []domain.FieldTripSaleRecord, f ports.ReportFilter) []domain.FieldTripSaleRecord {
	out := make([]domain.FieldTripSaleRecord, 0, len(records))
	for _, r := range records {
		names := []string{r.Organization}
		for _, d := range r.SelectedDoctors {
			names = append(names, d.DoctorName)
		}
		for _, e := range r.SelectedEmployees {
			names = append(names, e.EmployeeName)
		}
		if matchSearch(f.Search, names...) && matchDate(r.Date, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}
