package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

// Upstream records arrive as loosely typed JSON objects with inconsistent
// field names. The helpers below resolve values through explicit ordered
// fallback chains; this mirrors the upstream's historical quirks and must
// not be tightened.

// asNumber coerces a raw JSON value to float64, defaulting to 0.
func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// asString coerces a raw JSON value to a string, rendering whole-number
// floats without a decimal point (JSON numbers used as identifiers).
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatFloat(s, 'f', 0, 64)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// firstNumber resolves the first key whose value coerces to a non-zero
// number, in priority order. Zero and absent are treated alike, matching
// the upstream's falsy-fallback behaviour.
func firstNumber(rec map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if n := asNumber(v); n != 0 {
				return n
			}
		}
	}
	return 0
}

// firstString resolves the first key holding a non-empty string.
func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if s := strings.TrimSpace(asString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// numberField returns the value only when the upstream provided it as an
// actual JSON number, not a string.
func numberField(rec map[string]any, key string) (float64, bool) {
	switch n := rec[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// cleanName trims and collapses internal whitespace, preserving case.
func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// normalizeDoctorKey is the canonical grouping key for a doctor name:
// trimmed, whitespace-collapsed, lower-cased.
func normalizeDoctorKey(name string) string {
	return strings.ToLower(cleanName(name))
}

// isoDate reduces a date value to its "YYYY-MM-DD" prefix.
func isoDate(v any) string {
	s := strings.TrimSpace(asString(v))
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

// monthYear extracts the (month, year) bucket of an ISO date string.
func monthYear(date string) (month, year int, ok bool) {
	if len(date) < 10 {
		return 0, 0, false
	}
	t, err := time.Parse("2006-01-02", date[:10])
	if err != nil {
		return 0, 0, false
	}
	return int(t.Month()), t.Year(), true
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// periodLabel renders the salary period the way the dashboard displayed it,
// e.g. "Januari 2024".
func periodLabel(month, year int) string {
	if month >= 1 && month <= 12 {
		return fmt.Sprintf("%s %d", indonesianMonths[month-1], year)
	}
	return fmt.Sprintf("Bulan %d %d", month, year)
}

// ── Attendance ────────────────────────────────────────────────────────────────

type attendanceGroup struct {
	rec    domain.AttendanceRecord
	shifts []string
}

// normalizeAttendance merges raw check-in/check-out events into one record
// per (doctor, date). Shift is tracked but never a grouping key: distinct
// labels seen for the same doctor and date are joined with " + ".
func normalizeAttendance(raw []map[string]any) []domain.AttendanceRecord {
	groups := make(map[string]*attendanceGroup)
	order := make([]string, 0, len(raw))

	for _, rec := range raw {
		doctorID := firstString(rec, "doctorId", "doctor_id")
		name := cleanName(firstString(rec, "doctorName", "doctor_name", "doctor"))
		date := isoDate(rec["date"])
		if doctorID == "" {
			doctorID = normalizeDoctorKey(name)
		}
		key := doctorID + "|" + date

		g, ok := groups[key]
		if !ok {
			g = &attendanceGroup{rec: domain.AttendanceRecord{
				ID:         doctorID + "-" + date,
				DoctorID:   doctorID,
				DoctorName: name,
				Date:       date,
			}}
			groups[key] = g
			order = append(order, key)
		}
		if g.rec.DoctorName == "" {
			g.rec.DoctorName = name
		}

		if shift := firstString(rec, "shift"); shift != "" && !containsString(g.shifts, shift) {
			g.shifts = append(g.shifts, shift)
		}

		eventTime := firstString(rec, "time", "timestamp")
		switch firstString(rec, "type", "eventType") {
		case "check-in":
			if eventTime != "" && (g.rec.LoginTime == "" || eventTime < g.rec.LoginTime) {
				g.rec.LoginTime = eventTime
			}
		case "check-out":
			if eventTime != "" && eventTime > g.rec.LogoutTime {
				g.rec.LogoutTime = eventTime
			}
		}
	}

	out := make([]domain.AttendanceRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.rec.Shift = strings.Join(g.shifts, " + ")
		out = append(out, g.rec)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ── Salaries ──────────────────────────────────────────────────────────────────

func normalizeSalaries(raw []map[string]any) []domain.SalaryRecord {
	out := make([]domain.SalaryRecord, 0, len(raw))
	for _, rec := range raw {
		month := int(asNumber(rec["month"]))
		year := int(asNumber(rec["year"]))

		r := domain.SalaryRecord{
			ID:               firstString(rec, "id", "_id"),
			EmployeeID:       firstString(rec, "employeeId", "employee_id"),
			EmployeeName:     cleanName(firstString(rec, "employeeName", "employee_name", "name")),
			Month:            month,
			Year:             year,
			Period:           periodLabel(month, year),
			BaseSalary:       asNumber(rec["baseSalary"]),
			Bonus:            asNumber(rec["bonus"]),
			HolidayAllowance: asNumber(rec["holidayAllowance"]),
		}

		if v, ok := rec["totalSalary"]; ok {
			r.TotalSalary = asNumber(v)
		} else {
			r.TotalSalary = r.BaseSalary + r.Bonus + r.HolidayAllowance
		}

		if date := isoDate(rec["date"]); date != "" {
			r.Date = date
		} else if year > 0 && month >= 1 && month <= 12 {
			r.Date = fmt.Sprintf("%04d-%02d-01", year, month)
		}

		out = append(out, r)
	}
	return out
}

// ── Expenses ──────────────────────────────────────────────────────────────────

func normalizeExpenses(raw []map[string]any) []domain.ExpenseRecord {
	out := make([]domain.ExpenseRecord, 0, len(raw))
	for _, rec := range raw {
		out = append(out, domain.ExpenseRecord{
			ID:          firstString(rec, "id", "_id"),
			Description: firstString(rec, "description", "name", "title"),
			Category:    firstString(rec, "category"),
			Date:        isoDate(rec["date"]),
			Amount:      asNumber(rec["amount"]),
		})
	}
	return out
}

// ── Treatments ────────────────────────────────────────────────────────────────

// treatmentNominalFields is the strict priority order for resolving one
// treatment's billed amount. totalTindakan already includes the admin fee
// and medication.
var treatmentNominalFields = []string{
	"totalTindakan", "totalNominal", "subtotal", "nominal",
	"amount", "totalAmount", "price", "total",
}

const placeholderTreatmentName = "Tindakan"

func normalizeTreatments(raw []map[string]any) []domain.TreatmentRecord {
	out := make([]domain.TreatmentRecord, 0, len(raw))
	for _, rec := range raw {
		nominal := firstNumber(rec, treatmentNominalFields...)

		r := domain.TreatmentRecord{
			ID:            firstString(rec, "id", "_id"),
			PatientName:   cleanName(firstString(rec, "patientName", "patient_name", "patient")),
			DoctorName:    cleanName(firstString(rec, "doctorName", "doctor_name", "doctor")),
			Date:          isoDate(rec["date"]),
			Shift:         firstString(rec, "shift"),
			TreatmentName: resolveTreatmentName(rec),
			Nominal:       nominal,
		}

		r.Fee = firstNumber(rec, "calculatedFee", "feeDokter", "doctorFee")
		if r.Fee == 0 {
			if pct := asNumber(rec["feePercentage"]); pct > 0 {
				r.Fee = nominal * pct / 100
			}
		}

		out = append(out, r)
	}
	return out
}

// resolveTreatmentName prefers an array of treatment-type objects (names
// joined with ", "), then a single type string, then the free-text
// description, then a placeholder.
func resolveTreatmentName(rec map[string]any) string {
	if types, ok := rec["treatmentTypes"].([]any); ok && len(types) > 0 {
		names := make([]string, 0, len(types))
		for _, t := range types {
			switch tt := t.(type) {
			case map[string]any:
				if name := firstString(tt, "name", "treatmentType"); name != "" {
					names = append(names, name)
				}
			case string:
				if tt != "" {
					names = append(names, tt)
				}
			}
		}
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
	}
	if name := firstString(rec, "treatmentType", "description"); name != "" {
		return name
	}
	return placeholderTreatmentName
}

// ── Sales ─────────────────────────────────────────────────────────────────────

const placeholderProductName = "Penjualan"

// flattenSales explodes each raw sale into one record per line item,
// prorating the sale-level discount across items by their share of the sale
// subtotal. Item-less sales yield a single generic record carrying the
// sale-level total.
func flattenSales(raw []map[string]any) []domain.SalesRecord {
	var out []domain.SalesRecord
	for _, sale := range raw {
		saleID := firstString(sale, "id", "_id")
		date := isoDate(sale["date"])
		category := firstString(sale, "category")
		saleDiscount := firstNumber(sale, "discountAmount", "discount")

		items, _ := sale["items"].([]any)
		if len(items) == 0 {
			total := firstNumber(sale, "totalAmount", "total", "subtotal")
			out = append(out, domain.SalesRecord{
				ID:             saleID,
				SaleID:         saleID,
				Date:           date,
				ProductName:    placeholderProductName,
				Category:       category,
				Quantity:       1,
				UnitPrice:      total,
				Subtotal:       total,
				DiscountAmount: saleDiscount,
				TotalAmount:    total,
			})
			continue
		}

		type lineItem struct {
			rec      map[string]any
			subtotal float64
		}
		lines := make([]lineItem, 0, len(items))
		saleSubtotal := 0.0
		for _, it := range items {
			rec, ok := it.(map[string]any)
			if !ok {
				continue
			}
			qty := asNumber(rec["quantity"])
			unitPrice := firstNumber(rec, "pricePerUnit", "unitPrice", "price")
			sub := qty * unitPrice
			lines = append(lines, lineItem{rec: rec, subtotal: sub})
			saleSubtotal += sub
		}

		for i, line := range lines {
			qty := asNumber(line.rec["quantity"])
			unitPrice := firstNumber(line.rec, "pricePerUnit", "unitPrice", "price")

			itemDiscount := 0.0
			if saleSubtotal > 0 {
				itemDiscount = saleDiscount * line.subtotal / saleSubtotal
			}
			itemTotal := line.subtotal - itemDiscount
			if itemTotal <= 0 {
				itemTotal = line.subtotal
			}

			out = append(out, domain.SalesRecord{
				ID:             fmt.Sprintf("%s-%d", saleID, i),
				SaleID:         saleID,
				Date:           date,
				ProductName:    firstString(line.rec, "productName", "name"),
				Category:       firstString(line.rec, "category"),
				Quantity:       qty,
				UnitPrice:      unitPrice,
				Subtotal:       line.subtotal,
				DiscountAmount: itemDiscount,
				TotalAmount:    itemTotal,
			})
		}
	}
	return out
}

// ── Field trips ───────────────────────────────────────────────────────────────

func normalizeFieldTrips(raw []map[string]any) []domain.FieldTripSaleRecord {
	out := make([]domain.FieldTripSaleRecord, 0, len(raw))
	for _, rec := range raw {
		r := domain.FieldTripSaleRecord{
			ID:           firstString(rec, "id", "_id"),
			Date:         isoDate(rec["date"]),
			Organization: firstString(rec, "organization", "location", "customerName"),
			Participants: int(asNumber(rec["participants"])),
			TotalAmount:  firstNumber(rec, "totalAmount", "total"),
		}

		if docs, ok := rec["selectedDoctors"].([]any); ok {
			for _, d := range docs {
				dm, ok := d.(map[string]any)
				if !ok {
					continue
				}
				doc := domain.FieldTripDoctor{
					DoctorID:       firstString(dm, "doctorId", "doctor_id"),
					DoctorName:     cleanName(firstString(dm, "doctorName", "doctor_name", "name")),
					Specialization: firstString(dm, "specialization"),
					Fee:            asNumber(dm["fee"]),
				}
				r.SelectedDoctors = append(r.SelectedDoctors, doc)
				r.TotalDoctorFees += doc.Fee
			}
		}
		if emps, ok := rec["selectedEmployees"].([]any); ok {
			for _, e := range emps {
				em, ok := e.(map[string]any)
				if !ok {
					continue
				}
				emp := domain.FieldTripEmployee{
					EmployeeID:   firstString(em, "employeeId", "employee_id"),
					EmployeeName: cleanName(firstString(em, "employeeName", "employee_name", "name")),
					Position:     firstString(em, "position"),
					Bonus:        asNumber(em["bonus"]),
				}
				r.SelectedEmployees = append(r.SelectedEmployees, emp)
				r.TotalEmployeeBonuses += emp.Bonus
			}
		}

		// Numeric aggregate fields from the source override the computed
		// sums (last write wins).
		if v, ok := numberField(rec, "totalDoctorFees"); ok {
			r.TotalDoctorFees = v
		}
		if v, ok := numberField(rec, "totalEmployeeBonuses"); ok {
			r.TotalEmployeeBonuses = v
		}

		r.PricePerParticipant = firstNumber(rec, "pricePerParticipant", "pricePerUnit", "price")
		if r.PricePerParticipant == 0 && r.Participants > 0 {
			r.PricePerParticipant = math.Floor(r.TotalAmount / float64(r.Participants))
		}

		out = append(out, r)
	}
	return out
}
