package service

import (
	"sort"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

type bucketKey struct {
	year  int
	month int
}

// aggregateFinancials reduces the six filtered streams into one
// FinancialSummary per (month, year) bucket. Buckets exist only where at
// least one record contributes; the profit formula is
//
//	netProfit = (fieldTripIncome + treatmentIncome + salesIncome)
//	          − (salaryExpense + doctorFeeExpense + fieldTripExpense + expenses)
func aggregateFinancials(
	treatments []domain.TreatmentRecord,
	sales []domain.SalesRecord,
	fieldTrips []domain.FieldTripSaleRecord,
	salaries []domain.SalaryRecord,
	doctorFees []domain.DoctorFeeRecord,
	expenses []domain.ExpenseRecord,
) []domain.FinancialSummary {
	buckets := make(map[bucketKey]*domain.FinancialSummary)

	get := func(month, year int) *domain.FinancialSummary {
		key := bucketKey{year: year, month: month}
		b, ok := buckets[key]
		if !ok {
			b = &domain.FinancialSummary{Month: month, Year: year}
			buckets[key] = b
		}
		return b
	}
	byDate := func(date string) (*domain.FinancialSummary, bool) {
		m, y, ok := monthYear(date)
		if !ok {
			return nil, false
		}
		return get(m, y), true
	}

	for _, t := range treatments {
		if b, ok := byDate(t.Date); ok {
			b.TreatmentIncome += t.Nominal
		}
	}
	for _, s := range sales {
		if b, ok := byDate(s.Date); ok {
			b.SalesIncome += s.TotalAmount
		}
	}
	for _, ft := range fieldTrips {
		if b, ok := byDate(ft.Date); ok {
			b.FieldTripIncome += ft.TotalAmount
			b.FieldTripExpense += ft.TotalDoctorFees + ft.TotalEmployeeBonuses
		}
	}
	// Salary records bucket on their own month/year fields, not a parsed
	// date.
	for _, s := range salaries {
		if s.Month >= 1 && s.Month <= 12 && s.Year > 0 {
			get(s.Month, s.Year).SalaryExpense += s.TotalSalary
		}
	}
	for _, df := range doctorFees {
		if b, ok := byDate(df.Date); ok {
			b.DoctorFeeExpense += df.FinalFee
		}
	}
	for _, e := range expenses {
		if b, ok := byDate(e.Date); ok {
			b.Expenses += e.Amount
		}
	}

	out := make([]domain.FinancialSummary, 0, len(buckets))
	for _, b := range buckets {
		b.NetProfit = (b.FieldTripIncome + b.TreatmentIncome + b.SalesIncome) -
			(b.SalaryExpense + b.DoctorFeeExpense + b.FieldTripExpense + b.Expenses)
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}
