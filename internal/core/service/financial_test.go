package service

import (
	"testing"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

func TestAggregateFinancialsSingleBucket(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{Date: "2024-03-05", Nominal: 100},
	}
	sales := []domain.SalesRecord{
		{Date: "2024-03-10", TotalAmount: 50},
	}
	fieldTrips := []domain.FieldTripSaleRecord{
		{Date: "2024-03-15", TotalAmount: 25, TotalDoctorFees: 8, TotalEmployeeBonuses: 2},
	}
	salaries := []domain.SalaryRecord{
		{Month: 3, Year: 2024, TotalSalary: 40},
	}
	doctorFees := []domain.DoctorFeeRecord{
		{Date: "2024-03-05", FinalFee: 20},
	}
	expenses := []domain.ExpenseRecord{
		{Date: "2024-03-20", Amount: 5},
	}

	out := aggregateFinancials(treatments, sales, fieldTrips, salaries, doctorFees, expenses)
	if len(out) != 1 {
		t.Fatalf("got %d buckets, want 1", len(out))
	}

	b := out[0]
	if b.Month != 3 || b.Year != 2024 {
		t.Fatalf("bucket = %d/%d, want 3/2024", b.Month, b.Year)
	}
	if b.TreatmentIncome != 100 || b.SalesIncome != 50 || b.FieldTripIncome != 25 {
		t.Errorf("income = %v/%v/%v, want 100/50/25", b.TreatmentIncome, b.SalesIncome, b.FieldTripIncome)
	}
	if b.FieldTripExpense != 10 {
		t.Errorf("field trip expense = %v, want fees+bonuses = 10", b.FieldTripExpense)
	}
	if b.SalaryExpense != 40 || b.DoctorFeeExpense != 20 || b.Expenses != 5 {
		t.Errorf("expenses = %v/%v/%v, want 40/20/5", b.SalaryExpense, b.DoctorFeeExpense, b.Expenses)
	}
	// (25 + 100 + 50) - (40 + 20 + 10 + 5) = 100
	if b.NetProfit != 100 {
		t.Errorf("net profit = %v, want 100", b.NetProfit)
	}
}

func TestAggregateFinancialsSortsNewestFirst(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{Date: "2023-12-01", Nominal: 1},
		{Date: "2024-02-01", Nominal: 2},
		{Date: "2024-01-01", Nominal: 3},
	}

	out := aggregateFinancials(treatments, nil, nil, nil, nil, nil)
	if len(out) != 3 {
		t.Fatalf("got %d buckets, want 3", len(out))
	}
	want := []struct{ month, year int }{{2, 2024}, {1, 2024}, {12, 2023}}
	for i, w := range want {
		if out[i].Month != w.month || out[i].Year != w.year {
			t.Errorf("bucket %d = %d/%d, want %d/%d", i, out[i].Month, out[i].Year, w.month, w.year)
		}
	}
}

func TestAggregateFinancialsSkipsUnparsableDates(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{Date: "", Nominal: 100},
		{Date: "not-a-date", Nominal: 100},
	}
	salaries := []domain.SalaryRecord{
		{Month: 0, Year: 2024, TotalSalary: 100},
		{Month: 13, Year: 2024, TotalSalary: 100},
	}

	out := aggregateFinancials(treatments, nil, nil, salaries, nil, nil)
	if len(out) != 0 {
		t.Fatalf("got %d buckets from invalid records, want none", len(out))
	}
}

func TestAggregateFinancialsEmptyInput(t *testing.T) {
	out := aggregateFinancials(nil, nil, nil, nil, nil, nil)
	if len(out) != 0 {
		t.Fatalf("got %d buckets, want none", len(out))
	}
}
