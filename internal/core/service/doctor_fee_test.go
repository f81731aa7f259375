package service

import (
	"testing"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

func assertUniqueFeeRows(t *testing.T, rows []domain.DoctorFeeRecord) {
	t.Helper()
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		key := normalizeDoctorKey(r.Doctor) + "|" + r.Date
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate fee row for %q on %s", r.Doctor, r.Date)
		}
		seen[key] = struct{}{}
	}
}

func TestBuildDoctorFeesMergesNameVariants(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{DoctorName: "Dr. Ana", Date: "2024-03-10", Shift: "Pagi", Fee: 80000},
		{DoctorName: "dr.  ana", Date: "2024-03-10", Shift: "Sore", Fee: 70000},
	}
	sitting := []sittingFeeEntry{
		{doctor: "DR. ANA", date: "2024-03-10", amount: 100000},
	}

	rows := buildDoctorFees(treatments, sitting, nil, 0)
	assertUniqueFeeRows(t, rows)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.Doctor != "Dr. Ana" {
		t.Errorf("doctor = %q, want first-seen display form", r.Doctor)
	}
	if r.TreatmentFee != 150000 {
		t.Errorf("treatment fee = %v, want 150000", r.TreatmentFee)
	}
	if r.TotalFee != 150000 || r.FinalFee != 150000 {
		t.Errorf("total/final = %v/%v, want 150000 (treatment fee exceeds sitting fee)", r.TotalFee, r.FinalFee)
	}
	if r.Shift != "Pagi + Sore" {
		t.Errorf("shift = %q, want merged labels", r.Shift)
	}
	if r.TreatmentCount != 2 {
		t.Errorf("treatment count = %d, want 2", r.TreatmentCount)
	}
}

func TestBuildDoctorFeesSittingFeeFloor(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{DoctorName: "Dr. Budi", Date: "2024-03-11", Fee: 60000},
	}
	sitting := []sittingFeeEntry{
		{doctor: "Dr. Budi", date: "2024-03-11", amount: 120000},
	}

	rows := buildDoctorFees(treatments, sitting, nil, 0)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TotalFee != 120000 {
		t.Errorf("total = %v, want sitting fee 120000 as the floor", rows[0].TotalFee)
	}
	if rows[0].TreatmentFee != 60000 {
		t.Errorf("treatment fee = %v, want 60000 preserved", rows[0].TreatmentFee)
	}
}

func TestBuildDoctorFeesSittingOnlyRecord(t *testing.T) {
	sitting := []sittingFeeEntry{
		{doctor: "Dr. Sari", date: "2024-03-12", amount: 90000},
	}

	rows := buildDoctorFees(nil, sitting, nil, 0)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.HasTreatments {
		t.Errorf("sitting-only row marked as having treatments")
	}
	if r.TotalFee != 90000 || r.FinalFee != 90000 {
		t.Errorf("total/final = %v/%v, want 90000", r.TotalFee, r.FinalFee)
	}
}

func TestBuildDoctorFeesDuplicateSittingKeepsMax(t *testing.T) {
	sitting := []sittingFeeEntry{
		{doctor: "Dr. Sari", date: "2024-03-12", amount: 90000},
		{doctor: "dr. sari", date: "2024-03-12", amount: 110000},
		{doctor: "Dr. Sari", date: "2024-03-12", amount: 50000},
	}

	rows := buildDoctorFees(nil, sitting, nil, 0)
	assertUniqueFeeRows(t, rows)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TotalFee != 110000 {
		t.Errorf("total = %v, want highest duplicate 110000", rows[0].TotalFee)
	}
}

func TestBuildDoctorFeesSettingsFallback(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{DoctorName: "Dr. Eka", Date: "2024-03-13", Fee: 40000},
		{DoctorName: "Dr. Tono", Date: "2024-03-13", Fee: 40000},
	}
	settings := map[string]float64{
		"dr. eka": 75000,
	}

	rows := buildDoctorFees(treatments, nil, settings, 0)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	byDoctor := make(map[string]domain.DoctorFeeRecord, len(rows))
	for _, r := range rows {
		byDoctor[r.Doctor] = r
	}

	// Configured per-doctor default applies when no sitting fee is recorded.
	if got := byDoctor["Dr. Eka"].SittingFee; got != 75000 {
		t.Errorf("Dr. Eka sitting fee = %v, want configured 75000", got)
	}
	// Without a setting the hardcoded fallback applies.
	if got := byDoctor["Dr. Tono"].SittingFee; got != fallbackSittingFee {
		t.Errorf("Dr. Tono sitting fee = %v, want fallback %v", got, float64(fallbackSittingFee))
	}
}

func TestBuildDoctorFeesZeroSettingIgnored(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{DoctorName: "Dr. Eka", Date: "2024-03-13", Fee: 40000},
	}
	settings := map[string]float64{"dr. eka": 0}

	rows := buildDoctorFees(treatments, nil, settings, 80000)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].SittingFee != 80000 {
		t.Errorf("sitting fee = %v, want configured default 80000 over zero setting", rows[0].SittingFee)
	}
}

func TestBuildDoctorFeesSortOrder(t *testing.T) {
	treatments := []domain.TreatmentRecord{
		{DoctorName: "Dr. Budi", Date: "2024-03-10", Fee: 10000},
		{DoctorName: "Dr. Ana", Date: "2024-03-11", Fee: 10000},
		{DoctorName: "Dr. Ana", Date: "2024-03-10", Fee: 10000},
	}

	rows := buildDoctorFees(treatments, nil, nil, 0)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Newest date first, doctor name as the tiebreak.
	want := []struct{ doctor, date string }{
		{"Dr. Ana", "2024-03-11"},
		{"Dr. Ana", "2024-03-10"},
		{"Dr. Budi", "2024-03-10"},
	}
	for i, w := range want {
		if rows[i].Doctor != w.doctor || rows[i].Date != w.date {
			t.Errorf("row %d = (%q, %s), want (%q, %s)", i, rows[i].Doctor, rows[i].Date, w.doctor, w.date)
		}
	}
}

func TestDedupeFeeRows(t *testing.T) {
	rows := []domain.DoctorFeeRecord{
		{Doctor: "Dr. Ana", Date: "2024-03-10", FinalFee: 100},
		{Doctor: "dr. ana", Date: "2024-03-10", FinalFee: 200},
		{Doctor: "Dr. Ana", Date: "2024-03-11", FinalFee: 300},
	}

	out := dedupeFeeRows(rows)
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	if out[0].FinalFee != 100 {
		t.Errorf("first occurrence should win, got fee %v", out[0].FinalFee)
	}
}
