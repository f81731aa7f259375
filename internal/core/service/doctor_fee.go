package service

import (
	"sort"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

// fallbackSittingFee applies when a doctor has no sitting fee recorded for
// a date and no per-doctor default setting either.
const fallbackSittingFee = 100000

// sittingFeeEntry is one recorded sitting fee for a (doctor, date).
type sittingFeeEntry struct {
	doctor string // display form
	date   string
	amount float64
}

func normalizeSittingFees(raw []map[string]any) []sittingFeeEntry {
	out := make([]sittingFeeEntry, 0, len(raw))
	for _, rec := range raw {
		out = append(out, sittingFeeEntry{
			doctor: cleanName(firstString(rec, "doctorName", "doctor_name", "doctor")),
			date:   isoDate(rec["date"]),
			amount: firstNumber(rec, "amount", "fee", "sittingFee"),
		})
	}
	return out
}

// normalizeSittingFeeSettings builds the per-doctor default sitting fee
// lookup, keyed by normalized doctor name only.
func normalizeSittingFeeSettings(raw []map[string]any) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for _, rec := range raw {
		name := normalizeDoctorKey(firstString(rec, "doctorName", "doctor_name", "doctor"))
		if name == "" {
			continue
		}
		out[name] = firstNumber(rec, "amount", "sittingFee", "fee")
	}
	return out
}

type feeGroup struct {
	doctor       string // display form, first seen
	date         string
	treatmentFee float64
	count        int
	shifts       []string
}

// buildDoctorFees derives one fee record per (doctor, date) from the
// treatment and sitting-fee streams.
//
// Doctor names are keyed in their normalized form (trimmed, lower-cased,
// whitespace-collapsed); the cleaned original-case form is kept for
// display. Shift is explicitly NOT a grouping key: multiple shifts for the
// same doctor and date merge into one record with the labels joined by
// " + ". The fee rule is totalFee = max(accumulated treatment fees, sitting
// fee), the sitting fee acting as a per-day floor. Doctors who sat without
// treating anyone still get a standalone sitting-fee record.
//
// The pipeline ends with a keyed dedup pass even though the grouping logic
// should already guarantee uniqueness; historical data shapes produced
// duplicates that were never fully diagnosed, so the final pass stays.
func buildDoctorFees(
	treatments []domain.TreatmentRecord,
	sittingFees []sittingFeeEntry,
	settings map[string]float64,
	defaultSittingFee float64,
) []domain.DoctorFeeRecord {
	if defaultSittingFee <= 0 {
		defaultSittingFee = fallbackSittingFee
	}

	// Group treatments by (normalized doctor, date).
	groups := make(map[string]*feeGroup)
	order := make([]string, 0, len(treatments))
	for _, t := range treatments {
		nameKey := normalizeDoctorKey(t.DoctorName)
		if nameKey == "" || t.Date == "" {
			continue
		}
		key := nameKey + "|" + t.Date

		g, ok := groups[key]
		if !ok {
			g = &feeGroup{doctor: cleanName(t.DoctorName), date: t.Date}
			groups[key] = g
			order = append(order, key)
		}
		g.treatmentFee += t.Fee
		g.count++
		if t.Shift != "" && !containsString(g.shifts, t.Shift) {
			g.shifts = append(g.shifts, t.Shift)
		}
	}

	// Sitting-fee lookup on the same key; duplicates keep the highest
	// observed amount.
	sittingByKey := make(map[string]sittingFeeEntry, len(sittingFees))
	sittingOrder := make([]string, 0, len(sittingFees))
	for _, sf := range sittingFees {
		nameKey := normalizeDoctorKey(sf.doctor)
		if nameKey == "" || sf.date == "" {
			continue
		}
		key := nameKey + "|" + sf.date
		prev, ok := sittingByKey[key]
		if !ok {
			sittingByKey[key] = sf
			sittingOrder = append(sittingOrder, key)
		} else if sf.amount > prev.amount {
			sittingByKey[key] = sf
		}
	}

	out := make([]domain.DoctorFeeRecord, 0, len(groups)+len(sittingByKey))

	// One record per treatment group; sitting fee falls back to the
	// doctor's default setting, then the hardcoded amount.
	for _, key := range order {
		g := groups[key]
		nameKey := normalizeDoctorKey(g.doctor)

		sittingFee := defaultSittingFee
		if sf, ok := sittingByKey[key]; ok {
			sittingFee = sf.amount
		} else if configured, ok := settings[nameKey]; ok && configured > 0 {
			sittingFee = configured
		}

		totalFee := g.treatmentFee
		if sittingFee > totalFee {
			totalFee = sittingFee
		}

		out = append(out, domain.DoctorFeeRecord{
			Doctor:         g.doctor,
			Date:           g.date,
			Shift:          joinShifts(g.shifts),
			TreatmentFee:   g.treatmentFee,
			SittingFee:     sittingFee,
			TotalFee:       totalFee,
			FinalFee:       totalFee,
			TreatmentCount: g.count,
			HasTreatments:  true,
		})
	}

	// Sitting-only records: the doctor sat but treated no patients that
	// day. Skipped when the treatment pass already covered the key.
	for _, key := range sittingOrder {
		if _, covered := groups[key]; covered {
			continue
		}
		sf := sittingByKey[key]
		out = append(out, domain.DoctorFeeRecord{
			Doctor:        sf.doctor,
			Date:          sf.date,
			SittingFee:    sf.amount,
			TotalFee:      sf.amount,
			FinalFee:      sf.amount,
			HasTreatments: false,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Doctor < out[j].Doctor
	})

	return dedupeFeeRows(out)
}

func joinShifts(shifts []string) string {
	switch len(shifts) {
	case 0:
		return ""
	case 1:
		return shifts[0]
	}
	joined := shifts[0]
	for _, s := range shifts[1:] {
		joined += " + " + s
	}
	return joined
}

// dedupeFeeRows drops any row whose normalized (doctor, date) key was
// already emitted. Defensive final pass, kept independent of the grouping
// logic above.
func dedupeFeeRows(rows []domain.DoctorFeeRecord) []domain.DoctorFeeRecord {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		key := normalizeDoctorKey(r.Doctor) + "|" + r.Date
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
