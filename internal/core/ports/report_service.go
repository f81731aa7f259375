package ports

import (
	"context"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

// Upstream collection names. Each maps to one backend endpoint returning a
// {"<collection>": [...]} envelope.
const (
	CollectionAttendance       = "attendance"
	CollectionSalaries         = "salaries"
	CollectionTreatments       = "treatments"
	CollectionSittingFees      = "sitting-fees"
	CollectionSittingFeeConfig = "doctor-sitting-fee-settings"
	CollectionExpenses         = "expenses"
	CollectionSales            = "sales"
	CollectionFieldTripSales   = "field-trip-sales"
)

// UpstreamClient fetches one raw collection from the clinic backend.
// Records are loosely typed on purpose: upstream field names are
// inconsistent and the gateway resolves them with ordered fallbacks.
type UpstreamClient interface {
	FetchCollection(ctx context.Context, name string) ([]map[string]any, error)
}

// SourceCache is an optional TTL cache in front of the upstream, keyed by
// collection name. Misses and cache errors both surface as ok=false.
type SourceCache interface {
	Get(ctx context.Context, name string) ([]byte, bool)
	Set(ctx context.Context, name string, payload []byte)
}

// ReportFilter narrows a canonical collection. Zero values mean "no
// constraint"; all set criteria must match.
type ReportFilter struct {
	Search   string // case-insensitive substring on name fields
	Shift    string // exact match
	Category string // exact match
	DateFrom string // inclusive lower bound, "YYYY-MM-DD"
	DateTo   string // inclusive upper bound, "YYYY-MM-DD"
	Month    int    // 1-12; 0 = any
	Year     int    // 0 = any
}

// ReportService fetches, normalizes, filters, and aggregates the report
// streams. Every method fails soft: an unreachable source yields an empty
// (never nil-dereferencing) result for that source only.
type ReportService interface {
	Attendance(ctx context.Context, f ReportFilter) []domain.AttendanceRecord
	Salaries(ctx context.Context, f ReportFilter) []domain.SalaryRecord
	DoctorFees(ctx context.Context, f ReportFilter) []domain.DoctorFeeRecord
	Expenses(ctx context.Context, f ReportFilter) []domain.ExpenseRecord
	Treatments(ctx context.Context, f ReportFilter) []domain.TreatmentRecord
	Sales(ctx context.Context, f ReportFilter) []domain.SalesRecord
	FieldTrips(ctx context.Context, f ReportFilter) []domain.FieldTripSaleRecord

	// Financial fans out over the six contributing sources concurrently and
	// reduces them into per-(month, year) summaries.
	Financial(ctx context.Context, f ReportFilter) []domain.FinancialSummary
}
