package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilecare/clinic-admin-api/internal/api/metrics"
	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

// ReportService fetches raw collections from the clinic backend and turns
// them into the canonical report records. Every source fails soft: an
// unreachable collection degrades to empty data for that source only, so a
// single outage never blanks the whole dashboard.
type ReportService struct {
	upstream          ports.UpstreamClient
	defaultSittingFee float64
	log               zerolog.Logger
}

func NewReportService(upstream ports.UpstreamClient, defaultSittingFee float64, log zerolog.Logger) *ReportService {
	if defaultSittingFee <= 0 {
		defaultSittingFee = fallbackSittingFee
	}
	return &ReportService{
		upstream:          upstream,
		defaultSittingFee: defaultSittingFee,
		log:               log,
	}
}

// fetchCollection pulls one raw collection, swallowing failures.
func (s *ReportService) fetchCollection(ctx context.Context, name string) []map[string]any {
	start := time.Now()
	records, err := s.upstream.FetchCollection(ctx, name)
	metrics.ReportFetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportFetchErrorsTotal.WithLabelValues(name).Inc()
		s.log.Warn().Err(err).Str("source", name).Msg("report source unavailable, continuing with empty data")
		return nil
	}
	return records
}

func (s *ReportService) Attendance(ctx context.Context, f ports.ReportFilter) []domain.AttendanceRecord {
	raw := s.fetchCollection(ctx, ports.CollectionAttendance)
	return filterAttendance(normalizeAttendance(raw), f)
}

func (s *ReportService) Salaries(ctx context.Context, f ports.ReportFilter) []domain.SalaryRecord {
	raw := s.fetchCollection(ctx, ports.CollectionSalaries)
	return filterSalaries(normalizeSalaries(raw), f)
}

func (s *ReportService) DoctorFees(ctx context.Context, f ports.ReportFilter) []domain.DoctorFeeRecord {
	treatments := normalizeTreatments(s.fetchCollection(ctx, ports.CollectionTreatments))
	sittingFees := normalizeSittingFees(s.fetchCollection(ctx, ports.CollectionSittingFees))
	settings := normalizeSittingFeeSettings(s.fetchCollection(ctx, ports.CollectionSittingFeeConfig))

	rows := buildDoctorFees(treatments, sittingFees, settings, s.defaultSittingFee)
	return filterDoctorFees(rows, f)
}

func (s *ReportService) Expenses(ctx context.Context, f ports.ReportFilter) []domain.ExpenseRecord {
	raw := s.fetchCollection(ctx, ports.CollectionExpenses)
	return filterExpenses(normalizeExpenses(raw), f)
}

func (s *ReportService) Treatments(ctx context.Context, f ports.ReportFilter) []domain.TreatmentRecord {
	raw := s.fetchCollection(ctx, ports.CollectionTreatments)
	return filterTreatments(normalizeTreatments(raw), f)
}

func (s *ReportService) Sales(ctx context.Context, f ports.ReportFilter) []domain.SalesRecord {
	raw := s.fetchCollection(ctx, ports.CollectionSales)
	return filterSales(flattenSales(raw), f)
}

func (s *ReportService) FieldTrips(ctx context.Context, f ports.ReportFilter) []domain.FieldTripSaleRecord {
	raw := s.fetchCollection(ctx, ports.CollectionFieldTripSales)
	return filterFieldTrips(normalizeFieldTrips(raw), f)
}

// Financial gathers the six contributing streams concurrently and reduces
// them into per-(month, year) summaries. Each stream degrades independently
// on failure; recomputation always derives fresh output from the current
// inputs.
func (s *ReportService) Financial(ctx context.Context, f ports.ReportFilter) []domain.FinancialSummary {
	start := time.Now()

	var (
		treatments []domain.TreatmentRecord
		sales      []domain.SalesRecord
		fieldTrips []domain.FieldTripSaleRecord
		salaries   []domain.SalaryRecord
		doctorFees []domain.DoctorFeeRecord
		expenses   []domain.ExpenseRecord
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() { defer wg.Done(); treatments = s.Treatments(ctx, f) }()
	go func() { defer wg.Done(); sales = s.Sales(ctx, f) }()
	go func() { defer wg.Done(); fieldTrips = s.FieldTrips(ctx, f) }()
	go func() { defer wg.Done(); salaries = s.Salaries(ctx, f) }()
	go func() { defer wg.Done(); doctorFees = s.DoctorFees(ctx, f) }()
	go func() { defer wg.Done(); expenses = s.Expenses(ctx, f) }()
	wg.Wait()

	summaries := aggregateFinancials(treatments, sales, fieldTrips, salaries, doctorFees, expenses)
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	s.log.Debug().
		Int("buckets", len(summaries)).
		Msg("financial summaries recomputed")
	return summaries
}
