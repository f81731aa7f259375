package handler

import "github.com/smilecare/clinic-admin-api/internal/core/ports"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session / guard schemas ---

type sessionResponse struct {
	Tier     int    `json:"tier"`
	TierName string `json:"tier_name"`
}

type downgradeRequest struct {
	Tier string `json:"tier" validate:"required"`
}

type unlockRequest struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Granted      bool   `json:"granted"`
	AttemptsLeft int    `json:"attempts_left,omitempty"`
	Locked       bool   `json:"locked,omitempty"`
	RetryAfter   int    `json:"retry_after_seconds,omitempty"`
	CurrentTier  string `json:"current_tier,omitempty"`
}

// --- Access config schemas ---

type pageTierEntry struct {
	PageID   string `json:"page_id"`
	Tier     int    `json:"tier"`
	TierName string `json:"tier_name"`
}

type setPageTierRequest struct {
	Tier string `json:"tier" validate:"required"`
}

// --- Report schemas ---

// reportFilterFromQuery builds a ReportFilter from the shared query
// parameters every report endpoint accepts.
type reportQuery struct {
	Search   string `query:"search"`
	Shift    string `query:"shift"`
	Category string `query:"category"`
	Type     string `query:"type"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Month    int    `query:"month"`
	Year     int    `query:"year"`
}

// The dashboard sent the categorical criterion as "type" on some pages and
// "category" on others; both feed the same match.
func (q reportQuery) filter() ports.ReportFilter {
	category := q.Category
	if category == "" {
		category = q.Type
	}
	return ports.ReportFilter{
		Search:   q.Search,
		Shift:    q.Shift,
		Category: category,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Month:    q.Month,
		Year:     q.Year,
	}
}
