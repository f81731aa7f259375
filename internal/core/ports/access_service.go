package ports

import (
	"context"
	"time"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

// PageAccess is the guard decision for one page evaluation. When Allowed is
// false, Challenge describes the password prompt blocking the page.
type PageAccess struct {
	PageID       string            `json:"page_id"`
	RequiredTier domain.AccessTier `json:"required_tier"`
	CurrentTier  domain.AccessTier `json:"current_tier"`
	Allowed      bool              `json:"allowed"`
	Challenge    *domain.Challenge `json:"challenge,omitempty"`
}

// UnlockResult reports the outcome of one password submission against an
// active challenge.
type UnlockResult struct {
	Granted      bool          `json:"granted"`
	AttemptsLeft int           `json:"attempts_left"`
	Locked       bool          `json:"locked"`
	RetryAfter   time.Duration `json:"-"`
}

// AccessService owns the per-session tier state machine, the page guard
// protocol, and the page-access configuration surface.
type AccessService interface {
	// CurrentTier returns the session's tier, creating the session at
	// TierDoctor if it does not exist yet.
	CurrentTier(sessionID string) domain.AccessTier

	// EvaluatePage decides render-vs-challenge for a page. Evaluating an
	// insufficient-tier page opens (or returns the existing) challenge.
	EvaluatePage(sessionID, pageID string) PageAccess

	// SubmitPassword attempts the tier upgrade demanded by the page's
	// challenge. Wrong passwords count toward lockout; submissions during
	// a lockout are rejected without evaluating the password.
	SubmitPassword(sessionID, pageID, password string) (UnlockResult, error)

	// CancelChallenge discards the page's active challenge, if any.
	CancelChallenge(sessionID, pageID string)

	// Downgrade lowers the session tier. Free of any password check; fails
	// only when target is above the current tier or not a valid tier.
	Downgrade(sessionID string, target domain.AccessTier) error

	// Reset forces the session back to TierDoctor (logout path).
	Reset(sessionID string)

	// Pages returns the effective page-to-tier map.
	Pages() map[string]domain.AccessTier

	// SetRequiredTier overrides a page's minimum tier. Rejected with
	// domain.ErrPermissionDenied unless the calling session holds
	// TierSuperUser.
	SetRequiredTier(ctx context.Context, sessionID, pageID string, tier domain.AccessTier) error
}

// PageAccessStore persists page-tier overrides across restarts.
type PageAccessStore interface {
	Load(ctx context.Context) (map[string]domain.AccessTier, error)
	Save(ctx context.Context, pageID string, tier domain.AccessTier) error
}
