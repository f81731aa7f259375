package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilecare/clinic-admin-api/internal/api/metrics"
	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

const defaultLockoutCooldown = 30 * time.Second

// TierPasswords maps each tier to its step-up password. TierDoctor needs no
// password; an empty string always matches it.
type TierPasswords map[domain.AccessTier]string

// DefaultPageTiers returns the hardcoded page-to-tier baseline applied
// before any persisted overrides.
func DefaultPageTiers() map[string]domain.AccessTier {
	return map[string]domain.AccessTier{
		"dashboard":         domain.TierDoctor,
		"patients":          domain.TierDoctor,
		"treatments":        domain.TierDoctor,
		"attendance-report": domain.TierStaff,
		"treatment-report":  domain.TierStaff,
		"sales-report":      domain.TierStaff,
		"field-trip-report": domain.TierStaff,
		"doctor-fee-report": domain.TierStaff,
		"expense-report":    domain.TierOwner,
		"salary-report":     domain.TierOwner,
		"financial-report":  domain.TierOwner,
		"access-settings":   domain.TierSuperUser,
	}
}

// AccessOptions configures an AccessService.
type AccessOptions struct {
	Passwords TierPasswords
	// Store persists page-tier overrides. Optional; nil keeps overrides
	// in memory only.
	Store ports.PageAccessStore
	// LockoutCooldown is the challenge cool-down window. Defaults to 30s.
	LockoutCooldown time.Duration
	// Now is a clock hook for tests. Defaults to time.Now.
	Now func() time.Time
}

type challengeState struct {
	ch    domain.Challenge
	timer *time.Timer
}

// session is one dashboard session's mutable access state. Tier always
// starts at TierDoctor regardless of the authenticated identity.
type session struct {
	tier       domain.AccessTier
	challenges map[string]*challengeState
	lastSeen   time.Time
}

// AccessService implements ports.AccessService: the page-tier policy, the
// per-session tier state machine, and the challenge/lockout protocol.
type AccessService struct {
	mu        sync.Mutex
	pages     map[string]domain.AccessTier
	passwords TierPasswords
	store     ports.PageAccessStore
	cooldown  time.Duration
	now       func() time.Time
	sessions  map[string]*session
	log       zerolog.Logger
}

// NewAccessService builds the service, seeding the page map from
// DefaultPageTiers and merging any persisted overrides. A store load
// failure degrades to the defaults with a warning.
func NewAccessService(ctx context.Context, opts AccessOptions, log zerolog.Logger) *AccessService {
	cooldown := opts.LockoutCooldown
	if cooldown <= 0 {
		cooldown = defaultLockoutCooldown
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	pages := DefaultPageTiers()
	if opts.Store != nil {
		overrides, err := opts.Store.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("page access store unavailable, using defaults")
		} else {
			for pageID, tier := range overrides {
				if tier.Valid() {
					pages[pageID] = tier
				}
			}
		}
	}

	return &AccessService{
		pages:     pages,
		passwords: opts.Passwords,
		store:     opts.Store,
		cooldown:  cooldown,
		now:       now,
		sessions:  make(map[string]*session),
		log:       log,
	}
}

// ensureSession returns the session for id, creating it at TierDoctor.
// Caller must hold s.mu.
func (s *AccessService) ensureSession(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{
			tier:       domain.TierDoctor,
			challenges: make(map[string]*challengeState),
		}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

func (s *AccessService) CurrentTier(sessionID string) domain.AccessTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSession(sessionID).tier
}

// requiredTier returns the configured tier for a page, or TierDoctor when
// the page is unmapped. Caller must hold s.mu.
func (s *AccessService) requiredTier(pageID string) domain.AccessTier {
	if tier, ok := s.pages[pageID]; ok {
		return tier
	}
	return domain.TierDoctor
}

// passwordFor returns the step-up password for a tier. TierDoctor is always
// the empty string.
func (s *AccessService) passwordFor(tier domain.AccessTier) string {
	if tier == domain.TierDoctor {
		return ""
	}
	return s.passwords[tier]
}

func (s *AccessService) EvaluatePage(sessionID, pageID string) ports.PageAccess {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(sessionID)
	required := s.requiredTier(pageID)

	if sess.tier.HasAccess(required) {
		// A stale challenge for this page is moot once access holds.
		s.discardChallenge(sess, pageID)
		return ports.PageAccess{
			PageID:       pageID,
			RequiredTier: required,
			CurrentTier:  sess.tier,
			Allowed:      true,
		}
	}

	cs, ok := sess.challenges[pageID]
	if !ok || cs.ch.TargetTier != required {
		if ok {
			s.discardChallenge(sess, pageID)
		}
		cs = &challengeState{ch: domain.Challenge{PageID: pageID, TargetTier: required}}
		sess.challenges[pageID] = cs
	}

	ch := cs.ch
	return ports.PageAccess{
		PageID:       pageID,
		RequiredTier: required,
		CurrentTier:  sess.tier,
		Allowed:      false,
		Challenge:    &ch,
	}
}

func (s *AccessService) SubmitPassword(sessionID, pageID, password string) (ports.UnlockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(sessionID)
	required := s.requiredTier(pageID)

	if sess.tier.HasAccess(required) {
		s.discardChallenge(sess, pageID)
		return ports.UnlockResult{Granted: true, AttemptsLeft: domain.MaxChallengeAttempts}, nil
	}

	cs, ok := sess.challenges[pageID]
	if !ok {
		cs = &challengeState{ch: domain.Challenge{PageID: pageID, TargetTier: required}}
		sess.challenges[pageID] = cs
	}

	now := s.now()
	if cs.ch.Locked {
		if cs.ch.LockedAt(now) {
			metrics.ChallengeAttemptsTotal.WithLabelValues("locked").Inc()
			return ports.UnlockResult{
				Locked:     true,
				RetryAfter: cs.ch.LockedUntil.Sub(now),
			}, domain.ErrChallengeLocked
		}
		// Cool-down elapsed but the timer has not fired yet; clear inline.
		s.unlock(cs)
	}

	if password == s.passwordFor(cs.ch.TargetTier) {
		sess.tier = cs.ch.TargetTier
		s.discardChallenge(sess, pageID)
		metrics.ChallengeAttemptsTotal.WithLabelValues("granted").Inc()
		s.log.Info().
			Str("page_id", pageID).
			Stringer("tier", sess.tier).
			Msg("session tier upgraded")
		return ports.UnlockResult{Granted: true, AttemptsLeft: domain.MaxChallengeAttempts}, nil
	}

	cs.ch.AttemptCount++
	metrics.ChallengeAttemptsTotal.WithLabelValues("denied").Inc()

	if cs.ch.AttemptCount >= domain.MaxChallengeAttempts {
		cs.ch.Locked = true
		cs.ch.LockedUntil = now.Add(s.cooldown)
		cs.timer = time.AfterFunc(s.cooldown, func() {
			s.clearLockout(sessionID, pageID)
		})
		metrics.ChallengeLockoutsTotal.Inc()
		s.log.Warn().
			Str("page_id", pageID).
			Stringer("target_tier", cs.ch.TargetTier).
			Dur("cooldown", s.cooldown).
			Msg("challenge locked after repeated failures")
		return ports.UnlockResult{Locked: true, RetryAfter: s.cooldown}, nil
	}

	return ports.UnlockResult{
		AttemptsLeft: domain.MaxChallengeAttempts - cs.ch.AttemptCount,
	}, nil
}

// clearLockout re-enables submissions once the cool-down elapses.
func (s *AccessService) clearLockout(sessionID, pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if cs, ok := sess.challenges[pageID]; ok {
		s.unlock(cs)
	}
}

// unlock resets a challenge's lockout state and attempt counter.
// Caller must hold s.mu.
func (s *AccessService) unlock(cs *challengeState) {
	if cs.timer != nil {
		cs.timer.Stop()
		cs.timer = nil
	}
	cs.ch.Locked = false
	cs.ch.LockedUntil = time.Time{}
	cs.ch.AttemptCount = 0
}

func (s *AccessService) CancelChallenge(sessionID, pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		s.discardChallenge(sess, pageID)
	}
}

// discardChallenge removes a challenge and cancels its pending lockout
// timer so it cannot fire against stale state. Caller must hold s.mu.
func (s *AccessService) discardChallenge(sess *session, pageID string) {
	if cs, ok := sess.challenges[pageID]; ok {
		if cs.timer != nil {
			cs.timer.Stop()
		}
		delete(sess.challenges, pageID)
	}
}

func (s *AccessService) Downgrade(sessionID string, target domain.AccessTier) error {
	if !target.Valid() {
		return domain.ErrInvalidTier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(sessionID)
	if target > sess.tier {
		return fmt.Errorf("%w: cannot downgrade to a higher tier", domain.ErrPermissionDenied)
	}
	sess.tier = target
	return nil
}

func (s *AccessService) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	for pageID := range sess.challenges {
		s.discardChallenge(sess, pageID)
	}
	sess.tier = domain.TierDoctor
}

// RemoveSession tears a session down entirely, cancelling any pending
// lockout timers.
func (s *AccessService) RemoveSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	for pageID := range sess.challenges {
		s.discardChallenge(sess, pageID)
	}
	delete(s.sessions, sessionID)
}

// StartJanitor evicts sessions idle for longer than maxIdle. Runs until ctx
// is cancelled.
func (s *AccessService) StartJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle(maxIdle)
			}
		}
	}()
}

func (s *AccessService) evictIdle(maxIdle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			for pageID := range sess.challenges {
				s.discardChallenge(sess, pageID)
			}
			delete(s.sessions, id)
		}
	}
}

func (s *AccessService) Pages() map[string]domain.AccessTier {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.AccessTier, len(s.pages))
	for pageID, tier := range s.pages {
		out[pageID] = tier
	}
	return out
}

func (s *AccessService) SetRequiredTier(ctx context.Context, sessionID, pageID string, tier domain.AccessTier) error {
	if !tier.Valid() {
		return domain.ErrInvalidTier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(sessionID)
	if sess.tier != domain.TierSuperUser {
		return fmt.Errorf("%w: page access changes require the superuser tier", domain.ErrPermissionDenied)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, pageID, tier); err != nil {
			return fmt.Errorf("save page access: %w", err)
		}
	}
	s.pages[pageID] = tier

	s.log.Info().
		Str("page_id", pageID).
		Stringer("tier", tier).
		Msg("page access tier updated")
	return nil
}
