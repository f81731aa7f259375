package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

func newTestAccess(t *testing.T, now func() time.Time) *AccessService {
	t.Helper()
	return NewAccessService(context.Background(), AccessOptions{
		Passwords: TierPasswords{
			domain.TierStaff:     "staff123",
			domain.TierOwner:     "owner456",
			domain.TierSuperUser: "super789",
		},
		Now: now,
	}, zerolog.Nop())
}

func TestTierOrdering(t *testing.T) {
	cases := []struct {
		current  domain.AccessTier
		required domain.AccessTier
		want     bool
	}{
		{domain.TierDoctor, domain.TierDoctor, true},
		{domain.TierStaff, domain.TierDoctor, true},
		{domain.TierDoctor, domain.TierOwner, false},
		{domain.TierOwner, domain.TierStaff, true},
		{domain.TierOwner, domain.TierSuperUser, false},
		{domain.TierSuperUser, domain.TierOwner, true},
	}
	for _, tc := range cases {
		if got := tc.current.HasAccess(tc.required); got != tc.want {
			t.Errorf("HasAccess(%v, %v) = %v, want %v", tc.current, tc.required, got, tc.want)
		}
	}
}

func TestSessionStartsAtDoctor(t *testing.T) {
	svc := newTestAccess(t, nil)
	if tier := svc.CurrentTier("s1"); tier != domain.TierDoctor {
		t.Fatalf("new session tier = %v, want doctor", tier)
	}
}

func TestUpgradeRequiresExactPassword(t *testing.T) {
	svc := newTestAccess(t, nil)

	res, err := svc.SubmitPassword("s1", "salary-report", "wrong")
	if err != nil {
		t.Fatalf("SubmitPassword error: %v", err)
	}
	if res.Granted {
		t.Fatalf("wrong password granted access")
	}
	if tier := svc.CurrentTier("s1"); tier != domain.TierDoctor {
		t.Fatalf("failed upgrade changed tier to %v", tier)
	}

	res, err = svc.SubmitPassword("s1", "salary-report", "owner456")
	if err != nil {
		t.Fatalf("SubmitPassword error: %v", err)
	}
	if !res.Granted {
		t.Fatalf("correct password denied")
	}
	if tier := svc.CurrentTier("s1"); tier != domain.TierOwner {
		t.Fatalf("tier after upgrade = %v, want owner", tier)
	}
}

func TestUpgradeTargetsPageTier(t *testing.T) {
	svc := newTestAccess(t, nil)

	// attendance-report requires staff; the staff password unlocks it.
	if res, _ := svc.SubmitPassword("s1", "attendance-report", "staff123"); !res.Granted {
		t.Fatalf("staff password denied for staff page")
	}
	if tier := svc.CurrentTier("s1"); tier != domain.TierStaff {
		t.Fatalf("tier = %v, want staff", tier)
	}
}

func TestDowngradeIsFree(t *testing.T) {
	svc := newTestAccess(t, nil)
	if res, _ := svc.SubmitPassword("s1", "access-settings", "super789"); !res.Granted {
		t.Fatalf("superuser upgrade failed")
	}

	if err := svc.Downgrade("s1", domain.TierDoctor); err != nil {
		t.Fatalf("Downgrade returned error: %v", err)
	}
	if tier := svc.CurrentTier("s1"); tier != domain.TierDoctor {
		t.Fatalf("tier after downgrade = %v, want doctor", tier)
	}

	// A "downgrade" to a higher tier must be refused.
	if err := svc.Downgrade("s1", domain.TierOwner); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("upward downgrade: got %v, want ErrPermissionDenied", err)
	}
}

func TestResetReturnsToDoctor(t *testing.T) {
	svc := newTestAccess(t, nil)
	if res, _ := svc.SubmitPassword("s1", "salary-report", "owner456"); !res.Granted {
		t.Fatalf("upgrade failed")
	}

	svc.Reset("s1")
	if tier := svc.CurrentTier("s1"); tier != domain.TierDoctor {
		t.Fatalf("tier after reset = %v, want doctor", tier)
	}
}

func TestEvaluatePageOpensChallenge(t *testing.T) {
	svc := newTestAccess(t, nil)

	decision := svc.EvaluatePage("s1", "salary-report")
	if decision.Allowed {
		t.Fatalf("doctor session allowed into owner page")
	}
	if decision.Challenge == nil {
		t.Fatalf("expected a challenge")
	}
	if decision.Challenge.TargetTier != domain.TierOwner {
		t.Fatalf("challenge target = %v, want owner", decision.Challenge.TargetTier)
	}

	// Unmapped pages default to the doctor tier.
	decision = svc.EvaluatePage("s1", "some-unknown-page")
	if !decision.Allowed {
		t.Fatalf("unmapped page should default to doctor access")
	}
}

func TestLockoutAfterThreeFailures(t *testing.T) {
	current := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestAccess(t, func() time.Time { return current })

	for i := 0; i < 2; i++ {
		res, err := svc.SubmitPassword("s1", "salary-report", "nope")
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if res.Locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
		if want := domain.MaxChallengeAttempts - i - 1; res.AttemptsLeft != want {
			t.Fatalf("attempt %d: attempts left = %d, want %d", i+1, res.AttemptsLeft, want)
		}
	}

	res, err := svc.SubmitPassword("s1", "salary-report", "nope")
	if err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if !res.Locked {
		t.Fatalf("third failure did not lock the challenge")
	}

	// During the cool-down even the correct password is rejected without
	// being evaluated.
	current = current.Add(10 * time.Second)
	res, err = svc.SubmitPassword("s1", "salary-report", "owner456")
	if !errors.Is(err, domain.ErrChallengeLocked) {
		t.Fatalf("locked attempt: got %v, want ErrChallengeLocked", err)
	}
	if res.Granted {
		t.Fatalf("locked challenge granted access")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > 30*time.Second {
		t.Fatalf("retry-after = %v, want within (0, 30s]", res.RetryAfter)
	}
	if tier := svc.CurrentTier("s1"); tier != domain.TierDoctor {
		t.Fatalf("tier changed during lockout: %v", tier)
	}

	// After the cool-down the counter is reset and attempts work again.
	current = current.Add(31 * time.Second)
	res, err = svc.SubmitPassword("s1", "salary-report", "still-wrong")
	if err != nil {
		t.Fatalf("post-cooldown attempt: %v", err)
	}
	if res.Locked {
		t.Fatalf("still locked after cool-down")
	}
	if res.AttemptsLeft != domain.MaxChallengeAttempts-1 {
		t.Fatalf("attempt counter not reset: attempts left = %d", res.AttemptsLeft)
	}

	if res, _ = svc.SubmitPassword("s1", "salary-report", "owner456"); !res.Granted {
		t.Fatalf("correct password denied after cool-down")
	}
}

func TestCancelChallengeDiscardsState(t *testing.T) {
	svc := newTestAccess(t, nil)

	svc.EvaluatePage("s1", "salary-report")
	if _, err := svc.SubmitPassword("s1", "salary-report", "nope"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.CancelChallenge("s1", "salary-report")

	decision := svc.EvaluatePage("s1", "salary-report")
	if decision.Challenge == nil || decision.Challenge.AttemptCount != 0 {
		t.Fatalf("cancel did not discard the challenge: %+v", decision.Challenge)
	}
}

func TestSetRequiredTierNeedsSuperUser(t *testing.T) {
	svc := newTestAccess(t, nil)
	ctx := context.Background()

	err := svc.SetRequiredTier(ctx, "s1", "sales-report", domain.TierOwner)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("doctor-tier mutation: got %v, want ErrPermissionDenied", err)
	}

	if res, _ := svc.SubmitPassword("s1", "access-settings", "super789"); !res.Granted {
		t.Fatalf("superuser upgrade failed")
	}
	if err := svc.SetRequiredTier(ctx, "s1", "sales-report", domain.TierOwner); err != nil {
		t.Fatalf("superuser mutation failed: %v", err)
	}
	if got := svc.Pages()["sales-report"]; got != domain.TierOwner {
		t.Fatalf("sales-report tier = %v, want owner", got)
	}

	// The new requirement applies to other sessions immediately.
	if res, _ := svc.SubmitPassword("s2", "sales-report", "staff123"); res.Granted {
		t.Fatalf("staff password unlocked an owner page")
	}
	if res, _ := svc.SubmitPassword("s2", "sales-report", "owner456"); !res.Granted {
		t.Fatalf("owner password denied after override")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestAccess(t, nil)

	if res, _ := svc.SubmitPassword("s1", "access-settings", "super789"); !res.Granted {
		t.Fatalf("upgrade failed")
	}
	if tier := svc.CurrentTier("s2"); tier != domain.TierDoctor {
		t.Fatalf("second session tier = %v, want doctor", tier)
	}
}
