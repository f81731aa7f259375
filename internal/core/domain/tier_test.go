package domain

import (
	"errors"
	"testing"
)

func TestParseTier(t *testing.T) {
	cases := []struct {
		in   string
		want AccessTier
	}{
		{"doctor", TierDoctor},
		{"1", TierDoctor},
		{"staff", TierStaff},
		{"owner", TierOwner},
		{"superuser", TierSuperUser},
		{"super_user", TierSuperUser},
		{"4", TierSuperUser},
	}
	for _, tc := range cases {
		got, err := ParseTier(tc.in)
		if err != nil {
			t.Errorf("ParseTier(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseTier("manager"); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("ParseTier(manager): got %v, want ErrInvalidTier", err)
	}
	if _, err := ParseTier("5"); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("ParseTier(5): got %v, want ErrInvalidTier", err)
	}
}

func TestTierValid(t *testing.T) {
	for tier := TierDoctor; tier <= TierSuperUser; tier++ {
		if !tier.Valid() {
			t.Errorf("tier %d should be valid", tier)
		}
	}
	if AccessTier(0).Valid() || AccessTier(5).Valid() {
		t.Errorf("out-of-range tiers must be invalid")
	}
}

func TestTierString(t *testing.T) {
	if got := TierSuperUser.String(); got != "superuser" {
		t.Errorf("String() = %q", got)
	}
	if got := AccessTier(9).String(); got != "tier(9)" {
		t.Errorf("unknown tier String() = %q", got)
	}
}
