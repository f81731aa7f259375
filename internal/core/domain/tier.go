package domain

import "fmt"

// AccessTier is an ordered privilege level for the admin dashboard.
// Higher values strictly dominate lower ones.
type AccessTier int

const (
	TierDoctor    AccessTier = 1
	TierStaff     AccessTier = 2
	TierOwner     AccessTier = 3
	TierSuperUser AccessTier = 4
)

var tierNames = map[AccessTier]string{
	TierDoctor:    "doctor",
	TierStaff:     "staff",
	TierOwner:     "owner",
	TierSuperUser: "superuser",
}

// HasAccess reports whether a session at tier t may enter a page that
// requires the given tier.
func (t AccessTier) HasAccess(required AccessTier) bool {
	return t >= required
}

// Valid reports whether t is one of the four defined tiers.
func (t AccessTier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

func (t AccessTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier converts a tier name or numeric string to an AccessTier.
func ParseTier(s string) (AccessTier, error) {
	switch s {
	case "doctor", "1":
		return TierDoctor, nil
	case "staff", "2":
		return TierStaff, nil
	case "owner", "3":
		return TierOwner, nil
	case "superuser", "super_user", "4":
		return TierSuperUser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
}
