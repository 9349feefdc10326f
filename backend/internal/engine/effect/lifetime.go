package effect

import "github.com/nat20/combatcore/backend/internal/engine/entity"

// Boundary names the point in a turn an AtTurnBoundary lifetime counts
// down against (spec.md §4.4 "Effects & Hooks").
type Boundary int

const (
	StartOfTurn Boundary = iota
	EndOfTurn
)

// LifetimeKind distinguishes an effect that never expires on its own from
// one that counts down turns for a specific entity.
type LifetimeKind int

const (
	Permanent LifetimeKind = iota
	AtTurnBoundary
)

// Lifetime is the closed lifetime union of spec.md §4.4: an effect either
// lasts forever (until explicitly unapplied or replaced) or expires after
// a fixed number of a named entity's turn boundaries. It is modeled as a
// tagged struct rather than an interface because only LifetimeKind's two
// cases ever need distinguishing, and a struct keeps Advance/IsExpired
// simple value-receiver methods.
type Lifetime struct {
	Kind      LifetimeKind
	Entity    entity.Handle
	Boundary  Boundary
	Duration  int
	Remaining int
}

// PermanentLifetime never expires on its own.
func PermanentLifetime() Lifetime {
	return Lifetime{Kind: Permanent}
}

// NewAtTurnBoundary builds a lifetime that expires after durationTurns
// occurrences of boundary for the given entity.
func NewAtTurnBoundary(e entity.Handle, boundary Boundary, durationTurns int) Lifetime {
	return Lifetime{Kind: AtTurnBoundary, Entity: e, Boundary: boundary, Duration: durationTurns, Remaining: durationTurns}
}

// Advance decrements Remaining by one if this lifetime is watching the
// given entity+boundary pair — mirrors the original's advance_time, which
// only counts down when the boundary firing matches what the lifetime is
// bound to (spec.md §4.4 "effects only count down on their own entity's
// matching turn boundary").
func (l Lifetime) Advance(e entity.Handle, boundary Boundary) Lifetime {
	if l.Kind != AtTurnBoundary || l.Entity != e || l.Boundary != boundary {
		return l
	}
	if l.Remaining > 0 {
		l.Remaining--
	}
	return l
}

// IsExpired reports whether a countdown lifetime has run out. Permanent
// lifetimes never expire.
func (l Lifetime) IsExpired() bool {
	return l.Kind == AtTurnBoundary && l.Remaining <= 0
}

// extendedWith returns l refreshed to the longer of its own remaining
// duration and other's — the refresh-on-reapply rule of spec.md §4.4
// ("re-applying the same (effect, source) pair refreshes to the longer of
// the two remaining durations without re-firing on_apply").
func (l Lifetime) extendedWith(other Lifetime) Lifetime {
	if l.Kind == Permanent {
		return l
	}
	if other.Kind == Permanent {
		return other
	}
	if l.Remaining > other.Remaining {
		return l
	}
	return other
}
