// Package targeting implements the action-targeting model of spec.md
// §4.8 (C11): how many targets an action allows, how far it reaches,
// whether it needs line of sight, and which entities are eligible —
// validated against a read-only geometry/classification collaborator
// supplied by the caller rather than owned by this package.
package targeting

import (
	"fmt"

	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
)

// Kind is the closed targeting-shape union of spec.md §4.8.
type Kind int

const (
	SelfTarget Kind = iota
	Single
	Multiple
	Area
)

// ShapeKind enumerates the area shapes an Area-kind context may use.
type ShapeKind int

const (
	Arc ShapeKind = iota
	Sphere
	Cube
	Cylinder
	Line
)

// Shape describes an area-of-effect's geometry in millimeters (matching
// the original's choice to store lengths as integer millimeters rather
// than a floating Length, since contexts are compared and hashed —
// spec.md §4.8 "Area shape"). Only the fields relevant to ShapeKind are
// populated; the rest are zero.
type Shape struct {
	Kind              ShapeKind
	AngleMilliradians int
	LengthMM          int
	RadiusMM          int
	SideMM            int
	HeightMM          int
	WidthMM           int
}

// Context is the full targeting specification for one action (spec.md
// §4.8 "TargetingContext"): how it selects targets, how far it reaches,
// whether it needs line of sight, and which entities are eligible.
type Context struct {
	Kind               Kind
	MaxTargets         int
	AreaShape          Shape
	FixedOnActor       bool
	RangeNormalMM      int
	RangeMaxMM         int
	RequireLineOfSight bool
	Allowed            Filter
}

// SelfTargetContext builds the zero-range, no-filter context used by
// actions that only ever affect their own performer (e.g. Second Wind).
func SelfTargetContext() Context {
	return Context{Kind: SelfTarget, Allowed: AllFilter()}
}

// InRange reports whether distanceMM falls within the context's maximum
// range (spec.md §4.8 "max range cannot be exceeded").
func (c Context) InRange(distanceMM int) bool {
	return distanceMM <= c.RangeMaxMM
}

// WithinNormalRange reports whether distanceMM is at or under normal
// range — beyond it the action is still legal but may carry a penalty
// the caller (the d20 check layer) is responsible for applying, mirroring
// the original's "attacks made outside normal range have disadvantage".
func (c Context) WithinNormalRange(distanceMM int) bool {
	return distanceMM <= c.RangeNormalMM
}

// Instance is one resolved target: either a specific entity or a bare
// point in space (for area effects with no entity anchor).
type Instance struct {
	Entity  entity.Handle
	IsPoint bool
	X, Y, Z float64
}

// EntityInstance wraps an entity handle as a target Instance.
func EntityInstance(e entity.Handle) Instance {
	return Instance{Entity: e}
}

// PointInstance wraps a bare point as a target Instance.
func PointInstance(x, y, z float64) Instance {
	return Instance{IsPoint: true, X: x, Y: y, Z: z}
}

// Error is the closed set of ways target validation can fail (spec.md
// §4.8 "TargetingError").
type Error struct {
	Kind       ErrorKind
	Target     Instance
	DistanceMM int
	MaxRangeMM int
}

type ErrorKind int

const (
	ExceedsMaxTargets ErrorKind = iota
	OutOfRange
	NoLineOfSight
)

func (e *Error) Error() string {
	switch e.Kind {
	case ExceedsMaxTargets:
		return "targeting: exceeds max targets"
	case OutOfRange:
		return fmt.Sprintf("targeting: target out of range (distance %dmm, max %dmm)", e.DistanceMM, e.MaxRangeMM)
	case NoLineOfSight:
		return "targeting: no line of sight to target"
	default:
		return "targeting: invalid targets"
	}
}

// Environment is the read-only geometry/classification collaborator
// validation is performed against (spec.md §4.8 "geometry system is an
// external collaborator — a pure read interface, never owned by the
// targeting package itself"). A concrete encounter/world type implements
// this; targeting never depends on that concrete type.
type Environment interface {
	FootDistanceMM(actor entity.Handle, target Instance) int
	HasLineOfSight(actor entity.Handle, target Instance) bool
	IsCharacter(e entity.Handle) bool
	IsMonster(e entity.Handle) bool
	LifeState(e entity.Handle) damage.State
	EntitiesInShape(shape Shape, origin Instance, fixedOnActor bool, actor entity.Handle) []entity.Handle
}

// Validate checks targets against c's range, line-of-sight and
// max-target-count rules (spec.md §4.8 "validate_targets"). Filter
// eligibility is intentionally not checked here — callers filter the
// candidate pool with Filter.Matches before presenting choices, so an
// already-offered target is never rejected for ineligibility at
// validation time.
func (c Context) Validate(env Environment, actor entity.Handle, targets []Instance) error {
	if c.Kind == Multiple && c.MaxTargets > 0 && len(targets) > c.MaxTargets {
		return &Error{Kind: ExceedsMaxTargets}
	}
	if c.Kind == Single && len(targets) > 1 {
		return &Error{Kind: ExceedsMaxTargets}
	}

	for _, target := range targets {
		distance := env.FootDistanceMM(actor, target)
		if !c.InRange(distance) {
			return &Error{Kind: OutOfRange, Target: target, DistanceMM: distance, MaxRangeMM: c.RangeMaxMM}
		}
		if c.RequireLineOfSight && !env.HasLineOfSight(actor, target) {
			return &Error{Kind: NoLineOfSight, Target: target}
		}
	}
	return nil
}
