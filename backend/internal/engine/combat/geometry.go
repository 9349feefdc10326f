package combat

import (
	"math"

	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

// This file implements targeting.Environment. spec.md §4.8 treats
// geometry as "an external collaborator — a pure read interface, never
// owned by the targeting package itself"; World's implementation here is
// a flat Euclidean one (no terrain, cover, or obstruction modeling,
// matching the original's own geometry system which delegates real
// collision to the parry3d crate — not ported, see DESIGN.md). It is
// enough to exercise every Shape and Filter variant end to end.

func (w *World) distanceFeet(a, b Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (w *World) position(e entity.Handle) Position {
	p, _ := w.positions.Get(e)
	return p
}

func (w *World) instancePosition(inst targeting.Instance) Position {
	if inst.IsPoint {
		return Position{X: inst.X, Y: inst.Y, Z: inst.Z}
	}
	return w.position(inst.Entity)
}

func (w *World) FootDistanceMM(actor entity.Handle, target targeting.Instance) int {
	feet := w.distanceFeet(w.position(actor), w.instancePosition(target))
	return int(math.Round(feet * feetToMM))
}

// HasLineOfSight always reports true: obstruction tracking is out of
// scope for this flat geometry model.
func (w *World) HasLineOfSight(entity.Handle, targeting.Instance) bool { return true }

func (w *World) IsCharacter(e entity.Handle) bool {
	tag, ok := w.tags.Get(e)
	return ok && tag == TagCharacter
}

func (w *World) IsMonster(e entity.Handle) bool {
	tag, ok := w.tags.Get(e)
	return ok && tag == TagMonster
}

func (w *World) LifeState(e entity.Handle) damage.State {
	life := w.Life(e)
	if life == nil {
		return damage.Normal
	}
	return life.State
}

// EntitiesInShape returns every spawned entity within shape's footprint
// of origin. Arc and Line facing/angle are not modeled (flattened to
// their radius/length as a sphere) — documented in DESIGN.md as this
// package's own geometry simplification.
func (w *World) EntitiesInShape(shape targeting.Shape, origin targeting.Instance, fixedOnActor bool, actor entity.Handle) []entity.Handle {
	center := w.instancePosition(origin)
	if fixedOnActor {
		center = w.position(actor)
	}

	radiusMM := shape.RadiusMM
	switch shape.Kind {
	case targeting.Sphere:
		radiusMM = shape.RadiusMM
	case targeting.Cube:
		radiusMM = shape.SideMM / 2
	case targeting.Cylinder:
		radiusMM = shape.RadiusMM
	case targeting.Line, targeting.Arc:
		radiusMM = shape.LengthMM
	}
	radiusFeet := float64(radiusMM) / feetToMM

	var out []entity.Handle
	for _, h := range w.spawned {
		if w.distanceFeet(center, w.position(h)) <= radiusFeet {
			out = append(out, h)
		}
	}
	return out
}
