package effect

import (
	"fmt"

	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/registry"
)

// Instance is one effect attached to one entity (spec.md §4.4
// "EffectInstance"). Applier is the zero Handle when the effect has no
// applier (e.g. an innate racial trait).
type Instance struct {
	EffectID id.EffectID
	Source   modifier.Source
	Applier  entity.Handle
	Lifetime Lifetime
}

// Store owns every applied effect instance, keyed by the entity they are
// attached to, and the registry of definitions they reference.
type Store struct {
	definitions *registry.Registry[id.EffectID, Definition]
	instances   map[entity.Handle][]*Instance
}

// NewStore builds an effect store backed by the given definition registry.
func NewStore(definitions *registry.Registry[id.EffectID, Definition]) *Store {
	return &Store{definitions: definitions, instances: make(map[entity.Handle][]*Instance)}
}

// Instances returns every effect instance currently attached to target,
// in application order.
func (s *Store) Instances(target entity.Handle) []*Instance {
	return s.instances[target]
}

// Definition looks up the definition an effect id resolves to, so a
// caller walking a target's instances (to gather hooks for an armor
// class computation, a damage roll, a skill check, ...) can reach each
// instance's Hooks without reimplementing registry lookup.
func (s *Store) Definition(effectID id.EffectID) (Definition, bool) {
	return s.definitions.Get(effectID)
}

func (s *Store) find(target entity.Handle, effectID id.EffectID, source modifier.Source) (*Instance, int) {
	for i, inst := range s.instances[target] {
		if inst.EffectID == effectID && inst.Source == source {
			return inst, i
		}
	}
	return nil, -1
}

func (s *Store) findByEffectID(target entity.Handle, effectID id.EffectID) (*Instance, int) {
	for i, inst := range s.instances[target] {
		if inst.EffectID == effectID {
			return inst, i
		}
	}
	return nil, -1
}

func (s *Store) removeAt(target entity.Handle, i int) {
	list := s.instances[target]
	s.instances[target] = append(list[:i], list[i+1:]...)
}

// Apply resolves and attaches an effect to target, following spec.md
// §4.4's exact algorithm:
//
//  1. Resolve the definition; error if unknown.
//  2. If the definition names Replaces, unapply any existing instance of
//     that effect id on target first (firing its OnUnapply).
//  3. If an instance of the same (effect id, source) pair already exists
//     on target, refresh its lifetime to the longer of the two remaining
//     durations WITHOUT re-firing OnApply.
//  4. Otherwise append a new instance and fire OnApply.
func (s *Store) Apply(obs Observer, target entity.Handle, effectID id.EffectID, source modifier.Source, applier entity.Handle, lifetime Lifetime) error {
	def, ok := s.definitions.Get(effectID)
	if !ok {
		return fmt.Errorf("effect: unknown effect id %v", effectID)
	}

	if def.Replaces != nil {
		if existing, i := s.findByEffectID(target, *def.Replaces); existing != nil {
			s.unapplyAt(obs, target, i)
		}
	}

	if existing, _ := s.find(target, effectID, source); existing != nil {
		existing.Lifetime = existing.Lifetime.extendedWith(lifetime)
		return nil
	}

	inst := &Instance{EffectID: effectID, Source: source, Applier: applier, Lifetime: lifetime}
	s.instances[target] = append(s.instances[target], inst)
	if def.Hooks.OnApply != nil {
		def.Hooks.OnApply(obs, target, inst)
	}
	return nil
}

// Unapply removes a specific instance from target, firing its
// definition's OnUnapply hook first. It is a no-op if inst is not
// currently attached to target.
func (s *Store) Unapply(obs Observer, target entity.Handle, inst *Instance) {
	for i, candidate := range s.instances[target] {
		if candidate == inst {
			s.unapplyAt(obs, target, i)
			return
		}
	}
}

func (s *Store) unapplyAt(obs Observer, target entity.Handle, i int) {
	inst := s.instances[target][i]
	if def, ok := s.definitions.Get(inst.EffectID); ok && def.Hooks.OnUnapply != nil {
		def.Hooks.OnUnapply(obs, target, inst)
	}
	s.removeAt(target, i)
}

// PassTime advances every AtTurnBoundary lifetime on target that is
// watching this (entity, boundary) pair, then sweeps and unapplies any
// instance that has expired — firing OnUnapply exactly once per expired
// instance (spec.md §4.4 "advance_time/is_expired").
func (s *Store) PassTime(obs Observer, target entity.Handle, boundary Boundary) {
	for _, inst := range s.instances[target] {
		inst.Lifetime = inst.Lifetime.Advance(target, boundary)
	}

	for i := 0; i < len(s.instances[target]); {
		if s.instances[target][i].Lifetime.IsExpired() {
			s.unapplyAt(obs, target, i)
			continue
		}
		i++
	}
}
