package targeting

import (
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
)

// FilterKind is the closed entity-eligibility union of spec.md §4.8
// "EntityFilter".
type FilterKind int

const (
	All FilterKind = iota
	Characters
	Monsters
	Specific
	LifeStates
	NotLifeStates
)

// Filter restricts which entities an action may target. Only the field
// relevant to Kind is populated.
type Filter struct {
	Kind       FilterKind
	Entities   map[entity.Handle]struct{}
	LifeStates map[damage.State]struct{}
}

// AllFilter allows every entity.
func AllFilter() Filter { return Filter{Kind: All} }

// CharactersFilter allows only player characters.
func CharactersFilter() Filter { return Filter{Kind: Characters} }

// MonstersFilter allows only monsters.
func MonstersFilter() Filter { return Filter{Kind: Monsters} }

// SpecificFilter allows only the named entities.
func SpecificFilter(entities ...entity.Handle) Filter {
	set := make(map[entity.Handle]struct{}, len(entities))
	for _, e := range entities {
		set[e] = struct{}{}
	}
	return Filter{Kind: Specific, Entities: set}
}

// LifeStatesFilter allows only entities in one of the given life states.
func LifeStatesFilter(states ...damage.State) Filter {
	return Filter{Kind: LifeStates, LifeStates: stateSet(states)}
}

// NotLifeStatesFilter allows only entities NOT in any of the given life
// states.
func NotLifeStatesFilter(states ...damage.State) Filter {
	return Filter{Kind: NotLifeStates, LifeStates: stateSet(states)}
}

// NotDeadFilter is the original's convenience default: everything except
// Dead and Defeated (spec.md §4.8 "EntityFilter::not_dead").
func NotDeadFilter() Filter {
	return NotLifeStatesFilter(damage.Dead, damage.Defeated)
}

func stateSet(states []damage.State) map[damage.State]struct{} {
	set := make(map[damage.State]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

// Matches reports whether e is eligible under f, consulting env only for
// the filter kinds that need classification (spec.md §4.8
// "EntityFilter::matches").
func (f Filter) Matches(env Environment, e entity.Handle) bool {
	switch f.Kind {
	case All:
		return true
	case Characters:
		return env.IsCharacter(e)
	case Monsters:
		return env.IsMonster(e)
	case Specific:
		_, ok := f.Entities[e]
		return ok
	case LifeStates:
		_, ok := f.LifeStates[env.LifeState(e)]
		return ok
	case NotLifeStates:
		_, ok := f.LifeStates[env.LifeState(e)]
		return !ok
	default:
		return false
	}
}
