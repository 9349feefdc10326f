// Package modifier implements the additive modifier algebra of spec.md
// §4.1 (C1): a keyed, source-attributed bag of integer bonuses/penalties
// with a running total, shared by ability scores, skills, saving throws,
// armor class, d20 checks, and damage rolls.
package modifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nat20/combatcore/backend/internal/engine/id"
)

// SourceKind discriminates the closed ModifierSource union (spec.md §4.1).
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceBase
	SourceAbility
	SourceProficiency
	SourceItem
	SourceSpell
	SourceClassFeature
	SourceCustom
)

// Ability, ProficiencyLevel and similar domain enums live in the stats
// package; Source only needs to name them, so it stores the ability/level
// as a string tag rather than importing stats (which will in turn import
// modifier for its own computations, and Go forbids the cycle).

// Source identifies where a modifier came from. It is a closed union:
// exactly one of the typed fields is meaningful, selected by Kind.
// Re-adding the same Source to a ModifierSet replaces its value rather
// than stacking (spec.md §4.1), so Source must compare equal for the
// "same bonus reapplied" case and distinct for genuinely different
// sources — this is why Source is a plain comparable struct rather than
// an interface.
type Source struct {
	Kind    SourceKind
	Ability string       // set when Kind == SourceAbility
	Level   string       // set when Kind == SourceProficiency (e.g. "proficient", "expertise")
	Item    id.ItemID    // set when Kind == SourceItem
	Spell   id.SpellID   // set when Kind == SourceSpell
	Class   id.ClassID   // set when Kind == SourceClassFeature
	Custom  string       // set when Kind == SourceCustom
}

// Base is the flat, unattributed starting value of a stat (e.g. the 8 in
// point-buy, or a weapon's base damage die bonus).
var Base = Source{Kind: SourceBase}

// None marks the absence of a meaningful source, used where a caller
// needs a Source value but has nothing to attribute it to.
var None = Source{Kind: SourceNone}

// AbilitySource attributes a modifier to an ability score.
func AbilitySource(ability string) Source { return Source{Kind: SourceAbility, Ability: ability} }

// ProficiencySource attributes a modifier to a proficiency weighting at a level.
func ProficiencySource(level string) Source { return Source{Kind: SourceProficiency, Level: level} }

// ItemSource attributes a modifier to an equipped or carried item.
func ItemSource(itemID id.ItemID) Source { return Source{Kind: SourceItem, Item: itemID} }

// SpellSource attributes a modifier to an active spell effect.
func SpellSource(spellID id.SpellID) Source { return Source{Kind: SourceSpell, Spell: spellID} }

// ClassFeatureSource attributes a modifier to a class feature.
func ClassFeatureSource(classID id.ClassID) Source {
	return Source{Kind: SourceClassFeature, Class: classID}
}

// CustomSource attributes a modifier to an arbitrary named source not
// covered by the other kinds (scripted effects, one-off scenario bonuses).
func CustomSource(name string) Source { return Source{Kind: SourceCustom, Custom: name} }

// String renders the source for display and logging.
func (s Source) String() string {
	switch s.Kind {
	case SourceBase:
		return "base"
	case SourceAbility:
		return s.Ability
	case SourceProficiency:
		return s.Level
	case SourceItem:
		return s.Item.String()
	case SourceSpell:
		return s.Spell.String()
	case SourceClassFeature:
		return s.Class.String()
	case SourceCustom:
		return s.Custom
	default:
		return "none"
	}
}

// entry records a value alongside the order it was first inserted, so
// Display can render sources in a stable, insertion order rather than Go's
// randomized map order.
type entry struct {
	value float64
	order int
}

// Set is a source-keyed additive modifier bag (spec.md §4.1 "Modifier
// set"). The zero value is not usable; construct with New.
type Set struct {
	entries map[Source]entry
	next    int
}

// New creates an empty modifier set.
func New() *Set {
	return &Set{entries: make(map[Source]entry)}
}

// Add records value for source. Re-adding a source replaces its value
// rather than stacking, and keeps its original insertion position — spec.md
// §4.1 specifies replacement but the original's insertion-ordered Display
// relies on sources not jumping to the back of the line on refresh.
func (s *Set) Add(source Source, value float64) {
	if e, ok := s.entries[source]; ok {
		s.entries[source] = entry{value: value, order: e.order}
		return
	}
	s.entries[source] = entry{value: value, order: s.next}
	s.next++
}

// AddInt is a convenience wrapper for integer-valued modifiers (most
// callers — ability/item/feature bonuses are whole numbers; proficiency
// weighting is the one caller that needs fractional Add).
func (s *Set) AddInt(source Source, value int) {
	s.Add(source, float64(value))
}

// Remove deletes source's contribution. Removing an absent source is a
// no-op (spec.md §4.1 "remove is idempotent").
func (s *Set) Remove(source Source) {
	delete(s.entries, source)
}

// Get returns source's value and whether it is present.
func (s *Set) Get(source Source) (float64, bool) {
	e, ok := s.entries[source]
	return e.value, ok
}

// Total sums every entry's value.
func (s *Set) Total() float64 {
	var total float64
	for _, e := range s.entries {
		total += e.value
	}
	return total
}

// TotalInt sums every entry's value and truncates toward zero, for callers
// that only ever deal in integer modifiers (ability/skill/AC totals).
func (s *Set) TotalInt() int {
	return int(s.Total())
}

// IsEmpty reports whether the set has no entries.
func (s *Set) IsEmpty() bool {
	return len(s.entries) == 0
}

// Clone returns an independent copy, used before mutating a template
// modifier set for a single roll (spec.md §4.3 "modifier set is cloned").
func (s *Set) Clone() *Set {
	out := &Set{entries: make(map[Source]entry, len(s.entries)), next: s.next}
	for k, v := range s.entries {
		out.entries[k] = v
	}
	return out
}

// Equal reports whether two sets have identical (source → value) maps,
// per spec.md §4.1 "Two modifier sets are equal iff their maps are equal."
// Insertion order does not participate in equality.
func (s *Set) Equal(other *Set) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for k, v := range s.entries {
		ov, ok := other.entries[k]
		if !ok || ov.value != v.value {
			return false
		}
	}
	return true
}

// sorted returns (source, value) pairs in insertion order.
func (s *Set) sorted() []struct {
	source Source
	value  float64
} {
	out := make([]struct {
		source Source
		value  float64
	}, 0, len(s.entries))
	for k, e := range s.entries {
		out = append(out, struct {
			source Source
			value  float64
		}{k, e.value})
	}
	sort.Slice(out, func(i, j int) bool {
		return s.entries[out[i].source].order < s.entries[out[j].source].order
	})
	return out
}

// String renders entries in insertion order as "(+N source, -N source, ...)",
// matching the display style of a signed modifier breakdown.
func (s *Set) String() string {
	if s.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(s.entries))
	for _, p := range s.sorted() {
		if p.value == float64(int(p.value)) {
			parts = append(parts, fmt.Sprintf("%+d %s", int(p.value), p.source))
		} else {
			parts = append(parts, fmt.Sprintf("%+.1f %s", p.value, p.source))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
