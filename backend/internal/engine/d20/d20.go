// Package d20 implements the advantage/disadvantage roll algebra and
// check resolution of spec.md §4.3 (C3): two d20s are always drawn, one
// is selected per roll mode, and the result is compared against a DC with
// crit/crit-fail edge policy.
package d20

import (
	"fmt"
	"math"

	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/proficiency"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// RollMode is the resolved outcome of the advantage tracker: which of the
// two drawn d20s is used.
type RollMode int

const (
	Normal RollMode = iota
	Advantage
	Disadvantage
)

func (m RollMode) String() string {
	switch m {
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return "normal"
	}
}

// AdvantageType is a single source's vote for advantage or disadvantage.
type AdvantageType int

const (
	AdvantageVote AdvantageType = iota
	DisadvantageVote
)

type advantageEntry struct {
	kind   AdvantageType
	source modifier.Source
}

// AdvantageTracker accumulates advantage/disadvantage votes from
// independent sources (spell effects, conditions, terrain, ...) and
// resolves them to a single RollMode by signed vote count: each
// disadvantage vote cancels one advantage vote, and whichever kind has
// more votes left picks the mode (equal counts give Normal).
type AdvantageTracker struct {
	entries []advantageEntry
}

// NewAdvantageTracker creates an empty tracker.
func NewAdvantageTracker() *AdvantageTracker {
	return &AdvantageTracker{}
}

// Add records a vote for kind, attributed to source.
func (t *AdvantageTracker) Add(kind AdvantageType, source modifier.Source) {
	t.entries = append(t.entries, advantageEntry{kind: kind, source: source})
}

// Remove discards every vote attributed to source.
func (t *AdvantageTracker) Remove(source modifier.Source) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.source != source {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}

// RollMode resolves the net vote: positive favors advantage, negative
// favors disadvantage, zero (including no votes) is normal.
func (t *AdvantageTracker) RollMode() RollMode {
	net := 0
	for _, e := range t.entries {
		if e.kind == AdvantageVote {
			net++
		} else {
			net--
		}
	}
	switch {
	case net > 0:
		return Advantage
	case net < 0:
		return Disadvantage
	default:
		return Normal
	}
}

// Clone returns an independent copy.
func (t *AdvantageTracker) Clone() *AdvantageTracker {
	out := &AdvantageTracker{entries: make([]advantageEntry, len(t.entries))}
	copy(out.entries, t.entries)
	return out
}

const (
	defaultCritThreshold = 20
	minCritThreshold     = 2
	critFailFace         = 1
)

// Check is a reusable d20 check template: a modifier set, a proficiency
// weighting, an advantage tracker, and a crit threshold. Roll clones the
// modifier set before adding the proficiency contribution, so the
// template itself is reusable across many rolls (spec.md §4.3 "modifier
// set is cloned").
type Check struct {
	Modifiers     *modifier.Set
	Proficiency   proficiency.Proficiency
	Advantage     *AdvantageTracker
	critThreshold int
}

// New creates a check template with the given proficiency weighting.
func New(prof proficiency.Proficiency) *Check {
	return &Check{
		Modifiers:     modifier.New(),
		Proficiency:   prof,
		Advantage:     NewAdvantageTracker(),
		critThreshold: defaultCritThreshold,
	}
}

// ReduceCritThreshold lowers the die face that counts as a critical
// success by delta, floored at 2 (spec.md §4.3 "Crit threshold reduction
// effects subtract from 20; floor is 2."). Passing a negative delta
// raises the threshold back up, capped at 20.
func (c *Check) ReduceCritThreshold(delta int) {
	c.critThreshold = clampInt(c.critThreshold-delta, minCritThreshold, defaultCritThreshold)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clone returns an independent copy of the check template.
func (c *Check) Clone() *Check {
	return &Check{
		Modifiers:     c.Modifiers.Clone(),
		Proficiency:   c.Proficiency,
		Advantage:     c.Advantage.Clone(),
		critThreshold: c.critThreshold,
	}
}

// Result is the outcome of one resolved d20 check.
type Result struct {
	Rolls            []int
	SelectedRoll     int
	ModifierBreakdown *modifier.Set
	RollMode         RollMode
	IsCrit           bool
	IsCritFail       bool
	// Success is the check's own verdict with no DC involved (true only
	// for a crit). Callers comparing against a DC use IsSuccess.
	Success bool
}

// Total is the selected die plus every modifier, clamped to non-negative
// (spec.md §4.3 "total = clamp_to_nonneg(...)").
func (r *Result) Total() int {
	total := r.SelectedRoll + r.ModifierBreakdown.TotalInt()
	if total < 0 {
		return 0
	}
	return total
}

// IsSuccess compares the check against dc, applying the crit edge policy:
// a crit is always a success regardless of dc, a crit-fail can never be a
// success regardless of dc (spec.md §4.3).
func (r *Result) IsSuccess(dc int) bool {
	if r.IsCrit {
		return true
	}
	if r.IsCritFail {
		return false
	}
	return r.Total() >= dc
}

// AddBonus applies an additional modifier after the roll has been made —
// used by result hooks that react to the outcome (e.g. "add 1d4 on a
// successful save").
func (r *Result) AddBonus(source modifier.Source, value float64) {
	r.ModifierBreakdown.Add(source, value)
}

// String renders the result in the "selected (d1, d2, mode) modifiers = total"
// style used for logs.
func (r *Result) String() string {
	s := fmt.Sprintf("%d (1d20)", r.SelectedRoll)
	if r.RollMode != Normal {
		s += fmt.Sprintf(" (%d, %d, %s)", r.Rolls[0], r.Rolls[1], r.RollMode)
	}
	if r.IsCrit {
		s += " (Critical Success!)"
	}
	if r.IsCritFail {
		s += " (Critical Failure!)"
	}
	if !r.ModifierBreakdown.IsEmpty() {
		s += " " + r.ModifierBreakdown.String()
	}
	return fmt.Sprintf("%s = %d", s, r.Total())
}

// Roll draws two d20s from src, selects per roll mode, and adds the
// proficiency contribution (spec.md §4.3 "Always draws two d20s;
// selects per roll mode... a Proficiency(level) entry of value
// floor(bonus × level_weight) is added").
func (c *Check) Roll(src rng.Source, proficiencyBonus int) *Result {
	mods := c.Modifiers.Clone()
	mods.AddInt(modifier.ProficiencySource(c.Proficiency.Level.String()), c.Proficiency.Bonus(proficiencyBonus))

	roll1 := src.IntN(20) + 1
	roll2 := src.IntN(20) + 1
	mode := c.Advantage.RollMode()

	var rolls []int
	var selected int
	switch mode {
	case Advantage:
		rolls = []int{roll1, roll2}
		selected = max(roll1, roll2)
	case Disadvantage:
		rolls = []int{roll1, roll2}
		selected = min(roll1, roll2)
	default:
		rolls = []int{roll1, roll2}
		selected = roll1
	}

	isCrit := selected >= c.critThreshold
	isCritFail := selected == critFailFace

	return &Result{
		Rolls:             rolls,
		SelectedRoll:      selected,
		ModifierBreakdown: mods,
		RollMode:          mode,
		IsCrit:            isCrit,
		IsCritFail:        isCritFail,
		Success:           isCrit,
	}
}

// SuccessProbability computes the analytical chance of beating dc,
// accounting for advantage/disadvantage (spec.md §4.3): needed-raw =
// clamp(dc − total_mod, 2, 20); p = (21 − needed) / 20; combined as
// 1 − (1−p)² for advantage, p² for disadvantage.
func (c *Check) SuccessProbability(dc int, proficiencyBonus int) float64 {
	totalMod := c.Modifiers.TotalInt() + c.Proficiency.Bonus(proficiencyBonus)
	needed := clampInt(dc-totalMod, 2, 20)
	p := float64(21-needed) / 20.0

	switch c.Advantage.RollMode() {
	case Advantage:
		return 1 - math.Pow(1-p, 2)
	case Disadvantage:
		return math.Pow(p, 2)
	default:
		return p
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
