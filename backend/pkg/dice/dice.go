// Package dice implements the low-level dice mechanics shared across the
// engine: notation parsing ("2d6+3"), a DiceSet value type, and a Roller
// that draws from an injected random source. Higher-level composite rolls
// that combine a DiceSet with a modifier set live in
// internal/engine/dice, which builds on this package.
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nat20/combatcore/backend/pkg/rng"
)

// validSizes enumerates the polyhedral die sizes the engine understands,
// per spec.md §3 "DiceSet { count, size ∈ {4,6,8,10,12,20,100} }".
var validSizes = map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true, 20: true, 100: true}

// DiceSet is an immutable count/size pair, e.g. 2d6.
type DiceSet struct {
	Count int
	Size  int
}

// NewDiceSet validates count and size before returning a DiceSet.
func NewDiceSet(count, size int) (DiceSet, error) {
	if count < 1 {
		return DiceSet{}, fmt.Errorf("dice: count must be >= 1, got %d", count)
	}
	if !validSizes[size] {
		return DiceSet{}, fmt.Errorf("dice: invalid die size d%d", size)
	}
	return DiceSet{Count: count, Size: size}, nil
}

// Min is the lowest possible subtotal from rolling the set (modifiers excluded).
func (d DiceSet) Min() int { return d.Count }

// Max is the highest possible subtotal from rolling the set (modifiers excluded).
func (d DiceSet) Max() int { return d.Count * d.Size }

// String renders the canonical "NdM" form (no modifier — see ParseNotation
// for the modifier-bearing string form).
func (d DiceSet) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Size)
}

// Doubled returns a DiceSet with the dice count doubled, used for the
// critical-hit rule of spec.md §4.5 ("double the dice count... before
// modifiers").
func (d DiceSet) Doubled() DiceSet {
	return DiceSet{Count: d.Count * 2, Size: d.Size}
}

var notationRE = regexp.MustCompile(`^\s*(\d*)\s*d\s*(\d+)\s*([+-]\s*\d+)?\s*$`)

// ParseNotation parses "NdM[+K|-K]" per spec.md §4.2. A missing N defaults
// to 1; surrounding and internal whitespace is tolerated.
func ParseNotation(notation string) (DiceSet, int, error) {
	matches := notationRE.FindStringSubmatch(notation)
	if matches == nil {
		return DiceSet{}, 0, fmt.Errorf("dice: invalid notation %q", notation)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			return DiceSet{}, 0, fmt.Errorf("dice: invalid count in %q: %w", notation, err)
		}
		count = n
	}

	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return DiceSet{}, 0, fmt.Errorf("dice: invalid size in %q: %w", notation, err)
	}

	modifier := 0
	if mod := strings.ReplaceAll(matches[3], " ", ""); mod != "" {
		m, err := strconv.Atoi(mod)
		if err != nil {
			return DiceSet{}, 0, fmt.Errorf("dice: invalid modifier in %q: %w", notation, err)
		}
		modifier = m
	}

	set, err := NewDiceSet(count, size)
	if err != nil {
		return DiceSet{}, 0, err
	}
	return set, modifier, nil
}

// Notation renders the canonical "NdM" or "NdM +K" / "NdM -K" string for a
// set plus flat modifier. Parsing this string with ParseNotation always
// yields back (set, modifier) — the round-trip invariant of spec.md §8.9.
func Notation(set DiceSet, modifier int) string {
	switch {
	case modifier > 0:
		return fmt.Sprintf("%s +%d", set, modifier)
	case modifier < 0:
		return fmt.Sprintf("%s -%d", set, -modifier)
	default:
		return set.String()
	}
}

// RollResult is the outcome of rolling a notation string: the individual
// dice, the flat modifier applied, and the total.
type RollResult struct {
	Dice     []int
	Modifier int
	Total    int
}

// Roller rolls dice notation using an injected rng.Source — never a
// package-level or thread-local generator (spec.md §5 "RNG... Explicit
// dependency injection").
type Roller struct {
	src rng.Source
}

// NewRoller builds a Roller around the given source.
func NewRoller(src rng.Source) *Roller {
	return &Roller{src: src}
}

// Roll parses and rolls dice notation like "2d6+3" or "1d20-2".
func (r *Roller) Roll(notation string) (*RollResult, error) {
	set, modifier, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}

	result := &RollResult{
		Dice:     make([]int, set.Count),
		Modifier: modifier,
		Total:    modifier,
	}
	for i := 0; i < set.Count; i++ {
		roll := r.src.IntN(set.Size) + 1
		result.Dice[i] = roll
		result.Total += roll
	}
	return result, nil
}

// RollSet rolls a validated DiceSet directly, without going through
// notation parsing.
func (r *Roller) RollSet(set DiceSet) []int {
	rolls := make([]int, set.Count)
	for i := range rolls {
		rolls[i] = r.src.IntN(set.Size) + 1
	}
	return rolls
}

// RollD20 draws a single d20, the primitive every check in the engine's d20
// package builds on.
func (r *Roller) RollD20() int {
	return r.src.IntN(20) + 1
}
