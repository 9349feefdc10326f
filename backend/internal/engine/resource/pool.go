package resource

import (
	"fmt"

	"github.com/nat20/combatcore/backend/internal/engine/id"
)

// Pool is the set of named resources one entity owns.
type Pool struct {
	resources map[id.ResourceID]*Resource
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{resources: make(map[id.ResourceID]*Resource)}
}

// Grant adds or replaces a resource kind in the pool — used when a
// resource is created by a class feature or level-up (spec.md §3
// "Resource created when granted by class/level-up").
func (p *Pool) Grant(resourceID id.ResourceID, r Resource) {
	res := r
	p.resources[resourceID] = &res
}

// Get returns the resource for resourceID and whether it exists.
func (p *Pool) Get(resourceID id.ResourceID) (*Resource, bool) {
	r, ok := p.resources[resourceID]
	return r, ok
}

// EnsureResource returns the pool's existing resourceID resource, or
// grants one at maxUses/rule, fully charged, if the pool has none yet.
// An existing resource's current charge is left untouched — this is for
// lazily materializing implicit tracking resources (e.g. a per-action
// cooldown) the first time they are needed, not for re-granting one a
// class feature already manages explicitly.
func (p *Pool) EnsureResource(resourceID id.ResourceID, maxUses int, rule RechargeRule) *Resource {
	if r, ok := p.resources[resourceID]; ok {
		return r
	}
	r, err := New(maxUses, rule)
	if err != nil {
		r = Resource{MaxUses: maxUses, CurrentUses: maxUses, RechargeRule: rule}
	}
	p.resources[resourceID] = &r
	return p.resources[resourceID]
}

// CostMap is an ordered list of (resource, amount) pairs an action spends,
// applied atomically: either every cost can be paid or none are spent.
type CostMap struct {
	costs []costEntry
}

type costEntry struct {
	resourceID id.ResourceID
	amount     int
}

// NewCostMap builds a CostMap from (resourceID, amount) pairs in order —
// order matters for the "first resource in the list pays first" rule used
// by alternate-resource costs like Extra Attack (spec.md scenario S6).
func NewCostMap(pairs ...struct {
	ResourceID id.ResourceID
	Amount     int
}) *CostMap {
	cm := &CostMap{}
	for _, p := range pairs {
		cm.costs = append(cm.costs, costEntry{resourceID: p.ResourceID, amount: p.Amount})
	}
	return cm
}

// CanAfford reports whether every cost in the map can be paid from pool.
func (cm *CostMap) CanAfford(pool *Pool) (id.ResourceID, bool) {
	for _, c := range cm.costs {
		r, ok := pool.Get(c.resourceID)
		if !ok || !r.Available(c.amount) {
			return c.resourceID, false
		}
	}
	return id.ResourceID{}, true
}

// Spend deducts every cost from pool. It first verifies every cost is
// payable (CanAfford) so a partial failure never leaves the pool
// half-charged.
func (cm *CostMap) Spend(pool *Pool) error {
	if failing, ok := cm.CanAfford(pool); !ok {
		return fmt.Errorf("resource: cannot afford cost for %s", failing.String())
	}
	for _, c := range cm.costs {
		r, _ := pool.Get(c.resourceID)
		_ = r.Spend(c.amount)
	}
	return nil
}

// PassTime refills every resource in the pool whose recharge rule is at
// or below rule.
func (p *Pool) PassTime(rule RechargeRule) {
	for _, r := range p.resources {
		r.PassTime(rule)
	}
}
