package action

import "github.com/nat20/combatcore/backend/internal/engine/id"

// CooldownResourceID derives the implicit per-action resource id that
// tracks cooldown state for actionID: a dedicated one-charge resource,
// spent when the action is performed and recharged per the action's
// own Cooldown rule, namespaced alongside the action definition itself.
// decision.Prompt.ValidateUsability and Definition.Perform share this
// derivation so a cooldown started by one is checked by the other.
func CooldownResourceID(actionID id.ActionID) (id.ResourceID, error) {
	return id.ParseResourceID(actionID.String() + ".cooldown")
}
