package progression

import (
	"context"
	"fmt"
)

// TownAction is one of the direct town setters.
type TownAction string

const (
	UnlockBuilding        TownAction = "unlock-building"
	UpgradeBuilding       TownAction = "upgrade-building"
	UnlockArea            TownAction = "unlock-area"
	AddResident           TownAction = "add-resident"
	TriggerEvent          TownAction = "trigger-event"
	UnlockSpecialBuilding TownAction = "unlock-special-building"
)

// ApplyTownAction runs a direct setter against the town and persists the
// result. It reports whether anything changed; unknown ids and repeated
// unlocks change nothing.
func (s *Service) ApplyTownAction(ctx context.Context, action TownAction, id string) (bool, error) {
	var apply func(string) bool
	switch action {
	case UnlockBuilding:
		apply = s.town.UnlockBuilding
	case UpgradeBuilding:
		apply = s.town.UpgradeBuilding
	case UnlockArea:
		apply = s.town.UnlockArea
	case AddResident:
		apply = s.town.AddResident
	case TriggerEvent:
		apply = s.town.TriggerEvent
	case UnlockSpecialBuilding:
		apply = s.town.UnlockSpecialBuilding
	default:
		return false, fmt.Errorf("unknown town action %q", action)
	}

	return s.mutate(ctx, func() (bool, error) {
		return apply(id), nil
	})
}
