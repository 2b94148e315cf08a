// Package tier maps loyalty point totals to reward tiers.
package tier

import "strings"

type Tier string

const (
	None   Tier = "None"
	Silver Tier = "Silver"
	Gold   Tier = "Gold"
)

// GoldThreshold is the point total at which a stored account becomes Gold.
const GoldThreshold int64 = 1000

// Classify returns the stored tier for a point total.
func Classify(points int64) Tier {
	if points >= GoldThreshold {
		return Gold
	}
	return Silver
}

type rule struct {
	upgradeAt   int64
	upgradeTo   Tier
	downgradeAt int64
	downgradeTo Tier
}

// transitions mirrors Classify as an explicit table keyed by the current tier.
// Silver upgrades at the gold threshold; Gold downgrades below it.
var transitions = map[Tier]rule{
	Silver: {upgradeAt: GoldThreshold, upgradeTo: Gold},
	Gold:   {downgradeAt: GoldThreshold, downgradeTo: Silver},
}

// Transition moves from the current tier given the new point total.
// Unknown or None tiers fall back to Classify.
func Transition(from Tier, points int64) Tier {
	r, ok := transitions[from]
	if !ok {
		return Classify(points)
	}
	if r.upgradeTo != "" && points >= r.upgradeAt {
		return r.upgradeTo
	}
	if r.downgradeTo != "" && points < r.downgradeAt {
		return r.downgradeTo
	}
	return from
}

// Parse resolves a stored tier name, defaulting to Silver.
func Parse(value string) Tier {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gold":
		return Gold
	case "none":
		return None
	default:
		return Silver
	}
}

func (t Tier) String() string {
	return string(t)
}
