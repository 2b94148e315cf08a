package tier

// DisplayThresholds drives the checkout screen label. It is unrelated to
// the stored tier and never feeds back into an account.
type DisplayThresholds struct {
	Silver int64 `mapstructure:"silver" json:"silver"`
	Gold   int64 `mapstructure:"gold" json:"gold"`
}

func DefaultDisplayThresholds() DisplayThresholds {
	return DisplayThresholds{Silver: 100, Gold: 200}
}

// DisplayLabel returns the three-level label shown at checkout.
func DisplayLabel(points int64, th DisplayThresholds) Tier {
	switch {
	case points >= th.Gold:
		return Gold
	case points >= th.Silver:
		return Silver
	default:
		return None
	}
}
