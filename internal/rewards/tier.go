package rewards

// Tier grades a completed session by accuracy.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

// TierFor grades a session: gold for a flawless run, silver for at
// least 80% accuracy, bronze otherwise.
func TierFor(correct, wrong int) Tier {
	if wrong == 0 {
		return TierGold
	}
	total := correct + wrong
	if total > 0 && float64(correct)/float64(total) >= 0.8 {
		return TierSilver
	}
	return TierBronze
}

// Stars returns the star count the tier is worth.
func (t Tier) Stars() int {
	switch t {
	case TierGold:
		return 3
	case TierSilver:
		return 2
	case TierBronze:
		return 1
	default:
		return 0
	}
}

// AllTiers returns the tiers in order from highest to lowest.
func AllTiers() []Tier {
	return []Tier{TierGold, TierSilver, TierBronze}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierGold:
		return "Gold"
	case TierSilver:
		return "Silver"
	case TierBronze:
		return "Bronze"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case TierGold:
		return "🥇"
	case TierSilver:
		return "🥈"
	case TierBronze:
		return "🥉"
	default:
		return "★"
	}
}
