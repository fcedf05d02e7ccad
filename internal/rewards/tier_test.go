package rewards

import "testing"

func TestTierFor(t *testing.T) {
	cases := []struct {
		correct, wrong int
		want           Tier
	}{
		{5, 0, TierGold},
		{1, 0, TierGold},
		{5, 1, TierSilver},  // 83%
		{4, 1, TierSilver},  // exactly 80%
		{5, 2, TierBronze},  // 71%
		{5, 10, TierBronze}, // 33%
	}
	for _, c := range cases {
		if got := TierFor(c.correct, c.wrong); got != c.want {
			t.Errorf("TierFor(%d, %d) = %q, want %q", c.correct, c.wrong, got, c.want)
		}
	}
}

func TestTierStars(t *testing.T) {
	if TierGold.Stars() != 3 || TierSilver.Stars() != 2 || TierBronze.Stars() != 1 {
		t.Error("unexpected star values")
	}
	if Tier("platinum").Stars() != 0 {
		t.Error("unknown tier should be worth nothing")
	}
}

func TestAllTiers_HighestFirst(t *testing.T) {
	tiers := AllTiers()
	if len(tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(tiers))
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Stars() >= tiers[i-1].Stars() {
			t.Errorf("tiers out of order: %v", tiers)
		}
	}
}

func TestTierDisplay(t *testing.T) {
	for _, tier := range AllTiers() {
		if tier.DisplayName() == "" {
			t.Errorf("tier %q has no display name", tier)
		}
		if tier.Icon() == "" {
			t.Errorf("tier %q has no icon", tier)
		}
	}
}
