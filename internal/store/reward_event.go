package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.RewardEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetLevel(data.Level).
		SetTier(data.Tier).
		SetStars(data.Stars).
		SetUnlockedNext(data.UnlockedNext).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save reward event: %w", err)
	}
	return nil
}

func (r *eventRepo) StarCounts(ctx context.Context) (map[string]int, int, error) {
	events, err := r.client.RewardEvent.Query().All(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("query star counts: %w", err)
	}

	byTier := make(map[string]int)
	total := 0
	for _, e := range events {
		byTier[e.Tier] += e.Stars
		total += e.Stars
	}
	return byTier, total, nil
}
