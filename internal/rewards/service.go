package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/store"
)

// Service grades completed sessions, persists the award, and keeps
// the derived progress snapshot current.
type Service struct {
	events    store.EventRepo
	snapshots store.SnapshotRepo
}

// NewService creates a rewards Service.
func NewService(events store.EventRepo, snapshots store.SnapshotRepo) *Service {
	return &Service{events: events, snapshots: snapshots}
}

// Award is the outcome of one session completion.
type Award struct {
	Level        int
	Tier         Tier
	Stars        int
	UnlockedNext bool // completing the frontier level opens the next one
	NewBest      bool // beat the previous best stars for this level
}

// AwardCompletion grades a finished session and persists the outcome:
// one reward event plus an updated progress snapshot.
func (s *Service) AwardCompletion(ctx context.Context, sessionID string, level, correct, wrong int) (*Award, error) {
	tier := TierFor(correct, wrong)
	award := &Award{Level: level, Tier: tier, Stars: tier.Stars()}

	progress, err := s.Progress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	if level >= progress.HighestUnlocked && level < exercise.MaxLevel {
		progress.HighestUnlocked = level + 1
		award.UnlockedNext = true
	}
	if award.Stars > progress.StarsByLevel[level] {
		progress.StarsByLevel[level] = award.Stars
		progress.BestTierByLevel[level] = string(tier)
		award.NewBest = true
	}
	total := 0
	for _, stars := range progress.StarsByLevel {
		total += stars
	}
	progress.TotalStars = total

	if err := s.events.AppendRewardEvent(ctx, store.RewardEventData{
		SessionID:    sessionID,
		Level:        level,
		Tier:         string(tier),
		Stars:        award.Stars,
		UnlockedNext: award.UnlockedNext,
	}); err != nil {
		return nil, fmt.Errorf("append reward event: %w", err)
	}

	if err := s.snapshots.Save(ctx, &store.Snapshot{
		Kind:      store.SnapshotKindProgress,
		Timestamp: time.Now(),
		Data:      progress,
	}); err != nil {
		return nil, fmt.Errorf("save progress snapshot: %w", err)
	}
	return award, nil
}

// Progress returns the current derived progress, starting fresh when no
// snapshot has been written yet.
func (s *Service) Progress(ctx context.Context) (store.ProgressData, error) {
	snap, err := s.snapshots.Latest(ctx, store.SnapshotKindProgress)
	if err != nil {
		return store.ProgressData{}, err
	}
	if snap == nil {
		return freshProgress(), nil
	}

	data := snap.Data
	if data.StarsByLevel == nil {
		data.StarsByLevel = make(map[int]int)
	}
	if data.BestTierByLevel == nil {
		data.BestTierByLevel = make(map[int]string)
	}
	if data.HighestUnlocked < exercise.MinLevel {
		data.HighestUnlocked = exercise.MinLevel
	}
	return data, nil
}

func freshProgress() store.ProgressData {
	return store.ProgressData{
		Version:         1,
		HighestUnlocked: exercise.MinLevel,
		StarsByLevel:    make(map[int]int),
		BestTierByLevel: make(map[int]string),
	}
}
