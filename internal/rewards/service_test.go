package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/khalidw/harfiz/internal/store"
)

// mockEventRepo implements store.EventRepo for rewards tests.
type mockEventRepo struct {
	rewardEvents []store.RewardEventData
}

func (m *mockEventRepo) AppendSessionEvent(_ context.Context, _ store.SessionEventData) error {
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, _ store.AnswerEventData) error {
	return nil
}
func (m *mockEventRepo) AppendRewardEvent(_ context.Context, data store.RewardEventData) error {
	m.rewardEvents = append(m.rewardEvents, data)
	return nil
}
func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMRequestRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(_ context.Context, _ int64) (*store.LLMRequestRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsage(_ context.Context) ([]store.LLMUsageRow, error) {
	return nil, nil
}
func (m *mockEventRepo) SessionSummaries(_ context.Context, _ store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) LevelStats(_ context.Context) ([]store.LevelStatsRow, error) {
	return nil, nil
}
func (m *mockEventRepo) StarCounts(_ context.Context) (map[string]int, int, error) {
	return nil, 0, nil
}

// mockSnapshotRepo implements store.SnapshotRepo for rewards tests.
type mockSnapshotRepo struct {
	saved  []*store.Snapshot
	latest *store.Snapshot
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	m.saved = append(m.saved, snap)
	m.latest = snap
	return nil
}
func (m *mockSnapshotRepo) Latest(_ context.Context, _ string) (*store.Snapshot, error) {
	return m.latest, nil
}
func (m *mockSnapshotRepo) Prune(_ context.Context, _ string, _ int) error {
	return nil
}

func newTestService() (*Service, *mockEventRepo, *mockSnapshotRepo) {
	events := &mockEventRepo{}
	snapshots := &mockSnapshotRepo{}
	return NewService(events, snapshots), events, snapshots
}

func seedProgress(snapshots *mockSnapshotRepo, data store.ProgressData) {
	snapshots.latest = &store.Snapshot{
		Kind:      store.SnapshotKindProgress,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func TestAwardCompletion_FirstRun(t *testing.T) {
	svc, events, snapshots := newTestService()
	ctx := context.Background()

	award, err := svc.AwardCompletion(ctx, "sess-1", 1, 5, 0)
	if err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	if award.Tier != TierGold {
		t.Errorf("Tier = %q, want %q", award.Tier, TierGold)
	}
	if award.Stars != 3 {
		t.Errorf("Stars = %d, want 3", award.Stars)
	}
	if !award.UnlockedNext {
		t.Error("completing level 1 should unlock level 2")
	}
	if !award.NewBest {
		t.Error("first completion should always be a new best")
	}

	if len(events.rewardEvents) != 1 {
		t.Fatalf("persisted %d reward events, want 1", len(events.rewardEvents))
	}
	ev := events.rewardEvents[0]
	if ev.SessionID != "sess-1" || ev.Level != 1 || ev.Tier != "gold" || ev.Stars != 3 || !ev.UnlockedNext {
		t.Errorf("persisted event = %+v", ev)
	}

	if len(snapshots.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(snapshots.saved))
	}
	data := snapshots.saved[0].Data
	if data.HighestUnlocked != 2 {
		t.Errorf("HighestUnlocked = %d, want 2", data.HighestUnlocked)
	}
	if data.StarsByLevel[1] != 3 {
		t.Errorf("StarsByLevel[1] = %d, want 3", data.StarsByLevel[1])
	}
	if data.BestTierByLevel[1] != "gold" {
		t.Errorf("BestTierByLevel[1] = %q, want gold", data.BestTierByLevel[1])
	}
	if data.TotalStars != 3 {
		t.Errorf("TotalStars = %d, want 3", data.TotalStars)
	}
}

func TestAwardCompletion_ReplayKeepsBest(t *testing.T) {
	svc, _, snapshots := newTestService()
	ctx := context.Background()
	seedProgress(snapshots, store.ProgressData{
		Version:         1,
		HighestUnlocked: 2,
		TotalStars:      3,
		StarsByLevel:    map[int]int{1: 3},
		BestTierByLevel: map[int]string{1: "gold"},
	})

	// A worse run of an already-mastered level.
	award, err := svc.AwardCompletion(ctx, "sess-2", 1, 4, 2)
	if err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	if award.Tier != TierBronze {
		t.Errorf("Tier = %q, want %q", award.Tier, TierBronze)
	}
	if award.NewBest {
		t.Error("bronze run should not beat a gold best")
	}
	if award.UnlockedNext {
		t.Error("replaying an unlocked level should not unlock again")
	}

	data := snapshots.latest.Data
	if data.StarsByLevel[1] != 3 {
		t.Errorf("StarsByLevel[1] = %d, want 3 (no downgrade)", data.StarsByLevel[1])
	}
	if data.BestTierByLevel[1] != "gold" {
		t.Errorf("BestTierByLevel[1] = %q, want gold", data.BestTierByLevel[1])
	}
	if data.TotalStars != 3 {
		t.Errorf("TotalStars = %d, want 3", data.TotalStars)
	}
}

func TestAwardCompletion_ImprovesBest(t *testing.T) {
	svc, _, snapshots := newTestService()
	ctx := context.Background()
	seedProgress(snapshots, store.ProgressData{
		Version:         1,
		HighestUnlocked: 2,
		TotalStars:      1,
		StarsByLevel:    map[int]int{1: 1},
		BestTierByLevel: map[int]string{1: "bronze"},
	})

	award, err := svc.AwardCompletion(ctx, "sess-3", 1, 5, 0)
	if err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	if !award.NewBest {
		t.Error("gold run should beat a bronze best")
	}

	data := snapshots.latest.Data
	if data.StarsByLevel[1] != 3 {
		t.Errorf("StarsByLevel[1] = %d, want 3", data.StarsByLevel[1])
	}
	if data.BestTierByLevel[1] != "gold" {
		t.Errorf("BestTierByLevel[1] = %q, want gold", data.BestTierByLevel[1])
	}
	if data.TotalStars != 3 {
		t.Errorf("TotalStars = %d, want 3", data.TotalStars)
	}
}

func TestAwardCompletion_TopLevelNoUnlock(t *testing.T) {
	svc, _, snapshots := newTestService()
	ctx := context.Background()
	seedProgress(snapshots, store.ProgressData{
		Version:         1,
		HighestUnlocked: 5,
		TotalStars:      8,
		StarsByLevel:    map[int]int{1: 3, 2: 3, 3: 2},
		BestTierByLevel: map[int]string{1: "gold", 2: "gold", 3: "silver"},
	})

	award, err := svc.AwardCompletion(ctx, "sess-4", 5, 5, 0)
	if err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	if award.UnlockedNext {
		t.Error("there is nothing above the top level to unlock")
	}

	data := snapshots.latest.Data
	if data.HighestUnlocked != 5 {
		t.Errorf("HighestUnlocked = %d, want 5", data.HighestUnlocked)
	}
	if data.StarsByLevel[5] != 3 {
		t.Errorf("StarsByLevel[5] = %d, want 3", data.StarsByLevel[5])
	}
}

func TestAwardCompletion_UnlocksSequentially(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AwardCompletion(ctx, "sess-5", 1, 5, 1); err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	progress, err := svc.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.HighestUnlocked != 2 {
		t.Fatalf("HighestUnlocked = %d, want 2", progress.HighestUnlocked)
	}

	if _, err := svc.AwardCompletion(ctx, "sess-6", 2, 5, 0); err != nil {
		t.Fatalf("AwardCompletion: %v", err)
	}
	progress, err = svc.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.HighestUnlocked != 3 {
		t.Errorf("HighestUnlocked = %d, want 3", progress.HighestUnlocked)
	}
	if progress.TotalStars != 5 {
		t.Errorf("TotalStars = %d, want 5", progress.TotalStars)
	}
}

func TestProgress_FreshWhenEmpty(t *testing.T) {
	svc, _, _ := newTestService()

	progress, err := svc.Progress(context.Background())
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.HighestUnlocked != 1 {
		t.Errorf("HighestUnlocked = %d, want 1", progress.HighestUnlocked)
	}
	if progress.TotalStars != 0 {
		t.Errorf("TotalStars = %d, want 0", progress.TotalStars)
	}
	if len(progress.StarsByLevel) != 0 {
		t.Errorf("StarsByLevel = %v, want empty", progress.StarsByLevel)
	}
}
