package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only meaningful with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, SnapshotKindProgress)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Kind:      SnapshotKindProgress,
		Sequence:  42,
		Timestamp: now,
		Data: ProgressData{
			Version:         1,
			HighestUnlocked: 2,
			TotalStars:      7,
			StarsByLevel:    map[int]int{1: 5, 2: 2},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx, SnapshotKindProgress)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if snap.Data.HighestUnlocked != 2 {
		t.Errorf("highest unlocked = %d, want 2", snap.Data.HighestUnlocked)
	}
	if snap.Data.StarsByLevel[1] != 5 {
		t.Errorf("stars for level 1 = %d, want 5", snap.Data.StarsByLevel[1])
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			Kind:      SnapshotKindProgress,
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      ProgressData{Version: 1, TotalStars: i + 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx, SnapshotKindProgress)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 3 {
		t.Errorf("sequence = %d, want 3", snap.Sequence)
	}
	if snap.Data.TotalStars != 3 {
		t.Errorf("total stars = %d, want 3", snap.Data.TotalStars)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Kind:      SnapshotKindProgress,
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      ProgressData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, SnapshotKindProgress, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx, SnapshotKindProgress)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", snap.Sequence)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 2; i++ {
		err := repo.Save(ctx, &Snapshot{
			Kind:      SnapshotKindProgress,
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      ProgressData{Version: 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, SnapshotKindProgress, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAnswerEventsFeedLevelStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", Level: 1, Kind: "identify_letter", Prompt: "Which letter is 'baa'?", Answer: "ب", Chosen: "ب", Correct: true, Attempt: 1, TimeMs: 1800},
		{SessionID: "s1", Level: 1, Kind: "identify_letter", Prompt: "Which letter is 'taa'?", Answer: "ت", Chosen: "ث", Correct: false, Attempt: 1, TimeMs: 2400},
		{SessionID: "s2", Level: 2, Kind: "complete_diacritic", Prompt: "كَتَ_", Answer: "كَتَبَ", Chosen: "كَتَبَ", Correct: true, Attempt: 1, TimeMs: 3100},
	}
	for i, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append answer %d: %v", i, err)
		}
	}

	err := repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: "complete", Level: 1,
		TargetCorrect: 5, CorrectAnswers: 5, WrongAnswers: 1, DurationSecs: 90,
	})
	if err != nil {
		t.Fatalf("append session: %v", err)
	}

	rows, err := repo.LevelStats(ctx)
	if err != nil {
		t.Fatalf("level stats: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("levels = %d, want 2", len(rows))
	}
	if rows[0].Level != 1 || rows[0].Answers != 2 || rows[0].Correct != 1 {
		t.Errorf("level 1 row = %+v, want answers=2 correct=1", rows[0])
	}
	if rows[0].Completions != 1 {
		t.Errorf("level 1 completions = %d, want 1", rows[0].Completions)
	}
	if rows[1].Level != 2 || rows[1].Answers != 1 || rows[1].Correct != 1 {
		t.Errorf("level 2 row = %+v, want answers=1 correct=1", rows[1])
	}
}

func TestRewardEventsFeedStarCounts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rewards := []RewardEventData{
		{SessionID: "s1", Level: 1, Tier: "gold", Stars: 3, UnlockedNext: true},
		{SessionID: "s2", Level: 1, Tier: "silver", Stars: 2},
		{SessionID: "s3", Level: 2, Tier: "gold", Stars: 3},
	}
	for i, r := range rewards {
		if err := repo.AppendRewardEvent(ctx, r); err != nil {
			t.Fatalf("append reward %d: %v", i, err)
		}
	}

	byTier, total, err := repo.StarCounts(ctx)
	if err != nil {
		t.Fatalf("star counts: %v", err)
	}
	if total != 8 {
		t.Errorf("total stars = %d, want 8", total)
	}
	if byTier["gold"] != 6 {
		t.Errorf("gold stars = %d, want 6", byTier["gold"])
	}
	if byTier["silver"] != 2 {
		t.Errorf("silver stars = %d, want 2", byTier["silver"])
	}
}

func TestLLMEventQueries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data := LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-sonnet-4-5",
			Purpose:      "exercise-gen",
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    1200,
			Success:      i != 1,
		}
		if !data.Success {
			data.ErrorMessage = "rate limited"
		}
		if err := repo.AppendLLMRequest(ctx, data); err != nil {
			t.Fatalf("append llm %d: %v", i, err)
		}
	}

	records, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query llm events: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	// Newest first.
	if records[0].Sequence <= records[1].Sequence {
		t.Errorf("expected descending sequence, got %d then %d",
			records[0].Sequence, records[1].Sequence)
	}

	rec, err := repo.GetLLMEvent(ctx, records[0].Sequence)
	if err != nil {
		t.Fatalf("get llm event: %v", err)
	}
	if rec == nil {
		t.Fatal("expected record, got nil")
	}
	if rec.Purpose != "exercise-gen" {
		t.Errorf("purpose = %q, want exercise-gen", rec.Purpose)
	}

	missing, err := repo.GetLLMEvent(ctx, 999999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing sequence")
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("llm usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("usage rows = %d, want 1", len(usage))
	}
	if usage[0].Requests != 3 || usage[0].Failures != 1 {
		t.Errorf("usage = %+v, want requests=3 failures=1", usage[0])
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "s1", Action: "start", Level: 1, TargetCorrect: 5},
		{SessionID: "s1", Action: "complete", Level: 1, TargetCorrect: 5, CorrectAnswers: 5, WrongAnswers: 2, DurationSecs: 120},
		{SessionID: "s2", Action: "start", Level: 2, TargetCorrect: 5},
		{SessionID: "s2", Action: "abandon", Level: 2, TargetCorrect: 5, CorrectAnswers: 3, WrongAnswers: 1, DurationSecs: 60},
	}
	for i, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append session %d: %v", i, err)
		}
	}
	err := repo.AppendRewardEvent(ctx, RewardEventData{
		SessionID: "s1", Level: 1, Tier: "silver", Stars: 2,
	})
	if err != nil {
		t.Fatalf("append reward: %v", err)
	}

	summaries, err := repo.SessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("session summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2 (start events excluded)", len(summaries))
	}
	// Newest first: s2 abandon, then s1 complete.
	if summaries[0].SessionID != "s2" || summaries[0].Action != "abandon" {
		t.Errorf("summaries[0] = %+v, want s2 abandon", summaries[0])
	}
	if summaries[1].Stars != 2 {
		t.Errorf("s1 stars = %d, want 2", summaries[1].Stars)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"answer_events", "session_events", "reward_events", "llm_request_events", "snapshots"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
			continue
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}
