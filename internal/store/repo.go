package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotKindProgress is the snapshot kind holding derived level progress.
const SnapshotKindProgress = "progress"

// ProgressData is the derived progress state kept in the progress snapshot.
// Rebuilt from events on every session completion so the home screen never
// has to replay the log.
type ProgressData struct {
	Version         int            `json:"version"`
	HighestUnlocked int            `json:"highest_unlocked"`
	TotalStars      int            `json:"total_stars"`
	StarsByLevel    map[int]int    `json:"stars_by_level,omitempty"`
	BestTierByLevel map[int]string `json:"best_tier_by_level,omitempty"`
}

// Snapshot represents a point-in-time capture of derived state.
type Snapshot struct {
	ID        int
	Kind      string
	Sequence  int64
	Timestamp time.Time
	Data      ProgressData
}

// SnapshotRepo manages derived-state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot of the given kind,
	// or nil if none exist.
	Latest(ctx context.Context, kind string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots of the given kind.
	Prune(ctx context.Context, kind string, keep int) error
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID      string
	Action         string // start, complete, abandon
	Level          int
	TargetCorrect  int
	CorrectAnswers int
	WrongAnswers   int
	DurationSecs   int
}

// AnswerEventData captures a single answered exercise.
type AnswerEventData struct {
	SessionID string
	Level     int
	Kind      string
	Prompt    string
	Answer    string
	Chosen    string
	Correct   bool
	Attempt   int
	TimeMs    int
}

// RewardEventData captures a star award.
type RewardEventData struct {
	SessionID    string
	Level        int
	Tier         string
	Stars        int
	UnlockedNext bool
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestRecord is a stored LLM request event.
type LLMRequestRecord struct {
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsageRow aggregates LLM traffic per provider/model pair.
type LLMUsageRow struct {
	Provider     string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// SessionSummaryRecord summarizes one finished session.
type SessionSummaryRecord struct {
	SessionID      string
	Timestamp      time.Time
	Action         string
	Level          int
	TargetCorrect  int
	CorrectAnswers int
	WrongAnswers   int
	DurationSecs   int
	Stars          int
}

// LevelStatsRow aggregates answer accuracy per level.
type LevelStatsRow struct {
	Level       int
	Answers     int
	Correct     int
	Completions int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records an answered exercise.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendRewardEvent records a star award.
	AppendRewardEvent(ctx context.Context, data RewardEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns stored LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)

	// GetLLMEvent returns the LLM request event with the given sequence,
	// or nil if it does not exist.
	GetLLMEvent(ctx context.Context, seq int64) (*LLMRequestRecord, error)

	// LLMUsage aggregates LLM traffic per provider/model pair.
	LLMUsage(ctx context.Context) ([]LLMUsageRow, error)

	// SessionSummaries returns finished sessions, newest first.
	SessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// LevelStats aggregates answer accuracy and completions per level.
	LevelStats(ctx context.Context) ([]LevelStatsRow, error)

	// StarCounts returns star totals by tier and overall.
	StarCounts(ctx context.Context) (map[string]int, int, error)
}
