package store

import (
	"context"
	"fmt"

	"github.com/khalidw/harfiz/ent"
	"github.com/khalidw/harfiz/ent/rewardevent"
	"github.com/khalidw/harfiz/ent/sessionevent"
)

// eventRepo implements EventRepo backed by ent and the global sequence counter.
type eventRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		SetLevel(data.Level).
		SetTargetCorrect(data.TargetCorrect).
		SetCorrectAnswers(data.CorrectAnswers).
		SetWrongAnswers(data.WrongAnswers).
		SetDurationSecs(data.DurationSecs).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	query := r.client.SessionEvent.Query().
		Where(sessionevent.ActionIn("complete", "abandon")).
		Order(ent.Desc(sessionevent.FieldSequence))

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.After > 0 {
		query = query.Where(sessionevent.SequenceGT(opts.After))
	}
	if opts.Before > 0 {
		query = query.Where(sessionevent.SequenceLT(opts.Before))
	}
	if !opts.From.IsZero() {
		query = query.Where(sessionevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		query = query.Where(sessionevent.TimestampLTE(opts.To))
	}

	events, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	records := make([]SessionSummaryRecord, len(events))
	for i, e := range events {
		stars := 0
		rewards, err := r.client.RewardEvent.Query().
			Where(rewardevent.SessionID(e.SessionID)).
			All(ctx)
		if err == nil {
			for _, rw := range rewards {
				stars += rw.Stars
			}
		}

		records[i] = SessionSummaryRecord{
			SessionID:      e.SessionID,
			Timestamp:      e.Timestamp,
			Action:         e.Action,
			Level:          e.Level,
			TargetCorrect:  e.TargetCorrect,
			CorrectAnswers: e.CorrectAnswers,
			WrongAnswers:   e.WrongAnswers,
			DurationSecs:   e.DurationSecs,
			Stars:          stars,
		}
	}
	return records, nil
}
