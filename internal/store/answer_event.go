package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/khalidw/harfiz/ent/sessionevent"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.AnswerEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetLevel(data.Level).
		SetKind(data.Kind).
		SetPrompt(data.Prompt).
		SetAnswer(data.Answer).
		SetChosen(data.Chosen).
		SetCorrect(data.Correct).
		SetAttempt(data.Attempt).
		SetTimeMs(data.TimeMs).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) LevelStats(ctx context.Context) ([]LevelStatsRow, error) {
	answers, err := r.client.AnswerEvent.Query().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}

	byLevel := make(map[int]*LevelStatsRow)
	rowFor := func(level int) *LevelStatsRow {
		row, ok := byLevel[level]
		if !ok {
			row = &LevelStatsRow{Level: level}
			byLevel[level] = row
		}
		return row
	}

	for _, a := range answers {
		row := rowFor(a.Level)
		row.Answers++
		if a.Correct {
			row.Correct++
		}
	}

	completions, err := r.client.SessionEvent.Query().
		Where(sessionevent.Action("complete")).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query completed sessions: %w", err)
	}
	for _, s := range completions {
		rowFor(s.Level).Completions++
	}

	rows := make([]LevelStatsRow, 0, len(byLevel))
	for _, row := range byLevel {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
	return rows, nil
}
