package session

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/audio"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/screens/summary"
	"github.com/khalidw/harfiz/internal/store"
	"github.com/khalidw/harfiz/internal/ui/components"
	"github.com/khalidw/harfiz/internal/ui/layout"
	"github.com/khalidw/harfiz/internal/ui/theme"

	"github.com/google/uuid"
)

// SessionScreen runs one practice session against the prefetch buffer.
// The buffer owns generation and pacing; this screen renders whatever
// state it publishes and feeds answers back into it.
type SessionScreen struct {
	buf       *prefetch.Buffer
	rewardSvc *rewards.Service
	events    store.EventRepo
	player    *audio.Player

	level  int
	target int

	sessionID string
	startTime time.Time

	state prefetch.State

	// shown tracks the item the choice list was built for. The buffer
	// hands out a fresh pointer per item, so pointer identity tells us
	// when to rebuild.
	shown     *prefetch.PreparedItem
	choices   components.ChoiceList
	attempts  int
	itemStart time.Time

	showingFeedback    bool
	lastCorrect        bool
	showingQuitConfirm bool
	finishing          bool

	spin spinner.Model
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for one level. The buffer is started
// when the screen initializes, not here.
func New(buf *prefetch.Buffer, rewardSvc *rewards.Service, events store.EventRepo, player *audio.Player, level, target int) *SessionScreen {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Points),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
	return &SessionScreen{
		buf:       buf,
		rewardSvc: rewardSvc,
		events:    events,
		player:    player,
		level:     level,
		target:    target,
		spin:      sp,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.sessionID = uuid.New().String()
	s.startTime = time.Now()

	s.buf.Start(s.level, s.target)
	s.state = s.buf.Current()

	return tea.Batch(
		s.recordStart(),
		s.waitForChange(),
		s.spin.Tick,
	)
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.showingFeedback {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	switch s.state.Status {
	case prefetch.StatusError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Quit"},
		}
	case prefetch.StatusReady:
		hints := []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
		}
		if s.player != nil {
			hints = append(hints, layout.KeyHint{Key: "P", Description: "Hear it"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bufferChangedMsg:
		cmd := s.sync()
		return s, tea.Batch(s.waitForChange(), cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

// recordStart persists the session start event.
func (s *SessionScreen) recordStart() tea.Cmd {
	return func() tea.Msg {
		_ = s.events.AppendSessionEvent(context.Background(), store.SessionEventData{
			SessionID:     s.sessionID,
			Action:        "start",
			Level:         s.level,
			TargetCorrect: s.target,
		})
		return nil
	}
}

// waitForChange blocks until the buffer reports a state change. The
// change channel coalesces, so one message may cover several changes;
// sync reads the latest state either way.
func (s *SessionScreen) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-s.buf.Changes()
		return bufferChangedMsg{}
	}
}

// sync pulls the buffer's current state into the screen. A new item
// gets a fresh choice list; a completed session hands off to the
// summary once any feedback on the final answer has been dismissed.
func (s *SessionScreen) sync() tea.Cmd {
	s.state = s.buf.Current()

	if s.state.Status == prefetch.StatusComplete && !s.showingFeedback && !s.finishing {
		return s.finish()
	}

	if s.state.Status == prefetch.StatusReady && s.state.Item != nil && s.state.Item != s.shown {
		s.shown = s.state.Item
		s.choices = components.NewChoiceList(s.shown.Item.Options, s.shown.Item.AnswerIndex)
		s.attempts = 0
		s.itemStart = time.Now()
	}

	return nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			return s.abandon()
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	// Feedback overlay. Any key dismisses it, and only then does the
	// answer reach the buffer, so the next item appears after the
	// learner has read the verdict.
	if s.showingFeedback {
		s.showingFeedback = false
		s.buf.Advance(s.lastCorrect)
		if !s.lastCorrect {
			s.choices.Clear()
		}
		return s, s.sync()
	}

	switch s.state.Status {
	case prefetch.StatusError:
		switch key {
		case "r", "R", "enter":
			s.buf.Retry()
			s.state = s.buf.Current()
		case "esc":
			s.showingQuitConfirm = true
		}
		return s, nil

	case prefetch.StatusReady:
		switch key {
		case "esc":
			s.showingQuitConfirm = true
			return s, nil
		case "enter":
			return s.submit()
		case "1", "2", "3", "4":
			i := int(key[0] - '1')
			if s.shown != nil && i < len(s.shown.Item.Options) {
				s.choices.Select(i)
				return s.submit()
			}
			return s, nil
		case "up", "k", "down", "j":
			var cmd tea.Cmd
			s.choices, cmd = s.choices.Update(msg)
			return s, tea.Batch(cmd, s.playSelected())
		case "p", "P":
			return s, s.playSelected()
		}
		return s, nil

	default:
		if key == "esc" {
			s.showingQuitConfirm = true
		}
		return s, nil
	}
}

// submit locks in the highlighted option, persists the answer event,
// and shows feedback. A wrong answer keeps the correct option hidden:
// the item stays on display and the learner tries again.
func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	if s.shown == nil || s.choices.Submitted {
		return s, nil
	}

	s.choices.Submit()
	s.attempts++
	s.lastCorrect = s.choices.IsCorrect()
	s.choices.Reveal = s.lastCorrect

	it := s.shown.Item
	chosen := ""
	if s.choices.ChosenIndex >= 0 && s.choices.ChosenIndex < len(it.Options) {
		chosen = it.Options[s.choices.ChosenIndex]
	}
	_ = s.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID: s.sessionID,
		Level:     it.Level,
		Kind:      string(it.Kind),
		Prompt:    it.Prompt,
		Answer:    it.Answer(),
		Chosen:    chosen,
		Correct:   s.lastCorrect,
		Attempt:   s.attempts,
		TimeMs:    int(time.Since(s.itemStart).Milliseconds()),
	})

	s.showingFeedback = true
	return s, nil
}

// finish grades the completed session, persists the outcome, and swaps
// in the summary screen.
func (s *SessionScreen) finish() tea.Cmd {
	if s.finishing {
		return nil
	}
	s.finishing = true

	ctx := context.Background()
	st := s.state
	duration := time.Since(s.startTime)

	_ = s.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:      s.sessionID,
		Action:         "complete",
		Level:          st.Level,
		TargetCorrect:  st.Target,
		CorrectAnswers: st.Correct,
		WrongAnswers:   st.Wrong,
		DurationSecs:   int(duration.Seconds()),
	})

	var award *rewards.Award
	if s.rewardSvc != nil {
		// A grading failure still ends the session; the summary just
		// shows the raw counts.
		award, _ = s.rewardSvc.AwardCompletion(ctx, s.sessionID, st.Level, st.Correct, st.Wrong)
	}

	result := summary.Result{
		Level:    st.Level,
		Correct:  st.Correct,
		Wrong:    st.Wrong,
		Duration: duration,
		Award:    award,
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(result)}
	}
}

// abandon ends the session early. Answer events already written stay;
// the buffer goes idle so nothing keeps generating in the background.
func (s *SessionScreen) abandon() (screen.Screen, tea.Cmd) {
	st := s.buf.Current()
	_ = s.events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:      s.sessionID,
		Action:         "abandon",
		Level:          s.level,
		TargetCorrect:  s.target,
		CorrectAnswers: st.Correct,
		WrongAnswers:   st.Wrong,
		DurationSecs:   int(time.Since(s.startTime).Seconds()),
	})
	s.buf.Stop()
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

// playSelected plays the clip for the highlighted option, when one
// resolved and a player is available.
func (s *SessionScreen) playSelected() tea.Cmd {
	if s.player == nil || s.shown == nil {
		return nil
	}
	opts := s.shown.Item.Options
	if s.choices.Selected < 0 || s.choices.Selected >= len(opts) {
		return nil
	}
	path, ok := s.shown.Audio[opts[s.choices.Selected]]
	if !ok {
		return nil
	}
	return func() tea.Msg {
		_ = s.player.Play(path)
		return nil
	}
}
