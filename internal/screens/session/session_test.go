package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screens/summary"
	"github.com/khalidw/harfiz/internal/store"
)

// fakeSource produces exercises instantly. The correct option is
// always the second one, and answers are unique per call so the
// exclusion list never rejects them.
type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) Generate(_ context.Context, level int, _ []string) (*exercise.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	answer := fmt.Sprintf("ب%d", f.calls)
	return &exercise.Item{
		Kind:            exercise.KindIdentifyLetter,
		Prompt:          "Which letter is 'baa'?",
		Options:         []string{"ا", answer, "ت", "ث"},
		AnswerIndex:     1,
		Transliteration: "baa",
		Explanation:     "The single dot below marks baa.",
		Level:           level,
	}, nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	sessionEvents []store.SessionEventData
	answerEvents  []store.AnswerEventData
	rewardEvents  []store.RewardEventData
}

func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.sessionEvents = append(m.sessionEvents, data)
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, data)
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

// mockSnapshotRepo implements store.SnapshotRepo for testing.
type mockSnapshotRepo struct {
	snapshots []*store.Snapshot
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	m.snapshots = append(m.snapshots, snap)
	return nil
}
func (m *mockSnapshotRepo) Latest(_ context.Context, _ string) (*store.Snapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}
func (m *mockSnapshotRepo) Prune(_ context.Context, _ string, _ int) error {
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestSession(target int) (*SessionScreen, *fakeSource, *mockEventRepo, *prefetch.Buffer) {
	src := &fakeSource{}
	buf := prefetch.New(prefetch.Config{Source: src})
	repo := &mockEventRepo{}
	svc := rewards.NewService(repo, &mockSnapshotRepo{})
	s := New(buf, svc, repo, nil, 1, target)
	return s, src, repo, buf
}

// pump invokes cmd and feeds any resulting messages back into the
// screen. Commands returned by Update are dropped; tests drive each
// step explicitly.
func pump(t *testing.T, s *SessionScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			pump(t, s, c)
		}
		return
	}
	s.Update(msg)
}

// startSession runs Init and waits until the first item is on display.
func startSession(t *testing.T, s *SessionScreen, buf *prefetch.Buffer) {
	t.Helper()
	pump(t, s, s.Init())

	deadline := time.Now().Add(3 * time.Second)
	for s.shown == nil && time.Now().Before(deadline) {
		s.Update(bufferChangedMsg{})
		time.Sleep(time.Millisecond)
	}
	if s.shown == nil {
		t.Fatalf("no item on display, buffer state %+v", buf.Current())
	}
}

func waitForStatus(t *testing.T, buf *prefetch.Buffer, want prefetch.Status) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if buf.Current().Status == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %v, last %+v", want, buf.Current())
}

// waitForNextItem feeds change notifications until a different item is
// on display.
func waitForNextItem(t *testing.T, s *SessionScreen, buf *prefetch.Buffer, old *prefetch.PreparedItem) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.Update(bufferChangedMsg{})
		if s.shown != old {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no new item arrived, buffer state %+v", buf.Current())
}

func TestSessionScreen_Title(t *testing.T) {
	s, _, _, buf := newTestSession(5)
	defer buf.Close()
	if s.Title() != "Practice" {
		t.Errorf("Title = %q, want %q", s.Title(), "Practice")
	}
}

func TestSessionScreen_View_Pending(t *testing.T) {
	s, _, _, buf := newTestSession(5)
	defer buf.Close()

	view := s.View(80, 24)
	if !strings.Contains(view, "Preparing") {
		t.Error("expected preparing view before the first item")
	}
}

func TestSessionScreen_StartToFirstItem(t *testing.T) {
	s, _, repo, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	if len(repo.sessionEvents) != 1 {
		t.Fatalf("session events = %d, want 1", len(repo.sessionEvents))
	}
	ev := repo.sessionEvents[0]
	if ev.Action != "start" || ev.Level != 1 || ev.TargetCorrect != 5 {
		t.Errorf("start event = %+v", ev)
	}
	if ev.SessionID == "" {
		t.Error("expected a session id on the start event")
	}

	view := s.View(80, 24)
	if !strings.Contains(view, "Which letter is 'baa'?") {
		t.Error("expected the prompt in the view")
	}
}

func TestSessionScreen_CorrectAnswer(t *testing.T) {
	s, _, repo, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	first := s.shown

	// The correct option is always the second one.
	s.Update(keyPress('2'))

	if !s.showingFeedback {
		t.Fatal("expected feedback after submit")
	}
	if !s.lastCorrect {
		t.Error("expected the answer to be graded correct")
	}
	if view := s.View(80, 24); !strings.Contains(view, "Correct!") {
		t.Error("expected correct verdict in view")
	}

	if len(repo.answerEvents) != 1 {
		t.Fatalf("answer events = %d, want 1", len(repo.answerEvents))
	}
	ev := repo.answerEvents[0]
	if !ev.Correct || ev.Attempt != 1 {
		t.Errorf("answer event = %+v", ev)
	}
	if ev.Chosen != ev.Answer {
		t.Errorf("chosen %q, want the correct answer %q", ev.Chosen, ev.Answer)
	}

	// Dismissing feedback hands the result to the buffer and brings up
	// the next item.
	s.Update(keyPress(' '))
	if s.showingFeedback {
		t.Error("expected feedback dismissed")
	}
	if st := buf.Current(); st.Correct != 1 {
		t.Errorf("correct = %d, want 1", st.Correct)
	}
	waitForNextItem(t, s, buf, first)
}

func TestSessionScreen_WrongAnswerKeepsItem(t *testing.T) {
	s, _, repo, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	first := s.shown

	// The first option is wrong.
	s.Update(keyPress('1'))

	if !s.showingFeedback {
		t.Fatal("expected feedback after submit")
	}
	if s.lastCorrect {
		t.Error("expected the answer to be graded wrong")
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Not quite") {
		t.Error("expected wrong verdict in view")
	}
	if strings.Contains(view, "Correct!") {
		t.Error("the correct answer must stay hidden on a miss")
	}
	if repo.answerEvents[0].Correct {
		t.Error("expected the answer event to record a miss")
	}

	// Dismissal keeps the same item on display for another try.
	s.Update(keyPress(' '))
	if s.shown != first {
		t.Error("expected the same item after a wrong answer")
	}
	if st := buf.Current(); st.Wrong != 1 || st.Correct != 0 {
		t.Errorf("tally = %d correct %d wrong, want 0/1", st.Correct, st.Wrong)
	}
	if s.choices.Submitted {
		t.Error("expected the choices reset for the retry")
	}

	// The retry counts as a second attempt on the same item.
	s.Update(keyPress('2'))
	if len(repo.answerEvents) != 2 {
		t.Fatalf("answer events = %d, want 2", len(repo.answerEvents))
	}
	if ev := repo.answerEvents[1]; !ev.Correct || ev.Attempt != 2 {
		t.Errorf("retry event = %+v", ev)
	}
}

func TestSessionScreen_CompletionShowsSummary(t *testing.T) {
	s, _, repo, buf := newTestSession(1)
	defer buf.Close()
	startSession(t, s, buf)

	s.Update(keyPress('2'))
	_, cmd := s.Update(keyPress(' ')) // dismissal advances past the target

	if cmd == nil {
		t.Fatal("expected a navigation command at completion")
	}
	msg := cmd()
	rep, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want router.ReplaceScreenMsg", msg)
	}
	if _, ok := rep.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want *summary.SummaryScreen", rep.Screen)
	}

	var complete *store.SessionEventData
	for i := range repo.sessionEvents {
		if repo.sessionEvents[i].Action == "complete" {
			complete = &repo.sessionEvents[i]
		}
	}
	if complete == nil {
		t.Fatal("expected a complete event")
	}
	if complete.CorrectAnswers != 1 || complete.WrongAnswers != 0 {
		t.Errorf("complete event = %+v", complete)
	}

	if len(repo.rewardEvents) != 1 {
		t.Fatalf("reward events = %d, want 1", len(repo.rewardEvents))
	}
	if repo.rewardEvents[0].Tier != "gold" {
		t.Errorf("tier = %q, want gold", repo.rewardEvents[0].Tier)
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _, _, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	s.Update(specialKey(tea.KeyEscape))
	if !s.showingQuitConfirm {
		t.Fatal("expected quit confirmation dialog")
	}
	if view := s.View(80, 24); !strings.Contains(view, "Leave this session?") {
		t.Error("expected quit confirm view")
	}

	s.Update(keyPress('n'))
	if s.showingQuitConfirm {
		t.Error("expected quit confirmation dismissed")
	}
}

func TestSessionScreen_AbandonIdlesBuffer(t *testing.T) {
	s, _, repo, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after confirming quit")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(router.PopScreenMsg); !ok {
			t.Errorf("msg = %T, want router.PopScreenMsg", msg)
		}
	}

	last := repo.sessionEvents[len(repo.sessionEvents)-1]
	if last.Action != "abandon" {
		t.Errorf("last event action = %q, want abandon", last.Action)
	}

	// The buffer must go idle so nothing keeps generating.
	st := buf.Current()
	if st.Status != prefetch.StatusPending || st.Item != nil {
		t.Errorf("buffer state after abandon = %+v", st)
	}
}

func TestSessionScreen_ErrorStateRetries(t *testing.T) {
	s, src, _, buf := newTestSession(5)
	defer buf.Close()

	src.setErr(errors.New("model overloaded"))
	_ = s.Init()
	waitForStatus(t, buf, prefetch.StatusError)
	s.Update(bufferChangedMsg{})

	if s.state.Status != prefetch.StatusError {
		t.Fatalf("screen status = %v, want error", s.state.Status)
	}
	if view := s.View(80, 24); !strings.Contains(view, "model overloaded") {
		t.Error("expected the failure reason in the view")
	}

	src.setErr(nil)
	s.Update(keyPress('r'))
	waitForStatus(t, buf, prefetch.StatusReady)
	s.Update(bufferChangedMsg{})
	if s.shown == nil {
		t.Error("expected an item after retry")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _, _, buf := newTestSession(5)
	defer buf.Close()
	startSession(t, s, buf)

	if hints := s.KeyHints(); len(hints) == 0 {
		t.Fatal("expected key hints in the ready state")
	}

	s.Update(specialKey(tea.KeyEscape))
	if hints := s.KeyHints(); len(hints) != 2 {
		t.Errorf("quit confirm hints = %d, want 2", len(hints))
	}
}
