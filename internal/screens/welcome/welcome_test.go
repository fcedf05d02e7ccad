package welcome

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
)

// stubHome is a minimal screen used as the transition target.
type stubHome struct{}

func (s *stubHome) Init() tea.Cmd                           { return nil }
func (s *stubHome) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubHome) View(int, int) string                    { return "home" }
func (s *stubHome) Title() string                           { return "Home" }

func newTestWelcome() *WelcomeScreen {
	return New(func() screen.Screen { return &stubHome{} })
}

// advance feeds tick messages until the given duration has elapsed.
func advance(w *WelcomeScreen, d time.Duration) {
	ticks := int(d / tickInterval)
	for i := 0; i < ticks; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestWelcomeScreen_InitReturnsTick(t *testing.T) {
	w := newTestWelcome()
	if cmd := w.Init(); cmd == nil {
		t.Error("expected Init to return a tick command")
	}
}

func TestWelcomeScreen_NoTransitionDuringAnimation(t *testing.T) {
	w := newTestWelcome()
	advance(w, phase2End)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no transition before the animation completes")
	}
}

func TestWelcomeScreen_TransitionsAfterAnimation(t *testing.T) {
	w := newTestWelcome()
	advance(w, totalDur+tickInterval)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a transition command after the animation")
	}

	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", msg)
	}
}

func TestWelcomeScreen_TransitionOnlyOnce(t *testing.T) {
	w := newTestWelcome()
	advance(w, totalDur+tickInterval)

	_, first := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if first == nil {
		t.Fatal("expected a transition command on first key press")
	}
	_, second := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if second != nil {
		t.Error("expected no second transition command")
	}
}

func TestWelcomeScreen_ViewPhases(t *testing.T) {
	w := newTestWelcome()

	early := w.View(80, 24)
	if early == "" {
		t.Error("expected non-empty view in phase 1")
	}

	advance(w, totalDur+tickInterval)
	late := w.View(80, 24)
	if late == "" {
		t.Error("expected non-empty view in banner phase")
	}
	if len(late) <= len(early) {
		t.Error("expected banner phase view to grow")
	}
}
