package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
)

func testResult() Result {
	return Result{
		Level:    2,
		Correct:  5,
		Wrong:    1,
		Duration: 3*time.Minute + 20*time.Second,
		Award: &rewards.Award{
			Level:        2,
			Tier:         rewards.TierSilver,
			Stars:        2,
			UnlockedNext: true,
			NewBest:      true,
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult())
	if s.Title() != "Session Complete" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Complete")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testResult())
	view := s.View(80, 24)
	if view == "" {
		t.Fatal("expected non-empty summary view")
	}
	if !strings.Contains(view, "Silver") {
		t.Error("expected tier name in view")
	}
	if !strings.Contains(view, "New best!") {
		t.Error("expected new-best badge in view")
	}
	if !strings.Contains(view, "unlocked") {
		t.Error("expected unlock notice in view")
	}
}

func TestSummaryScreen_Display_NoAward(t *testing.T) {
	r := testResult()
	r.Award = nil
	s := New(r)

	view := s.View(80, 24)
	if view == "" {
		t.Fatal("expected non-empty view without an award")
	}
	if strings.Contains(view, "Silver") {
		t.Error("expected no tier block without an award")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testResult())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected Enter to pop back to the level picker")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testResult())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Esc to pop to the root screen")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testResult())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
