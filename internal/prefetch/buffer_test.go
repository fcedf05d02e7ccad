package prefetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/khalidw/harfiz/internal/exercise"
)

func testItem(answer string) *exercise.Item {
	return &exercise.Item{
		Kind:            exercise.KindIdentifyLetter,
		Prompt:          fmt.Sprintf("Which one is %q?", answer),
		Options:         []string{answer, answer + "-b", answer + "-c", answer + "-d"},
		AnswerIndex:     0,
		Transliteration: answer,
		Explanation:     "because it is",
		Level:           1,
	}
}

// fakeSource is a scriptable ContentSource. It records every call, the
// level and exclusion list each call saw, and how many generations
// overlapped.
type fakeSource struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	levels      []int
	excluded    [][]string

	generate func(ctx context.Context, call int) (*exercise.Item, error)
}

func (f *fakeSource) Generate(ctx context.Context, level int, excluded []string) (*exercise.Item, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.levels = append(f.levels, level)
	f.excluded = append(f.excluded, append([]string(nil), excluded...))
	f.mu.Unlock()

	it, err := f.generate(ctx, call)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return it, err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) overlap() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *fakeSource) inFlightNow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *fakeSource) excludedSeen() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.excluded))
	copy(out, f.excluded)
	return out
}

// instantSource produces w1, w2, w3, ... with no delay.
func instantSource() *fakeSource {
	return &fakeSource{
		generate: func(_ context.Context, call int) (*exercise.Item, error) {
			return testItem(fmt.Sprintf("w%d", call)), nil
		},
	}
}

func waitFor(t *testing.T, b *Buffer, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		st := b.Current()
		if cond(st) {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state, last: %+v", b.Current())
	return State{}
}

func waitForCalls(t *testing.T, src *fakeSource, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if src.callCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d calls, got %d", n, src.callCount())
}

func answerOf(st State) string {
	if st.Item == nil {
		return ""
	}
	return st.Item.Item.Answer()
}

func TestStart_ServesFirstItemFast(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)

	st := waitFor(t, b, func(st State) bool {
		return st.Status == StatusReady && st.Queued == DefaultQueueSize
	})
	if answerOf(st) != "w1" {
		t.Errorf("expected first generated item on display, got %q", answerOf(st))
	}
	// One on display plus a full queue behind it.
	if src.callCount() != DefaultQueueSize+1 {
		t.Errorf("expected %d generations, got %d", DefaultQueueSize+1, src.callCount())
	}
}

func TestAdvance_PopsInFIFOOrder(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 10)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady && st.Queued == DefaultQueueSize })

	b.Advance(true)
	if got := answerOf(b.Current()); got != "w2" {
		t.Errorf("expected w2 after first advance, got %q", got)
	}
	b.Advance(true)
	if got := answerOf(b.Current()); got != "w3" {
		t.Errorf("expected w3 after second advance, got %q", got)
	}

	// The queue tops back up after each pop.
	waitFor(t, b, func(st State) bool { return st.Queued == DefaultQueueSize })
}

func TestEnsureFilled_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{
		generate: func(ctx context.Context, call int) (*exercise.Item, error) {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return testItem(fmt.Sprintf("w%d", call)), nil
		},
	}
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	waitForCalls(t, src, 1)

	b.mu.Lock()
	s := b.sess
	b.mu.Unlock()

	// Hammer the coordinator while the first fetch is parked.
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.ensureFilled(s)
		}()
	}
	wg.Wait()

	// Let the pipeline run to steady state, one fetch at a time.
	for i := 0; i < DefaultQueueSize+1; i++ {
		release <- struct{}{}
	}
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady && st.Queued == DefaultQueueSize })

	if got := src.overlap(); got != 1 {
		t.Errorf("expected at most 1 outstanding generation, saw %d", got)
	}
	if src.callCount() != DefaultQueueSize+1 {
		t.Errorf("expected %d generations, got %d", DefaultQueueSize+1, src.callCount())
	}
}

func TestQueue_NeverExceedsTarget(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src, QueueSize: 2})
	defer b.Close()

	b.Start(1, 20)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		st := b.Current()
		if st.Queued > 2 {
			t.Fatalf("queue exceeded target: %d", st.Queued)
		}
		if st.Status == StatusReady && st.Queued == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	for i := 0; i < 5; i++ {
		b.Advance(true)
		st := waitFor(t, b, func(st State) bool { return st.Queued == 2 })
		if st.Queued > 2 {
			t.Fatalf("queue exceeded target after advance: %d", st.Queued)
		}
	}
}

func TestExclusions_MonotonicAndSpeculative(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 10)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady && st.Queued == DefaultQueueSize })

	b.Advance(true)
	waitForCalls(t, src, DefaultQueueSize+2)

	seen := src.excludedSeen()
	for i, list := range seen {
		// Call i+1 sees every answer generated before it, displayed or
		// not: the exclusion is speculative.
		if len(list) != i {
			t.Errorf("call %d saw %d exclusions, want %d", i+1, len(list), i)
		}
		if i > 0 && len(list) < len(seen[i-1]) {
			t.Errorf("exclusion list shrank between calls %d and %d", i, i+1)
		}
	}
}

func TestAdvance_CompletionExactness(t *testing.T) {
	var mu sync.Mutex
	var reports []Report

	src := instantSource()
	b := New(Config{
		Source: src,
		OnComplete: func(r Report) {
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
		},
	})
	defer b.Close()

	b.Start(2, 3)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady })

	b.Advance(false)
	b.Advance(true)
	b.Advance(false)
	b.Advance(false)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady })
	b.Advance(true)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady })

	if st := b.Current(); st.Status == StatusComplete {
		t.Fatal("completed before the target was reached")
	}

	atCalls := src.callCount()
	b.Advance(true)

	// Completion is synchronous with the final correct answer.
	st := b.Current()
	if st.Status != StatusComplete {
		t.Fatalf("expected COMPLETE immediately, got %+v", st)
	}

	// Late advances change nothing.
	b.Advance(true)
	b.Advance(false)
	if st := b.Current(); st.Status != StatusComplete || st.Correct != 3 {
		t.Errorf("state mutated after completion: %+v", st)
	}

	mu.Lock()
	got := len(reports)
	var report Report
	if got > 0 {
		report = reports[0]
	}
	mu.Unlock()
	if got != 1 {
		t.Fatalf("expected exactly 1 completion report, got %d", got)
	}
	if report.Level != 2 || report.Correct != 3 || report.Wrong != 3 {
		t.Errorf("unexpected report: %+v", report)
	}

	// At most the fetch already in flight may land; no new ones start.
	time.Sleep(50 * time.Millisecond)
	if grew := src.callCount() - atCalls; grew > 1 {
		t.Errorf("%d generations started after completion", grew)
	}
}

func TestAdvance_WrongAnswerMutatesNothing(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	before := waitFor(t, b, func(st State) bool {
		return st.Status == StatusReady && st.Queued == DefaultQueueSize
	})
	calls := src.callCount()

	b.Advance(false)
	b.Advance(false)

	after := b.Current()
	if after.Item != before.Item {
		t.Error("current item changed on wrong answer")
	}
	if after.Queued != before.Queued {
		t.Errorf("queue length changed on wrong answer: %d -> %d", before.Queued, after.Queued)
	}
	if after.Correct != before.Correct {
		t.Errorf("correct count changed on wrong answer: %d -> %d", before.Correct, after.Correct)
	}
	if after.Wrong != before.Wrong+2 {
		t.Errorf("expected wrong tally 2, got %d", after.Wrong-before.Wrong)
	}

	time.Sleep(20 * time.Millisecond)
	if src.callCount() != calls {
		t.Error("wrong answer triggered generation")
	}
}

func TestStart_SupersedesOutstandingFetch(t *testing.T) {
	first := make(chan struct{})
	src := &fakeSource{
		generate: func(_ context.Context, call int) (*exercise.Item, error) {
			if call == 1 {
				// Park the first session's fetch across the restart.
				<-first
			}
			return testItem(fmt.Sprintf("w%d", call)), nil
		},
	}
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	waitForCalls(t, src, 1)

	b.Start(2, 5)
	st := waitFor(t, b, func(st State) bool {
		return st.Status == StatusReady && st.Queued == DefaultQueueSize
	})
	if st.Level != 2 {
		t.Fatalf("expected level 2 session, got %d", st.Level)
	}

	close(first)
	time.Sleep(50 * time.Millisecond)

	// The stale result must not reach the new session.
	if got := answerOf(b.Current()); got == "w1" {
		t.Error("stale item on display")
	}
	b.mu.Lock()
	snapshot := b.sess.exclusions.Snapshot()
	queued := make([]string, 0, len(b.sess.queue))
	for _, it := range b.sess.queue {
		queued = append(queued, it.Item.Answer())
	}
	b.mu.Unlock()
	for _, key := range snapshot {
		if key == "w1" {
			t.Error("stale answer leaked into the exclusion set")
		}
	}
	for _, a := range queued {
		if a == "w1" {
			t.Error("stale item leaked into the queue")
		}
	}

	// Calls 2+ belong to the new session and saw its level.
	src.mu.Lock()
	levels := append([]int(nil), src.levels...)
	src.mu.Unlock()
	for i, lvl := range levels {
		want := 2
		if i == 0 {
			want = 1
		}
		if lvl != want {
			t.Errorf("call %d saw level %d, want %d", i+1, lvl, want)
		}
	}
}

func TestFailure_SurfacesErrorOnlyWhenNothingShowable(t *testing.T) {
	src := &fakeSource{
		generate: func(_ context.Context, call int) (*exercise.Item, error) {
			if call == 1 {
				return testItem("w1"), nil
			}
			return nil, errors.New("generation failed")
		},
	}
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady })
	waitForCalls(t, src, 2)

	// The second fetch failed, but the learner has an item on display:
	// the failure stays silent and nothing re-chains.
	time.Sleep(30 * time.Millisecond)
	st := b.Current()
	if st.Status != StatusReady {
		t.Fatalf("expected READY despite silent failure, got %+v", st)
	}
	if src.callCount() != 2 {
		t.Errorf("failure must not re-chain, got %d calls", src.callCount())
	}

	// Consuming the last item leaves nothing showable; the next failed
	// fetch surfaces.
	b.Advance(true)
	st = waitFor(t, b, func(st State) bool { return st.Status == StatusError })
	if st.Err == nil {
		t.Error("expected surfaced error")
	}
}

func TestRetry_MakesExactlyOneAttempt(t *testing.T) {
	src := &fakeSource{
		generate: func(_ context.Context, _ int) (*exercise.Item, error) {
			return nil, errors.New("generation failed")
		},
	}
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	waitFor(t, b, func(st State) bool { return st.Status == StatusError })
	if src.callCount() != 1 {
		t.Fatalf("expected a single attempt before ERROR, got %d", src.callCount())
	}

	b.Retry()
	waitFor(t, b, func(st State) bool { return st.Status == StatusError })
	time.Sleep(30 * time.Millisecond)
	if src.callCount() != 2 {
		t.Errorf("retry must make exactly one new attempt, got %d total", src.callCount())
	}
}

func TestRetry_KeepsProgressAndExclusions(t *testing.T) {
	src := &fakeSource{
		generate: func(_ context.Context, call int) (*exercise.Item, error) {
			switch call {
			case 1:
				return testItem("w1"), nil
			case 2, 3:
				return nil, errors.New("generation failed")
			default:
				return testItem(fmt.Sprintf("w%d", call)), nil
			}
		},
	}
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(3, 5)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady })
	waitForCalls(t, src, 2) // second fetch fails silently

	b.Advance(true) // consume w1; queue empty; third fetch fails with nothing showable
	st := waitFor(t, b, func(st State) bool { return st.Status == StatusError })
	if st.Correct != 1 {
		t.Fatalf("expected progress 1 at error, got %d", st.Correct)
	}

	b.Retry()
	st = waitFor(t, b, func(st State) bool { return st.Status == StatusReady })
	if st.Correct != 1 {
		t.Errorf("retry reset progress: %d", st.Correct)
	}
	if st.Level != 3 {
		t.Errorf("retry changed level: %d", st.Level)
	}

	// The attempt after retry still avoids the pre-error answer.
	seen := src.excludedSeen()
	last := seen[len(seen)-1]
	found := false
	for _, key := range last {
		if key == "w1" {
			found = true
		}
	}
	if !found {
		t.Error("retry dropped the exclusion history")
	}
}

type fakeLoader struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newFakeLoader(fail ...string) *fakeLoader {
	f := &fakeLoader{fail: make(map[string]bool), calls: make(map[string]int)}
	for _, ref := range fail {
		f.fail[ref] = true
	}
	return f
}

func (f *fakeLoader) Resolve(_ context.Context, ref string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	if f.fail[ref] {
		return "", errors.New("clip fetch failed")
	}
	return "/clips/" + ref + ".mp3", nil
}

func TestMediaGate_DegradedOptionNeverBlocks(t *testing.T) {
	src := instantSource()
	loader := newFakeLoader("w1-c")
	b := New(Config{Source: src, Media: loader})
	defer b.Close()

	b.Start(1, 5)
	st := waitFor(t, b, func(st State) bool { return st.Status == StatusReady })

	item := st.Item
	if got := item.Audio["w1"]; got != "/clips/w1.mp3" {
		t.Errorf("expected resolved clip for answer, got %q", got)
	}
	if _, ok := item.Audio["w1-c"]; ok {
		t.Error("failed ref must not have a clip path")
	}
	if len(item.Degraded) != 1 || item.Degraded[0] != "w1-c" {
		t.Errorf("expected w1-c degraded, got %v", item.Degraded)
	}
}

func TestClose_StopsInFlightWork(t *testing.T) {
	src := &fakeSource{
		generate: func(ctx context.Context, _ int) (*exercise.Item, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	b := New(Config{Source: src})

	b.Start(1, 5)
	waitForCalls(t, src, 1)

	b.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if src.inFlightNow() == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("fetch still in flight after Close")
}

func TestStop_IdlesTheBuffer(t *testing.T) {
	src := instantSource()
	b := New(Config{Source: src})
	defer b.Close()

	b.Start(1, 5)
	// Let the refill burst finish so no fetch races the stop below.
	waitFor(t, b, func(st State) bool {
		return st.Status == StatusReady && st.Queued == DefaultQueueSize
	})

	b.Stop()

	if st := b.Current(); st.Status != StatusPending || st.Item != nil {
		t.Errorf("expected idle PENDING after Stop, got %+v", st)
	}

	// No fetch work may start while stopped.
	calls := src.callCount()
	time.Sleep(50 * time.Millisecond)
	if grew := src.callCount() - calls; grew > 0 {
		t.Errorf("%d fetches started after Stop", grew)
	}

	// Start brings the buffer back into service.
	b.Start(2, 5)
	waitFor(t, b, func(st State) bool { return st.Status == StatusReady && st.Level == 2 })
}

func TestCurrent_NoSession(t *testing.T) {
	b := New(Config{Source: instantSource()})
	defer b.Close()

	if st := b.Current(); st.Status != StatusPending {
		t.Errorf("expected PENDING before start, got %+v", st)
	}
	// No session yet; these must not panic.
	b.Advance(true)
	b.Retry()
}
