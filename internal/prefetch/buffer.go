// Package prefetch keeps ready-to-display exercises ahead of
// consumption. Generating an exercise and fetching its audio takes
// seconds; the buffer hides that latency by generating speculatively,
// gating each item behind media readiness, and steering the generator
// away from answers the session has already used.
package prefetch

import (
	"context"
	"sync"

	"github.com/khalidw/harfiz/internal/exercise"
)

// Both are configurable per sitting.
const (
	DefaultQueueSize     = 3
	DefaultTargetCorrect = 5
)

// ContentSource produces one exercise for a level. Calls may take
// seconds and may fail. The excluded list is honored best-effort.
type ContentSource interface {
	Generate(ctx context.Context, level int, excluded []string) (*exercise.Item, error)
}

// PreparedItem is an exercise whose media has settled: every option's
// audio ref has either resolved to a local clip or been marked
// degraded. Paths are content-addressed, so re-displaying an option
// never re-fetches.
type PreparedItem struct {
	Item     *exercise.Item
	Audio    map[string]string // option text -> local clip path
	Degraded []string          // refs whose clips failed to resolve
}

// Status is what the consumer should render.
type Status int

const (
	// StatusPending means no item is available yet; show a loading
	// indicator.
	StatusPending Status = iota
	// StatusReady means State.Item is on display.
	StatusReady
	// StatusError means generation failed with nothing showable; offer
	// a retry control.
	StatusError
	// StatusComplete means the session reached its target.
	StatusComplete
)

// State is a point-in-time view of the session for the consumer.
type State struct {
	Status  Status
	Item    *PreparedItem // set when Status is StatusReady
	Err     error         // set when Status is StatusError
	Level   int
	Correct int
	Wrong   int
	Target  int
	Queued  int
}

// Report summarizes a completed session for the progress store.
type Report struct {
	Level   int
	Correct int
	Wrong   int
}

// Config configures a Buffer.
type Config struct {
	// Source generates exercises. Required.
	Source ContentSource

	// Media resolves option audio. Optional; when nil every ref is
	// marked degraded and items are served without audio.
	Media MediaLoader

	// QueueSize is the target number of gated items held ready beyond
	// the one on display. Defaults to DefaultQueueSize.
	QueueSize int

	// OnComplete, when set, is invoked once per session as it reaches
	// its target. Called without the buffer's lock held; it must not
	// be long-running.
	OnComplete func(Report)
}

// session is the state owned by one Start call. A fresh value per
// (re)start means a superseded session's in-flight work can never
// touch the new one; the pointer doubles as the liveness token.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	level  int
	target int

	correct int
	wrong   int
	status  sessionStatus
	err     error

	fetching   bool // single-flight guard: one generation outstanding at most
	queue      []*PreparedItem
	current    *PreparedItem
	exclusions *ExclusionSet
}

type sessionStatus int

const (
	statusActive sessionStatus = iota
	statusComplete
	statusError
)

// Buffer owns one session at a time and keeps its queue topped up.
// A single consumer drives Start, Current, Advance, and Retry; the
// fetch work runs on background goroutines and is serialized with the
// consumer under one mutex.
type Buffer struct {
	source     ContentSource
	media      MediaLoader
	queueSize  int
	onComplete func(Report)

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	sess *session

	changed chan struct{}
}

// New creates a Buffer. Start must be called before it serves items.
func New(cfg Config) *Buffer {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Buffer{
		source:     cfg.Source,
		media:      cfg.Media,
		queueSize:  cfg.QueueSize,
		onComplete: cfg.OnComplete,
		ctx:        ctx,
		cancel:     cancel,
		changed:    make(chan struct{}, 1),
	}
}

// Changes signals asynchronous state transitions (an item arriving, an
// error surfacing). The channel is buffered and coalescing; re-read
// Current after each receive.
func (b *Buffer) Changes() <-chan struct{} {
	return b.changed
}

// Close cancels in-flight fetch work. The buffer is unusable afterwards.
func (b *Buffer) Close() {
	b.cancel()
}

// Stop discards the session in progress, canceling its in-flight work.
// The buffer goes back to idle; Start brings it into service again.
func (b *Buffer) Stop() {
	b.mu.Lock()
	s := b.sess
	if s == nil {
		b.mu.Unlock()
		return
	}
	s.cancel()
	b.sess = nil
	b.mu.Unlock()
	b.notify()
}

// Start begins a fresh session at level with the given target correct
// count, discarding any previous session. Exclusion history, queue,
// and progress all reset.
func (b *Buffer) Start(level, targetCorrect int) {
	if targetCorrect < 1 {
		targetCorrect = DefaultTargetCorrect
	}

	b.mu.Lock()
	if b.sess != nil {
		b.sess.cancel()
	}
	ctx, cancel := context.WithCancel(b.ctx)
	s := &session{
		ctx:        ctx,
		cancel:     cancel,
		level:      level,
		target:     targetCorrect,
		status:     statusActive,
		exclusions: NewExclusionSet(),
	}
	b.sess = s
	b.mu.Unlock()

	b.notify()
	b.ensureFilled(s)
}

// Current reports what the consumer should display right now.
func (b *Buffer) Current() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.sess
	if s == nil {
		return State{Status: StatusPending}
	}

	st := State{
		Level:   s.level,
		Correct: s.correct,
		Wrong:   s.wrong,
		Target:  s.target,
		Queued:  len(s.queue),
	}
	switch {
	case s.status == statusComplete:
		st.Status = StatusComplete
	case s.status == statusError:
		st.Status = StatusError
		st.Err = s.err
	case s.current != nil:
		st.Status = StatusReady
		st.Item = s.current
	default:
		st.Status = StatusPending
	}
	return st
}

// Advance records the answer to the current item. A wrong answer
// changes nothing: the item stays on display for another try. A
// correct answer either completes the session or moves consumption to
// the next queued item.
func (b *Buffer) Advance(wasCorrect bool) {
	b.mu.Lock()
	s := b.sess
	if s == nil || s.status != statusActive || s.current == nil {
		b.mu.Unlock()
		return
	}

	if !wasCorrect {
		s.wrong++
		b.mu.Unlock()
		return
	}

	s.correct++
	if s.correct >= s.target {
		// Synchronous: no ensureFilled may run for this session after
		// this point. In-flight fetches settle and are discarded.
		s.status = statusComplete
		s.cancel()
		report := Report{Level: s.level, Correct: s.correct, Wrong: s.wrong}
		cb := b.onComplete
		b.mu.Unlock()
		b.notify()
		if cb != nil {
			cb(report)
		}
		return
	}

	if len(s.queue) > 0 {
		s.current = s.queue[0]
		s.queue = s.queue[1:]
	} else {
		s.current = nil // pending until the next fetch lands
	}
	b.mu.Unlock()

	b.notify()
	b.ensureFilled(s)
}

// Retry leaves the error state and requests a fresh generation attempt.
// The session keeps its level, target, progress, and exclusion history;
// this is a new attempt, not a new session. No-op unless errored.
func (b *Buffer) Retry() {
	b.mu.Lock()
	s := b.sess
	if s == nil || s.status != statusError {
		b.mu.Unlock()
		return
	}
	s.status = statusActive
	s.err = nil
	b.mu.Unlock()

	b.notify()
	b.ensureFilled(s)
}

// ensureFilled tops the queue up toward the target size. Idempotent
// and safe to call from any goroutine: the fetching flag keeps at most
// one generation outstanding per session, and each completed fetch
// re-triggers until the queue is full or the session ends.
func (b *Buffer) ensureFilled(s *session) {
	b.mu.Lock()
	if s != b.sess || s.status != statusActive || s.fetching || len(s.queue) >= b.queueSize {
		b.mu.Unlock()
		return
	}
	s.fetching = true
	level := s.level
	excluded := s.exclusions.Snapshot()
	b.mu.Unlock()

	go b.fetchOne(s, level, excluded)
}

// fetchOne runs one generation plus its media gate pass. Every
// resumption from a slow call re-checks that s is still the live
// session before touching shared state.
func (b *Buffer) fetchOne(s *session, level int, excluded []string) {
	item, err := b.source.Generate(s.ctx, level, excluded)

	if err != nil {
		b.mu.Lock()
		if s != b.sess {
			b.mu.Unlock()
			return
		}
		s.fetching = false
		if s.status == statusActive && len(s.queue) == 0 && s.current == nil {
			// Nothing showable: surface the failure. Otherwise stay
			// silent; the next consumption event retries.
			s.status = statusError
			s.err = err
			b.mu.Unlock()
			b.notify()
			return
		}
		b.mu.Unlock()
		return
	}

	b.mu.Lock()
	if s != b.sess {
		b.mu.Unlock()
		return
	}
	if s.status != statusActive {
		s.fetching = false
		b.mu.Unlock()
		return
	}
	// Speculative exclusion: the answer is recorded before the item is
	// ever displayed, so the next generation in this refill burst
	// cannot propose it again. Excluding an answer the learner never
	// sees is harmless.
	s.exclusions.Add(item.Answer())
	b.mu.Unlock()

	prepared := b.prepare(s.ctx, item)

	b.mu.Lock()
	if s != b.sess {
		b.mu.Unlock()
		return
	}
	if s.status != statusActive {
		s.fetching = false
		b.mu.Unlock()
		return
	}
	if s.current == nil {
		// Fast path: the consumer is waiting, hand the item straight
		// over instead of queueing it.
		s.current = prepared
	} else {
		s.queue = append(s.queue, prepared)
	}
	s.fetching = false
	b.mu.Unlock()

	b.notify()
	b.ensureFilled(s)
}

// prepare runs the media gate: it settles once every option's audio
// has resolved or failed.
func (b *Buffer) prepare(ctx context.Context, item *exercise.Item) *PreparedItem {
	res := resolveAll(ctx, b.media, item.Options)
	return &PreparedItem{
		Item:     item,
		Audio:    res.paths,
		Degraded: res.degraded,
	}
}

func (b *Buffer) notify() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}
