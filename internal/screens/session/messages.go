package session

// bufferChangedMsg is sent when the prefetch buffer publishes a state
// change: an item became ready, generation failed, the queue grew, or
// the session reached its target.
type bufferChangedMsg struct{}
