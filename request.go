package pulseaudio

// requestResult is what a completed request resolves to: either a
// tagstruct reader positioned past the REPLY/tag prefix the dispatcher
// already consumed, or an error (a *ServerError for an ERROR reply, or
// a connection-level error on disconnect).
type requestResult struct {
	reply *Buffer
	err   error
}

// pendingRequest is one outstanding call: the channel its result will
// arrive on, plus the command that was sent, so an ERROR reply (which
// carries only a tag and an error code) can be turned into a
// *ServerError naming the command it was answering.
type pendingRequest struct {
	ch  chan requestResult
	cmd Command
}

// requestTable is the tag→completion mapping spec.md §3/§9 describes.
// It is only ever touched from the dispatcher's single main-loop
// goroutine, so it needs no locking — callers hand it a channel and
// block reading from that channel, never touching the map directly.
type requestTable struct {
	pending map[uint32]pendingRequest
}

func newRequestTable() *requestTable {
	return &requestTable{pending: make(map[uint32]pendingRequest)}
}

// register records a new outstanding request and returns the channel
// its result will arrive on.
func (t *requestTable) register(tag uint32, cmd Command) chan requestResult {
	ch := make(chan requestResult, 1)
	t.pending[tag] = pendingRequest{ch: ch, cmd: cmd}
	return ch
}

// registerChan is like register but stores a channel the caller
// already owns, so the same channel it is about to block on is the
// one a later complete/fail call resolves.
func (t *requestTable) registerChan(tag uint32, cmd Command, ch chan requestResult) {
	t.pending[tag] = pendingRequest{ch: ch, cmd: cmd}
}

// complete resolves a pending request with a successful reply. It
// reports false if no request with that tag is outstanding.
func (t *requestTable) complete(tag uint32, reply *Buffer) bool {
	p, ok := t.pending[tag]
	if !ok {
		return false
	}
	delete(t.pending, tag)
	p.ch <- requestResult{reply: reply}
	return true
}

// failWithCode resolves a pending request with the ErrorCode an ERROR
// reply carried, wrapping it in a *ServerError that names the command
// that provoked it. It reports false if no request with that tag is
// outstanding.
func (t *requestTable) failWithCode(tag uint32, code ErrorCode) bool {
	p, ok := t.pending[tag]
	if !ok {
		return false
	}
	delete(t.pending, tag)
	p.ch <- requestResult{err: &ServerError{Cmd: p.cmd, Code: code}}
	return true
}

// fail resolves a pending request with a connection-level error (used
// on a fatal disconnect, not for an ERROR reply). It reports false if
// no request with that tag is outstanding.
func (t *requestTable) fail(tag uint32, err error) bool {
	p, ok := t.pending[tag]
	if !ok {
		return false
	}
	delete(t.pending, tag)
	p.ch <- requestResult{err: err}
	return true
}

// rejectAll fails every outstanding request with err and clears the
// table atomically (with respect to the single-goroutine dispatcher),
// per spec.md §4.4's close/error propagation rule.
func (t *requestTable) rejectAll(err error) {
	pending := t.pending
	t.pending = make(map[uint32]pendingRequest)
	for _, p := range pending {
		p.ch <- requestResult{err: err}
	}
}

// len reports how many requests are outstanding — used by tests to
// verify spec.md §8's "tag absent from the table at resolution time"
// invariant.
func (t *requestTable) len() int { return len(t.pending) }
