package scene

// FrameID identifies a pending frame callback. The zero value is never issued.
type FrameID uint64

// FrameScheduler is the host's frame pacing primitive.
type FrameScheduler interface {
	RequestFrame(cb func()) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	cb func()
}

// FrameQueue is a single-threaded FrameScheduler drained once per host frame.
// Callbacks requested while draining run on the next Drain.
type FrameQueue struct {
	next     FrameID
	pending  []pendingFrame
	draining []pendingFrame
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(cb func()) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, cb: cb})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, p := range q.pending {
		if p.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	// Cancelled by a callback of the batch currently draining.
	for i := range q.draining {
		if q.draining[i].id == id {
			q.draining[i].cb = nil
			return
		}
	}
}

// Drain runs every callback queued before the call and returns how many ran.
func (q *FrameQueue) Drain() int {
	q.draining = q.pending
	q.pending = nil
	ran := 0
	for i := range q.draining {
		cb := q.draining[i].cb
		if cb == nil {
			continue
		}
		cb()
		ran++
	}
	q.draining = nil
	return ran
}

// Len reports the callbacks waiting for the next Drain.
func (q *FrameQueue) Len() int { return len(q.pending) }
