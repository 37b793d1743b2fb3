package ui

import tea "github.com/charmbracelet/bubbletea"

// visibilityMsg asks the picker to run the deferred visibility pass tagged seq.
type visibilityMsg struct {
	seq uint64
}

// deferQueue implements nav.Scheduler on top of the bubbletea event loop.
// Scheduling stores the task under a new sequence number; the matching
// visibilityMsg runs it, and any older message arriving late is ignored.
// Everything happens on the Update goroutine, so no locking is needed.
type deferQueue struct {
	seq     uint64
	task    func()
	emitted uint64
}

func (q *deferQueue) Schedule(task func()) (cancel func()) {
	q.seq++
	seq := q.seq
	q.task = task
	return func() {
		if q.seq == seq {
			q.task = nil
		}
	}
}

// cmd returns a command delivering the newest pending task, or nil when
// nothing is pending or its message is already in flight.
func (q *deferQueue) cmd() tea.Cmd {
	if q.task == nil || q.emitted == q.seq {
		return nil
	}
	q.emitted = q.seq
	seq := q.seq
	return func() tea.Msg {
		return visibilityMsg{seq: seq}
	}
}

// run executes the task for seq if it is still the newest one.
func (q *deferQueue) run(seq uint64) bool {
	if seq != q.seq || q.task == nil {
		return false
	}
	task := q.task
	q.task = nil
	task()
	return true
}

// pending reports whether a task is waiting.
func (q *deferQueue) pending() bool {
	return q.task != nil
}
