package service

import (
	"testing"
	"time"

	"realestate/internal/model"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type manualTask struct {
	at  time.Duration
	seq int
	fn  func()
}

// manualScheduler runs callbacks only when the test advances its clock
type manualScheduler struct {
	now   time.Duration
	seq   int
	tasks []manualTask
	dead  bool
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.seq++
	s.tasks = append(s.tasks, manualTask{at: s.now + d, seq: s.seq, fn: fn})
}

func (s *manualScheduler) Alive() bool {
	return !s.dead
}

// Advance runs every task due within d, earliest first
func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := -1
		for i, t := range s.tasks {
			if t.at > target {
				continue
			}
			if next < 0 || t.at < s.tasks[next].at || (t.at == s.tasks[next].at && t.seq < s.tasks[next].seq) {
				next = i
			}
		}
		if next < 0 {
			break
		}
		task := s.tasks[next]
		s.tasks = append(s.tasks[:next], s.tasks[next+1:]...)
		s.now = task.at
		task.fn()
	}
	s.now = target
}

func (s *manualScheduler) RunAll() {
	s.Advance(time.Hour)
}

// scriptedRandom replays values in order, wrapping around
type scriptedRandom struct {
	values []int
	calls  int
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v % n
}

type eventRecorder struct {
	events []eventRecord
}

type eventRecord struct {
	channel string
	typ     string
}

func (r *eventRecorder) sink() EventSink {
	return func(ev model.ChatEvent) {
		r.events = append(r.events, eventRecord{channel: ev.Channel, typ: ev.Type})
	}
}

func (r *eventRecorder) count(typ string) int {
	n := 0
	for _, ev := range r.events {
		if ev.typ == typ {
			n++
		}
	}
	return n
}
