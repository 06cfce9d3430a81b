package auction

import (
	"sync"
	"time"
)

// DefaultCloseDelay is the countdown restarted by every accepted bid.
const DefaultCloseDelay = 30 * time.Second

// TimerEngine schedules the single-shot close timer of each item. Every
// accepted bid replaces the item's pending timer, so a contested item never
// closes. Each schedule carries a generation number: a timer that was
// already firing while a new bid rescheduled it sees a stale generation and
// must not settle.
type TimerEngine struct {
	delay time.Duration
	fire  func(itemID int, gen uint64)

	mu     sync.Mutex
	timers map[int]*time.Timer
	gens   map[int]uint64
	closed bool
}

// NewTimerEngine creates an engine firing fire after delay per schedule.
func NewTimerEngine(delay time.Duration, fire func(itemID int, gen uint64)) *TimerEngine {
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	return &TimerEngine{
		delay:  delay,
		fire:   fire,
		timers: make(map[int]*time.Timer),
		gens:   make(map[int]uint64),
	}
}

// Schedule cancels any pending close timer for the item and arms a new one.
func (e *TimerEngine) Schedule(itemID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if t, ok := e.timers[itemID]; ok {
		t.Stop()
	}
	e.gens[itemID]++
	gen := e.gens[itemID]
	e.timers[itemID] = time.AfterFunc(e.delay, func() {
		e.fire(itemID, gen)
	})
}

// Current reports whether gen is still the item's live schedule.
func (e *TimerEngine) Current(itemID int, gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gens[itemID] == gen
}

// Cancel stops the item's pending timer, if any.
func (e *TimerEngine) Cancel(itemID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[itemID]; ok {
		t.Stop()
		delete(e.timers, itemID)
	}
}

// StopAll cancels every pending timer and refuses new schedules.
func (e *TimerEngine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
}
