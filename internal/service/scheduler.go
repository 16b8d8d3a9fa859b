package service

import (
	"sync"
	"time"
)

// Timer is a handle to a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// EventLoop serializes callbacks onto the goroutine that owns session state.
type EventLoop interface {
	Scheduler
	Post(fn func())
}

// Loop is a channel-backed EventLoop. Whoever drains Events owns the session.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// NewLoop creates a loop with the given event buffer.
func NewLoop(buffer int) *Loop {
	return &Loop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel the owner must drain and execute.
func (l *Loop) Events() <-chan func() {
	return l.events
}

// Post enqueues fn. After Close it is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.events <- fn:
	case <-l.done:
	}
}

// Schedule posts fn to the loop once d has elapsed.
func (l *Loop) Schedule(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Close stops accepting events.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
