package notify

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPollInterval is how often the unread count is refreshed when the
// config does not override it.
const DefaultPollInterval = 30 * time.Second

// fetchTimeout is the maximum time allowed for a single count fetch.
const fetchTimeout = 10 * time.Second

// CountResult carries the outcome of one unread-count poll.
type CountResult struct {
	Count int
	Err   error
}

// Poller refreshes the unread notification count on a fixed interval for
// the lifetime of one session. Start and Stop are idempotent: a second
// Start never double-registers the timer, and Stop after Stop is a no-op.
type Poller struct {
	engine   *Engine
	interval time.Duration

	resultCh  chan CountResult
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewPoller creates a poller driving engine.FetchUnreadCount.
func NewPoller(e *Engine, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		engine:    e,
		interval:  interval,
		resultCh:  make(chan CountResult, 4),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a command that delivers
// the next CountResult to the Bubble Tea runtime. Returns nil if the
// poller is already running or was stopped.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()
	return p.waitForResult()
}

// Stop halts the polling goroutine. Safe to call more than once; in-flight
// requests are not cancelled but their results go nowhere.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	p.running = false
	close(p.stopCh)
}

// Trigger requests an immediate poll without waiting for the next tick.
// Non-blocking; coalesces with a pending trigger.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// WaitForNextResult returns a command that waits for the next poll result.
// Call it after handling a CountResult to keep the subscription alive.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Prime the badge right away rather than waiting a full interval.
	p.fetchCount()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetchCount()
		case <-p.triggerCh:
			p.fetchCount()
		}
	}
}

func (p *Poller) fetchCount() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	count, err := p.engine.FetchUnreadCount(ctx)
	select {
	case p.resultCh <- CountResult{Count: count, Err: err}:
	default:
		// Drop if the channel is full to avoid blocking the loop.
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}
