// Package counter implements the bounded counter state cell: a single-owner
// mutable integer with a floor clamp at zero and a notify-on-write contract
// to whatever presentation layer displays it.
//
// The cell holds one non-negative integer. Increment raises it by one with no
// upper bound. Decrement lowers it by one but never below zero; decrementing
// at zero is a legal transition back to zero, not an error. Both operations
// are total: they cannot fail and every transition is always enabled.
//
// After every operation the cell synchronously notifies its observers with
// the post-transition value, before the operation returns. Notification fires
// even when the value did not move (decrement at the floor), so displays
// refresh after each operation unconditionally.
package counter

import (
	"sync"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Observer receives the post-transition value after each operation.
type Observer func(value int)

// Cell is the bounded counter. The zero value is not usable; construct cells
// with New. A Cell must not be copied after first use.
type Cell struct {
	mu        sync.Mutex
	value     int
	observers []Observer
	logger    interfaces.Logger
}

var _ interfaces.CounterCell = (*Cell)(nil)

// Option configures a Cell at construction time.
type Option func(*Cell)

// WithStart seeds the initial value. Negative starts are clamped to the
// floor so the value >= 0 invariant holds from the first observation.
func WithStart(value int) Option {
	return func(c *Cell) {
		if value < 0 {
			value = 0
		}
		c.value = value
	}
}

// WithObserver registers an observer during construction. Construction does
// not notify; only operations do.
func WithObserver(fn Observer) Option {
	return func(c *Cell) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// WithLogger attaches a logger used to trace transitions.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cell) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a cell holding zero unless WithStart overrides it.
func New(opts ...Option) *Cell {
	c := &Cell{
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Value returns the current value. Always >= 0.
func (c *Cell) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Increment replaces the value with value+1 and returns the new value.
// The result is always previous+1; there is no upper bound.
func (c *Cell) Increment() int {
	return c.apply(func(v int) int { return v + 1 }, "counter.increment")
}

// Decrement replaces the value with max(0, value-1) and returns the new
// value. At zero the transition is a no-op back to zero; observers are still
// notified so the display refreshes.
func (c *Cell) Decrement() int {
	return c.apply(func(v int) int {
		if v == 0 {
			return 0
		}
		return v - 1
	}, "counter.decrement")
}

// OnChange registers an observer invoked with the post-transition value after
// every operation, in registration order, on the operating goroutine.
func (c *Cell) OnChange(fn func(value int)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// apply runs one transition under the lock, then notifies observers outside
// it so they may read the cell without deadlocking. Notification completes
// before the operation returns, carrying the value this transition produced.
func (c *Cell) apply(transition func(int) int, op string) int {
	c.mu.Lock()
	previous := c.value
	c.value = transition(previous)
	next := c.value
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	c.logger.Trace(op, "previous", previous, "value", next)

	for _, fn := range observers {
		fn(next)
	}
	return next
}
