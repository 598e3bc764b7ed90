package interfaces

// CounterCell is the contract between the bounded counter state cell and any
// presentation layer that displays it. The cell holds a single non-negative
// integer: Increment raises it by one with no upper bound, Decrement lowers
// it by one but never below zero, and both notify registered observers
// synchronously after the transition completes. Decrementing at zero is a
// legal transition back to zero and still produces a notification, so
// displays refresh after every operation regardless of whether the value
// moved.
type CounterCell interface {
	// Value returns the current value. Always >= 0.
	Value() int

	// Increment replaces the value with value+1 and notifies observers.
	Increment() int

	// Decrement replaces the value with max(0, value-1) and notifies
	// observers, including when the value was already at the floor.
	Decrement() int

	// OnChange registers an observer invoked with the post-transition value
	// after every operation, in registration order, on the calling goroutine.
	OnChange(fn func(value int))
}
