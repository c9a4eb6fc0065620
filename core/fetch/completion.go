package fetch

import (
	"context"
	"sync"
)

// Completion is the single-resource completion signal. It settles exactly
// once, either resolved (nil error) or failed.
type Completion struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Resolved returns an already resolved Completion. Loader chains are seeded
// with it.
func Resolved() *Completion {
	c := newCompletion()
	c.settle(nil)
	return c
}

// Failed returns an already failed Completion.
func Failed(err error) *Completion {
	c := newCompletion()
	c.settle(err)
	return c
}

// settle records the outcome. Only the first call has any effect.
func (c *Completion) settle(err error) bool {
	settled := false
	c.once.Do(func() {
		c.err = err
		close(c.done)
		settled = true
	})
	return settled
}

// Done is closed once the completion settles.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Settled reports whether the completion has settled.
func (c *Completion) Settled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Err returns the failure, or nil if the completion resolved or is still pending.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the completion settles or ctx is done. Every waiter
// observes the same outcome.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
