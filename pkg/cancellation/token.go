package cancellation

import (
	"context"
	"sync"
)

// Token is a process-wide, monotonic stop signal shared by independent jobs.
// Any holder may cancel it and every holder observes the cancellation.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// New returns a Token that is cancelled when Cancel is called or when parent is done.
func New(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Cancel sets the signal. Calling it more than once has no further effect.
func (t *Token) Cancel() {
	t.once.Do(t.cancel)
}

// Done returns a channel that is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Cancelled reports whether the signal has been set.
func (t *Token) Cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Context returns a context that is done once the token is cancelled.
func (t *Token) Context() context.Context {
	return t.ctx
}
