package transport

import (
	"context"
	"sync"
)

// Result is the single value a Pending delivers.
type Result[T any] struct {
	Value T
	Err   error
}

// Pending is an operation running in its own goroutine that completes
// exactly once.
type Pending[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	result Result[T]
}

// Go starts fn with a cancelable child of ctx.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Pending[T] {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		v, err := fn(ctx)
		p.complete(Result[T]{Value: v, Err: err})
	}()

	return p
}

func (p *Pending[T]) complete(r Result[T]) {
	p.once.Do(func() {
		p.result = r
		close(p.done)
	})
}

// Done is closed once the result is available.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Result returns the result and true once Done is closed, otherwise a zero
// Result and false.
func (p *Pending[T]) Result() (Result[T], bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return Result[T]{}, false
	}
}

// Await blocks until the result is available. If ctx ends first the
// operation is cancelled and its (cancellation) result returned.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.cancel()
		<-p.done
	}
	return p.result.Value, p.result.Err
}

// Cancel aborts the in-flight operation. The Pending still completes,
// normally with a cancellation failure.
func (p *Pending[T]) Cancel() {
	p.cancel()
}
