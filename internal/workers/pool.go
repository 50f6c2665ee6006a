package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
)

// ErrPoolOverload is returned when the pool cannot take more work.
var ErrPoolOverload = errors.New("workers: pool overloaded")

// Pool bounds the number of in-flight store operations. Database and print
// calls block for seconds at a time; without a cap a burst of chat requests
// could pile up goroutines against a single slow store.
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

func New(capacity int, logger *slog.Logger) (*Pool, error) {
	p, err := ants.NewPool(capacity,
		ants.WithExpiryDuration(30*time.Second),
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v interface{}) {
			logger.Error("worker panic recovered", "panic", v)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, logger: logger}, nil
}

// Do runs task on the pool and waits for it to finish or for ctx to end.
// A task that outlives ctx keeps running; the store-side work is not safely
// cancellable once dispatched, the caller just stops waiting.
func (p *Pool) Do(ctx context.Context, task func()) error {
	done := make(chan struct{})
	err := p.pool.Submit(func() {
		defer close(done)
		task()
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			p.logger.Warn("worker pool rejected task", "running", p.pool.Running())
			return ErrPoolOverload
		}
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports the number of in-flight tasks.
func (p *Pool) Running() int { return p.pool.Running() }

// Release shuts the pool down.
func (p *Pool) Release() { p.pool.Release() }
