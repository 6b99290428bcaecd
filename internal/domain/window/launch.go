package window

import (
	"context"
	"sync"
)

// Launch tracks the asynchronous Init of one opened window
type Launch struct {
	AppID      string
	Generation uint64
	// Reopened is set when OpenApp only refocused an open window
	Reopened bool

	done chan struct{}
	once sync.Once
	err  error
}

func newLaunch(appID string, generation uint64) *Launch {
	return &Launch{
		AppID:      appID,
		Generation: generation,
		done:       make(chan struct{}),
	}
}

func completedLaunch(appID string, generation uint64) *Launch {
	l := newLaunch(appID, generation)
	l.Reopened = true
	l.finish(nil)
	return l
}

func (l *Launch) finish(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.done)
	})
}

// Done is closed once Init has settled
func (l *Launch) Done() <-chan struct{} {
	return l.done
}

// Err returns the Init error after Done is closed
func (l *Launch) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until Init settles or ctx is done
func (l *Launch) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
