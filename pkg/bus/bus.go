// Package bus decouples background announcement producers from the Discord
// sender. Producers publish; the gateway consumes and delivers.
package bus

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrBusClosed is returned when publishing to a closed AnnouncementBus.
var ErrBusClosed = errors.New("announcement bus closed")

type AnnouncementBus struct {
	outbound chan Announcement
	done     chan struct{}
	closed   atomic.Bool
}

func NewAnnouncementBus() *AnnouncementBus {
	return &AnnouncementBus{
		outbound: make(chan Announcement, 16),
		done:     make(chan struct{}),
	}
}

func (b *AnnouncementBus) Publish(ctx context.Context, a Announcement) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	select {
	case b.outbound <- a:
		return nil
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *AnnouncementBus) Consume(ctx context.Context) (Announcement, bool) {
	select {
	case a, ok := <-b.outbound:
		return a, ok
	case <-b.done:
		return Announcement{}, false
	case <-ctx.Done():
		return Announcement{}, false
	}
}

func (b *AnnouncementBus) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.done)
	}
}
