package channels

import (
	"context"
	"strings"
	"sync/atomic"
)

// Channel is a chat-platform attachment the gateway can run.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
	IsAllowed(senderID string) bool
}

type BaseChannel struct {
	name      string
	allowList []string
	running   atomic.Bool
}

func NewBaseChannel(name string, allowList []string) *BaseChannel {
	return &BaseChannel{name: name, allowList: allowList}
}

func (c *BaseChannel) Name() string {
	return c.name
}

func (c *BaseChannel) IsRunning() bool {
	return c.running.Load()
}

// IsAllowed reports whether a sender passes the allow list. An empty list
// allows everyone; entries may carry a leading "@".
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}
	for _, allowed := range c.allowList {
		if senderID == allowed || senderID == strings.TrimPrefix(allowed, "@") {
			return true
		}
	}
	return false
}

func (c *BaseChannel) SetRunning(running bool) {
	c.running.Store(running)
}
