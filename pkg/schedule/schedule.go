// Package schedule runs the daily match announcement loop.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/adhocore/gronx"

	"github.com/clanops/muster/pkg/bus"
	"github.com/clanops/muster/pkg/logger"
	"github.com/clanops/muster/pkg/store"
)

// MatchLister is the slice of the store the announcer needs.
type MatchLister interface {
	UpcomingMatches(ctx context.Context, guildID int64, after time.Time) ([]store.Match, error)
}

// Config holds announcer settings.
type Config struct {
	Enabled   bool
	Cron      string
	ChannelID string
	Template  string
	GuildID   int64
}

// Announcer publishes the upcoming match list on a cron schedule.
type Announcer struct {
	config  Config
	matches MatchLister
	bus     *bus.AnnouncementBus
	gron    *gronx.Gronx
	running atomic.Bool
	stop    chan struct{}
}

// NewAnnouncer creates the announcer. Returns an error for an invalid cron
// expression so misconfiguration fails at startup, not at 9am.
func NewAnnouncer(cfg Config, matches MatchLister, b *bus.AnnouncementBus) (*Announcer, error) {
	g := gronx.New()
	if cfg.Enabled && !g.IsValid(cfg.Cron) {
		return nil, fmt.Errorf("invalid announce cron expression %q", cfg.Cron)
	}
	return &Announcer{
		config:  cfg,
		matches: matches,
		bus:     b,
		gron:    g,
		stop:    make(chan struct{}),
	}, nil
}

// Start launches the per-minute scheduling loop.
func (a *Announcer) Start(ctx context.Context) error {
	if !a.config.Enabled {
		return nil
	}
	if !a.running.CompareAndSwap(false, true) {
		return fmt.Errorf("announcer already running")
	}

	go a.loop(ctx)
	logger.InfoCF("schedule", "Announcer started", map[string]any{
		"cron":    a.config.Cron,
		"channel": a.config.ChannelID,
	})
	return nil
}

// Stop halts the loop.
func (a *Announcer) Stop() {
	if a.running.CompareAndSwap(true, false) {
		close(a.stop)
	}
}

func (a *Announcer) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stop:
			return
		case now := <-ticker.C:
			due, err := a.gron.IsDue(a.config.Cron, now.Truncate(time.Minute))
			if err != nil || !due {
				continue
			}
			if err := a.announce(ctx, now); err != nil {
				logger.ErrorCF("schedule", "Announcement failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

func (a *Announcer) announce(ctx context.Context, now time.Time) error {
	matches, err := a.matches.UpcomingMatches(ctx, a.config.GuildID, now)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	return a.bus.Publish(ctx, bus.Announcement{
		ChannelID: a.config.ChannelID,
		Content:   fmt.Sprintf(a.config.Template, RenderMatches(matches)),
	})
}

// RenderMatches formats the upcoming match list, one match per line with a
// Discord relative timestamp.
func RenderMatches(matches []store.Match) string {
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• vs %s - <t:%d:F>", m.Opponent, m.ScheduledAt.Unix())
	}
	return b.String()
}
