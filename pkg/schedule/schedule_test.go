package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/clanops/muster/pkg/bus"
	"github.com/clanops/muster/pkg/store"
)

type fakeLister struct {
	matches []store.Match
	err     error
}

func (f *fakeLister) UpcomingMatches(context.Context, int64, time.Time) ([]store.Match, error) {
	return f.matches, f.err
}

func TestNewAnnouncer_InvalidCron(t *testing.T) {
	_, err := NewAnnouncer(Config{Enabled: true, Cron: "not a cron"}, &fakeLister{}, bus.NewAnnouncementBus())
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestAnnounce_PublishesUpcoming(t *testing.T) {
	b := bus.NewAnnouncementBus()
	defer b.Close()

	when := time.Date(2026, 9, 5, 20, 0, 0, 0, time.UTC)
	lister := &fakeLister{matches: []store.Match{
		{Opponent: "Iron Wolves", ScheduledAt: when},
	}}

	a, err := NewAnnouncer(Config{
		Enabled: true, Cron: "0 9 * * *", ChannelID: "123", Template: "Upcoming matches:\n%s",
	}, lister, b)
	if err != nil {
		t.Fatalf("new announcer: %v", err)
	}

	if err := a.announce(context.Background(), time.Now()); err != nil {
		t.Fatalf("announce: %v", err)
	}

	msg, ok := b.Consume(context.Background())
	if !ok {
		t.Fatal("expected announcement on bus")
	}
	if msg.ChannelID != "123" {
		t.Errorf("unexpected channel %q", msg.ChannelID)
	}
	if !strings.Contains(msg.Content, "Iron Wolves") {
		t.Errorf("announcement missing opponent: %q", msg.Content)
	}
}

func TestAnnounce_NoMatchesNoMessage(t *testing.T) {
	b := bus.NewAnnouncementBus()
	defer b.Close()

	a, err := NewAnnouncer(Config{Enabled: true, Cron: "0 9 * * *", Template: "%s"}, &fakeLister{}, b)
	if err != nil {
		t.Fatalf("new announcer: %v", err)
	}
	if err := a.announce(context.Background(), time.Now()); err != nil {
		t.Fatalf("announce: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := b.Consume(ctx); ok {
		t.Error("empty match list must not announce")
	}
}

func TestRenderMatches(t *testing.T) {
	when := time.Unix(1800000000, 0).UTC()
	out := RenderMatches([]store.Match{
		{Opponent: "A", ScheduledAt: when},
		{Opponent: "B", ScheduledAt: when},
	})
	if !strings.Contains(out, "<t:1800000000:F>") {
		t.Errorf("expected discord timestamp, got %q", out)
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("expected one line break, got %d in %q", got, out)
	}
}
