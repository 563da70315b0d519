package bus

import (
	"context"
	"errors"
	"testing"
)

func TestPublishConsume(t *testing.T) {
	b := NewAnnouncementBus()
	defer b.Close()

	want := Announcement{ChannelID: "123", Content: "raid at 20:00"}
	if err := b.Publish(context.Background(), want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, ok := b.Consume(context.Background())
	if !ok || got != want {
		t.Errorf("expected %+v, got %+v ok=%v", want, got, ok)
	}
}

func TestPublishAfterClose(t *testing.T) {
	b := NewAnnouncementBus()
	b.Close()

	err := b.Publish(context.Background(), Announcement{})
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("expected ErrBusClosed, got %v", err)
	}

	if _, ok := b.Consume(context.Background()); ok {
		t.Error("consume on closed bus must report not-ok")
	}
}
