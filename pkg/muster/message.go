package muster

import (
	"fmt"
	"strconv"
	"strings"
)

// EmbedField is one named section of an RSVP event embed.
type EmbedField struct {
	Name  string
	Value string
}

// RsvpMessage is an immutable snapshot of a fetched event message. The
// Discord layer builds it from the platform message; the core never fetches.
type RsvpMessage struct {
	AuthorID int64
	Content  string
	Fields   []EmbedField
}

// MessageRef locates a message inside a guild.
type MessageRef struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

// ParseMessageLink extracts guild, channel and message ids from a Discord
// message URL (https://discord.com/channels/<guild>/<channel>/<message>).
// Anything shorter than seven slash-separated segments, or with non-numeric
// ids, is a format error.
func ParseMessageLink(link string) (MessageRef, error) {
	parts := strings.Split(strings.TrimSpace(link), "/")
	if len(parts) < 7 {
		return MessageRef{}, fmt.Errorf("%w: message link %q", ErrFormat, link)
	}

	guildID, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return MessageRef{}, fmt.Errorf("%w: guild id in %q", ErrFormat, link)
	}
	channelID, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return MessageRef{}, fmt.Errorf("%w: channel id in %q", ErrFormat, link)
	}
	messageID, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return MessageRef{}, fmt.Errorf("%w: message id in %q", ErrFormat, link)
	}

	return MessageRef{GuildID: guildID, ChannelID: channelID, MessageID: messageID}, nil
}
