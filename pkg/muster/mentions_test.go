package muster

import (
	"errors"
	"testing"
)

func TestExtractMentions_Dedup(t *testing.T) {
	fields := []EmbedField{
		{Name: "✅ Accepted (2)", Value: ">>> <@101>\n<@102>"},
		{Name: "⌛ Late (1)", Value: ">>> <@102>"},
	}

	ids, err := ExtractMentions(fields, "")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	for _, want := range []int64{101, 102} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing id %d", want)
		}
	}
}

func TestExtractMentions_EmptyBlock(t *testing.T) {
	ids, err := ExtractMentions([]EmbedField{{Name: "✅ Accepted (0)", Value: ">>> <@"}}, "")
	if err != nil {
		t.Fatalf("empty block must not error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty set, got %v", ids)
	}
}

func TestExtractMentions_SkipsNonSentinelFields(t *testing.T) {
	fields := []EmbedField{
		{Name: "Time", Value: "<t:1700000000:F>"},
		{Name: "✅ Accepted (1)", Value: ">>> <@7>"},
	}

	ids, err := ExtractMentions(fields, "")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 id, got %d", len(ids))
	}
}

func TestExtractMentions_NamePredicate(t *testing.T) {
	fields := []EmbedField{
		{Name: "✅ Accepted (1)", Value: ">>> <@1>"},
		{Name: "❔ Tentative (1)", Value: ">>> <@2>"},
	}

	ids, err := ExtractMentions(fields, "❔")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, ok := ids[2]; !ok || len(ids) != 1 {
		t.Errorf("expected only tentative id 2, got %v", ids)
	}
}

func TestExtractMentions_MalformedSegmentAborts(t *testing.T) {
	fields := []EmbedField{
		{Name: "✅ Accepted (2)", Value: ">>> <@1>\n<@oops>"},
	}

	_, err := ExtractMentions(fields, "")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestMentionRoundTrip(t *testing.T) {
	original := map[int64]struct{}{5: {}, 42: {}, 475744554910351370: {}}

	encoded := ">>> " + RenderMentionLines(original)
	ids, err := ExtractMentions([]EmbedField{{Name: "✅", Value: encoded}}, "")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(ids) != len(original) {
		t.Fatalf("expected %d ids, got %d", len(original), len(ids))
	}
	for id := range original {
		if _, ok := ids[id]; !ok {
			t.Errorf("lost id %d in round trip", id)
		}
	}
}

func TestContentMentions(t *testing.T) {
	ids := ContentMentions("raid tonight <@11> <@!22> and <@11> again")
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	if _, ok := ids[22]; !ok {
		t.Error("nickname-form mention <@!22> not extracted")
	}
}

func TestParseMessageLink(t *testing.T) {
	ref, err := ParseMessageLink("https://discord.com/channels/100/200/300")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.GuildID != 100 || ref.ChannelID != 200 || ref.MessageID != 300 {
		t.Errorf("unexpected ref %+v", ref)
	}
}

func TestParseMessageLink_Malformed(t *testing.T) {
	for _, link := range []string{
		"https://discord.com/channels/100/200",
		"https://discord.com/channels/abc/200/300",
		"not a link",
		"",
	} {
		if _, err := ParseMessageLink(link); !errors.Is(err, ErrFormat) {
			t.Errorf("link %q: expected format error, got %v", link, err)
		}
	}
}
