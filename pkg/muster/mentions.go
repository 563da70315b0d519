package muster

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SentinelPrefix marks an embed field value that encodes a mention list.
// The RSVP bot renders respondent lists as a quote block of mentions, so
// only values opening with this exact prefix are parsed.
const SentinelPrefix = ">>> <@"

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// ExtractMentions parses RSVP embed fields into a set of user ids.
//
// A field qualifies when its value starts with SentinelPrefix and, if
// namePrefix is non-empty, its name starts with namePrefix. Qualifying
// values are stripped of the quote marker and mention brackets, then split
// on newlines; each nonblank segment must parse as an integer id. Duplicate
// ids across fields collapse. An empty result is valid; a malformed segment
// fails the whole extraction.
func ExtractMentions(fields []EmbedField, namePrefix string) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	for _, field := range fields {
		if namePrefix != "" && !strings.HasPrefix(field.Name, namePrefix) {
			continue
		}
		if !strings.HasPrefix(field.Value, SentinelPrefix) {
			continue
		}
		if err := parseMentionBlock(field.Value[4:], ids); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// parseMentionBlock parses a newline-delimited block of <@id> tokens into
// the accumulator set. This is the inner step of ExtractMentions, split out
// so the encode/extract round trip stays testable on its own.
func parseMentionBlock(block string, ids map[int64]struct{}) error {
	cleaned := strings.ReplaceAll(block, "<@", "")
	cleaned = strings.ReplaceAll(cleaned, ">", "")
	for _, segment := range strings.Split(cleaned, "\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: mention segment %q", ErrFormat, segment)
		}
		ids[id] = struct{}{}
	}
	return nil
}

// ContentMentions extracts every <@id> mention from free message text.
// Used by voice reconciliation, where the expected set comes from the
// message body rather than RSVP fields.
func ContentMentions(content string) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue // regexp already guarantees digits; overflow only
		}
		ids[id] = struct{}{}
	}
	return ids
}

// Mention renders one user id as a platform mention token.
func Mention(id int64) string {
	return "<@" + strconv.FormatInt(id, 10) + ">"
}

// SortedIDs returns the set members in ascending order. Rendering always
// goes through this so replies are reproducible.
func SortedIDs(ids map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RenderMentionLines renders a set of ids as one mention per line, in
// ascending id order.
func RenderMentionLines(ids map[int64]struct{}) string {
	var b strings.Builder
	for _, id := range SortedIDs(ids) {
		b.WriteString(Mention(id))
		b.WriteByte('\n')
	}
	return b.String()
}
