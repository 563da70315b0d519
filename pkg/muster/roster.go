package muster

import (
	"strings"
)

// TruncationMarker is appended when rendered roster output exceeds the
// caller-provided ceiling.
const TruncationMarker = "…"

// MemberDirectory holds the two lookup tables a roster translation needs.
// Built fresh per call from a guild member snapshot.
type MemberDirectory struct {
	// ByHandle maps lower-cased account handles to user ids.
	ByHandle map[string]int64
	// ByDisplayName maps lower-cased display names to all ids sharing that
	// name. Display names are not unique, so a lookup can yield 0, 1 or N.
	ByDisplayName map[string][]int64
}

// NewMemberDirectory builds an empty directory.
func NewMemberDirectory() MemberDirectory {
	return MemberDirectory{
		ByHandle:      make(map[string]int64),
		ByDisplayName: make(map[string][]int64),
	}
}

// Add records one member under its handle and display name.
func (d MemberDirectory) Add(id int64, handle, displayName string) {
	if handle != "" {
		d.ByHandle[strings.ToLower(handle)] = id
	}
	if displayName != "" {
		key := strings.ToLower(displayName)
		d.ByDisplayName[key] = append(d.ByDisplayName[key], id)
	}
}

// TranslateRoster renders a roster text block. Each nonblank line is a
// semicolon-delimited token list; tokens resolve, in priority order, as
// @handle user references, raw <@id> mentions, ~label markers, or literals
// (checked against the label map first). Resolved tokens on a line are
// space-joined; blank lines produce no output. When the rendered result
// exceeds maxLen runes it is cut and suffixed with the truncation marker.
func TranslateRoster(text string, dir MemberDirectory, labels map[string]string, maxLen int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrFormat
	}

	lowerLabels := make(map[string]string, len(labels))
	for k, v := range labels {
		lowerLabels[strings.ToLower(k)] = v
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rendered []string
		for _, token := range strings.Split(line, ";") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if out := renderToken(token, dir, lowerLabels); out != "" {
				rendered = append(rendered, out)
			}
		}
		lines = append(lines, strings.Join(rendered, " "))
	}

	out := strings.Join(lines, "\n")
	if maxLen > 0 {
		if runes := []rune(out); len(runes) > maxLen {
			cut := maxLen - len([]rune(TruncationMarker))
			if cut < 0 {
				cut = 0
			}
			out = string(runes[:cut]) + TruncationMarker
		}
	}
	return out, nil
}

func renderToken(token string, dir MemberDirectory, labels map[string]string) string {
	switch {
	case strings.HasPrefix(token, "@"):
		return renderUserToken(token, dir)

	case strings.HasPrefix(token, "<@") && strings.HasSuffix(token, ">"):
		// Already a raw mention; pass through untouched.
		return token

	case strings.HasPrefix(token, "~"):
		rest := strings.TrimSpace(token[1:])
		if rest == "" {
			// Bare tilde acts as a line-continuation separator.
			return ""
		}
		if mapped, ok := labels[strings.ToLower(rest)]; ok {
			return "\n**" + rest + "** " + mapped
		}
		return "**" + rest + "**"

	default:
		if mapped, ok := labels[strings.ToLower(token)]; ok {
			return mapped
		}
		return token
	}
}

func renderUserToken(token string, dir MemberDirectory) string {
	name := strings.ToLower(token[1:])
	if id, ok := dir.ByHandle[name]; ok {
		return Mention(id)
	}

	matches := dir.ByDisplayName[name]
	switch len(matches) {
	case 0:
		return token
	case 1:
		return Mention(matches[0])
	default:
		// Ambiguity is surfaced inline, not rejected.
		parts := make([]string, len(matches))
		for i, id := range matches {
			parts[i] = Mention(id)
		}
		return strings.Join(parts, "|")
	}
}
