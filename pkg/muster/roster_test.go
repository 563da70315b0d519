package muster

import (
	"errors"
	"strings"
	"testing"
)

func testDirectory() MemberDirectory {
	dir := NewMemberDirectory()
	dir.Add(1001, "alice", "Alice")
	dir.Add(1002, "bob", "Bobby")
	dir.Add(1003, "carol_main", "Twin")
	dir.Add(1004, "carol_alt", "Twin")
	return dir
}

var testLabels = map[string]string{
	"red":  "🟥",
	"tank": "🚙",
}

func TestTranslateRoster_MixedLine(t *testing.T) {
	out, err := TranslateRoster("@alice;~red;tank", testDirectory(), testLabels, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}

	for _, want := range []string{"<@1001>", "**red** 🟥", "🚙"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if i, j := strings.Index(out, "<@1001>"), strings.Index(out, "**red**"); i > j {
		t.Errorf("token order not preserved in %q", out)
	}
}

func TestTranslateRoster_DisplayNameFallback(t *testing.T) {
	out, err := TranslateRoster("@bobby", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "<@1002>" {
		t.Errorf("expected display-name resolution, got %q", out)
	}
}

func TestTranslateRoster_AmbiguousDisplayName(t *testing.T) {
	out, err := TranslateRoster("@twin", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "<@1003>|<@1004>" {
		t.Errorf("ambiguity must surface inline, got %q", out)
	}
}

func TestTranslateRoster_UnknownUserStaysLiteral(t *testing.T) {
	out, err := TranslateRoster("@nobody", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "@nobody" {
		t.Errorf("expected literal passthrough, got %q", out)
	}
}

func TestTranslateRoster_RawMentionPassthrough(t *testing.T) {
	out, err := TranslateRoster("<@42>;@alice", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "<@42> <@1001>" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestTranslateRoster_UnknownLabelBold(t *testing.T) {
	out, err := TranslateRoster("~healer", testDirectory(), testLabels, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "**healer**" {
		t.Errorf("unknown label must render bold, got %q", out)
	}
}

func TestTranslateRoster_BareTildeSeparator(t *testing.T) {
	out, err := TranslateRoster("@alice;~;@bob", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "<@1001> <@1002>" {
		t.Errorf("bare tilde must render nothing, got %q", out)
	}
}

func TestTranslateRoster_BlankLinesSkipped(t *testing.T) {
	out, err := TranslateRoster("@alice\n\n   \n@bob", testDirectory(), nil, 0)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "<@1001>\n<@1002>" {
		t.Errorf("blank lines must not emit output lines, got %q", out)
	}
}

func TestTranslateRoster_Truncation(t *testing.T) {
	out, err := TranslateRoster("@alice;@bob", testDirectory(), nil, 10)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len([]rune(out)) > 10 {
		t.Errorf("output exceeds ceiling: %q", out)
	}
	if !strings.HasSuffix(out, TruncationMarker) {
		t.Errorf("truncated output must carry marker, got %q", out)
	}
}

func TestTranslateRoster_EmptyInput(t *testing.T) {
	if _, err := TranslateRoster("   \n ", testDirectory(), nil, 0); !errors.Is(err, ErrFormat) {
		t.Errorf("expected format error, got %v", err)
	}
}
