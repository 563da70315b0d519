package muster

import (
	"reflect"
	"testing"
)

func TestCloseMatches_Exact(t *testing.T) {
	catalog := []string{"voice_alpha", "voice_beta", "text_general"}

	got := CloseMatches("voice_alpha", catalog, MaxChannelMatches, MatchCutoff)
	if len(got) == 0 || got[0] != "voice_alpha" {
		t.Fatalf("expected voice_alpha as top match, got %v", got)
	}
}

func TestCloseMatches_NoMatch(t *testing.T) {
	got := CloseMatches("zzz", []string{"voice_alpha", "voice_beta"}, MaxChannelMatches, MatchCutoff)
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestCloseMatches_Normalization(t *testing.T) {
	got := CloseMatches("raid night", []string{"Raid Night", "General"}, MaxChannelMatches, MatchCutoff)
	if len(got) == 0 || got[0] != "Raid Night" {
		t.Errorf("case/space folding failed, got %v", got)
	}
}

func TestCloseMatches_Truncation(t *testing.T) {
	catalog := []string{"raid 1", "raid 2", "raid 3", "raid 4"}
	got := CloseMatches("raid", catalog, MaxChannelMatches, MatchCutoff)
	if len(got) != MaxChannelMatches {
		t.Errorf("expected %d matches, got %v", MaxChannelMatches, got)
	}
}

func TestCloseMatches_TieKeepsCatalogOrder(t *testing.T) {
	catalog := []string{"alpha one", "alpha two"}
	got := CloseMatches("alpha", catalog, MaxChannelMatches, MatchCutoff)
	if !reflect.DeepEqual(got, []string{"alpha one", "alpha two"}) {
		t.Errorf("equal-length ties must keep catalog order, got %v", got)
	}
}

func TestResolveChannel(t *testing.T) {
	catalog := []string{"voice_alpha", "voice_beta"}

	if m := ResolveChannel("zzz", catalog); m.Kind != MatchNone {
		t.Errorf("expected no match, got %+v", m)
	}
	if m := ResolveChannel("text_channel", []string{"text_channel"}); m.Kind != MatchExact || m.Channel != "text_channel" {
		t.Errorf("expected exact match, got %+v", m)
	}
	if m := ResolveChannel("voice", catalog); m.Kind != MatchAmbiguous || len(m.Candidates) != 2 {
		t.Errorf("expected two candidates, got %+v", m)
	}
}
