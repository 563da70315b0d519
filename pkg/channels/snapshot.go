package channels

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/clanops/muster/pkg/muster"
)

// Snapshot helpers turn platform state into the id sets and catalogs the
// core consumes. All of them work on data already fetched; none touch the
// session.

func parseID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// roleMemberSet collects the ids of members holding any of the given roles.
// Union semantics: a member in two roles appears once.
func roleMemberSet(members []*discordgo.Member, roleIDs []string) map[int64]struct{} {
	want := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		if id != "" {
			want[id] = struct{}{}
		}
	}

	ids := make(map[int64]struct{})
	for _, m := range members {
		if m.User == nil {
			continue
		}
		for _, r := range m.Roles {
			if _, ok := want[r]; ok {
				ids[parseID(m.User.ID)] = struct{}{}
				break
			}
		}
	}
	return ids
}

// memberDirectory builds the roster-translation lookup tables from a member
// snapshot. Handles map to account usernames; display names prefer the
// guild nick, then the global name, then the username.
func memberDirectory(members []*discordgo.Member) muster.MemberDirectory {
	dir := muster.NewMemberDirectory()
	for _, m := range members {
		if m.User == nil {
			continue
		}
		display := m.Nick
		if display == "" {
			display = m.User.GlobalName
		}
		if display == "" {
			display = m.User.Username
		}
		dir.Add(parseID(m.User.ID), m.User.Username, display)
	}
	return dir
}

// voiceCatalog lists the guild's voice channel names in guild order and a
// name→id index for resolving a chosen name back to a channel.
func voiceCatalog(guild *discordgo.Guild) ([]string, map[string]string) {
	var names []string
	index := make(map[string]string)
	for _, ch := range guild.Channels {
		if ch.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		names = append(names, ch.Name)
		index[ch.Name] = ch.ID
	}
	return names, index
}

// voiceOccupants collects the ids currently connected to one voice channel.
func voiceOccupants(guild *discordgo.Guild, channelID string) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			ids[parseID(vs.UserID)] = struct{}{}
		}
	}
	return ids
}
