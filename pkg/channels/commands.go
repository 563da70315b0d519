package channels

import (
	"github.com/bwmarrin/discordgo"

	"github.com/clanops/muster/pkg/timestamp"
)

var adminOnly = int64(discordgo.PermissionAdministrator)

// commandDefinitions returns the slash commands the bot registers on start.
func commandDefinitions() []*discordgo.ApplicationCommand {
	timestampFormats := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(timestamp.Formats))
	for _, f := range timestamp.Formats {
		timestampFormats = append(timestampFormats, &discordgo.ApplicationCommandOptionChoice{
			Name:  f.Example,
			Value: f.Key,
		})
	}
	zoneChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(timestamp.Zones))
	for _, z := range timestamp.Zones {
		zoneChoices = append(zoneChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  z.ShowName,
			Value: z.Offset,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "missing_mentions",
			Description:              "Tag role members who did not react to the RSVP event",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message_link", Description: "Link to the RSVP event message", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role whose members are checked", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role2", Description: "Additional role", Required: false},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role3", Description: "Additional role", Required: false},
			},
		},
		{
			Name:                     "ping_tentative",
			Description:              "Tag members who reacted tentative on the RSVP event",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message_link", Description: "Link to the RSVP event message", Required: true},
			},
		},
		{
			Name:                     "missing_voice",
			Description:              "Tag members mentioned in a message who are not in the voice channel",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message_link", Description: "Link to the message listing members", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "channel", Description: "Voice channel name to compare against", Required: true},
			},
		},
		{
			Name:                     "generate_roster",
			Description:              "Render a roster message: names become tags, labels become icons",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message_link", Description: "Link to the roster message", Required: true},
			},
		},
		{
			Name:        "timestamp",
			Description: "Generate a Discord timestamp token",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "date", Description: "Date as YYYY-MM-DD", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Time as HH:MM", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "utc_offset", Description: "Your UTC offset", Required: true, Choices: zoneChoices},
				{Type: discordgo.ApplicationCommandOptionString, Name: "format", Description: "Rendering style", Required: true, Choices: timestampFormats},
			},
		},
		{
			Name:                     "match_add",
			Description:              "Schedule a clan match",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "opponent", Description: "Opposing clan", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "scheduled_at", Description: "UTC time as YYYY-MM-DD HH:MM", Required: true},
			},
		},
		{
			Name:        "match_list",
			Description: "List upcoming clan matches",
		},
		{
			Name:                     "ignore_add",
			Description:              "Exclude a member from missing-member reports",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to exclude", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why", Required: false},
			},
		},
		{
			Name:                     "ignore_remove",
			Description:              "Re-include a member in missing-member reports",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to re-include", Required: true},
			},
		},
		{
			Name:                     "ignore_list",
			Description:              "Show the current ignore list",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:                     "dash_invite",
			Description:              "Invite someone to the monitoring dashboard",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Person's name", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "email", Description: "Email to invite", Required: true},
			},
		},
	}
}
