// Package channels hosts the Discord attachment: slash-command
// registration, interaction dispatch, and the reply plumbing between the
// reconciliation core and the platform.
package channels

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/clanops/muster/pkg/bus"
	"github.com/clanops/muster/pkg/config"
	"github.com/clanops/muster/pkg/dashboard"
	"github.com/clanops/muster/pkg/logger"
	"github.com/clanops/muster/pkg/muster"
	"github.com/clanops/muster/pkg/schedule"
	"github.com/clanops/muster/pkg/store"
	"github.com/clanops/muster/pkg/timestamp"
)

const membersPageSize = 1000

// DiscordChannel runs the bot's Discord surface.
type DiscordChannel struct {
	*BaseChannel

	config     config.DiscordConfig
	labels     map[string]string
	maxMessage int
	store      *store.Store
	dashboard  *dashboard.Client
	bus        *bus.AnnouncementBus
	sessions   *muster.SessionRegistry
	session    *discordgo.Session
	runCtx     context.Context
	cancel     context.CancelFunc
}

// NewDiscordChannel wires the channel. The store and dashboard client may
// be nil when their features are disabled.
func NewDiscordChannel(
	cfg *config.Config,
	st *store.Store,
	dash *dashboard.Client,
	b *bus.AnnouncementBus,
) (*DiscordChannel, error) {
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord token is required")
	}
	return &DiscordChannel{
		BaseChannel: NewBaseChannel("discord", cfg.Discord.AllowFrom),
		config:      cfg.Discord,
		labels:      cfg.Roster.Labels,
		maxMessage:  cfg.Roster.MaxMessage,
		store:       st,
		dashboard:   dash,
		bus:         b,
		sessions:    muster.NewSessionRegistry(),
	}, nil
}

// Start opens the gateway session and registers the slash commands.
func (c *DiscordChannel) Start(ctx context.Context) error {
	session, err := discordgo.New("Bot " + c.config.Token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	session.AddHandler(c.onInteraction)

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	c.session = session

	if _, err := session.ApplicationCommandBulkOverwrite(
		session.State.User.ID, c.config.GuildID, commandDefinitions(),
	); err != nil {
		_ = session.Close()
		return fmt.Errorf("register commands: %w", err)
	}

	c.runCtx, c.cancel = context.WithCancel(ctx)
	c.SetRunning(true)
	go c.announceLoop()

	logger.InfoCF("discord", "Channel started", map[string]any{
		"user":  session.State.User.Username,
		"guild": c.config.GuildID,
	})
	return nil
}

// Stop closes the session and halts the announcement loop.
func (c *DiscordChannel) Stop(context.Context) error {
	if !c.IsRunning() {
		return nil
	}
	c.SetRunning(false)
	c.cancel()
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *DiscordChannel) announceLoop() {
	for {
		a, ok := c.bus.Consume(c.runCtx)
		if !ok {
			return
		}
		if _, err := c.session.ChannelMessageSend(a.ChannelID, a.Content); err != nil {
			logger.ErrorCF("discord", "Announcement send failed", map[string]any{
				"channel": a.ChannelID,
				"error":   err.Error(),
			})
		}
	}
}

func (c *DiscordChannel) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		c.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		c.handleComponent(s, i)
	}
}

func senderID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (c *DiscordChannel) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !c.IsAllowed(senderID(i)) {
		c.respond(s, i, "You are not allowed to use this command.", true)
		return
	}

	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)

	logger.DebugCF("discord", "Command received", map[string]any{
		"command": data.Name,
		"sender":  senderID(i),
	})

	switch data.Name {
	case "missing_mentions":
		c.handleMissingMentions(s, i, opts)
	case "ping_tentative":
		c.handlePingTentative(s, i, opts)
	case "missing_voice":
		c.handleMissingVoice(s, i, opts)
	case "generate_roster":
		c.handleGenerateRoster(s, i, opts)
	case "timestamp":
		c.handleTimestamp(s, i, opts)
	case "match_add":
		c.handleMatchAdd(s, i, opts)
	case "match_list":
		c.handleMatchList(s, i)
	case "ignore_add":
		c.handleIgnoreAdd(s, i, opts)
	case "ignore_remove":
		c.handleIgnoreRemove(s, i, opts)
	case "ignore_list":
		c.handleIgnoreList(s, i)
	case "dash_invite":
		c.handleDashInvite(s, i, opts)
	}
}

func optionMap(
	options []*discordgo.ApplicationCommandInteractionDataOption,
) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// mapRESTError folds a Discord REST failure onto the shared taxonomy.
func mapRESTError(err error) error {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		switch rerr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: message", muster.ErrNotFound)
		case http.StatusForbidden:
			return fmt.Errorf("%w: channel", muster.ErrPermission)
		}
	}
	return fmt.Errorf("%w: %v", muster.ErrUpstream, err)
}

// userMessage renders a taxonomy error for the requester.
func userMessage(err error) string {
	switch {
	case errors.Is(err, muster.ErrNotFound):
		return "**Error**: message not found at that link."
	case errors.Is(err, muster.ErrPermission):
		return "**Error**: I have no access to that channel."
	case errors.Is(err, muster.ErrFormat):
		return "**Error**: that does not look like a valid input."
	default:
		return "**Error**: something went wrong upstream, try again."
	}
}

func (c *DiscordChannel) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.ErrorCF("discord", "Respond failed", map[string]any{"error": err.Error()})
	}
}

// fetchMessage fetches the linked message and converts it into the core's
// snapshot form.
func (c *DiscordChannel) fetchMessage(s *discordgo.Session, ref muster.MessageRef) (*discordgo.Message, muster.RsvpMessage, error) {
	msg, err := s.ChannelMessage(
		strconv.FormatInt(ref.ChannelID, 10),
		strconv.FormatInt(ref.MessageID, 10),
	)
	if err != nil {
		return nil, muster.RsvpMessage{}, mapRESTError(err)
	}

	snapshot := muster.RsvpMessage{Content: msg.Content}
	if msg.Author != nil {
		snapshot.AuthorID = parseID(msg.Author.ID)
	}
	for _, embed := range msg.Embeds {
		for _, f := range embed.Fields {
			snapshot.Fields = append(snapshot.Fields, muster.EmbedField{Name: f.Name, Value: f.Value})
		}
	}
	return msg, snapshot, nil
}

// guildMembers fetches the full member list, paginating past the API limit.
func (c *DiscordChannel) guildMembers(s *discordgo.Session, guildID string) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := s.GuildMembers(guildID, after, membersPageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: member list: %v", muster.ErrUpstream, err)
		}
		all = append(all, page...)
		if len(page) < membersPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *DiscordChannel) ignoredSet(guildID string) map[int64]struct{} {
	if c.store == nil {
		return nil
	}
	ignored, err := c.store.IgnoredSet(c.runCtx, parseID(guildID))
	if err != nil {
		logger.WarnCF("discord", "Ignore list unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	return ignored
}

func (c *DiscordChannel) handleMissingMentions(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	ref, err := muster.ParseMessageLink(opts["message_link"].StringValue())
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	_, snapshot, err := c.fetchMessage(s, ref)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	if snapshot.AuthorID != c.config.RsvpBotID {
		c.respond(s, i, "**Error**: that message is not from the RSVP bot.", true)
		return
	}

	var roleIDs []string
	for _, name := range []string{"role", "role2", "role3"} {
		if opt, ok := opts[name]; ok {
			roleIDs = append(roleIDs, opt.RoleValue(nil, "").ID)
		}
	}

	members, err := c.guildMembers(s, i.GuildID)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	expected := roleMemberSet(members, roleIDs)
	if len(expected) == 0 {
		c.respond(s, i, "**Error**: the given roles have no members.", true)
		return
	}

	present, err := muster.ExtractMentions(snapshot.Fields, "")
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	rec := muster.Reconcile(expected, present).WithoutIgnored(c.ignoredSet(i.GuildID))
	if rec.AllPresent() {
		c.respond(s, i, "Everyone in the role has reacted to the event.", false)
		return
	}
	c.respond(s, i, fmt.Sprintf("%s - missing reactions from:\n%s",
		opts["message_link"].StringValue(), rec.RenderMissing()), false)
}

func (c *DiscordChannel) handlePingTentative(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	ref, err := muster.ParseMessageLink(opts["message_link"].StringValue())
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	_, snapshot, err := c.fetchMessage(s, ref)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	if snapshot.AuthorID != c.config.RsvpBotID {
		c.respond(s, i, "**Error**: that message is not from the RSVP bot.", true)
		return
	}

	tentative, err := muster.ExtractMentions(snapshot.Fields, c.config.TentativeField)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	if len(tentative) == 0 {
		c.respond(s, i, "No tentative reactions on this event.", false)
		return
	}
	c.respond(s, i, fmt.Sprintf("Please update your tentative RSVP:\n%s",
		muster.RenderMentionLines(tentative)), false)
}

func (c *DiscordChannel) handleMissingVoice(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	ref, err := muster.ParseMessageLink(opts["message_link"].StringValue())
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	_, snapshot, err := c.fetchMessage(s, ref)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	expected := muster.ContentMentions(snapshot.Content)
	if len(expected) == 0 {
		c.respond(s, i, "**Error**: the linked message mentions no members.", true)
		return
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: guild state: %v", muster.ErrUpstream, err)), true)
		return
	}
	catalog, _ := voiceCatalog(guild)

	match := muster.ResolveChannel(opts["channel"].StringValue(), catalog)
	switch match.Kind {
	case muster.MatchNone:
		c.respond(s, i, "**Error**: no voice channel matches your query.", true)

	case muster.MatchExact:
		c.respond(s, i, c.voiceReport(s, i.GuildID, match.Channel, expected,
			fmt.Sprintf("Found channel **%s**", match.Channel)), false)

	case muster.MatchAmbiguous:
		c.promptChoice(s, i, match.Candidates, expected)
	}
}

// voiceReport reconciles expected members against the live occupancy of one
// voice channel, reading guild state fresh so late joins count.
func (c *DiscordChannel) voiceReport(
	s *discordgo.Session,
	guildID, channelName string,
	expected map[int64]struct{},
	header string,
) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return userMessage(fmt.Errorf("%w: guild state: %v", muster.ErrUpstream, err))
	}
	_, index := voiceCatalog(guild)
	channelID, ok := index[channelName]
	if !ok {
		return userMessage(fmt.Errorf("%w: voice channel %q", muster.ErrNotFound, channelName))
	}

	present := voiceOccupants(guild, channelID)
	rec := muster.Reconcile(expected, present).WithoutIgnored(c.ignoredSet(guildID))
	if rec.AllPresent() {
		return fmt.Sprintf("%s. Everyone from the message is already in the voice channel.", header)
	}
	return fmt.Sprintf("%s - missing from the voice channel:\n%s", header, rec.RenderMissing())
}

const customIDPrefix = "muster"

func (c *DiscordChannel) promptChoice(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	candidates []string,
	expected map[int64]struct{},
) {
	sess := muster.NewChoiceSession(candidates, time.Duration(c.config.SelectTimeout)*time.Second)
	c.sessions.Put(sess)

	buttons := make([]discordgo.MessageComponent, 0, len(candidates)+1)
	for idx, name := range candidates {
		buttons = append(buttons, discordgo.Button{
			Label:    name,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s:%s:%d", customIDPrefix, sess.ID(), idx),
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.DangerButton,
		CustomID: fmt.Sprintf("%s:%s:cancel", customIDPrefix, sess.ID()),
	})

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "Several voice channels match your query. Pick one:",
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
		},
	})
	if err != nil {
		c.sessions.Remove(sess.ID())
		logger.ErrorCF("discord", "Choice prompt failed", map[string]any{"error": err.Error()})
		return
	}

	go c.awaitChoice(s, i, sess, expected)
}

func (c *DiscordChannel) awaitChoice(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	sess *muster.ChoiceSession,
	expected map[int64]struct{},
) {
	choice := sess.Wait(c.runCtx)
	c.sessions.Remove(sess.ID())

	var content string
	switch choice.State {
	case muster.ChoiceSelected:
		content = c.voiceReport(s, i.GuildID, choice.Channel, expected,
			fmt.Sprintf("Selected channel **%s**", choice.Channel))
	case muster.ChoiceCancelled:
		content = "Operation cancelled."
	case muster.ChoiceTimedOut:
		content = "Selection timed out."
	}

	noComponents := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &noComponents,
	}); err != nil {
		logger.ErrorCF("discord", "Choice resolution edit failed", map[string]any{"error": err.Error()})
	}
}

func (c *DiscordChannel) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return
	}

	// Acknowledge the click; the waiting goroutine edits the prompt.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		logger.ErrorCF("discord", "Component ack failed", map[string]any{"error": err.Error()})
	}

	sess, ok := c.sessions.Get(parts[1])
	if !ok {
		// Terminal session already torn down; late clicks are no-ops.
		return
	}

	if parts[2] == "cancel" {
		sess.Cancel()
		return
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 0 || idx >= len(sess.Candidates()) {
		return
	}
	sess.Select(sess.Candidates()[idx])
}

func (c *DiscordChannel) handleGenerateRoster(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	ref, err := muster.ParseMessageLink(opts["message_link"].StringValue())
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	_, snapshot, err := c.fetchMessage(s, ref)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	members, err := c.guildMembers(s, i.GuildID)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}

	out, err := muster.TranslateRoster(snapshot.Content, memberDirectory(members), c.labels, c.maxMessage)
	if err != nil {
		c.respond(s, i, "Could not generate a roster from that text.", true)
		return
	}
	c.respond(s, i, "Generated roster:\n"+out, false)
}

func (c *DiscordChannel) handleTimestamp(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	token, err := timestamp.Generate(
		opts["date"].StringValue(),
		opts["time"].StringValue(),
		int(opts["utc_offset"].IntValue()),
		opts["format"].StringValue(),
	)
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	c.respond(s, i, fmt.Sprintf("%s\nRaw token: `%s`", token, token), true)
}

func (c *DiscordChannel) handleMatchAdd(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	if c.store == nil {
		c.respond(s, i, "Match tracking is not configured.", true)
		return
	}

	when, err := time.Parse("2006-01-02 15:04", opts["scheduled_at"].StringValue())
	if err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: scheduled_at", muster.ErrFormat)), true)
		return
	}

	match, err := c.store.AddMatch(c.runCtx, store.Match{
		GuildID:     parseID(i.GuildID),
		Opponent:    opts["opponent"].StringValue(),
		ScheduledAt: when.UTC(),
		CreatedBy:   parseID(senderID(i)),
	})
	if err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: %v", muster.ErrUpstream, err)), true)
		return
	}
	c.respond(s, i, fmt.Sprintf("Match vs **%s** scheduled for <t:%d:F>.",
		match.Opponent, match.ScheduledAt.Unix()), false)
}

func (c *DiscordChannel) handleMatchList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if c.store == nil {
		c.respond(s, i, "Match tracking is not configured.", true)
		return
	}

	matches, err := c.store.UpcomingMatches(c.runCtx, parseID(i.GuildID), time.Now())
	if err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: %v", muster.ErrUpstream, err)), true)
		return
	}
	if len(matches) == 0 {
		c.respond(s, i, "No upcoming matches.", false)
		return
	}
	c.respond(s, i, "Upcoming matches:\n"+schedule.RenderMatches(matches), false)
}

func (c *DiscordChannel) handleIgnoreAdd(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	if c.store == nil {
		c.respond(s, i, "Ignore list is not configured.", true)
		return
	}

	user := opts["user"].UserValue(nil)
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := c.store.AddIgnore(c.runCtx, parseID(i.GuildID), parseID(user.ID), reason); err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: %v", muster.ErrUpstream, err)), true)
		return
	}
	c.respond(s, i, fmt.Sprintf("%s is now excluded from missing-member reports.", muster.Mention(parseID(user.ID))), true)
}

func (c *DiscordChannel) handleIgnoreRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	if c.store == nil {
		c.respond(s, i, "Ignore list is not configured.", true)
		return
	}

	user := opts["user"].UserValue(nil)
	if err := c.store.RemoveIgnore(c.runCtx, parseID(i.GuildID), parseID(user.ID)); err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: %v", muster.ErrUpstream, err)), true)
		return
	}
	c.respond(s, i, fmt.Sprintf("%s is back in missing-member reports.", muster.Mention(parseID(user.ID))), true)
}

func (c *DiscordChannel) handleIgnoreList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if c.store == nil {
		c.respond(s, i, "Ignore list is not configured.", true)
		return
	}

	ignored, err := c.store.IgnoredSet(c.runCtx, parseID(i.GuildID))
	if err != nil {
		c.respond(s, i, userMessage(fmt.Errorf("%w: %v", muster.ErrUpstream, err)), true)
		return
	}
	if len(ignored) == 0 {
		c.respond(s, i, "The ignore list is empty.", true)
		return
	}
	c.respond(s, i, "Currently ignored:\n"+muster.RenderMentionLines(ignored), true)
}

func (c *DiscordChannel) handleDashInvite(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	if c.dashboard == nil || !c.dashboard.IsEnabled() {
		c.respond(s, i, "Dashboard integration is not configured.", true)
		return
	}

	invite, err := c.dashboard.CreateInvite(c.runCtx, dashboard.InviteRequest{
		Name:  opts["name"].StringValue(),
		Email: opts["email"].StringValue(),
	})
	if err != nil {
		c.respond(s, i, userMessage(err), true)
		return
	}
	c.respond(s, i, fmt.Sprintf("Dashboard invite created for %s: %s", invite.Email, invite.URL), true)
}
