package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/clanops/muster/cmd/muster/internal"
	"github.com/clanops/muster/pkg/bus"
	"github.com/clanops/muster/pkg/channels"
	"github.com/clanops/muster/pkg/dashboard"
	"github.com/clanops/muster/pkg/logger"
	"github.com/clanops/muster/pkg/schedule"
	"github.com/clanops/muster/pkg/store"
)

func gatewayCmd(debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("Debug mode enabled")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer st.Close()

	dash, err := dashboard.NewClient(dashboard.Config{
		Enabled: cfg.Dashboard.Enabled,
		BaseURL: cfg.Dashboard.BaseURL,
		APIKey:  cfg.Dashboard.APIKey,
	})
	if err != nil {
		return fmt.Errorf("error creating dashboard client: %w", err)
	}
	if dash.IsEnabled() {
		fmt.Println("Dashboard invite proxy enabled")
	}

	announceBus := bus.NewAnnouncementBus()

	var guildID int64
	if cfg.Discord.GuildID != "" {
		guildID, err = strconv.ParseInt(cfg.Discord.GuildID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid guild id %q: %w", cfg.Discord.GuildID, err)
		}
	}

	announcer, err := schedule.NewAnnouncer(schedule.Config{
		Enabled:   cfg.Announce.Enabled,
		Cron:      cfg.Announce.Cron,
		ChannelID: cfg.Announce.ChannelID,
		Template:  cfg.Announce.Template,
		GuildID:   guildID,
	}, st, announceBus)
	if err != nil {
		return fmt.Errorf("error creating announcer: %w", err)
	}

	discord, err := channels.NewDiscordChannel(cfg, st, dash, announceBus)
	if err != nil {
		return fmt.Errorf("error creating discord channel: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := discord.Start(ctx); err != nil {
		return fmt.Errorf("error starting discord channel: %w", err)
	}
	fmt.Println("Discord channel started")

	if err := announcer.Start(ctx); err != nil {
		fmt.Printf("Error starting announcer: %v\n", err)
	} else if cfg.Announce.Enabled {
		fmt.Println("Match announcer started")
	}

	fmt.Println("Gateway started")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down...")
	announcer.Stop()
	announceBus.Close()
	cancel()
	if err := discord.Stop(ctx); err != nil {
		logger.ErrorCF("gateway", "Discord shutdown error", map[string]any{"error": err.Error()})
	}
	fmt.Println("Gateway stopped")

	return nil
}
