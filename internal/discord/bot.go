// Package discord binds the dispatch engine to the Discord gateway: it
// wraps inbound messages and interactions into invocations, renders
// outcomes to embeds, and keeps remote slash command definitions in sync
// with the local registry.
package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/config"
	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/jobmgr"
	"github.com/keshon/dispatchkit/pkg/retrylimit"
)

// Bot owns the Discord session and routes gateway events into the command
// and component dispatchers constructed in main.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	store      *storage.Storage
	jobs       *jobmgr.Manager
	dispatcher *dispatch.Dispatcher
	components *dispatch.Components
	limiter    *retrylimit.AdaptiveLimiter
}

// NewBot wires a Bot from its collaborators. The session is created in Run.
func NewBot(cfg *config.Config, store *storage.Storage, jobs *jobmgr.Manager, dispatcher *dispatch.Dispatcher, components *dispatch.Components) *Bot {
	return &Bot{
		cfg:        cfg,
		store:      store,
		jobs:       jobs,
		dispatcher: dispatcher,
		components: components,
		// Discord allows short REST bursts; start modest, back off on 429s.
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
}

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received, cleaning up...")
	b.jobs.StopAll()
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}
