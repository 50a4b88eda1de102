package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/dispatchkit/internal/commands"
	"github.com/keshon/dispatchkit/internal/config"
	"github.com/keshon/dispatchkit/internal/discord"
	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/jobmgr"
)

func main() {
	log.Println("[INFO] Starting dispatchkit bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] Config: ", err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal("[ERR] Storage: ", err)
	}
	defer store.Close()

	jobs := jobmgr.NewManager(func(s string) {
		log.Println("[DEBUG] Job:", s)
	})

	registry := dispatch.NewRegistry("General")
	ledger := dispatch.NewCooldownLedger()
	perms := dispatch.NewPermissionEvaluator(cfg.OwnerIDs)
	responder := discord.NewResponder(jobs)
	dispatcher := dispatch.NewDispatcher(registry, ledger, perms, responder)
	components := dispatch.NewComponents(ledger, responder)

	deps := commands.Deps{Cfg: cfg, Store: store, Jobs: jobs}
	for _, c := range commands.Definitions(deps, registry) {
		if err := registry.Register(c); err != nil {
			log.Printf("[WARN] Skipping command %q: %v", c.Name, err)
		}
	}
	exact, patterns := commands.Components(deps, registry)
	for _, c := range exact {
		components.Register(c)
	}
	for _, p := range patterns {
		components.RegisterPattern(p)
	}

	bot := discord.NewBot(cfg, store, jobs, dispatcher, components)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
