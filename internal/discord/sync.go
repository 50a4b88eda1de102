package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/retrylimit"
	"github.com/keshon/dispatchkit/pkg/util"
)

// syncGuildWorkers bounds how many guilds register commands concurrently.
const syncGuildWorkers = 4

// syncCommands pushes the local command set to each guild in parallel.
func (b *Bot) syncCommands(guildIDs []string) {
	err := util.Parallel(guildIDs, syncGuildWorkers, func(ctx context.Context, guildID string) error {
		if err := b.registerCommands(ctx, guildID); err != nil {
			log.Printf("[ERR] [%s] Command sync failed: %v", guildID, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERR] Command sync: %v", err)
	}
}

// registerCommands reconciles a guild's remote slash commands with the
// registry: obsolete remote commands are deleted, commands whose definition
// hash changed are re-registered. Unchanged commands cost no REST calls.
func (b *Bot) registerCommands(ctx context.Context, guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list remote commands: %w", err)
	}
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	local := b.buildCommandDefinitions()
	hashes := loadCommandHashes(guildID)

	b.deleteObsoleteCommands(ctx, appID, guildID, remoteByName, local, hashes)
	b.upsertChangedCommands(ctx, appID, guildID, local, hashes)

	saveCommandHashes(guildID, hashes)
	return nil
}

// buildCommandDefinitions converts every interaction-capable registry entry
// into an ApplicationCommand definition.
func (b *Bot) buildCommandDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range b.dispatcher.Registry().All() {
		if c.MessageOnly {
			continue
		}
		defs = append(defs, commandDefinition(c))
	}
	return defs
}

// deleteObsoleteCommands removes remote commands no longer in the registry.
func (b *Bot) deleteObsoleteCommands(ctx context.Context, appID, guildID string, remote map[string]*discordgo.ApplicationCommand, local []*discordgo.ApplicationCommand, hashes map[string]string) {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}

	for name, rc := range remote {
		if _, exists := localNames[name]; exists {
			continue
		}
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, name)
		err := retrylimit.WithRetry(ctx, func() error {
			return b.dg.ApplicationCommandDelete(appID, guildID, rc.ID)
		}, b.limiter)
		if err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, name, err)
		} else {
			delete(hashes, name)
		}
	}
}

// upsertChangedCommands registers commands whose hash differs from the cache.
func (b *Bot) upsertChangedCommands(ctx context.Context, appID, guildID string, defs []*discordgo.ApplicationCommand, hashes map[string]string) {
	var changed []*discordgo.ApplicationCommand
	for _, d := range defs {
		if hashes[d.Name] != hashCommand(d) {
			changed = append(changed, d)
		}
	}
	if len(changed) == 0 {
		return
	}

	log.Printf("[INFO] [%s] Registering %d changed command(s)...", guildID, len(changed))
	for _, d := range changed {
		err := retrylimit.WithRetry(ctx, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, d)
			return err
		}, b.limiter)
		if err != nil {
			log.Printf("[ERR] [%s] Failed to register %s: %v", guildID, d.Name, err)
			continue
		}
		log.Printf("[DONE] [%s] Registered: %s", guildID, d.Name)
		hashes[d.Name] = hashCommand(d)
	}
}

// commandDefinition maps a registry command to its ApplicationCommand form.
func commandDefinition(c *dispatch.Command) *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Type:        discordgo.ChatApplicationCommand,
	}
	for _, a := range c.Args {
		def.Options = append(def.Options, optionDefinition(a))
	}
	return def
}

func optionDefinition(a dispatch.ArgSpec) *discordgo.ApplicationCommandOption {
	opt := &discordgo.ApplicationCommandOption{
		Name:        a.Name,
		Description: a.Description,
		Type:        optionType(a.Kind),
		Required:    a.Required,
	}
	for _, choice := range a.Choices {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice,
			Value: choice,
		})
	}
	if a.MinLength != nil {
		opt.MinLength = a.MinLength
	}
	if a.MaxLength != nil {
		opt.MaxLength = *a.MaxLength
	}
	if a.MinValue != nil {
		opt.MinValue = a.MinValue
	}
	if a.MaxValue != nil {
		opt.MaxValue = *a.MaxValue
	}
	return opt
}

func optionType(k dispatch.ArgKind) discordgo.ApplicationCommandOptionType {
	switch k {
	case dispatch.KindInteger:
		return discordgo.ApplicationCommandOptionInteger
	case dispatch.KindNumber:
		return discordgo.ApplicationCommandOptionNumber
	case dispatch.KindBoolean:
		return discordgo.ApplicationCommandOptionBoolean
	case dispatch.KindUser:
		return discordgo.ApplicationCommandOptionUser
	case dispatch.KindChannel:
		return discordgo.ApplicationCommandOptionChannel
	case dispatch.KindRole:
		return discordgo.ApplicationCommandOptionRole
	case dispatch.KindMentionable:
		return discordgo.ApplicationCommandOptionMentionable
	case dispatch.KindAttachment:
		return discordgo.ApplicationCommandOptionAttachment
	case dispatch.KindSubcommand:
		return discordgo.ApplicationCommandOptionSubCommand
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// appID returns the bot's application ID, falling back to a REST lookup
// when session state has not been populated yet.
func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
