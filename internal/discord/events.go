package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// onReady logs in and pushes slash command definitions to every guild.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if b.cfg.SyncCommands {
		guildIDs := make([]string, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, g.ID)
		}
		b.syncCommands(guildIDs)
	} else {
		log.Println("[INFO] Slash command sync skipped")
	}

	log.Printf("[INFO] Discord bot %v is running.", botInfo.Username)
}

// onGuildCreate syncs commands for guilds the bot joins after startup.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if b.cfg.SyncCommands {
		b.syncCommands([]string{g.Guild.ID})
	}
}

// onMessageCreate turns prefixed messages into message-mode invocations.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	name, tokens, ok := SplitCommand(m.Content, b.prefixFor(m.GuildID))
	if !ok {
		return
	}

	inv := &dispatch.Invocation{
		Mode:        dispatch.ModeMessage,
		Command:     name,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Tokens:      tokens,
		Member:      b.messageMember(s, m),
		BotMember:   b.botMember(s, m.GuildID, m.ChannelID),
		Data: &bot.Context{
			Session: s,
			Message: m,
			Store:   b.store,
			Jobs:    b.jobs,
		},
	}

	if _, err := b.dispatcher.Dispatch(context.Background(), inv); err != nil {
		// Handler faults propagate out of the dispatcher uncaught; this is
		// the supervisor that logs them and tells the channel.
		log.Printf("[ERR] Command %q failed: %v", name, err)
		_ = bot.MessageEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
			Description: "Something went wrong running that command.",
			Color:       bot.EmbedColor,
		})
	}
}

// onInteractionCreate routes slash commands to the command dispatcher and
// message components / modal submissions to the component dispatcher.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		inv := b.interactionInvocation(s, i)
		inv.Command = data.Name
		inv.Args = interactionArgs(data)

		if _, err := b.dispatcher.Dispatch(context.Background(), inv); err != nil {
			log.Printf("[ERR] Slash command %q failed: %v", data.Name, err)
			if bc, ok := bot.FromInvocation(inv); ok {
				_ = bc.ReplyEmbedEphemeral(&discordgo.MessageEmbed{
					Description: "Something went wrong running that command.",
					Color:       bot.EmbedColor,
				})
			}
		}

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		inv := b.interactionInvocation(s, i)
		inv.ComponentID = data.CustomID
		b.components.Handle(context.Background(), componentKind(data.ComponentType), inv)

	case discordgo.InteractionModalSubmit:
		inv := b.interactionInvocation(s, i)
		inv.ComponentID = i.ModalSubmitData().CustomID
		b.components.Handle(context.Background(), dispatch.ComponentModal, inv)

	default:
		log.Printf("[DEBUG] Ignoring interaction type: %d", i.Type)
	}
}

// interactionInvocation fills the invocation fields every interaction kind
// shares: author, location and pre-resolved member views.
func (b *Bot) interactionInvocation(s *discordgo.Session, i *discordgo.InteractionCreate) *dispatch.Invocation {
	bc := &bot.Context{
		Session:     s,
		Interaction: i,
		Store:       b.store,
		Jobs:        b.jobs,
	}
	inv := &dispatch.Invocation{
		Mode:      dispatch.ModeInteraction,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		BotMember: b.botMember(s, i.GuildID, i.ChannelID),
		Data:      bc,
	}
	bc.Reply = &inv.ReplyState
	if i.Member != nil && i.Member.User != nil {
		inv.AuthorID = i.Member.User.ID
		inv.AuthorIsBot = i.Member.User.Bot
		inv.Member = &dispatch.Member{
			Roles:       i.Member.Roles,
			Permissions: i.Member.Permissions,
		}
	} else if i.User != nil {
		inv.AuthorID = i.User.ID
		inv.AuthorIsBot = i.User.Bot
	}
	return inv
}

// messageMember builds the invoking member view for message mode. Member
// permissions are resolved through session state; a failed lookup degrades
// to zero capabilities rather than blocking dispatch.
func (b *Bot) messageMember(s *discordgo.Session, m *discordgo.MessageCreate) *dispatch.Member {
	if m.GuildID == "" {
		return nil
	}
	member := &dispatch.Member{}
	if m.Member != nil {
		member.Roles = m.Member.Roles
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		log.Printf("[WARN] Failed to resolve permissions for %s: %v", m.Author.ID, err)
		perms = 0
	}
	member.Permissions = perms
	return member
}

// botMember builds the bot's own member view for permission stage five.
func (b *Bot) botMember(s *discordgo.Session, guildID, channelID string) *dispatch.Member {
	if guildID == "" {
		return nil
	}
	perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		log.Printf("[WARN] Failed to resolve bot permissions in %s: %v", channelID, err)
		perms = 0
	}
	return &dispatch.Member{Permissions: perms}
}

func componentKind(t discordgo.ComponentType) dispatch.ComponentKind {
	if t == discordgo.ButtonComponent {
		return dispatch.ComponentButton
	}
	// String, user, role, mentionable and channel selects all dispatch as
	// select components.
	return dispatch.ComponentSelect
}
