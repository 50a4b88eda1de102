package commands

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// WithUsageLog records every guild command invocation in the per-guild
// history after the handler runs. DM invocations and handler errors are
// not recorded; a failed write only warns.
func WithUsageLog(store *storage.Storage, name string) dispatch.Middleware {
	return func(next dispatch.Handler) dispatch.Handler {
		return func(ctx context.Context, inv *dispatch.Invocation) error {
			if err := next(ctx, inv); err != nil {
				return err
			}
			if inv.GuildID == "" {
				return nil
			}
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return nil
			}
			rec := storage.CommandHistoryRecord{
				ChannelID:   inv.ChannelID,
				ChannelName: channelName(bc.Session, inv.ChannelID),
				GuildName:   guildName(bc.Session, inv.GuildID),
				UserID:      inv.AuthorID,
				Username:    username(bc),
				Command:     name,
				Datetime:    time.Now(),
			}
			if err := store.AppendCommandToHistory(inv.GuildID, rec); err != nil {
				log.Printf("[WARN] Failed to log command %q: %v", name, err)
			}
			return nil
		}
	}
}

// channelName resolves a channel's display name, state cache first.
func channelName(s *discordgo.Session, channelID string) string {
	ch, err := s.State.Channel(channelID)
	if err != nil {
		ch, err = s.Channel(channelID)
		if err != nil {
			return ""
		}
	}
	return ch.Name
}

// guildName resolves a guild's display name, state cache first.
func guildName(s *discordgo.Session, guildID string) string {
	g, err := s.State.Guild(guildID)
	if err != nil {
		g, err = s.Guild(guildID)
		if err != nil {
			return ""
		}
	}
	return g.Name
}

func username(bc *bot.Context) string {
	switch {
	case bc.Message != nil && bc.Message.Author != nil:
		return bc.Message.Author.Username
	case bc.Interaction != nil && bc.Interaction.Member != nil && bc.Interaction.Member.User != nil:
		return bc.Interaction.Member.User.Username
	case bc.Interaction != nil && bc.Interaction.User != nil:
		return bc.Interaction.User.Username
	}
	return ""
}
