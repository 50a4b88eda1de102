// Package commands defines the bot's command set and its UI component
// handlers on top of the dispatch engine. Each command lives in its own
// file with a constructor taking shared dependencies.
package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/internal/config"
	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/jobmgr"
)

// Deps carries the shared collaborators every command constructor receives.
type Deps struct {
	Cfg   *config.Config
	Store *storage.Storage
	Jobs  *jobmgr.Manager
}

var errNoContext = errors.New("invocation without adapter context")

// respondEmbed sends an embed back on whichever channel the invocation
// arrived on: an interaction response or a plain channel message.
func respondEmbed(inv *dispatch.Invocation, embed *discordgo.MessageEmbed) error {
	bc, ok := bot.FromInvocation(inv)
	if !ok {
		return errNoContext
	}
	if inv.Mode == dispatch.ModeInteraction {
		return bc.RespondEmbed(embed)
	}
	return bot.MessageEmbed(bc.Session, inv.ChannelID, embed)
}

// respondEmbedEphemeral is respondEmbed with the ephemeral flag where the
// platform supports it; message mode degrades to a normal channel message.
func respondEmbedEphemeral(inv *dispatch.Invocation, embed *discordgo.MessageEmbed) error {
	bc, ok := bot.FromInvocation(inv)
	if !ok {
		return errNoContext
	}
	if inv.Mode == dispatch.ModeInteraction {
		return bc.ReplyEmbedEphemeral(embed)
	}
	return bot.MessageEmbed(bc.Session, inv.ChannelID, embed)
}

// argString returns a string argument or def when absent.
func argString(inv *dispatch.Invocation, name, def string) string {
	if v, ok := inv.Args[name]; ok {
		return v.Str
	}
	return def
}

// argInt returns an integer argument or def when absent.
func argInt(inv *dispatch.Invocation, name string, def int64) int64 {
	if v, ok := inv.Args[name]; ok {
		return v.Int
	}
	return def
}

// argBool returns a boolean argument or def when absent.
func argBool(inv *dispatch.Invocation, name string, def bool) bool {
	if v, ok := inv.Args[name]; ok {
		return v.Bool
	}
	return def
}

// argRef returns the raw identifier of a reference argument.
func argRef(inv *dispatch.Invocation, name string) (string, bool) {
	v, ok := inv.Args[name]
	if !ok {
		return "", false
	}
	return v.Ref, true
}
