// Package bot carries the adapter payload and discordgo reply helpers
// shared by command handlers and the Discord event layer, so handlers never
// import the event layer directly.
package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/jobmgr"
)

// EmbedColor is the accent color used across the bot's embeds.
const EmbedColor = 0x5865f2

// Context is the adapter payload carried in dispatch.Invocation.Data.
// Exactly one of Message and Interaction is set, matching the invocation
// mode; components and modals always carry Interaction.
type Context struct {
	Session     *discordgo.Session
	Message     *discordgo.MessageCreate
	Interaction *discordgo.InteractionCreate
	Store       *storage.Storage
	Jobs        *jobmgr.Manager

	// Reply points at the invocation's ReplyState. The reply helpers
	// advance it on every successful interaction response, so later
	// senders know whether the interaction is already acknowledged.
	Reply *dispatch.ReplyState
}

// FromInvocation extracts the adapter context from an invocation.
func FromInvocation(inv *dispatch.Invocation) (*Context, bool) {
	c, ok := inv.Data.(*Context)
	return c, ok
}

func (c *Context) replyState() dispatch.ReplyState {
	if c.Reply == nil {
		return dispatch.ReplyNone
	}
	return *c.Reply
}

func (c *Context) markReply(s dispatch.ReplyState) {
	if c.Reply != nil {
		*c.Reply = s
	}
}

// NeedsFollowup reports whether the interaction was already acknowledged,
// meaning any further reply must go out as a followup message.
func (c *Context) NeedsFollowup() bool {
	return c.replyState() != dispatch.ReplyNone
}
