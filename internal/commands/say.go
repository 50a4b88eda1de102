package commands

import (
	"context"
	"log"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// say repeats the rest of the message as the bot. Message-only: the trailing
// string argument swallows everything after the command name, which has no
// slash equivalent worth keeping.
func sayCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "say",
		Description: "Make the bot say something.",
		Category:    "Admin",
		MessageOnly: true,
		Permissions: &dispatch.Rules{OwnerOnly: true},
		Args: []dispatch.ArgSpec{
			{
				Name:        "text",
				Description: "What the bot should say",
				Kind:        dispatch.KindString,
				Required:    true,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			if err := bc.Session.ChannelMessageDelete(inv.ChannelID, inv.MessageID); err != nil {
				log.Printf("[WARN] Failed to delete say invocation: %v", err)
			}
			return bot.Message(bc.Session, inv.ChannelID, argString(inv, "text", ""))
		},
	}
}
