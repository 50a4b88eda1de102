package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/jobmgr"
)

// selfDeleteAfter is how long message-mode outcome replies stay before the
// job manager deletes them.
const selfDeleteAfter = 10 * time.Second

// Responder renders dispatch outcomes to Discord: ephemeral embeds for
// interactions, self-deleting embeds for prefixed messages. The dispatch
// core decides whether and with what to reply; everything visual lives here.
type Responder struct {
	jobs *jobmgr.Manager
}

// NewResponder returns a Responder using jobs for delayed message cleanup.
func NewResponder(jobs *jobmgr.Manager) *Responder {
	return &Responder{jobs: jobs}
}

// Respond implements dispatch.Responder.
func (r *Responder) Respond(ctx context.Context, inv *dispatch.Invocation, out *dispatch.Outcome) error {
	bc, ok := bot.FromInvocation(inv)
	if !ok {
		return fmt.Errorf("invocation without adapter context")
	}

	embed := outcomeEmbed(out)
	if embed == nil {
		return nil
	}

	if inv.Mode == dispatch.ModeInteraction {
		// A handler may have acknowledged the interaction before failing;
		// ReplyEmbedEphemeral falls back to a followup in that case.
		return bc.ReplyEmbedEphemeral(embed)
	}

	msg, err := bc.Session.ChannelMessageSendEmbed(inv.ChannelID, embed)
	if err != nil {
		return err
	}
	session, channelID := bc.Session, inv.ChannelID
	_ = r.jobs.After("cleanup:"+msg.ID, selfDeleteAfter, func() {
		_ = session.ChannelMessageDelete(channelID, msg.ID)
	})
	return nil
}

// outcomeEmbed renders one outcome, or nil for outcomes that need no reply.
func outcomeEmbed(out *dispatch.Outcome) *discordgo.MessageEmbed {
	switch out.Kind {
	case dispatch.OutcomeNotFound:
		desc := fmt.Sprintf("Unknown command `%s`.", out.Command)
		if len(out.Suggestions) > 0 {
			desc += fmt.Sprintf(" Did you mean `%s`?", strings.Join(out.Suggestions, "`, `"))
		}
		return &discordgo.MessageEmbed{Description: desc, Color: bot.EmbedColor}

	case dispatch.OutcomeCooldown:
		return &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Slow down. Try `%s` again in %ds.", out.Command, out.Remaining),
			Color:       bot.EmbedColor,
		}

	case dispatch.OutcomeDenied:
		return &discordgo.MessageEmbed{Description: denialText(out.Denial), Color: bot.EmbedColor}

	case dispatch.OutcomeViolations:
		var sb strings.Builder
		sb.WriteString("That didn't work:\n")
		for _, v := range out.Violations {
			sb.WriteString(fmt.Sprintf("• `%s` (%s): %s\n", v.Name, v.Kind, violationText(v)))
		}
		return &discordgo.MessageEmbed{Description: sb.String(), Color: bot.EmbedColor}

	case dispatch.OutcomeFault:
		// No internal detail leaks to the user; the log has the rest.
		return &discordgo.MessageEmbed{
			Description: "Something went wrong handling that interaction.",
			Color:       bot.EmbedColor,
		}

	default:
		return nil
	}
}

func denialText(d *dispatch.Denial) string {
	if d == nil {
		return "You can't use this command here."
	}
	switch d.Code {
	case dispatch.DenyOwnerOnly:
		return "This command is reserved for the bot owner."
	case dispatch.DenyGuildOnly:
		return "This command only works inside a server."
	case dispatch.DenyDMOnly:
		return "This command only works in direct messages."
	case dispatch.DenyMissingRole:
		return "You need one of the required roles to use this command."
	case dispatch.DenyUserPermissions:
		return "You are missing permissions: " + permissionList(d.Missing)
	case dispatch.DenyBotPermissions:
		return "I am missing permissions: " + permissionList(d.Missing)
	default:
		return "You can't use this command here."
	}
}

func violationText(v dispatch.Violation) string {
	switch v.Code {
	case dispatch.ViolationAbsent:
		return "missing or invalid"
	case dispatch.ViolationChoice:
		return "not one of the allowed values"
	case dispatch.ViolationTooShort:
		return "too short"
	case dispatch.ViolationTooLong:
		return "too long"
	case dispatch.ViolationRange:
		return "out of range"
	default:
		return "invalid"
	}
}
