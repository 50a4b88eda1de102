package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// --- Interaction responses ---

func (c *Context) respond(r *discordgo.InteractionResponse, state dispatch.ReplyState) error {
	if err := c.Session.InteractionRespond(c.Interaction.Interaction, r); err != nil {
		return err
	}
	c.markReply(state)
	return nil
}

// RespondEmbed sends a public embed response to an interaction.
func (c *Context) RespondEmbed(embed *discordgo.MessageEmbed) error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}, dispatch.ReplySent)
}

// RespondEmbedEphemeral sends an ephemeral embed response to an interaction.
func (c *Context) RespondEmbedEphemeral(embed *discordgo.MessageEmbed) error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}, dispatch.ReplySent)
}

// RespondEmbedWithComponents sends a public embed with message components
// (buttons, select menus) attached.
func (c *Context) RespondEmbedWithComponents(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}, dispatch.ReplySent)
}

// UpdateEmbedWithComponents edits the message a component interaction
// originated from, replacing its embed and components in place.
func (c *Context) UpdateEmbedWithComponents(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}, dispatch.ReplySent)
}

// RespondModal opens a modal in response to an interaction.
func (c *Context) RespondModal(customID, title string, components []discordgo.MessageComponent) error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: components,
		},
	}, dispatch.ReplySent)
}

// RespondDeferredEphemeral acknowledges an interaction ephemerally without
// an immediate reply. The answer follows as a followup message.
func (c *Context) RespondDeferredEphemeral() error {
	return c.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, dispatch.ReplyDeferred)
}

// --- Followup messages ---

// FollowupEmbedEphemeral sends an ephemeral embed followup message.
func (c *Context) FollowupEmbedEphemeral(embed *discordgo.MessageEmbed) error {
	_, err := c.Session.FollowupMessageCreate(c.Interaction.Interaction, true, &discordgo.WebhookParams{
		Flags:  discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return err
	}
	c.markReply(dispatch.ReplySent)
	return nil
}

// ReplyEmbedEphemeral sends an ephemeral embed through whichever channel
// the interaction still accepts: an initial response while unacknowledged,
// a followup once the interaction was responded to or deferred.
func (c *Context) ReplyEmbedEphemeral(embed *discordgo.MessageEmbed) error {
	if c.NeedsFollowup() {
		return c.FollowupEmbedEphemeral(embed)
	}
	return c.RespondEmbedEphemeral(embed)
}

// --- Channel messages (non-interaction) ---

// Message sends a plain text message to a channel.
func Message(s *discordgo.Session, channelID, content string) error {
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}

// MessageEmbed sends an embed to a channel.
func MessageEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.ChannelMessageSendEmbed(channelID, embed)
	return err
}
