package commands

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

const feedbackModalID = "feedback_modal"

// feedback opens a modal; the submission comes back through the component
// dispatcher as a modal-kind callback.
func feedbackCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:            "feedback",
		Description:     "Send feedback to the bot operators.",
		Category:        "General",
		InteractionOnly: true,
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			return bc.RespondModal(feedbackModalID, "Send Feedback",
				[]discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							discordgo.TextInput{
								CustomID:    "feedback_text",
								Label:       "What's on your mind?",
								Style:       discordgo.TextInputParagraph,
								Placeholder: "Bugs, ideas, complaints...",
								Required:    true,
								MaxLength:   1000,
							},
						},
					},
				})
		},
	}
}

func feedbackModalComponent(d Deps) *dispatch.Component {
	return &dispatch.Component{
		ID:   feedbackModalID,
		Kind: dispatch.ComponentModal,
		Run: func(ctx context.Context, inv *dispatch.Invocation, _ []string) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}

			text := modalInputValue(bc.Interaction.ModalSubmitData(), "feedback_text")
			log.Printf("[INFO] Feedback from %s: %s", inv.AuthorID, text)

			return bc.ReplyEmbedEphemeral(&discordgo.MessageEmbed{
				Description: "Thanks, your feedback has been recorded.",
				Color:       bot.EmbedColor,
			})
		},
	}
}

// modalInputValue digs a text input's submitted value out of a modal payload.
func modalInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if in, ok := c.(*discordgo.TextInput); ok && in.CustomID == customID {
				return in.Value
			}
		}
	}
	return ""
}
