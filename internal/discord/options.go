package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/pkg/dispatch"
)

// interactionArgs converts slash command options into the typed argument
// bag. These values were already validated platform-side against the
// published definition, so no re-validation happens here. A single level of
// subcommand nesting is flattened under the "subcommand" key.
func interactionArgs(data discordgo.ApplicationCommandInteractionData) dispatch.Args {
	args := make(dispatch.Args)

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		args["subcommand"] = dispatch.Subcommand(opts[0].Name)
		opts = opts[0].Options
	}

	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionString:
			args[o.Name] = dispatch.String(o.StringValue())
		case discordgo.ApplicationCommandOptionInteger:
			args[o.Name] = dispatch.Int(o.IntValue())
		case discordgo.ApplicationCommandOptionNumber:
			args[o.Name] = dispatch.Number(o.FloatValue())
		case discordgo.ApplicationCommandOptionBoolean:
			args[o.Name] = dispatch.Bool(o.BoolValue())
		case discordgo.ApplicationCommandOptionUser:
			args[o.Name] = dispatch.Ref(dispatch.KindUser, rawID(o))
		case discordgo.ApplicationCommandOptionChannel:
			args[o.Name] = dispatch.Ref(dispatch.KindChannel, rawID(o))
		case discordgo.ApplicationCommandOptionRole:
			args[o.Name] = dispatch.Ref(dispatch.KindRole, rawID(o))
		case discordgo.ApplicationCommandOptionMentionable:
			args[o.Name] = dispatch.Ref(dispatch.KindMentionable, rawID(o))
		case discordgo.ApplicationCommandOptionAttachment:
			args[o.Name] = dispatch.Ref(dispatch.KindAttachment, rawID(o))
		}
	}
	return args
}

// rawID extracts the snowflake an entity option carries without resolving
// the entity; resolution stays with the handler and its session.
func rawID(o *discordgo.ApplicationCommandInteractionDataOption) string {
	id, _ := o.Value.(string)
	return id
}
