package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/util"
)

func userinfoCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "userinfo",
		Aliases:     []string{"whois"},
		Description: "Show details about a server member.",
		Category:    "General",
		Permissions: &dispatch.Rules{GuildOnly: true},
		Args: []dispatch.ArgSpec{
			{
				Name:        "user",
				Description: "The member to look up",
				Kind:        dispatch.KindUser,
				Required:    true,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			userID, _ := argRef(inv, "user")

			member, err := bc.Session.State.Member(inv.GuildID, userID)
			if err != nil {
				member, err = bc.Session.GuildMember(inv.GuildID, userID)
				if err != nil {
					return respondEmbedEphemeral(inv, &discordgo.MessageEmbed{
						Description: "Couldn't find that member in this server.",
						Color:       bot.EmbedColor,
					})
				}
			}

			joined := util.FormatDateTpl(member.JoinedAt.UnixMilli(), "YYYY-MM-DD hh:mm")
			name := member.User.Username
			if member.Nick != "" {
				name = fmt.Sprintf("%s (%s)", member.Nick, member.User.Username)
			}

			var roles string
			if len(member.Roles) > 0 {
				roles = "<@&" + strings.Join(member.Roles, ">, <@&") + ">"
			} else {
				roles = "none"
			}

			return respondEmbed(inv, &discordgo.MessageEmbed{
				Title: name,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "ID", Value: member.User.ID, Inline: true},
					{Name: "Joined", Value: joined, Inline: true},
					{Name: "Roles", Value: roles},
				},
				Thumbnail: &discordgo.MessageEmbedThumbnail{URL: member.User.AvatarURL("128")},
				Color:     bot.EmbedColor,
			})
		},
	}
}
