package commands

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

func rollCommand(d Deps) *dispatch.Command {
	minSides := 2.0
	maxSides := 1000.0
	return &dispatch.Command{
		Name:        "roll",
		Description: "Roll a die.",
		Category:    "Fun",
		Args: []dispatch.ArgSpec{
			{
				Name:        "sides",
				Description: "Number of sides on the die (default 6)",
				Kind:        dispatch.KindInteger,
				MinValue:    &minSides,
				MaxValue:    &maxSides,
			},
			{
				Name:        "verbose",
				Description: "Show the die that was rolled",
				Kind:        dispatch.KindBoolean,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			sides := argInt(inv, "sides", 6)
			result := rand.Intn(int(sides)) + 1

			desc := fmt.Sprintf("You rolled **%d**", result)
			if argBool(inv, "verbose", false) {
				desc = fmt.Sprintf("You rolled a d%d and got **%d**", sides, result)
			}
			return respondEmbed(inv, &discordgo.MessageEmbed{
				Title:       "🎲 Dice Roll",
				Description: desc,
				Color:       bot.EmbedColor,
			})
		},
	}
}
