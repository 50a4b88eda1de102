package commands

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

const (
	helpCategorySelectID = "help_category"
	helpExpiry           = 3 * time.Minute
)

var helpPagePattern = regexp.MustCompile(`^help_page_(\d+)_of_(\d+)$`)

// help shows one category per page, flipped with buttons or jumped to with
// a select menu. The controls are disarmed after a few minutes so stale
// messages don't accumulate live callbacks forever.
func helpCommand(d Deps, reg *dispatch.Registry) *dispatch.Command {
	return &dispatch.Command{
		Name:        "help",
		Aliases:     []string{"h"},
		Description: "List available commands, or show details for one.",
		Category:    "General",
		Args: []dispatch.ArgSpec{
			{
				Name:        "command",
				Description: "Show details for this command",
				Kind:        dispatch.KindString,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}

			if name := argString(inv, "command", ""); name != "" {
				return respondEmbed(inv, commandDetailEmbed(reg, name))
			}

			pages := helpPages(reg)
			embed := helpPageEmbed(pages, 0)
			controls := helpControls(pages, 0)

			if inv.Mode == dispatch.ModeInteraction {
				if err := bc.RespondEmbedWithComponents(embed, controls); err != nil {
					return err
				}
				session, interaction := bc.Session, bc.Interaction
				_ = d.Jobs.After("help:expire:"+interaction.ID, helpExpiry, func() {
					_, _ = session.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{
						Components: &[]discordgo.MessageComponent{},
					})
				})
				return nil
			}

			msg, err := bc.Session.ChannelMessageSendComplex(inv.ChannelID, &discordgo.MessageSend{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: controls,
			})
			if err != nil {
				return err
			}
			session, channelID := bc.Session, inv.ChannelID
			_ = d.Jobs.After("help:expire:"+msg.ID, helpExpiry, func() {
				_, _ = session.ChannelMessageEditComplex(&discordgo.MessageEdit{
					ID:         msg.ID,
					Channel:    channelID,
					Components: &[]discordgo.MessageComponent{},
				})
			})
			return nil
		},
	}
}

// helpPageComponent flips between category pages. The target page and page
// count ride in the identifier itself, captured by the pattern.
func helpPageComponent(d Deps, reg *dispatch.Registry) *dispatch.PatternComponent {
	return &dispatch.PatternComponent{
		Pattern: helpPagePattern,
		Kind:    dispatch.ComponentButton,
		Run: func(ctx context.Context, inv *dispatch.Invocation, captures []string) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			page, err := strconv.Atoi(captures[0])
			if err != nil {
				return fmt.Errorf("bad page capture %q: %w", captures[0], err)
			}

			pages := helpPages(reg)
			// Page numbers in identifiers are 1-based; clamp in case the
			// command set changed since the message was sent.
			idx := page - 1
			if idx < 0 {
				idx = 0
			}
			if idx >= len(pages) {
				idx = len(pages) - 1
			}
			return bc.UpdateEmbedWithComponents(helpPageEmbed(pages, idx), helpControls(pages, idx))
		},
	}
}

// helpCategoryComponent jumps straight to the selected category's page.
func helpCategoryComponent(d Deps, reg *dispatch.Registry) *dispatch.Component {
	return &dispatch.Component{
		ID:   helpCategorySelectID,
		Kind: dispatch.ComponentSelect,
		Run: func(ctx context.Context, inv *dispatch.Invocation, _ []string) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			values := bc.Interaction.MessageComponentData().Values
			if len(values) == 0 {
				return nil
			}

			pages := helpPages(reg)
			idx := 0
			for i, p := range pages {
				if p.category == values[0] {
					idx = i
					break
				}
			}
			return bc.UpdateEmbedWithComponents(helpPageEmbed(pages, idx), helpControls(pages, idx))
		},
	}
}

type helpPage struct {
	category string
	body     string
}

// helpPages groups registered commands by category, one page per category,
// categories and commands both alphabetical.
func helpPages(reg *dispatch.Registry) []helpPage {
	byCategory := make(map[string][]*dispatch.Command)
	for _, c := range reg.All() {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	pages := make([]helpPage, 0, len(categories))
	for _, cat := range categories {
		var sb strings.Builder
		for _, c := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("`%s` - %s\n", c.Name, c.Description))
		}
		pages = append(pages, helpPage{category: cat, body: sb.String()})
	}
	return pages
}

func helpPageEmbed(pages []helpPage, idx int) *discordgo.MessageEmbed {
	p := pages[idx]
	return &discordgo.MessageEmbed{
		Title:       "📖 " + p.category,
		Description: p.body,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", idx+1, len(pages)),
		},
		Color: bot.EmbedColor,
	}
}

func helpControls(pages []helpPage, idx int) []discordgo.MessageComponent {
	total := len(pages)
	options := make([]discordgo.SelectMenuOption, total)
	for i, p := range pages {
		options[i] = discordgo.SelectMenuOption{
			Label:   p.category,
			Value:   p.category,
			Default: i == idx,
		}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Prev",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("help_page_%d_of_%d", idx, total),
					Disabled: idx == 0,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("help_page_%d_of_%d", idx+2, total),
					Disabled: idx == total-1,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID: helpCategorySelectID,
					Options:  options,
				},
			},
		},
	}
}

// commandDetailEmbed renders one command's full help, or near-miss
// suggestions when the name doesn't resolve.
func commandDetailEmbed(reg *dispatch.Registry, name string) *discordgo.MessageEmbed {
	c, ok := reg.Resolve(name)
	if !ok {
		desc := fmt.Sprintf("No command named `%s`.", name)
		if sug := reg.Suggest(name); len(sug) > 0 {
			desc += fmt.Sprintf(" Did you mean `%s`?", strings.Join(sug, "`, `"))
		}
		return &discordgo.MessageEmbed{Description: desc, Color: bot.EmbedColor}
	}

	var sb strings.Builder
	sb.WriteString(c.Description + "\n")
	if len(c.Aliases) > 0 {
		sb.WriteString(fmt.Sprintf("\nAliases: `%s`\n", strings.Join(c.Aliases, "`, `")))
	}
	if c.Cooldown > 0 {
		sb.WriteString(fmt.Sprintf("Cooldown: %s\n", c.Cooldown))
	}
	if len(c.Args) > 0 {
		sb.WriteString("\nArguments:\n")
		for _, a := range c.Args {
			marker := "optional"
			if a.Required {
				marker = "required"
			}
			sb.WriteString(fmt.Sprintf("• `%s` (%s, %s) - %s\n", a.Name, a.Kind, marker, a.Description))
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "/" + c.Name,
		Description: sb.String(),
		Color:       bot.EmbedColor,
	}
}
