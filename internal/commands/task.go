package commands

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/internal/storage"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

var chores = map[string][]string{
	"easy": {
		"Tidy your desk.",
		"Drink a glass of water.",
		"Stand up and stretch for two minutes.",
	},
	"normal": {
		"Take a 15 minute walk outside.",
		"Clean out one drawer.",
		"Write down three things you're grateful for.",
	},
	"hard": {
		"Go for a 30 minute run.",
		"Declutter an entire room.",
		"Spend an hour on that project you keep avoiding.",
	},
}

// task assigns a random chore. Access is gated by a configurable role list
// held in storage; the gate is a runtime lookup, so it lives in the handler
// rather than in the static permission rules.
func taskCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "task",
		Description: "Get a random task to complete.",
		Category:    "Fun",
		Cooldown:    30 * time.Minute,
		Permissions: &dispatch.Rules{GuildOnly: true},
		Args: []dispatch.ArgSpec{
			{
				Name:        "difficulty",
				Description: "How hard should it be (default normal)",
				Kind:        dispatch.KindString,
				Choices:     []string{"easy", "normal", "hard"},
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}

			gateRoles, err := d.Store.TaskRoles(inv.GuildID)
			if err != nil {
				return fmt.Errorf("failed to load task roles: %w", err)
			}
			if len(gateRoles) > 0 && !holdsAny(inv, gateRoles) {
				return respondEmbedEphemeral(inv, &discordgo.MessageEmbed{
					Description: "You need one of the task roles to play. Ask an admin.",
					Color:       bot.EmbedColor,
				})
			}

			if existing, err := d.Store.GetUserTask(inv.GuildID, inv.AuthorID); err == nil &&
				existing != nil && existing.Status == "pending" {
				return respondEmbedEphemeral(inv, &discordgo.MessageEmbed{
					Description: fmt.Sprintf("You already have a task pending:\n> %s", existing.TaskText),
					Color:       bot.EmbedColor,
				})
			}

			difficulty := argString(inv, "difficulty", "normal")
			pool := chores[difficulty]
			text := pool[rand.Intn(len(pool))]

			err = d.Store.SetUserTask(inv.GuildID, inv.AuthorID, storage.UserTask{
				UserID:     inv.AuthorID,
				TaskText:   text,
				Difficulty: difficulty,
				AssignedAt: time.Now(),
				Status:     "pending",
			})
			if err != nil {
				return fmt.Errorf("failed to store task: %w", err)
			}

			embed := &discordgo.MessageEmbed{
				Title:       "📋 Your Task",
				Description: fmt.Sprintf("<@%s>, your %s task:\n> %s", inv.AuthorID, difficulty, text),
				Color:       bot.EmbedColor,
			}
			buttons := []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Label: "Done", Style: discordgo.SuccessButton, CustomID: "task_done"},
						discordgo.Button{Label: "Give up", Style: discordgo.DangerButton, CustomID: "task_fail"},
					},
				},
			}

			if inv.Mode == dispatch.ModeInteraction {
				return bc.RespondEmbedWithComponents(embed, buttons)
			}
			_, err = bc.Session.ChannelMessageSendComplex(inv.ChannelID, &discordgo.MessageSend{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: buttons,
			})
			return err
		},
	}
}

// taskroles toggles a role in the task gate list.
func taskRolesCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "taskroles",
		Description: "Toggle a role's access to the task command.",
		Category:    "Admin",
		Permissions: &dispatch.Rules{
			GuildOnly:       true,
			UserPermissions: discordgo.PermissionManageServer,
		},
		Args: []dispatch.ArgSpec{
			{
				Name:        "role",
				Description: "The role to add or remove from the gate",
				Kind:        dispatch.KindRole,
				Required:    true,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			roleID, _ := argRef(inv, "role")

			roles, err := d.Store.TaskRoles(inv.GuildID)
			if err != nil {
				return fmt.Errorf("failed to load task roles: %w", err)
			}

			verb := "added to"
			if i := slices.Index(roles, roleID); i >= 0 {
				roles = slices.Delete(roles, i, i+1)
				verb = "removed from"
			} else {
				roles = append(roles, roleID)
			}
			if err := d.Store.SetTaskRoles(inv.GuildID, roles); err != nil {
				return fmt.Errorf("failed to store task roles: %w", err)
			}

			return respondEmbed(inv, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("<@&%s> %s the task gate. %d role(s) gated.", roleID, verb, len(roles)),
				Color:       bot.EmbedColor,
			})
		},
	}
}

func taskDoneComponent(d Deps) *dispatch.Component {
	return taskResolveComponent(d, "task_done", "completed", "Task completed. Well done!")
}

func taskFailComponent(d Deps) *dispatch.Component {
	return taskResolveComponent(d, "task_fail", "failed", "Task abandoned. There's always next time.")
}

// taskResolveComponent closes out the pending task of whoever clicked. The
// short cooldown absorbs double clicks before the message updates.
func taskResolveComponent(d Deps, id, status, message string) *dispatch.Component {
	return &dispatch.Component{
		ID:       id,
		Kind:     dispatch.ComponentButton,
		Cooldown: 5 * time.Second,
		Run: func(ctx context.Context, inv *dispatch.Invocation, _ []string) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}

			task, err := d.Store.GetUserTask(inv.GuildID, inv.AuthorID)
			if err != nil || task == nil || task.Status != "pending" {
				return bc.ReplyEmbedEphemeral(&discordgo.MessageEmbed{
					Description: "You don't have a pending task.",
					Color:       bot.EmbedColor,
				})
			}

			task.Status = status
			if err := d.Store.SetUserTask(inv.GuildID, inv.AuthorID, *task); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}

			return bc.UpdateEmbedWithComponents(&discordgo.MessageEmbed{
				Title:       "📋 Your Task",
				Description: fmt.Sprintf("<@%s> %s\n> %s", inv.AuthorID, message, task.TaskText),
				Color:       bot.EmbedColor,
			}, []discordgo.MessageComponent{})
		},
	}
}

// holdsAny reports whether the invoking member holds at least one role.
func holdsAny(inv *dispatch.Invocation, roleIDs []string) bool {
	if inv.Member == nil {
		return false
	}
	for _, have := range inv.Member.Roles {
		if slices.Contains(roleIDs, have) {
			return true
		}
	}
	return false
}
