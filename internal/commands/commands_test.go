package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/pkg/dispatch"
)

func TestDefinitionsAllRegister(t *testing.T) {
	reg := dispatch.NewRegistry("General")
	for _, c := range Definitions(Deps{}, reg) {
		if err := reg.Register(c); err != nil {
			t.Errorf("Register(%s): %v", c.Name, err)
		}
	}

	for _, name := range []string{"ping", "help", "roll", "say", "userinfo", "prefix", "task", "taskroles", "feedback", "history"} {
		if _, ok := reg.Get(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestHoldsAny(t *testing.T) {
	tests := []struct {
		name   string
		member *dispatch.Member
		gate   []string
		want   bool
	}{
		{"nil member", nil, []string{"r1"}, false},
		{"no overlap", &dispatch.Member{Roles: []string{"r1"}}, []string{"r2", "r3"}, false},
		{"overlap", &dispatch.Member{Roles: []string{"r1", "r2"}}, []string{"r2"}, true},
		{"no roles", &dispatch.Member{}, []string{"r1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &dispatch.Invocation{Member: tt.member}
			if got := holdsAny(inv, tt.gate); got != tt.want {
				t.Errorf("holdsAny() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModalInputValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: feedbackModalID,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: "feedback_text", Value: "more dice commands please"},
				},
			},
		},
	}

	if got := modalInputValue(data, "feedback_text"); got != "more dice commands please" {
		t.Errorf("modalInputValue() = %q", got)
	}
	if got := modalInputValue(data, "absent"); got != "" {
		t.Errorf("modalInputValue(absent) = %q, want empty", got)
	}
}

func TestArgHelpers(t *testing.T) {
	inv := &dispatch.Invocation{Args: dispatch.Args{
		"sides":   dispatch.Int(20),
		"verbose": dispatch.Bool(true),
		"text":    dispatch.String("hello"),
		"user":    dispatch.Ref(dispatch.KindUser, "123"),
	}}

	if got := argInt(inv, "sides", 6); got != 20 {
		t.Errorf("argInt = %d", got)
	}
	if got := argInt(inv, "missing", 6); got != 6 {
		t.Errorf("argInt default = %d", got)
	}
	if !argBool(inv, "verbose", false) {
		t.Error("argBool = false")
	}
	if got := argString(inv, "text", ""); got != "hello" {
		t.Errorf("argString = %q", got)
	}
	if id, ok := argRef(inv, "user"); !ok || id != "123" {
		t.Errorf("argRef = %q, %v", id, ok)
	}
	if _, ok := argRef(inv, "missing"); ok {
		t.Error("argRef(missing) reported present")
	}
}
