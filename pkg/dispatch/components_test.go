package dispatch

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"
)

func newTestComponents(t *testing.T) (*Components, *recordingResponder, *fixedClock) {
	t.Helper()
	ledger, clock := newTestLedger()
	resp := &recordingResponder{}
	return NewComponents(ledger, resp), resp, clock
}

func componentInvocation(id string) *Invocation {
	return &Invocation{
		Mode:        ModeInteraction,
		ComponentID: id,
		AuthorID:    "U1",
		GuildID:     "G1",
		ChannelID:   "C1",
	}
}

func TestHandleExactMatch(t *testing.T) {
	c, _, _ := newTestComponents(t)
	ran := false
	c.Register(&Component{
		ID:   "close_menu",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = true
			if captures != nil {
				t.Errorf("exact match carried captures: %v", captures)
			}
			return nil
		},
	})

	out := c.Handle(context.Background(), ComponentButton, componentInvocation("close_menu"))
	if out.Kind != OutcomeInvoked {
		t.Fatalf("outcome = %v, want invoked", out.Kind)
	}
	if !ran {
		t.Error("handler did not run")
	}
}

func TestHandlePatternCaptures(t *testing.T) {
	c, _, _ := newTestComponents(t)
	var got []string
	c.RegisterPattern(&PatternComponent{
		Pattern: regexp.MustCompile(`^page_(\d+)_of_(\d+)$`),
		Kind:    ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			got = captures
			return nil
		},
	})

	out := c.Handle(context.Background(), ComponentButton, componentInvocation("page_3_of_10"))
	if out.Kind != OutcomeInvoked {
		t.Fatalf("outcome = %v, want invoked", out.Kind)
	}
	if !reflect.DeepEqual(got, []string{"3", "10"}) {
		t.Errorf("captures = %v, want [3 10]", got)
	}
}

// When an exact id and a pattern both cover an identifier, only the exact
// handler runs.
func TestHandleExactBeatsPattern(t *testing.T) {
	c, _, _ := newTestComponents(t)
	var ran string
	c.Register(&Component{
		ID:   "close_menu",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "exact"
			return nil
		},
	})
	c.RegisterPattern(&PatternComponent{
		Pattern: regexp.MustCompile(`^close_.*$`),
		Kind:    ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "pattern"
			return nil
		},
	})

	c.Handle(context.Background(), ComponentButton, componentInvocation("close_menu"))
	if ran != "exact" {
		t.Errorf("ran = %q, want exact", ran)
	}

	// A miss on the exact map falls through to the pattern.
	ran = ""
	c.Handle(context.Background(), ComponentButton, componentInvocation("close_other"))
	if ran != "pattern" {
		t.Errorf("ran = %q, want pattern", ran)
	}
}

func TestHandleFirstRegisteredPatternWins(t *testing.T) {
	c, _, _ := newTestComponents(t)
	var ran string
	c.RegisterPattern(&PatternComponent{
		Pattern: regexp.MustCompile(`^vote_`),
		Kind:    ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "first"
			return nil
		},
	})
	c.RegisterPattern(&PatternComponent{
		Pattern: regexp.MustCompile(`^vote_(\d+)$`),
		Kind:    ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "second"
			return nil
		},
	})

	c.Handle(context.Background(), ComponentButton, componentInvocation("vote_7"))
	if ran != "first" {
		t.Errorf("ran = %q, want first (registration order)", ran)
	}
}

func TestHandleKindsAreSeparate(t *testing.T) {
	c, _, _ := newTestComponents(t)
	c.Register(&Component{
		ID:   "pick",
		Kind: ComponentSelect,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			return nil
		},
	})

	if out := c.Handle(context.Background(), ComponentButton, componentInvocation("pick")); out.Kind != OutcomeNotFound {
		t.Errorf("button lookup hit a select component: %v", out.Kind)
	}
	if out := c.Handle(context.Background(), ComponentSelect, componentInvocation("pick")); out.Kind != OutcomeInvoked {
		t.Errorf("select lookup outcome = %v, want invoked", out.Kind)
	}
}

func TestHandleCooldown(t *testing.T) {
	c, resp, clock := newTestComponents(t)
	c.Register(&Component{
		ID:       "task_done",
		Kind:     ComponentButton,
		Cooldown: 10 * time.Second,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			return nil
		},
	})

	if out := c.Handle(context.Background(), ComponentButton, componentInvocation("task_done")); out.Kind != OutcomeInvoked {
		t.Fatalf("first outcome = %v, want invoked", out.Kind)
	}

	clock.advance(4 * time.Second)
	out := c.Handle(context.Background(), ComponentButton, componentInvocation("task_done"))
	if out.Kind != OutcomeCooldown {
		t.Fatalf("second outcome = %v, want cooldown", out.Kind)
	}
	if out.Remaining != 6 {
		t.Errorf("remaining = %d, want 6", out.Remaining)
	}
	if resp.last(t).Kind != OutcomeCooldown {
		t.Error("cooldown denial was not delivered")
	}
}

// Handler errors and panics are contained on the component path and
// acknowledged as a generic fault.
func TestHandleContainsFaults(t *testing.T) {
	c, resp, _ := newTestComponents(t)
	c.Register(&Component{
		ID:   "bad_error",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			return errors.New("boom")
		},
	})
	c.Register(&Component{
		ID:   "bad_panic",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			panic("kaboom")
		},
	})

	for _, id := range []string{"bad_error", "bad_panic"} {
		out := c.Handle(context.Background(), ComponentButton, componentInvocation(id))
		if out.Kind != OutcomeFault {
			t.Errorf("%s: outcome = %v, want fault", id, out.Kind)
		}
		if resp.last(t).Kind != OutcomeFault {
			t.Errorf("%s: fault acknowledgment not delivered", id)
		}
	}
}

func TestRegisterOverwritesExactID(t *testing.T) {
	c, _, _ := newTestComponents(t)
	var ran string
	c.Register(&Component{
		ID:   "dup",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "old"
			return nil
		},
	})
	c.Register(&Component{
		ID:   "dup",
		Kind: ComponentButton,
		Run: func(ctx context.Context, inv *Invocation, captures []string) error {
			ran = "new"
			return nil
		},
	})

	c.Handle(context.Background(), ComponentButton, componentInvocation("dup"))
	if ran != "new" {
		t.Errorf("ran = %q, want the overwriting handler", ran)
	}
}

func TestRegisterSkipsMalformed(t *testing.T) {
	c, _, _ := newTestComponents(t)
	c.Register(nil)
	c.Register(&Component{Kind: ComponentButton, Run: func(ctx context.Context, inv *Invocation, captures []string) error { return nil }})
	c.Register(&Component{ID: "x", Kind: ComponentButton})
	c.RegisterPattern(nil)
	c.RegisterPattern(&PatternComponent{Kind: ComponentButton})

	if out := c.Handle(context.Background(), ComponentButton, componentInvocation("x")); out.Kind != OutcomeNotFound {
		t.Error("malformed definition was registered")
	}
}
