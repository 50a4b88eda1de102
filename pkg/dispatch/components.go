package dispatch

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"
)

// ComponentKind identifies the UI element a callback originates from.
type ComponentKind int

const (
	ComponentButton ComponentKind = iota
	ComponentSelect
	ComponentModal
)

var componentKindNames = map[ComponentKind]string{
	ComponentButton: "button",
	ComponentSelect: "select",
	ComponentModal:  "modal",
}

func (k ComponentKind) String() string {
	if name, ok := componentKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ComponentHandler executes a UI callback. captures holds the pattern's
// capture-group substrings in order; it is nil for exact-id components.
type ComponentHandler func(ctx context.Context, inv *Invocation, captures []string) error

// Component is an exact-id UI callback definition.
type Component struct {
	ID       string
	Kind     ComponentKind
	Cooldown time.Duration
	Run      ComponentHandler
}

// PatternComponent is a UI callback definition matched by regular expression
// against the inbound identifier instead of exact equality.
type PatternComponent struct {
	Pattern  *regexp.Regexp
	Kind     ComponentKind
	Cooldown time.Duration
	Run      ComponentHandler
}

// Components routes UI callbacks (buttons, select menus, modal submissions)
// to their registered handlers: an exact-id map per kind checked first, then
// an ordered pattern list where the first registered match wins. Both
// registries are populated at startup and append-only afterwards.
type Components struct {
	exact     map[ComponentKind]map[string]*Component
	patterns  map[ComponentKind][]*PatternComponent
	ledger    *CooldownLedger
	responder Responder
}

// NewComponents returns an empty component dispatcher sharing the given
// cooldown ledger.
func NewComponents(ledger *CooldownLedger, responder Responder) *Components {
	return &Components{
		exact:     make(map[ComponentKind]map[string]*Component),
		patterns:  make(map[ComponentKind][]*PatternComponent),
		ledger:    ledger,
		responder: responder,
	}
}

// Register adds an exact-id component. A malformed definition is skipped
// with a warning; re-registering an existing id overwrites the previous
// handler, also with a warning.
func (c *Components) Register(def *Component) {
	if def == nil || def.ID == "" || def.Run == nil {
		log.Printf("[WARN] Skipping component registration: missing id or handler")
		return
	}
	kind := c.exact[def.Kind]
	if kind == nil {
		kind = make(map[string]*Component)
		c.exact[def.Kind] = kind
	}
	if _, exists := kind[def.ID]; exists {
		log.Printf("[WARN] Component %q re-registered, previous handler overwritten", def.ID)
	}
	kind[def.ID] = def
}

// RegisterPattern appends a pattern component. Patterns are scanned in
// registration order on every exact-map miss.
func (c *Components) RegisterPattern(def *PatternComponent) {
	if def == nil || def.Pattern == nil || def.Run == nil {
		log.Printf("[WARN] Skipping pattern component registration: missing pattern or handler")
		return
	}
	c.patterns[def.Kind] = append(c.patterns[def.Kind], def)
}

// Handle dispatches one UI callback identified by inv.ComponentID. The
// exact map is consulted first; only on a miss is the pattern list scanned,
// and the first matching pattern's capture groups are handed to its handler.
// Cooldowns use the "component:" subject prefix; for a pattern, the subject
// is the pattern source, so all identifiers it matches share one cooldown.
// Handler faults, panics included, are contained here and acknowledged as a
// generic failure: one broken callback must not take down the dispatch loop
// for subsequent interactions.
func (c *Components) Handle(ctx context.Context, kind ComponentKind, inv *Invocation) *Outcome {
	id := inv.ComponentID

	var run ComponentHandler
	var subject string
	var cooldown time.Duration
	var captures []string

	if def, ok := c.exact[kind][id]; ok {
		run, subject, cooldown = def.Run, def.ID, def.Cooldown
	} else {
		for _, p := range c.patterns[kind] {
			if m := p.Pattern.FindStringSubmatch(id); m != nil {
				run, subject, cooldown = p.Run, p.Pattern.String(), p.Cooldown
				captures = m[1:]
				break
			}
		}
	}

	if run == nil {
		log.Printf("[WARN] No %s component matches id %q", kind, id)
		return &Outcome{Kind: OutcomeNotFound, Command: id}
	}

	if active, remaining := c.ledger.Apply(ComponentSubject(subject), inv.AuthorID, cooldown); active {
		out := &Outcome{Kind: OutcomeCooldown, Command: id, Remaining: remaining}
		c.respond(ctx, inv, out)
		return out
	}

	if err := c.invoke(ctx, run, inv, captures); err != nil {
		log.Printf("[ERR] Component %q handler failed: %v", id, err)
		out := &Outcome{Kind: OutcomeFault, Command: id}
		c.respond(ctx, inv, out)
		return out
	}
	return &Outcome{Kind: OutcomeInvoked, Command: id}
}

// invoke runs a component handler, converting a panic into an error so the
// containment above covers user code that blows up outright.
func (c *Components) invoke(ctx context.Context, run ComponentHandler, inv *Invocation, captures []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return run(ctx, inv, captures)
}

func (c *Components) respond(ctx context.Context, inv *Invocation, out *Outcome) {
	if c.responder == nil {
		return
	}
	if err := c.responder.Respond(ctx, inv, out); err != nil {
		log.Printf("[WARN] Failed to deliver %s outcome for component %q: %v", out.Kind, out.Command, err)
	}
}
