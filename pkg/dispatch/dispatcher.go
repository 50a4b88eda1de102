package dispatch

import (
	"context"
	"fmt"
	"log"
)

// Dispatcher owns the command registry, the cooldown ledger and the
// permission evaluator, and runs the resolve, cooldown, permission, coerce,
// invoke pipeline for every inbound invocation.
type Dispatcher struct {
	registry  *Registry
	ledger    *CooldownLedger
	perms     *PermissionEvaluator
	responder Responder

	// ignoreBots drops every bot-authored invocation before resolution.
	ignoreBots bool
}

// NewDispatcher wires a dispatcher from its owned collaborators. The
// responder may be nil (tests); outcomes are then computed but not
// delivered. Bot-authored invocations are ignored.
func NewDispatcher(registry *Registry, ledger *CooldownLedger, perms *PermissionEvaluator, responder Responder) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		ledger:     ledger,
		perms:      perms,
		responder:  responder,
		ignoreBots: true,
	}
}

// Registry returns the dispatcher's command registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Ledger returns the dispatcher's cooldown ledger, shared with the
// component dispatcher so both kinds of subject key live in one place.
func (d *Dispatcher) Ledger() *CooldownLedger { return d.ledger }

// Dispatch runs one invocation through the pipeline and reports its
// outcome. Expected failures (not-found, cooldown, denial, violations) are
// outcomes and trigger a responder call; responder errors are logged, never
// propagated. A handler's error is returned to the caller uncontained: a
// faulting command handler is the process supervisor's problem, not the
// dispatcher's. Bot-authored invocations are dropped with no response.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invocation) (*Outcome, error) {
	if d.ignoreBots && inv.AuthorIsBot {
		return &Outcome{Kind: OutcomeIgnored, Command: inv.Command}, nil
	}

	cmd, ok := d.registry.Resolve(inv.Command)
	if ok && wrongMode(cmd, inv.Mode) {
		// A wrong-mode hit reads as unknown, without suggestions: the name
		// exists, so near-miss hints would only mislead.
		out := &Outcome{Kind: OutcomeNotFound, Command: inv.Command}
		d.respond(ctx, inv, out)
		return out, nil
	}
	if !ok {
		out := &Outcome{
			Kind:        OutcomeNotFound,
			Command:     inv.Command,
			Suggestions: d.registry.Suggest(inv.Command),
		}
		d.respond(ctx, inv, out)
		return out, nil
	}

	if active, remaining := d.ledger.Apply(cmd.Name, inv.AuthorID, cmd.Cooldown); active {
		out := &Outcome{Kind: OutcomeCooldown, Command: cmd.Name, Remaining: remaining}
		d.respond(ctx, inv, out)
		return out, nil
	}

	if denial := d.perms.Evaluate(cmd.Permissions, inv); denial != nil {
		out := &Outcome{Kind: OutcomeDenied, Command: cmd.Name, Denial: denial}
		d.respond(ctx, inv, out)
		return out, nil
	}

	if inv.Mode == ModeMessage {
		args, violations, err := Coerce(cmd.Args, inv.Tokens)
		if err != nil {
			return nil, fmt.Errorf("coerce arguments of %q: %w", cmd.Name, err)
		}
		if len(violations) > 0 {
			out := &Outcome{Kind: OutcomeViolations, Command: cmd.Name, Violations: violations}
			d.respond(ctx, inv, out)
			return out, nil
		}
		inv.Args = args
	}

	out := &Outcome{Kind: OutcomeInvoked, Command: cmd.Name}
	if err := cmd.Run(ctx, inv); err != nil {
		return out, fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	return out, nil
}

func wrongMode(cmd *Command, mode Mode) bool {
	return (cmd.InteractionOnly && mode == ModeMessage) ||
		(cmd.MessageOnly && mode == ModeInteraction)
}

func (d *Dispatcher) respond(ctx context.Context, inv *Invocation, out *Outcome) {
	if d.responder == nil {
		return
	}
	if err := d.responder.Respond(ctx, inv, out); err != nil {
		log.Printf("[WARN] Failed to deliver %s outcome for %q: %v", out.Kind, out.Command, err)
	}
}
