// Package dispatch provides a transport-agnostic command and component
// dispatch core: commands are resolved by name or alias (with typo-tolerant
// suggestions), gated by cooldowns and an ordered permission pipeline, and
// message-mode arguments are coerced against a typed schema before the
// handler runs. How invocations are produced and how outcomes are rendered
// (Discord, CLI, tests) is defined by adapters that wrap this package.
package dispatch

import (
	"context"
	"time"
)

// Handler executes a command for a single invocation.
type Handler func(ctx context.Context, inv *Invocation) error

// Command is a single registered command definition. Definitions are
// constructed once at startup and must not be mutated after registration.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Category    string

	Args     []ArgSpec
	Cooldown time.Duration // 0 disables the cooldown

	InteractionOnly bool
	MessageOnly     bool

	Permissions *Rules

	Run Handler
}

// ArgKind identifies the type of a command argument.
type ArgKind int

const (
	KindString ArgKind = iota
	KindInteger
	KindNumber
	KindBoolean
	KindUser
	KindChannel
	KindRole
	KindMentionable
	KindAttachment
	KindSubcommand
)

var argKindNames = map[ArgKind]string{
	KindString:      "string",
	KindInteger:     "integer",
	KindNumber:      "number",
	KindBoolean:     "boolean",
	KindUser:        "user",
	KindChannel:     "channel",
	KindRole:        "role",
	KindMentionable: "mentionable",
	KindAttachment:  "attachment",
	KindSubcommand:  "subcommand",
}

func (k ArgKind) String() string {
	if name, ok := argKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ArgSpec describes one argument in a command's ordered schema. Required
// specs must be declared before optional ones; Registry.Register rejects
// schemas that violate this ordering.
type ArgSpec struct {
	Name        string
	Description string
	Kind        ArgKind
	Required    bool

	Choices []string // closed set of allowed values (string kinds)

	MinLength *int // string kinds, in runes
	MaxLength *int

	MinValue *float64 // numeric kinds
	MaxValue *float64
}

// Value is a typed argument value. Exactly one payload field is meaningful,
// selected by Kind; handlers switch on Kind instead of casting through any.
type Value struct {
	Kind ArgKind

	Str  string
	Int  int64
	Num  float64
	Bool bool
	Ref  string // raw platform identifier for reference kinds
}

// Args is a coerced argument bag keyed by ArgSpec name.
type Args map[string]Value

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int returns an integer Value.
func Int(n int64) Value { return Value{Kind: KindInteger, Int: n} }

// Number returns a floating point Value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Ref returns a reference Value of the given kind carrying a raw identifier.
func Ref(kind ArgKind, id string) Value { return Value{Kind: kind, Ref: id} }

// Subcommand returns a subcommand Value carrying the subcommand name.
func Subcommand(name string) Value { return Value{Kind: KindSubcommand, Str: name} }

// Mode distinguishes the two invocation shapes.
type Mode int

const (
	// ModeInteraction carries pre-typed, platform-validated arguments.
	ModeInteraction Mode = iota
	// ModeMessage carries free-text tokens that require local coercion.
	ModeMessage
)

func (m Mode) String() string {
	if m == ModeMessage {
		return "message"
	}
	return "interaction"
}

// ReplyState tracks whether an invocation has been answered yet.
type ReplyState int

const (
	ReplyNone ReplyState = iota
	ReplyDeferred
	ReplySent
)

// Member is a pre-resolved view of a guild member: the role set and the
// effective capability bitmask. The core never performs directory lookups
// itself; adapters fill this in.
type Member struct {
	Roles       []string
	Permissions int64
}

// Invocation is the uniform wrapper an adapter builds around an inbound
// command or component event before handing it to a dispatcher.
type Invocation struct {
	Mode        Mode
	Command     string
	ComponentID string

	AuthorID    string
	AuthorIsBot bool
	GuildID     string // empty outside a guild (DM)
	ChannelID   string
	MessageID   string

	Member    *Member // invoking member view, nil in DMs
	BotMember *Member // the bot's own member view, nil in DMs

	Tokens []string // message mode raw tokens
	Args   Args     // interaction mode pre-typed; filled by coercion in message mode

	// ReplyState is advanced by the adapter's reply helpers as the
	// invocation gets acknowledged; responders consult it to decide
	// between an initial response and a followup.
	ReplyState ReplyState

	// Data is the adapter's payload (session, event, storage). The core
	// never inspects it.
	Data any
}

// Middleware wraps a handler with a cross-cutting concern (logging,
// metrics). The first middleware in the list is the outermost.
type Middleware func(Handler) Handler

// Chain applies middlewares to a handler.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// OutcomeKind classifies how a dispatch ended.
type OutcomeKind int

const (
	// OutcomeIgnored means the invocation was dropped silently (bot author).
	OutcomeIgnored OutcomeKind = iota
	// OutcomeNotFound means no command or component matched.
	OutcomeNotFound
	// OutcomeCooldown means an active cooldown blocked the invocation.
	OutcomeCooldown
	// OutcomeDenied means the permission pipeline rejected the invocation.
	OutcomeDenied
	// OutcomeViolations means message-mode argument coercion failed.
	OutcomeViolations
	// OutcomeFault means a component handler faulted (component path only).
	OutcomeFault
	// OutcomeInvoked means the handler ran.
	OutcomeInvoked
)

var outcomeKindNames = map[OutcomeKind]string{
	OutcomeIgnored:    "ignored",
	OutcomeNotFound:   "not-found",
	OutcomeCooldown:   "cooldown",
	OutcomeDenied:     "denied",
	OutcomeViolations: "violations",
	OutcomeFault:      "fault",
	OutcomeInvoked:    "invoked",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the structured result of one dispatch. Expected failures
// (not-found, cooldown, denial, violations) are outcomes, never errors.
type Outcome struct {
	Kind    OutcomeKind
	Command string // resolved name, or the raw identifier when unresolved

	Suggestions []string    // not-found: up to three near-miss names
	Remaining   int         // cooldown: whole seconds left
	Denial      *Denial     // denied: first failing stage
	Violations  []Violation // violations: complete set from one pass
}

// Responder delivers an outcome back to the user. Rendering is entirely the
// adapter's concern; the core only decides whether and with what to reply.
type Responder interface {
	Respond(ctx context.Context, inv *Invocation, out *Outcome) error
}
