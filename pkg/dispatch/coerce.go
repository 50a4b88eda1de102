package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ViolationCode tags why one argument failed coercion or validation.
type ViolationCode int

const (
	// ViolationAbsent covers both a missing required value and one that
	// failed to parse as its declared kind.
	ViolationAbsent ViolationCode = iota
	// ViolationChoice means the value is outside the declared choice set.
	ViolationChoice
	// ViolationTooShort means the string is under its minimum length.
	ViolationTooShort
	// ViolationTooLong means the string exceeds its maximum length.
	ViolationTooLong
	// ViolationRange means a numeric value is outside its declared bounds.
	ViolationRange
)

var violationCodeNames = map[ViolationCode]string{
	ViolationAbsent:   "absent",
	ViolationChoice:   "choice",
	ViolationTooShort: "too-short",
	ViolationTooLong:  "too-long",
	ViolationRange:    "range",
}

func (c ViolationCode) String() string {
	if name, ok := violationCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Violation records one argument's coercion failure.
type Violation struct {
	Name string
	Kind ArgKind
	Code ViolationCode
}

// ErrRequiredAttachment is returned when a schema declares a required
// attachment argument: attachments can never be satisfied from message text,
// so the schema itself is at fault, not the input.
var ErrRequiredAttachment = errors.New("required attachment argument cannot be filled from message text")

// Coerce maps free-text tokens onto an ordered argument schema, producing a
// validated argument bag or the complete set of violations from a single
// pass. Tokens are consumed left to right, one per spec, except that a
// string-kind spec in the final position consumes and joins every remaining
// token, enabling free-text tails. Violations accumulate: every spec is
// evaluated regardless of earlier failures. Coerce is pure; identical inputs
// always yield identical results.
func Coerce(specs []ArgSpec, tokens []string) (Args, []Violation, error) {
	args := make(Args, len(specs))
	var violations []Violation

	// next tracks the first unconsumed token. Attachment specs consume no
	// token, so the cursor advances independently of the spec index.
	next := 0
	for i, spec := range specs {
		if spec.Kind == KindAttachment {
			if spec.Required {
				return nil, nil, fmt.Errorf("argument %q: %w", spec.Name, ErrRequiredAttachment)
			}
			continue
		}

		tok, ok := takeToken(specs, tokens, i, &next)
		if !ok {
			if spec.Required {
				violations = append(violations, Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationAbsent})
			}
			continue
		}

		val, store, viol := coerceToken(spec, tok)
		if viol != nil {
			violations = append(violations, *viol)
			continue
		}
		if store {
			args[spec.Name] = val
		}
	}

	if len(violations) > 0 {
		return nil, violations, nil
	}
	return args, nil, nil
}

// takeToken consumes the raw token for spec index i, applying the trailing
// string tail rule. The cursor advances only here, so specs that never call
// it (attachments) leave the token stream untouched.
func takeToken(specs []ArgSpec, tokens []string, i int, next *int) (string, bool) {
	if *next >= len(tokens) {
		return "", false
	}
	if i == len(specs)-1 && specs[i].Kind == KindString {
		tok := strings.Join(tokens[*next:], " ")
		*next = len(tokens)
		return tok, true
	}
	tok := tokens[*next]
	*next++
	return tok, true
}

func coerceToken(spec ArgSpec, tok string) (val Value, store bool, viol *Violation) {
	switch spec.Kind {
	case KindBoolean:
		// Never a violation: anything outside the truthy set is false.
		switch strings.ToLower(tok) {
		case "true", "yes", "1":
			return Bool(true), true, nil
		default:
			return Bool(false), true, nil
		}

	case KindInteger:
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationAbsent}
		}
		if outOfRange(float64(n), spec) {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationRange}
		}
		return Int(n), true, nil

	case KindNumber:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationAbsent}
		}
		if outOfRange(f, spec) {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationRange}
		}
		return Number(f), true, nil

	case KindString, KindSubcommand:
		if len(spec.Choices) > 0 && !containsString(spec.Choices, tok) {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationChoice}
		}
		n := utf8.RuneCountInString(tok)
		if spec.MinLength != nil && n < *spec.MinLength {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationTooShort}
		}
		if spec.MaxLength != nil && n > *spec.MaxLength {
			return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationTooLong}
		}
		if spec.Kind == KindSubcommand {
			return Subcommand(tok), true, nil
		}
		return String(tok), true, nil

	case KindUser, KindChannel, KindRole, KindMentionable:
		id := referenceID(spec.Kind, tok)
		if id == "" {
			// Existence of the referenced entity is not verified here;
			// only the identifier shape is. An unresolvable optional
			// reference is simply dropped.
			if spec.Required {
				return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationAbsent}
			}
			return Value{}, false, nil
		}
		return Ref(spec.Kind, id), true, nil

	default:
		return Value{}, false, &Violation{Name: spec.Name, Kind: spec.Kind, Code: ViolationAbsent}
	}
}

// referenceID strips platform mention syntax (<@id>, <@!id>, <@&id>, <#id>)
// to extract a raw identifier, accepting bare numeric IDs for every
// reference kind. Returns "" when the token does not denote an identifier
// acceptable for the kind.
func referenceID(kind ArgKind, tok string) string {
	if allDigits(tok) {
		return tok
	}
	if len(tok) < 4 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return ""
	}
	inner := tok[1 : len(tok)-1]
	var id string
	var ok bool
	switch {
	case strings.HasPrefix(inner, "@&"):
		id, ok = inner[2:], kind == KindRole || kind == KindMentionable
	case strings.HasPrefix(inner, "@!"):
		id, ok = inner[2:], kind == KindUser || kind == KindMentionable
	case strings.HasPrefix(inner, "@"):
		id, ok = inner[1:], kind == KindUser || kind == KindMentionable
	case strings.HasPrefix(inner, "#"):
		id, ok = inner[1:], kind == KindChannel
	}
	if !ok || !allDigits(id) {
		return ""
	}
	return id
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func outOfRange(v float64, spec ArgSpec) bool {
	if spec.MinValue != nil && v < *spec.MinValue {
		return true
	}
	if spec.MaxValue != nil && v > *spec.MaxValue {
		return true
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
