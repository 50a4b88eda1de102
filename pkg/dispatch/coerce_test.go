package dispatch

import (
	"errors"
	"reflect"
	"testing"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestCoerceBasicKinds(t *testing.T) {
	specs := []ArgSpec{
		{Name: "count", Kind: KindInteger, Required: true},
		{Name: "ratio", Kind: KindNumber, Required: true},
		{Name: "loud", Kind: KindBoolean, Required: true},
		{Name: "label", Kind: KindString, Required: true},
	}
	args, violations, err := Coerce(specs, []string{"42", "0.5", "yes", "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if violations != nil {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if v := args["count"]; v.Int != 42 {
		t.Errorf("count = %d, want 42", v.Int)
	}
	if v := args["ratio"]; v.Num != 0.5 {
		t.Errorf("ratio = %v, want 0.5", v.Num)
	}
	if v := args["loud"]; !v.Bool {
		t.Error("loud = false, want true")
	}
	if v := args["label"]; v.Str != "hello" {
		t.Errorf("label = %q, want hello", v.Str)
	}
}

func TestCoerceBooleanNeverFails(t *testing.T) {
	specs := []ArgSpec{{Name: "flag", Kind: KindBoolean, Required: true}}
	cases := []struct {
		token string
		want  bool
	}{
		{"true", true}, {"TRUE", true}, {"Yes", true}, {"1", true},
		{"false", false}, {"no", false}, {"0", false}, {"banana", false},
	}
	for _, tc := range cases {
		args, violations, err := Coerce(specs, []string{tc.token})
		if err != nil || violations != nil {
			t.Fatalf("token %q: err=%v violations=%v", tc.token, err, violations)
		}
		if got := args["flag"].Bool; got != tc.want {
			t.Errorf("token %q = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestCoerceInvalidInteger(t *testing.T) {
	specs := []ArgSpec{{Name: "amount", Kind: KindInteger, Required: true, MinValue: floatPtr(1)}}
	args, violations, err := Coerce(specs, []string{"abc"})
	if err != nil {
		t.Fatal(err)
	}
	if args != nil {
		t.Error("args returned alongside violations")
	}
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	v := violations[0]
	if v.Name != "amount" || v.Code != ViolationAbsent {
		t.Errorf("violation = %+v, want amount/absent", v)
	}
}

func TestCoerceNumericRange(t *testing.T) {
	specs := []ArgSpec{{Name: "sides", Kind: KindInteger, Required: true, MinValue: floatPtr(2), MaxValue: floatPtr(1000)}}

	if _, violations, _ := Coerce(specs, []string{"1"}); len(violations) != 1 || violations[0].Code != ViolationRange {
		t.Errorf("below min: violations = %v, want one range violation", violations)
	}
	if _, violations, _ := Coerce(specs, []string{"1001"}); len(violations) != 1 || violations[0].Code != ViolationRange {
		t.Errorf("above max: violations = %v, want one range violation", violations)
	}
	if _, violations, _ := Coerce(specs, []string{"6"}); violations != nil {
		t.Errorf("in range: unexpected violations %v", violations)
	}
}

func TestCoerceStringChoicesAndLength(t *testing.T) {
	choiceSpec := []ArgSpec{{Name: "difficulty", Kind: KindString, Required: true, Choices: []string{"easy", "normal", "hard"}}}
	if _, violations, _ := Coerce(choiceSpec, []string{"brutal"}); len(violations) != 1 || violations[0].Code != ViolationChoice {
		t.Errorf("choice mismatch: violations = %v", violations)
	}

	lenSpec := []ArgSpec{{Name: "prefix", Kind: KindString, Required: true, MinLength: intPtr(1), MaxLength: intPtr(5)}}
	if _, violations, _ := Coerce(lenSpec, []string{"toolong"}); len(violations) != 1 || violations[0].Code != ViolationTooLong {
		t.Errorf("too long: violations = %v", violations)
	}
	if _, violations, _ := Coerce(lenSpec, []string{"!"}); violations != nil {
		t.Errorf("valid length: unexpected violations %v", violations)
	}
}

// A trailing string spec in final position joins all remaining tokens.
func TestCoerceTrailingStringTail(t *testing.T) {
	specs := []ArgSpec{
		{Name: "target", Kind: KindUser, Required: true},
		{Name: "reason", Kind: KindString, Required: true},
	}
	args, violations, err := Coerce(specs, []string{"<@123>", "spamming", "in", "general"})
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if got := args["reason"].Str; got != "spamming in general" {
		t.Errorf("reason = %q, want joined tail", got)
	}
}

// The tail rule only applies to the last spec; a string in the middle
// consumes exactly one token.
func TestCoerceMiddleStringSingleToken(t *testing.T) {
	specs := []ArgSpec{
		{Name: "word", Kind: KindString, Required: true},
		{Name: "count", Kind: KindInteger, Required: true},
	}
	args, violations, err := Coerce(specs, []string{"hello", "3"})
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if args["word"].Str != "hello" || args["count"].Int != 3 {
		t.Errorf("args = %v", args)
	}
}

func TestCoerceReferenceStripping(t *testing.T) {
	cases := []struct {
		kind  ArgKind
		token string
		want  string
	}{
		{KindUser, "<@123456>", "123456"},
		{KindUser, "<@!123456>", "123456"},
		{KindUser, "123456", "123456"},
		{KindChannel, "<#42>", "42"},
		{KindRole, "<@&99>", "99"},
		{KindMentionable, "<@123>", "123"},
		{KindMentionable, "<@&99>", "99"},
	}
	for _, tc := range cases {
		specs := []ArgSpec{{Name: "ref", Kind: tc.kind, Required: true}}
		args, violations, err := Coerce(specs, []string{tc.token})
		if err != nil || violations != nil {
			t.Fatalf("%v %q: err=%v violations=%v", tc.kind, tc.token, err, violations)
		}
		if got := args["ref"].Ref; got != tc.want {
			t.Errorf("%v %q: id = %q, want %q", tc.kind, tc.token, got, tc.want)
		}
	}
}

func TestCoerceReferenceKindMismatch(t *testing.T) {
	// A role mention does not satisfy a user spec.
	specs := []ArgSpec{{Name: "who", Kind: KindUser, Required: true}}
	_, violations, err := Coerce(specs, []string{"<@&99>"})
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 || violations[0].Code != ViolationAbsent {
		t.Errorf("violations = %v, want one absent violation", violations)
	}
}

func TestCoerceOptionalUnresolvedReferenceDropped(t *testing.T) {
	specs := []ArgSpec{{Name: "who", Kind: KindUser, Required: false}}
	args, violations, err := Coerce(specs, []string{"not-a-mention"})
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if _, ok := args["who"]; ok {
		t.Error("unresolvable optional reference was stored")
	}
}

func TestCoerceRequiredAttachmentIsHardError(t *testing.T) {
	specs := []ArgSpec{{Name: "file", Kind: KindAttachment, Required: true}}
	_, _, err := Coerce(specs, nil)
	if !errors.Is(err, ErrRequiredAttachment) {
		t.Fatalf("err = %v, want ErrRequiredAttachment", err)
	}

	// Optional attachments are silently skipped.
	optional := []ArgSpec{{Name: "file", Kind: KindAttachment, Required: false}}
	args, violations, err := Coerce(optional, nil)
	if err != nil || violations != nil || len(args) != 0 {
		t.Errorf("optional attachment: args=%v violations=%v err=%v", args, violations, err)
	}
}

// A skipped optional attachment must not claim a token slot; specs after it
// read from where the stream actually stands.
func TestCoerceAttachmentConsumesNoToken(t *testing.T) {
	specs := []ArgSpec{
		{Name: "title", Kind: KindString, Required: true},
		{Name: "file", Kind: KindAttachment},
		{Name: "count", Kind: KindInteger},
	}
	args, violations, err := Coerce(specs, []string{"hello", "5"})
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if args["title"].Str != "hello" {
		t.Errorf("title = %q, want hello", args["title"].Str)
	}
	if v, ok := args["count"]; !ok || v.Int != 5 {
		t.Errorf("count = %v (present=%v), want 5", v, ok)
	}

	// Tail joining starts at the stream cursor, not the spec index.
	tail := []ArgSpec{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "file", Kind: KindAttachment},
		{Name: "note", Kind: KindString},
	}
	args, violations, err = Coerce(tail, []string{"bob", "hi", "there"})
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if got := args["note"].Str; got != "hi there" {
		t.Errorf("note = %q, want joined tail from second token", got)
	}
}

// Every spec is evaluated regardless of earlier failures, so one pass
// reports the complete set of problems.
func TestCoerceAccumulatesViolations(t *testing.T) {
	specs := []ArgSpec{
		{Name: "amount", Kind: KindInteger, Required: true},
		{Name: "difficulty", Kind: KindString, Required: true, Choices: []string{"easy", "hard"}},
		{Name: "target", Kind: KindUser, Required: true},
	}
	_, violations, err := Coerce(specs, []string{"abc", "medium"})
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(violations), violations)
	}
	codes := map[string]ViolationCode{}
	for _, v := range violations {
		codes[v.Name] = v.Code
	}
	if codes["amount"] != ViolationAbsent || codes["difficulty"] != ViolationChoice || codes["target"] != ViolationAbsent {
		t.Errorf("violation codes = %v", codes)
	}
}

func TestCoerceMissingOptionalSkipped(t *testing.T) {
	specs := []ArgSpec{
		{Name: "sides", Kind: KindInteger, Required: false},
		{Name: "verbose", Kind: KindBoolean, Required: false},
	}
	args, violations, err := Coerce(specs, nil)
	if err != nil || violations != nil {
		t.Fatalf("err=%v violations=%v", err, violations)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestCoerceDeterministic(t *testing.T) {
	specs := []ArgSpec{
		{Name: "count", Kind: KindInteger, Required: true, MaxValue: floatPtr(10)},
		{Name: "note", Kind: KindString, Required: false},
	}
	tokens := []string{"99", "over", "the", "limit"}

	args1, v1, err1 := Coerce(specs, tokens)
	args2, v2, err2 := Coerce(specs, tokens)
	if !reflect.DeepEqual(args1, args2) || !reflect.DeepEqual(v1, v2) || !errors.Is(err1, err2) {
		t.Error("identical inputs yielded different results")
	}
}
