package bot

import (
	"testing"

	"github.com/keshon/dispatchkit/pkg/dispatch"
)

func TestReplyStateTracking(t *testing.T) {
	inv := &dispatch.Invocation{Mode: dispatch.ModeInteraction}
	c := &Context{Reply: &inv.ReplyState}
	inv.Data = c

	if c.NeedsFollowup() {
		t.Fatal("fresh invocation should not need a followup")
	}

	c.markReply(dispatch.ReplyDeferred)
	if inv.ReplyState != dispatch.ReplyDeferred {
		t.Fatalf("ReplyState = %v, want ReplyDeferred", inv.ReplyState)
	}
	if !c.NeedsFollowup() {
		t.Error("deferred invocation should need a followup")
	}

	c.markReply(dispatch.ReplySent)
	if inv.ReplyState != dispatch.ReplySent {
		t.Fatalf("ReplyState = %v, want ReplySent", inv.ReplyState)
	}
	if !c.NeedsFollowup() {
		t.Error("answered invocation should need a followup")
	}
}

func TestReplyStateNilPointer(t *testing.T) {
	c := &Context{}

	// Message-mode contexts carry no reply pointer; marking must be a
	// no-op rather than a panic.
	c.markReply(dispatch.ReplySent)

	if c.NeedsFollowup() {
		t.Error("context without reply tracking should not report followup")
	}
}
