package jobmgr

import (
	"context"
	"testing"
	"time"
)

func TestStartAsyncRefusesDuplicateName(t *testing.T) {
	m := NewManager(nil)
	block := make(chan struct{})
	defer close(block)

	err := m.StartAsync("work", func(ctx context.Context) error {
		<-block
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.StartAsync("work", func(ctx context.Context) error { return nil }); err == nil {
		t.Error("duplicate job name accepted")
	}
}

func TestAfterFires(t *testing.T) {
	m := NewManager(nil)
	fired := make(chan struct{})

	if err := m.After("timer", 10*time.Millisecond, func() { close(fired) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestStopCancelsTimer(t *testing.T) {
	m := NewManager(nil)
	fired := make(chan struct{})

	if err := m.After("timer", 50*time.Millisecond, func() { close(fired) }); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop("timer"); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("stopped timer still fired")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopUnknownJob(t *testing.T) {
	m := NewManager(nil)
	if err := m.Stop("ghost"); err == nil {
		t.Error("stopping an unknown job did not error")
	}
}

func TestRunningListsAndClears(t *testing.T) {
	m := NewManager(nil)
	block := make(chan struct{})

	for _, name := range []string{"b", "a"} {
		if err := m.StartAsync(name, func(ctx context.Context) error {
			<-block
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	running := m.Running()
	if len(running) != 2 || running[0] != "a" || running[1] != "b" {
		t.Errorf("Running() = %v, want [a b]", running)
	}

	m.StopAll()
	close(block)
	// Stopped jobs are dropped from bookkeeping immediately.
	if got := m.Running(); len(got) != 0 {
		t.Errorf("Running() after StopAll = %v", got)
	}
}
