package storage

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPrefixRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	p, err := s.Prefix("G1")
	if err != nil {
		t.Fatal(err)
	}
	if p != "" {
		t.Errorf("unset prefix = %q, want empty", p)
	}

	if err := s.SetPrefix("G1", "?"); err != nil {
		t.Fatal(err)
	}
	p, err = s.Prefix("G1")
	if err != nil {
		t.Fatal(err)
	}
	if p != "?" {
		t.Errorf("prefix = %q, want ?", p)
	}

	// Other guilds are unaffected.
	if p, _ := s.Prefix("G2"); p != "" {
		t.Errorf("other guild prefix = %q, want empty", p)
	}
}

func TestCommandHistoryCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		rec := CommandHistoryRecord{
			UserID:   "U1",
			Command:  fmt.Sprintf("cmd-%d", i),
			Datetime: time.Now(),
		}
		if err := s.AppendCommandToHistory("G1", rec); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.FetchCommandHistory("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != commandHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), commandHistoryLimit)
	}
	// Oldest entries were dropped.
	if history[0].Command != "cmd-5" {
		t.Errorf("oldest kept entry = %q, want cmd-5", history[0].Command)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestStorage(t)

	if _, err := s.GetUserTask("G1", "U1"); err == nil {
		t.Error("GetUserTask on empty storage did not error")
	}

	task := UserTask{
		UserID:     "U1",
		TaskText:   "polish the silverware",
		Difficulty: "easy",
		AssignedAt: time.Now(),
		Status:     "pending",
	}
	if err := s.SetUserTask("G1", "U1", task); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUserTask("G1", "U1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TaskText != task.TaskText || got.Status != "pending" {
		t.Errorf("task = %+v", got)
	}

	if err := s.ClearUserTask("G1", "U1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetUserTask("G1", "U1"); err == nil {
		t.Error("task survived ClearUserTask")
	}
}

func TestTaskRoles(t *testing.T) {
	s := newTestStorage(t)

	roles, err := s.TaskRoles("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 0 {
		t.Errorf("unset task roles = %v, want empty", roles)
	}

	if err := s.SetTaskRoles("G1", []string{"R1", "R2"}); err != nil {
		t.Fatal(err)
	}
	roles, err = s.TaskRoles("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 || roles[0] != "R1" {
		t.Errorf("task roles = %v", roles)
	}
}

func TestConcurrentHistoryAppends(t *testing.T) {
	s := newTestStorage(t)

	// Discord handlers run on their own goroutines; concurrent appends to
	// the same guild record must not lose writes.
	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := s.AppendCommandToHistory("G1", CommandHistoryRecord{
				Command:  fmt.Sprintf("cmd-%d", n),
				UserID:   "U1",
				Datetime: time.Now(),
			})
			if err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	records, err := s.FetchCommandHistory("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != writers {
		t.Errorf("history has %d records, want %d", len(records), writers)
	}
}
