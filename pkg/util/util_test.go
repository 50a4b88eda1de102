package util

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestFormatDateTpl(t *testing.T) {
	const ts = int64(1699574400000) // 2023-11-10 00:00:00 UTC
	cases := []struct {
		tpl  string
		want string
	}{
		{"YYYY.MM.DD", "2023.11.10"},
		{"DD/MM/YYYY", "10/11/2023"},
		{"YYYY-MM-DD hh:mm:ss", "2023-11-10 00:00:00"},
		{"YY", "23"},
	}
	for _, tc := range cases {
		if got := FormatDateTpl(ts, tc.tpl); got != tc.want {
			t.Errorf("FormatDateTpl(%q) = %q, want %q", tc.tpl, got, tc.want)
		}
	}
	if got := FormatDateTpl(0, "YYYY"); got != "" {
		t.Errorf("zero timestamp = %q, want empty", got)
	}
}

func TestParallelVisitsAllInputs(t *testing.T) {
	var count int64
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	err := Parallel(inputs, 3, func(ctx context.Context, n int) error {
		atomic.AddInt64(&count, int64(n))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 36 {
		t.Errorf("sum = %d, want 36", count)
	}
}

func TestParallelReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Parallel([]int{1, 2, 3}, 1, func(ctx context.Context, n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestParallelEmptyInput(t *testing.T) {
	if err := Parallel(nil, 4, func(ctx context.Context, n int) error { return nil }); err != nil {
		t.Fatal(err)
	}
}
