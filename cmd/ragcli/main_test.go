package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hyperifyio/ragcli/internal/app"
	"github.com/hyperifyio/ragcli/internal/chat"
	"github.com/hyperifyio/ragcli/internal/index"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{app.ErrUsage, 2},
		{fmt.Errorf("%w: missing patterns", app.ErrUsage), 2},
		{index.ErrNoFilesFound, 1},
		{index.ErrIndexingFailed, 1},
		{index.ErrPollTimeout, 1},
		{chat.ErrStreamTransport, 1},
		{errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestThinkingLevels(t *testing.T) {
	want := map[string]string{"l": "low", "m": "medium", "h": "high"}
	for flag, effort := range want {
		if got := thinkingLevels[flag]; got != effort {
			t.Errorf("thinkingLevels[%q] = %q, want %q", flag, got, effort)
		}
	}
	if _, ok := thinkingLevels["x"]; ok {
		t.Error("unexpected thinking level x")
	}
}
