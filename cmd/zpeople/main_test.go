package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRunErr(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		in      error
		wantNil bool
	}{
		{"nil", nil, true},
		{"killed", tea.ErrProgramKilled, true},
		{"killed by context", fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled), true},
		{"panic", fmt.Errorf("%w: %w", tea.ErrProgramKilled, tea.ErrProgramPanic), false},
		{"other", boom, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runErr(tt.in)
			if (got == nil) != tt.wantNil {
				t.Errorf("runErr(%v) = %v, want nil=%v", tt.in, got, tt.wantNil)
			}
			if got != nil && !errors.Is(got, tt.in) {
				t.Errorf("runErr(%v) = %v, want the original error", tt.in, got)
			}
		})
	}
}
