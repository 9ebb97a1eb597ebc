package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kass/pitstop/pkg/store"
)

// Run starts the planner in the terminal and blocks until the user quits
func Run(ctx context.Context, cfg Config) error {
	m := New(ctx, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Route outcomes land in the store from the submit goroutine
	cancel := cfg.State.Subscribe(func(snap store.Snapshot) {
		p.Send(snapshotMsg(snap))
	})
	defer cancel()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run planner: %w", err)
	}
	return nil
}
