package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/arenakit/cmd/arenaexplorer/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.paused && m.lastErr == nil {
			m.step()
		}
		if n := m.a.NumSegments(); m.selected >= n && n > 0 {
			m.selected = n - 1
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.a.NumSegments()-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Faster):
		if m.opsPerTick*2 <= maxOpsPerTick {
			m.opsPerTick *= 2
			logger.Debug("workload rate changed", "ops_per_tick", m.opsPerTick)
		}

	case key.Matches(msg, m.keys.Slower):
		if m.opsPerTick/2 >= minOpsPerTick {
			m.opsPerTick /= 2
			logger.Debug("workload rate changed", "ops_per_tick", m.opsPerTick)
		}

	case key.Matches(msg, m.keys.Reset):
		if err := m.reset(); err != nil {
			m.lastErr = err
		}
	}
	return m, nil
}
