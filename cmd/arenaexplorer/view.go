package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const barWidth = 30

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("arenaexplorer"))
	b.WriteString("\n")
	b.WriteString(m.segmentsView())
	b.WriteString("\n")
	b.WriteString(m.statsView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) segmentsView() string {
	infos := m.a.SegmentInfo()
	if len(infos) == 0 {
		return paneStyle.Render("no segments yet - waiting for small allocations")
	}

	cursor := m.a.Cursor()
	rows := make([]string, 0, len(infos))
	for i, info := range infos {
		u := info.Utilization()

		filled := int(u * barWidth)
		bar := barStyleFor(u).Render(strings.Repeat("█", filled)) +
			strings.Repeat("░", barWidth-filled)

		mark := "  "
		if i == cursor {
			mark = cursorMarkStyle.Render("▶ ")
		}

		row := fmt.Sprintf("%ssegment %2d  %s %5.1f%%  free %8s  largest %8s",
			mark, i, bar, u*100,
			humanize.IBytes(uint64(info.FreeBytes)),
			humanize.IBytes(uint64(info.LargestFree)))
		if i == m.selected {
			row = selectedRowStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return paneStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) statsView() string {
	st := m.a.Stats()

	probePerAlloc := 0.0
	if st.SegmentAllocs > 0 {
		probePerAlloc = float64(st.ProbeSteps) / float64(st.SegmentAllocs)
	}

	lines := []string{
		fmt.Sprintf("allocs %s   frees %s   held %s",
			statStyle.Render(humanize.Comma(int64(st.AllocCalls))),
			statStyle.Render(humanize.Comma(int64(st.FreeCalls))),
			statStyle.Render(humanize.Comma(int64(len(m.held))))),
		fmt.Sprintf("fallback %s   grown %s   probe/alloc %s",
			statStyle.Render(humanize.Comma(int64(st.FallbackAllocs))),
			statStyle.Render(humanize.Comma(int64(st.SegmentsGrown))),
			statStyle.Render(fmt.Sprintf("%.2f", probePerAlloc))),
		fmt.Sprintf("allocated %s   freed %s",
			statStyle.Render(humanize.IBytes(uint64(st.BytesAllocated))),
			statStyle.Render(humanize.IBytes(uint64(st.BytesFreed)))),
	}

	if sel := m.selectedInfo(); sel != "" {
		lines = append(lines, sel)
	}
	if m.lastErr != nil {
		lines = append(lines, pausedStyle.Render("workload stopped: "+m.lastErr.Error()))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) selectedInfo() string {
	infos := m.a.SegmentInfo()
	if m.selected >= len(infos) {
		return ""
	}
	info := infos[m.selected]
	return fmt.Sprintf("segment %d: capacity %s   splits %d   merges %d",
		m.selected,
		humanize.IBytes(uint64(info.Capacity)),
		info.Region.Splits,
		info.Region.CoalesceForward+info.Region.CoalesceBackward)
}

func (m Model) statusView() string {
	state := "running"
	if m.paused {
		state = pausedStyle.Render("paused")
	}
	help := helpStyle.Render("↑/↓ select · space pause · +/- rate · r reset · ? help · q quit")
	return statusStyle.Render(fmt.Sprintf("%s · %d ops/tick · %s", state, m.opsPerTick, help))
}

func (m Model) helpView() string {
	rows := []string{
		headerStyle.Render("arenaexplorer - keys"),
		"",
	}
	for _, bind := range []struct{ keys, what string }{
		{"↑/k, ↓/j", "select segment"},
		{"space", "pause or resume the workload"},
		{"+ / -", "double or halve ops per tick"},
		{"r", "reset the arena and start over"},
		{"?", "close this help"},
		{"q", "quit"},
	} {
		rows = append(rows, fmt.Sprintf("  %s  %s",
			statStyle.Render(fmt.Sprintf("%-10s", bind.keys)), bind.what))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
