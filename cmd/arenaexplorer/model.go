package main

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/cmd/arenaexplorer/logger"
)

// Workload geometry. Segments are kept small so growth and probing are
// visible within seconds.
const (
	workloadSegmentSize = 64 * 1024
	workloadMaxRequest  = 20 * 1024 // above the 16 KiB threshold now and then
	tickInterval        = 100 * time.Millisecond

	minOpsPerTick = 8
	maxOpsPerTick = 4096
)

// tickMsg drives one batch of workload operations.
type tickMsg time.Time

// Model is the main application model
type Model struct {
	a    *arena.Arena
	keys KeyMap

	rng  *rand.Rand
	held []arena.Handle

	opsPerTick int
	paused     bool

	// UI state
	selected int
	width    int
	height   int
	showHelp bool
	lastErr  error
}

// NewModel builds the model and its arena. The workload starts on the
// first tick from Init.
func NewModel() (Model, error) {
	a, err := arena.New(&arena.Config{SegmentSize: workloadSegmentSize})
	if err != nil {
		return Model{}, err
	}
	return Model{
		a:          a,
		keys:       DefaultKeyMap(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		opsPerTick: 256,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step runs one batch of allocate/free operations. Roughly 45% of
// operations are frees once there is something to free, so the held set
// keeps growing and segments accumulate.
func (m *Model) step() {
	segsBefore := m.a.NumSegments()
	for op := 0; op < m.opsPerTick; op++ {
		if len(m.held) > 0 && m.rng.Intn(100) < 45 {
			i := m.rng.Intn(len(m.held))
			if err := m.a.Free(m.held[i]); err != nil {
				logger.Error("workload free failed", "error", err)
				m.lastErr = err
				return
			}
			m.held[i] = m.held[len(m.held)-1]
			m.held = m.held[:len(m.held)-1]
			continue
		}

		h, err := m.a.Allocate(m.rng.Intn(workloadMaxRequest + 1))
		if err != nil {
			logger.Error("workload allocate failed", "error", err,
				"segments", m.a.NumSegments(), "held", len(m.held))
			m.lastErr = err
			return
		}
		m.held = append(m.held, h)
	}
	if segs := m.a.NumSegments(); segs != segsBefore {
		logger.Debug("segments grew",
			"segments", segs,
			"held", len(m.held),
			"cursor", m.a.Cursor())
	}
}

// reset tears the arena down and starts an empty one.
func (m *Model) reset() error {
	st := m.a.Stats()
	if err := m.a.Close(); err != nil {
		return err
	}
	a, err := arena.New(&arena.Config{SegmentSize: workloadSegmentSize})
	if err != nil {
		return err
	}
	m.a = a
	m.held = nil
	m.selected = 0
	m.lastErr = nil
	logger.Info("arena reset",
		"allocs", st.AllocCalls,
		"frees", st.FreeCalls,
		"fallback", st.FallbackAllocs)
	return nil
}

// Close releases the arena. Called after the program exits.
func (m Model) Close() error {
	return m.a.Close()
}
