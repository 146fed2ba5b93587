package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joshuapare/arenakit/arena"
	"github.com/spf13/cobra"
)

var (
	stressSegmentSize int
	stressThreshold   int
	stressOps         int
	stressMaxSize     int
	stressHoldPct     int
	stressSeed        int64
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressSegmentSize, "segment-size", 1<<20, "Segment size in bytes")
	cmd.Flags().IntVar(&stressThreshold, "threshold", 0, "Large-object threshold (0 = segment/4)")
	cmd.Flags().IntVar(&stressOps, "ops", 1_000_000, "Number of allocate operations")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Maximum request size in bytes")
	cmd.Flags().IntVar(&stressHoldPct, "hold", 50, "Percentage of allocations held instead of freed immediately")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload RNG seed")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a synthetic allocation workload",
		Long: `The stress command runs a randomized allocate/free workload against a
fresh arena and reports throughput, segment growth, and fragmentation.

Example:
  arenactl stress --ops 5000000
  arenactl stress --segment-size 65536 --max-size 8192 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// StressReport is the machine-readable result of one stress run.
type StressReport struct {
	Ops           int
	Elapsed       time.Duration
	OpsPerSec     float64
	Segments      int
	SegmentBytes  int64
	FallbackAlloc int
	ProbePerAlloc float64
	Utilization   []float64
}

func runStress() error {
	cfg := &arena.Config{
		SegmentSize:    stressSegmentSize,
		LargeThreshold: stressThreshold,
	}
	a, err := arena.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build arena: %w", err)
	}
	defer a.Close()

	printVerbose("Running %d ops, segment=%s, max request=%s\n",
		stressOps,
		humanize.IBytes(uint64(stressSegmentSize)),
		humanize.IBytes(uint64(stressMaxSize)))

	rng := rand.New(rand.NewSource(stressSeed))
	var held []arena.Handle

	start := time.Now()
	for op := 0; op < stressOps; op++ {
		if len(held) > 0 && rng.Intn(100) >= stressHoldPct {
			i := rng.Intn(len(held))
			if err := a.Free(held[i]); err != nil {
				return fmt.Errorf("op %d: free: %w", op, err)
			}
			held[i] = held[len(held)-1]
			held = held[:len(held)-1]
		}

		h, err := a.Allocate(rng.Intn(stressMaxSize + 1))
		if err != nil {
			return fmt.Errorf("op %d: allocate: %w", op, err)
		}
		held = append(held, h)
	}
	elapsed := time.Since(start)

	st := a.Stats()
	report := StressReport{
		Ops:           stressOps,
		Elapsed:       elapsed,
		OpsPerSec:     float64(stressOps) / elapsed.Seconds(),
		Segments:      a.NumSegments(),
		SegmentBytes:  int64(a.NumSegments()) * int64(stressSegmentSize),
		FallbackAlloc: st.FallbackAllocs,
	}
	if st.SegmentAllocs > 0 {
		report.ProbePerAlloc = float64(st.ProbeSteps) / float64(st.SegmentAllocs)
	}
	for _, info := range a.SegmentInfo() {
		report.Utilization = append(report.Utilization, info.Utilization())
	}

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Ops:            %s in %s (%s ops/sec)\n",
		humanize.Comma(int64(report.Ops)),
		elapsed.Round(time.Millisecond),
		humanize.CommafWithDigits(report.OpsPerSec, 0))
	printInfo("Segments:       %d (%s reserved)\n",
		report.Segments, humanize.IBytes(uint64(report.SegmentBytes)))
	printInfo("Fallback:       %s allocations over threshold\n",
		humanize.Comma(int64(report.FallbackAlloc)))
	printInfo("Probe/alloc:    %.2f\n", report.ProbePerAlloc)
	for i, u := range report.Utilization {
		printInfo("  segment %2d:   %5.1f%% used\n", i, u*100)
	}
	return nil
}
