package main

import (
	"github.com/dustin/go-humanize"
	"github.com/joshuapare/arenakit/arena"
	"github.com/spf13/cobra"
)

var (
	infoSegmentSize int
	infoThreshold   int
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().IntVar(&infoSegmentSize, "segment-size", 1<<20, "Segment size in bytes")
	cmd.Flags().IntVar(&infoThreshold, "threshold", 0, "Large-object threshold (0 = segment/4)")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the effective geometry for a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
}

type geometryInfo struct {
	SegmentSize    int
	LargeThreshold int
	Segments       int
}

func runInfo() error {
	cfg := &arena.Config{
		SegmentSize:    infoSegmentSize,
		LargeThreshold: infoThreshold,
	}
	a, err := arena.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	threshold := infoThreshold
	if threshold == 0 {
		threshold = infoSegmentSize / 4
	}
	g := geometryInfo{
		SegmentSize:    infoSegmentSize,
		LargeThreshold: threshold,
		Segments:       a.NumSegments(),
	}
	if jsonOut {
		return printJSON(g)
	}
	printInfo("Segment size:   %s\n", humanize.IBytes(uint64(g.SegmentSize)))
	printInfo("Threshold:      %s (requests above go to the system allocator)\n",
		humanize.IBytes(uint64(g.LargeThreshold)))
	printInfo("Segments:       %d (created on demand)\n", g.Segments)
	return nil
}
