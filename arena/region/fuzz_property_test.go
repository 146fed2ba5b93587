package region

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Fuzz_RandomAllocFree_GuardInvariants performs random alloc/free
// against one region and validates the run structure after every step.
func Test_Fuzz_RandomAllocFree_GuardInvariants(t *testing.T) {
	a := newTestRegion(t, 64*1024)

	rng := rand.New(rand.NewSource(42)) // fixed seed for reproducibility
	live := make(map[int]int)           // offset -> requested size
	capacityBefore := a.FreeBytes()

	for i := 0; i < 2000; i++ {
		if rng.Intn(2) == 0 || len(live) == 0 {
			size := rng.Intn(2048)
			off, ok := a.Alloc(size)
			if ok {
				_, dup := live[off]
				require.False(t, dup, "step %d: offset %d handed out twice", i, off)
				live[off] = size
				require.GreaterOrEqual(t, len(a.Payload(off)), size, "step %d", i)
			}
		} else {
			for off := range live {
				require.NoError(t, a.Free(off), "step %d: free at %d", i, off)
				delete(live, off)
				break
			}
		}

		require.NoError(t, a.Validate(), "step %d", i)
	}

	for off := range live {
		require.NoError(t, a.Free(off))
	}
	require.NoError(t, a.Validate())
	require.Equal(t, capacityBefore, a.FreeBytes(),
		"free capacity must be conserved once everything is freed")
	require.Equal(t, a.Capacity(), a.LargestFree(),
		"all runs must coalesce back into one")
}

// Test_Fuzz_PayloadIsolation writes a distinct pattern into every live
// payload and checks neighbors never observe each other's writes.
func Test_Fuzz_PayloadIsolation(t *testing.T) {
	a := newTestRegion(t, 16*1024)

	rng := rand.New(rand.NewSource(7))
	type alloc struct {
		off  int
		tint byte
	}
	var live []alloc

	for i := 0; i < 500; i++ {
		if rng.Intn(3) != 0 || len(live) == 0 {
			size := 1 + rng.Intn(256)
			off, ok := a.Alloc(size)
			if !ok {
				continue
			}
			tint := byte(i)
			p := a.Payload(off)
			for j := range p {
				p[j] = tint
			}
			live = append(live, alloc{off, tint})
		} else {
			idx := rng.Intn(len(live))
			require.NoError(t, a.Free(live[idx].off))
			live = append(live[:idx], live[idx+1:]...)
		}

		// Every live payload must still hold its own pattern.
		for _, al := range live {
			p := a.Payload(al.off)
			require.NotNil(t, p, "step %d: payload at %d vanished", i, al.off)
			for j, v := range p {
				require.Equal(t, al.tint, v,
					"step %d: payload at %d corrupted at byte %d", i, al.off, j)
			}
		}
	}
}

func Benchmark_AllocFree(b *testing.B) {
	a, err := New(make([]byte, 1<<20), nil)
	if err != nil {
		b.Fatal(err)
	}

	offs := make([]int, 0, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		off, ok := a.Alloc(64 + i%512)
		if ok {
			offs = append(offs, off)
		}
		if !ok || len(offs) >= 1024 {
			for _, o := range offs {
				if err := a.Free(o); err != nil {
					b.Fatal(err)
				}
			}
			offs = offs[:0]
		}
	}
}
