package bench

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Timing summarizes one strategy's timed repetitions.
type Timing struct {
	Strategy string
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	Min      time.Duration
	Max      time.Duration
	Count    int
}

// newTiming computes a Timing from raw per-repetition wall times in
// nanoseconds.
func newTiming(name string, samples []float64) Timing {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return Timing{
		Strategy: name,
		Mean:     time.Duration(stat.Mean(sorted, nil)),
		P50:      time.Duration(stat.Quantile(0.5, stat.LinInterp, sorted, nil)),
		P95:      time.Duration(stat.Quantile(0.95, stat.LinInterp, sorted, nil)),
		Min:      time.Duration(sorted[0]),
		Max:      time.Duration(sorted[len(sorted)-1]),
		Count:    len(sorted),
	}
}

// Report is the outcome of one benchmark: per-strategy timings in the
// order benchmarked, plus the workload shape they were measured on.
type Report struct {
	Timings   []Timing
	Scenarios int
	Cycles    int
}

// Fastest returns the timing with the lowest mean.
func (r *Report) Fastest() Timing {
	best := r.Timings[0]
	for _, t := range r.Timings[1:] {
		if t.Mean < best.Mean {
			best = t
		}
	}
	return best
}

// Table renders the fixed-width comparison table.
func (r *Report) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Strategy Benchmark ===\n")
	fmt.Fprintf(&b, "scenarios: %d  cycles: %d  repetitions: %d\n\n",
		r.Scenarios, r.Cycles, r.Timings[0].Count)
	fmt.Fprintf(&b, "%-12s %12s %12s %12s %12s %12s\n",
		"strategy", "mean", "p50", "p95", "min", "max")
	for _, t := range r.Timings {
		fmt.Fprintf(&b, "%-12s %12s %12s %12s %12s %12s\n", t.Strategy,
			fmtDur(t.Mean), fmtDur(t.P50), fmtDur(t.P95), fmtDur(t.Min), fmtDur(t.Max))
	}
	if len(r.Timings) > 1 {
		base := r.Timings[0]
		fastest := r.Fastest()
		if fastest.Mean > 0 {
			fmt.Fprintf(&b, "\nfastest: %s (%.2fx vs %s)\n",
				fastest.Strategy, float64(base.Mean)/float64(fastest.Mean), base.Strategy)
		}
	}
	return b.String()
}

func fmtDur(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
