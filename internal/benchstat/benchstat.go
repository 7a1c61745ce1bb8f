// Package benchstat computes latency summary statistics over a batch of
// timed operations, the way the teacher's replay loop measured engine,
// fetch and persist latencies with github.com/grd/stat.
package benchstat

import (
	"time"

	"github.com/grd/stat"
)

const nanoToSeconds = 1e-9

// DurationSlice adapts a []time.Duration to grd/stat's Data interface.
type DurationSlice []time.Duration

func (d DurationSlice) Get(i int) float64 { return float64(d[i]) }
func (d DurationSlice) Len() int          { return len(d) }

// Summary is the mean and standard deviation of a batch of latencies, in
// seconds.
type Summary struct {
	MeanSeconds   float64
	StdDevSeconds float64
	Samples       int
}

// Summarize computes mean and standard deviation over samples. An empty
// slice returns a zero Summary.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	data := DurationSlice(samples)
	mean := stat.Mean(data)
	sd := stat.SdMean(data, mean)
	return Summary{
		MeanSeconds:   mean * nanoToSeconds,
		StdDevSeconds: sd * nanoToSeconds,
		Samples:       len(samples),
	}
}

// ThroughputPerSecond returns how many ops/sec totalOps amounts to, given
// the total wall-clock time they took.
func ThroughputPerSecond(totalOps int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(totalOps) / (float64(elapsed) * nanoToSeconds)
}
