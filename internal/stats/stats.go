package stats

import (
	"math"
	"sort"
	"time"

	"github.com/hamed0406/tcpping/internal/probe"
	"github.com/hamed0406/tcpping/internal/resolve"
)

// RTTSummary holds the latency distribution of an address's successful
// probes. It exists only when at least one probe succeeded.
//
// Percentiles use linear interpolation between the two ranks bracketing the
// 0-indexed position p*(n-1) over the ascending sample list, the same rule
// numpy.percentile applies by default.
type RTTSummary struct {
	Min  time.Duration
	Avg  time.Duration
	Max  time.Duration
	Mdev time.Duration // mean absolute deviation from Avg
	P50  time.Duration
	P90  time.Duration
	P99  time.Duration
}

// AddressStats is the finalized per-address result. RTT is nil when no probe
// succeeded, never a zeroed struct.
type AddressStats struct {
	Address    resolve.Address
	Sent       int
	Successful int
	Failed     int
	RTT        *RTTSummary
}

// LossPercent is failed/sent as a percentage; 0 for an empty run.
func (s AddressStats) LossPercent() float64 {
	if s.Sent == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Sent) * 100
}

// Summarize reduces one address's ordered outcomes into AddressStats. It is
// a pure function: the same outcome sequence always yields the same stats.
func Summarize(addr resolve.Address, outcomes []probe.Outcome) AddressStats {
	s := AddressStats{Address: addr, Sent: len(outcomes)}

	var rtts []time.Duration
	for _, out := range outcomes {
		if out.Success {
			rtts = append(rtts, out.Elapsed)
		}
	}
	s.Successful = len(rtts)
	s.Failed = s.Sent - s.Successful
	if s.Successful == 0 {
		return s
	}

	sort.Slice(rtts, func(i, j int) bool { return rtts[i] < rtts[j] })

	var sum float64
	for _, r := range rtts {
		sum += float64(r)
	}
	mean := sum / float64(len(rtts))

	var dev float64
	for _, r := range rtts {
		dev += math.Abs(float64(r) - mean)
	}

	s.RTT = &RTTSummary{
		Min:  rtts[0],
		Max:  rtts[len(rtts)-1],
		Avg:  time.Duration(mean),
		Mdev: time.Duration(dev / float64(len(rtts))),
		P50:  quantile(rtts, 0.50),
		P90:  quantile(rtts, 0.90),
		P99:  quantile(rtts, 0.99),
	}
	return s
}

// quantile expects sorted ascending with at least one sample.
func quantile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + time.Duration(frac*float64(sorted[hi]-sorted[lo]))
}
