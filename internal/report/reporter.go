// Package report renders probe outcomes and per-address summaries as the
// operator-facing text output. It is presentation only: all numbers come
// from the stats package untouched.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hamed0406/tcpping/internal/probe"
	"github.com/hamed0406/tcpping/internal/resolve"
	"github.com/hamed0406/tcpping/internal/stats"
)

type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Banner prints the run header before any probe fires.
func (r *Reporter) Banner(target string, port int, addrs []resolve.Address, count int) {
	ips := make([]string, len(addrs))
	for i, a := range addrs {
		ips[i] = a.IP
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "\nTCP ping to %s:%d\n", target, port)
	fmt.Fprintf(r.w, "Resolved IPs: %s\n", strings.Join(ips, ", "))
	fmt.Fprintf(r.w, "Sending %d TCP ping probes to each IP\n\n", count)
}

// Record prints one live probe line. Safe for concurrent use; lines from
// different addresses may interleave, each line stays whole.
func (r *Reporter) Record(out probe.Outcome) {
	ts := out.Time.Format("15:04:05.000")
	r.mu.Lock()
	defer r.mu.Unlock()
	if out.Success {
		fmt.Fprintf(r.w, "[%s] Connected to %s: time=%.2fms\n", ts, out.Address.IP, ms(out.Elapsed))
		return
	}
	fmt.Fprintf(r.w, "[%s] Failed to connect to %s: %s\n", ts, out.Address.IP, reason(out))
}

// Summary prints the per-address statistics blocks in resolution order.
func (r *Reporter) Summary(addrs []resolve.Address, results map[resolve.Address]stats.AddressStats, interrupted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if interrupted {
		fmt.Fprintf(r.w, "\nPing interrupted, reporting completed probes only\n")
	}
	fmt.Fprintf(r.w, "\n=== TCP ping statistics per IP ===\n")

	for _, addr := range addrs {
		st := results[addr]
		fmt.Fprintf(r.w, "\nIP: %s\n", addr.IP)
		fmt.Fprintf(r.w, "Sent: %d, Successful: %d, Failed: %d (%.1f%% loss)\n",
			st.Sent, st.Successful, st.Failed, st.LossPercent())

		if st.RTT == nil {
			fmt.Fprintf(r.w, "RTT min/avg/max/mdev = N/A\n")
			fmt.Fprintf(r.w, "Percentiles (p50/p90/p99) = N/A\n")
			continue
		}
		fmt.Fprintf(r.w, "RTT min/avg/max/mdev = %.2f/%.2f/%.2f/%.2f ms\n",
			ms(st.RTT.Min), ms(st.RTT.Avg), ms(st.RTT.Max), ms(st.RTT.Mdev))
		fmt.Fprintf(r.w, "Percentiles (p50/p90/p99) = %.2f/%.2f/%.2f ms\n",
			ms(st.RTT.P50), ms(st.RTT.P90), ms(st.RTT.P99))
	}
}

func reason(out probe.Outcome) string {
	if out.Class == probe.FailureOther && out.Detail != "" {
		return fmt.Sprintf("%s (%s)", out.Class, out.Detail)
	}
	return out.Class.String()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
