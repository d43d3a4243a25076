package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/hamed0406/tcpping/internal/resolve"
)

// FailureClass is the closed set of reasons a probe can fail. Consumers match
// on the class; Detail carries the raw error text for operators.
type FailureClass int

const (
	FailureNone FailureClass = iota
	FailureTimeout
	FailureRefused
	FailureUnreachable
	FailureResolution
	FailureOther
)

func (c FailureClass) String() string {
	switch c {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureRefused:
		return "connection refused"
	case FailureUnreachable:
		return "unreachable"
	case FailureResolution:
		return "dns error"
	default:
		return "error"
	}
}

// Outcome is one measurement. Elapsed is meaningful only when Success;
// Class/Detail only when not.
type Outcome struct {
	Address resolve.Address
	Seq     int
	Time    time.Time
	Success bool
	Elapsed time.Duration
	Class   FailureClass
	Detail  string
}

// Prober performs a single timed connect attempt against one address.
type Prober interface {
	Probe(ctx context.Context, addr resolve.Address, seq int) Outcome
}

// TCPProber measures TCP handshake latency. The connection is closed as soon
// as it establishes; nothing is sent or read.
type TCPProber struct {
	Port    int
	Timeout time.Duration
}

func NewTCPProber(port int, timeout time.Duration) *TCPProber {
	return &TCPProber{Port: port, Timeout: timeout}
}

// Probe never returns an error: every expected network failure (timeout,
// refused, unreachable, ...) is a normal outcome with Success=false.
func (p *TCPProber) Probe(ctx context.Context, addr resolve.Address, seq int) Outcome {
	out := Outcome{
		Address: addr,
		Seq:     seq,
		Time:    time.Now(),
	}

	d := net.Dialer{Timeout: p.Timeout}
	hostport := net.JoinHostPort(addr.IP, strconv.Itoa(p.Port))

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", hostport)
	out.Elapsed = time.Since(start)

	if err != nil {
		out.Class = Classify(err)
		out.Detail = err.Error()
		return out
	}
	_ = conn.Close()
	out.Success = true
	return out
}

// Classify maps a connect error onto a FailureClass.
func Classify(err error) FailureClass {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return FailureRefused
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return FailureUnreachable
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FailureResolution
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureOther
}
