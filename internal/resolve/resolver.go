package resolve

import (
	"context"
	"fmt"
	"net"
)

// Family tags an Address as IPv4 or IPv6.
type Family string

const (
	IPv4 Family = "ipv4"
	IPv6 Family = "ipv6"
)

// Address is one resolved IP in canonical string form. Immutable once
// produced; the probing code only ever reads it.
type Address struct {
	IP     string
	Family Family
}

func (a Address) String() string { return a.IP }

// ResolutionError means the target yielded no usable addresses. It is fatal
// for the whole run: without at least one address there is nothing to probe.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %q: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("could not resolve %q: no addresses", e.Host)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver turns a hostname or IP literal into the set of addresses to probe.
// LookupIP is swappable so tests can script lookup results.
type Resolver struct {
	LookupIP func(ctx context.Context, network, host string) ([]net.IP, error)
}

func New() *Resolver {
	r := &net.Resolver{} // OS resolver
	return &Resolver{LookupIP: r.LookupIP}
}

// Addresses resolves host to an ordered, duplicate-free address list covering
// both families. An IP literal short-circuits without any lookup.
func (r *Resolver) Addresses(ctx context.Context, host string) ([]Address, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []Address{fromIP(ip)}, nil
	}

	ips, err := r.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, &ResolutionError{Host: host, Err: err}
	}
	if len(ips) == 0 {
		return nil, &ResolutionError{Host: host}
	}

	// Lookup order is kept; repeats of the same address are collapsed.
	seen := make(map[string]struct{}, len(ips))
	addrs := make([]Address, 0, len(ips))
	for _, ip := range ips {
		a := fromIP(ip)
		if _, dup := seen[a.IP]; dup {
			continue
		}
		seen[a.IP] = struct{}{}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func fromIP(ip net.IP) Address {
	fam := IPv6
	if ip.To4() != nil {
		fam = IPv4
	}
	return Address{IP: ip.String(), Family: fam}
}
