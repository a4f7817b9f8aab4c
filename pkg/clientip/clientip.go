package clientip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
)

// ErrInvalidProxy is returned by ParseTrustedProxies for an entry that is
// neither an address nor a CIDR prefix.
var ErrInvalidProxy = errors.New("clientip: invalid trusted proxy")

// singleHeaders name one client address each and are consulted in order
// before X-Forwarded-For.
var singleHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
}

const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// Resolver finds the client address of a request. Proxy headers are honored
// only when the immediate peer is a trusted proxy.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver returns a Resolver that trusts proxy headers set by peers
// inside the given prefixes. With no prefixes only RemoteAddr is used.
func NewResolver(trusted ...netip.Prefix) *Resolver {
	return &Resolver{trusted: slices.Clone(trusted)}
}

// ParseTrustedProxies parses addresses and CIDR prefixes. A bare address
// becomes a single-host prefix. Empty entries are skipped.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidProxy, entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidProxy, entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

var untrusted = NewResolver()

// GetIP returns the peer address of r, ignoring proxy headers. It is what a
// Resolver with no trusted proxies returns.
func GetIP(r *http.Request) string {
	return untrusted.IP(r)
}

// IP returns the normalized client address of r, or "" if none is valid.
//
// When the peer is trusted, CF-Connecting-IP and DO-Connecting-IP win, then
// the right-most X-Forwarded-For entry that is not itself a trusted proxy,
// then X-Real-IP. Invalid values are skipped.
func (res *Resolver) IP(r *http.Request) string {
	peer, ok := remoteAddr(r.RemoteAddr)
	if !ok {
		return ""
	}
	if !res.trusts(peer) {
		return peer.String()
	}

	for _, header := range singleHeaders {
		if addr, ok := parseAddr(r.Header.Get(header)); ok {
			return addr.String()
		}
	}
	if addr, ok := res.forwardedFor(r.Header.Values(headerForwardedFor)); ok {
		return addr.String()
	}
	if addr, ok := parseAddr(r.Header.Get(headerRealIP)); ok {
		return addr.String()
	}
	return peer.String()
}

// forwardedFor walks the hop chain from the nearest proxy outwards. If every
// hop is trusted the outermost one is the client.
func (res *Resolver) forwardedFor(values []string) (netip.Addr, bool) {
	var hops []netip.Addr
	for _, value := range values {
		for candidate := range strings.SplitSeq(value, ",") {
			if addr, ok := parseAddr(candidate); ok {
				hops = append(hops, addr)
			}
		}
	}
	if len(hops) == 0 {
		return netip.Addr{}, false
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !res.trusts(hops[i]) {
			return hops[i], true
		}
	}
	return hops[0], true
}

func (res *Resolver) trusts(addr netip.Addr) bool {
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteAddr(s string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return parseAddr(s)
	}
	return parseAddr(host)
}

func parseAddr(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap().WithZone(""), true
}
