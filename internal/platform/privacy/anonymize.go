// Package privacy reduces client identifiers to what the decision log and
// request logs may keep.
package privacy

import "net/netip"

const (
	ipv4PrefixBits = 24
	ipv6PrefixBits = 48
)

// AnonymizeIP keeps only the network part of ip: /24 for IPv4 and /48 for
// IPv6, e.g. "203.0.113.77" -> "203.0.113.0". A trailing port is ignored and
// IPv4-mapped IPv6 addresses are treated as IPv4.
//
// Returns "unknown" for empty input and "invalid" when ip does not parse.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		withPort, perr := netip.ParseAddrPort(ip)
		if perr != nil {
			return "invalid"
		}
		addr = withPort.Addr()
	}
	addr = addr.Unmap()

	bits := ipv6PrefixBits
	if addr.Is4() {
		bits = ipv4PrefixBits
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
