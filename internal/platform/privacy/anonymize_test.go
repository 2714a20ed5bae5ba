package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"visitor ipv4", "203.0.113.77", "203.0.113.0"},
		{"proxy hop ipv4", "10.0.0.0", "10.0.0.0"},
		{"remote addr with port", "198.51.100.23:51234", "198.51.100.0"},
		{"ipv4-mapped ipv6", "::ffff:192.0.2.130", "192.0.2.0"},
		{"visitor ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 with port", "[2001:db8:85a3::1]:443", "2001:db8:85a3::"},
		{"ipv6 zone dropped", "fe80::1%eth0", "fe80::"},
		{"ipv6 loopback", "::1", "::"},
		{"no client ip", "", "unknown"},
		{"client ip marked unknown", "unknown", "unknown"},
		{"hostname", "acme.example", "invalid"},
		{"truncated ipv4", "192.168.1", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.input))
		})
	}
}

func TestAnonymizeIPGroupsVisitorsByNetwork(t *testing.T) {
	for _, ip := range []string{"203.0.113.1", "203.0.113.100", "203.0.113.255"} {
		assert.Equal(t, "203.0.113.0", AnonymizeIP(ip), ip)
	}
	assert.NotEqual(t, AnonymizeIP("203.0.113.7"), AnonymizeIP("203.0.114.7"))
	assert.Equal(t, AnonymizeIP("2001:db8:1::a"), AnonymizeIP("2001:db8:1:ffff::b"))
}
