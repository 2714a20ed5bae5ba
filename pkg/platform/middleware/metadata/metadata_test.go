package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentry/pkg/requestcontext"
)

func TestMiddlewareHandler(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		remoteAddr     string
		trustedProxies []string
		expectedIP     string
		expectedUA     string
	}{
		{
			name:       "ignores XFF without trusted proxies",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1", "User-Agent": "Mozilla/5.0"},
			remoteAddr: "192.168.1.1:12345",
			expectedIP: "192.168.1.1",
			expectedUA: "Mozilla/5.0",
		},
		{
			name:           "trusts first XFF hop from trusted proxy",
			headers:        map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.2", "User-Agent": "curl/8.0"},
			remoteAddr:     "10.0.0.1:12345",
			trustedProxies: []string{"10.0.0.0/8"},
			expectedIP:     "203.0.113.1",
			expectedUA:     "curl/8.0",
		},
		{
			name:           "uses X-Real-IP from trusted proxy",
			headers:        map[string]string{"X-Real-IP": "198.51.100.7"},
			remoteAddr:     "10.0.0.1:12345",
			trustedProxies: []string{"10.0.0.1"},
			expectedIP:     "198.51.100.7",
		},
		{
			name:           "falls back on garbage XFF",
			headers:        map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr:     "10.0.0.1:12345",
			trustedProxies: []string{"10.0.0.0/8"},
			expectedIP:     "10.0.0.1",
		},
		{
			name:       "strips brackets from IPv6 remote address",
			remoteAddr: "[2001:db8::1]:443",
			expectedIP: "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefixes, err := ParseTrustedProxies(tt.trustedProxies)
			require.NoError(t, err)

			var captured context.Context
			handler := NewMiddleware(prefixes).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = r.Context()
			}))

			req := httptest.NewRequest(http.MethodGet, "/consent/scripts", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expectedIP, requestcontext.ClientIP(captured))
			assert.Equal(t, tt.expectedUA, requestcontext.UserAgent(captured))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", " ", "192.168.1.5"})
	require.NoError(t, err)
	require.Len(t, prefixes, 2)
	assert.Equal(t, 32, prefixes[1].Bits())

	_, err = ParseTrustedProxies([]string{"nope/99"})
	assert.Error(t, err)
}
