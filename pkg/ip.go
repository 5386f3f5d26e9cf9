package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies are the reverse proxies allowed to report the client address
// through X-Real-Ip / X-Forwarded-For.
type TrustedProxies []*net.IPNet

// ParseTrustedProxies accepts single addresses ("127.0.0.1", "::1") and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy: %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 8 * net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy: %w", err)
		}
		proxies = append(proxies, ipNet)
	}
	return proxies, nil
}

func (p TrustedProxies) Contains(ip net.IP) bool {
	for _, ipNet := range p {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ReadUserIP returns the client IP. Forwarding headers are only read when the
// connection comes from a trusted proxy; the right-most untrusted
// X-Forwarded-For hop is the client, the hops left of it are client supplied.
func ReadUserIP(r *http.Request, trusted TrustedProxies) (string, error) {
	remoteAddr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}
	remoteIP := net.ParseIP(remoteAddr)
	if remoteIP == nil {
		return "", fmt.Errorf("ip addr %s is invalid", remoteAddr)
	}

	if !trusted.Contains(remoteIP) {
		return remoteIP.String(), nil
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := net.ParseIP(strings.TrimSpace(hops[i]))
			if hop == nil {
				break
			}
			if !trusted.Contains(hop) {
				return hop.String(), nil
			}
		}
	}

	if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); realIP != nil {
		return realIP.String(), nil
	}

	return remoteIP.String(), nil
}
