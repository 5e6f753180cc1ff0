package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	pkgconfig "csflix/pkg/config"
)

// IPExtractor returns the client IP of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address only.
type RemoteAddrExtractor struct{}

// ExtractIP strips the port from r.RemoteAddr.
func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyExtractor reads X-Forwarded-For, then X-Real-IP, but only when the
// peer is one of the trusted proxies. Other peers fall back to RemoteAddr.
type TrustedProxyExtractor struct {
	Trusted []netip.Prefix
}

// ExtractIP returns the forwarded client IP for trusted peers.
func (e TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	peer, err := extractIPFromAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if !e.isTrusted(peer) {
		return peer, nil
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String(), nil
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.String(), nil
		}
	}
	return peer, nil
}

func (e TrustedProxyExtractor) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range e.Trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies parses a comma-separated list of IPs and CIDR ranges.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(s); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		ip, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", s)
		}
		out = append(out, netip.PrefixFrom(ip, ip.BitLen()))
	}
	return out, nil
}

// ExtractorFromEnv returns a TrustedProxyExtractor when TRUSTED_PROXIES is set,
// and a RemoteAddrExtractor otherwise.
func ExtractorFromEnv() (IPExtractor, error) {
	list := pkgconfig.GetEnvString("TRUSTED_PROXIES", "")
	if list == "" {
		return RemoteAddrExtractor{}, nil
	}
	trusted, err := ParseTrustedProxies(list)
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return TrustedProxyExtractor{Trusted: trusted}, nil
}

func extractIPFromAddr(remoteAddr string) (string, error) {
	if remoteAddr == "" {
		return "", fmt.Errorf("empty remote address")
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// no port
		if ip := net.ParseIP(remoteAddr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid remote address %q: %w", remoteAddr, err)
	}
	return host, nil
}
