package util

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegisteredDomain returns the eTLD+1 for host using the public suffix
// list. IP literals are returned unchanged; hosts the list cannot resolve
// fall back to their last two labels.
func RegisteredDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
