package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the key shared by requests that carry no address headers.
const UnknownClient = "unknown"

// ClientKey derives the limiter key from proxy headers: the first
// X-Forwarded-For hop, else X-Real-IP, else UnknownClient.
func ClientKey(h http.Header) string {
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(h.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
