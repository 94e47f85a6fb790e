// Package identity derives the pseudo-identity string used as the
// primary key into the users collection. It is a convenience label
// taken from proxy headers, spoofable in some topologies, and
// explicitly not a security boundary.
package identity

import (
	"net/http"
	"strings"
)

// Fallback is used when no proxy header is present, e.g. in local
// development.
const Fallback = "127.0.0.1"

// FromRequest returns the first non-empty value of X-Forwarded-For
// (trimmed at the first comma to keep only the original client),
// X-Real-IP, then X-Remote-Addr. The value is used verbatim as a map
// key; no validation that it is a well-formed address.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if remoteAddr := r.Header.Get("X-Remote-Addr"); remoteAddr != "" {
		return remoteAddr
	}

	return Fallback
}
