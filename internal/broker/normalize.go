package broker

import (
	"net/url"
	"strings"
)

// NormalizeURL derives the room key for a raw page URL: lowercased hostname
// plus path with a single trailing slash stripped. Query string, fragment,
// scheme, port, and casing differences all collapse to the same key, so
// everyone on the same page lands in the same room.
//
// Malformed input never fails: it falls back to the lowercased raw string,
// which is still a deterministic (if lonely) key.
func NormalizeURL(raw string) string {
	// Browser URLs always carry a scheme; bare "host/path" input should
	// still key on host+path rather than being parsed as a relative path.
	toParse := raw
	if !strings.Contains(toParse, "://") {
		toParse = "http://" + toParse
	}

	u, err := url.Parse(toParse)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(raw)
	}

	key := strings.ToLower(u.Hostname() + u.Path)
	return strings.TrimSuffix(key, "/")
}
