package broker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL_HostAndPath(t *testing.T) {
	req := require.New(t)

	req.Equal("example.com/article", NormalizeURL("https://example.com/article"))
	req.Equal("example.com", NormalizeURL("https://example.com"))
	req.Equal("example.com", NormalizeURL("https://example.com/"))
}

func TestNormalizeURL_EquivalenceClasses(t *testing.T) {
	req := require.New(t)

	// Casing, trailing slash, query, fragment, scheme, and port all collapse.
	variants := []string{
		"https://HOST.com/Path/",
		"http://host.com/path",
		"https://host.com/path?utm_source=x",
		"https://host.com/path#section-2",
		"https://host.com:443/path",
	}
	for _, v := range variants {
		req.Equal("host.com/path", NormalizeURL(v), "variant %q", v)
	}
}

func TestNormalizeURL_Deterministic(t *testing.T) {
	inputs := []string{"https://a.b/c", "not a url at all", "", "x.com/p"}
	for _, in := range inputs {
		require.Equal(t, NormalizeURL(in), NormalizeURL(in))
	}
}

func TestNormalizeURL_SchemelessInput(t *testing.T) {
	require.Equal(t, "x.com/p", NormalizeURL("x.com/p"))
}

func TestNormalizeURL_MalformedFallsBack(t *testing.T) {
	req := require.New(t)

	// No host to extract; fall back to the lowercased raw string.
	req.Equal("not a real url", NormalizeURL("Not A Real URL"))
	req.Equal("", NormalizeURL(""))
}
