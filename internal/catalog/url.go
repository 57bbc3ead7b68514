package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL standardizes the colour finder root so page URLs built
// from it are stable: scheme and host are lowercased, default ports and
// trailing slashes dropped, fragments and query strings removed.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("base url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", raw)
	}
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

// URLForName builds the page URL for a named colour. The site's slugs
// replace spaces with hyphens: "Reflex Blue C" -> ".../Reflex-Blue-C".
func URLForName(base, name string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
	return base + "/" + slug
}

// URLForNumber builds the page URL for a numbered coated colour:
// 2995 -> ".../2995-C".
func URLForNumber(base string, n int) string {
	return fmt.Sprintf("%s/%d-C", base, n)
}
