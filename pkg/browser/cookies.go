package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/engage/pkg/types"
)

// DefaultCookieDomains keeps the cookies a signed-in watch page needs.
var DefaultCookieDomains = []string{
	"youtube.com",
	"*.youtube.com",
	"google.com",
	"*.google.com",
}

// rawCookie accepts both Playwright's storage format and the browser
// extension export format (expirationDate, lowercase sameSite values).
type rawCookie struct {
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Domain         string   `json:"domain"`
	Path           string   `json:"path"`
	Expires        *float64 `json:"expires"`
	ExpirationDate *float64 `json:"expirationDate"`
	HTTPOnly       bool     `json:"httpOnly"`
	Secure         bool     `json:"secure"`
	SameSite       string   `json:"sameSite"`
	Session        bool     `json:"session"`
}

// DomainFilter keeps cookies whose domain matches one of a set of glob patterns.
type DomainFilter struct {
	patterns []glob.Glob
}

// NewDomainFilter compiles patterns. An empty list keeps every cookie.
func NewDomainFilter(patterns []string) (*DomainFilter, error) {
	f := &DomainFilter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid cookie domain pattern '%s': %w", pattern, err)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// Match reports whether a cookie domain is kept. A leading dot is ignored.
func (f *DomainFilter) Match(domain string) bool {
	if len(f.patterns) == 0 {
		return true
	}
	host := strings.TrimPrefix(strings.ToLower(domain), ".")
	for _, g := range f.patterns {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// LoadCookies reads a JSON array of cookies from path and keeps the ones the
// filter matches. A nil filter keeps everything.
func LoadCookies(path string, filter *DomainFilter) ([]types.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var raw []rawCookie
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file %s: %w", path, err)
	}

	cookies := make([]types.Cookie, 0, len(raw))
	for i, rc := range raw {
		if rc.Name == "" {
			return nil, fmt.Errorf("cookie %d in %s has no name", i, path)
		}
		if rc.Domain == "" {
			return nil, fmt.Errorf("cookie %q in %s has no domain", rc.Name, path)
		}
		if filter != nil && !filter.Match(rc.Domain) {
			continue
		}
		cookies = append(cookies, rc.normalize())
	}
	return cookies, nil
}

func (rc rawCookie) normalize() types.Cookie {
	c := types.Cookie{
		Name:     rc.Name,
		Value:    rc.Value,
		Domain:   rc.Domain,
		Path:     rc.Path,
		HTTPOnly: rc.HTTPOnly,
		Secure:   rc.Secure,
		SameSite: normalizeSameSite(rc.SameSite),
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if !rc.Session {
		switch {
		case rc.Expires != nil:
			c.Expires = *rc.Expires
		case rc.ExpirationDate != nil:
			c.Expires = *rc.ExpirationDate
		}
	}
	if c.Expires < 0 {
		c.Expires = 0
	}
	// Browsers reject SameSite=None without Secure.
	if c.SameSite == types.SameSiteNone && !c.Secure {
		c.SameSite = types.SameSiteLax
	}
	return c
}

func normalizeSameSite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return types.SameSiteStrict
	case "lax":
		return types.SameSiteLax
	case "none", "no_restriction":
		return types.SameSiteNone
	default:
		return ""
	}
}
