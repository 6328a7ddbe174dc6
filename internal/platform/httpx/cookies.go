// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

// CookiePolicy controls which cookies a client jar accepts.
type CookiePolicy string

const (
	CookiePolicyOriginalServer CookiePolicy = "accept_original_server"
	CookiePolicyAll            CookiePolicy = "accept_all"
	CookiePolicyNone           CookiePolicy = "accept_none"
)

// Valid reports whether p is a known policy.
func (p CookiePolicy) Valid() bool {
	switch p {
	case CookiePolicyOriginalServer, CookiePolicyAll, CookiePolicyNone:
		return true
	}
	return false
}

// originalServerJar only stores cookies whose domain attribute covers the
// host that set them.
type originalServerJar struct {
	inner http.CookieJar
}

func (j *originalServerJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	host := u.Hostname()
	accepted := cookies[:0:0]
	for _, c := range cookies {
		if c.Domain == "" || DomainMatches(c.Domain, host) {
			accepted = append(accepted, c)
		}
	}
	if len(accepted) > 0 {
		j.inner.SetCookies(u, accepted)
	}
}

func (j *originalServerJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// DomainMatches reports whether host is within the cookie domain.
func DomainMatches(domain, host string) bool {
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	host = strings.ToLower(host)
	if domain == "" || host == "" {
		return false
	}
	if host == domain {
		return true
	}
	return strings.HasSuffix(host, "."+domain)
}
