package service

import (
	"net"
	"strings"
)

// ResolutionSource records which part of the request named the tenant.
type ResolutionSource string

const (
	SourceNone      ResolutionSource = ""
	SourceCookie    ResolutionSource = "cookie"
	SourceSubdomain ResolutionSource = "subdomain"
	SourcePath      ResolutionSource = "path"
)

// RequestInfo is the part of an inbound request the resolver looks at.
// CookieTenant must already be verified by the caller.
type RequestInfo struct {
	Host         string
	Path         string
	CookieTenant string
}

type Resolution struct {
	TenantID string
	Source   ResolutionSource
}

func (r Resolution) Found() bool { return r.Source != SourceNone }

// ResolveTenant picks the tenant key for a request. A verified cookie wins,
// then the leading label of a host with more than two labels (except www),
// then the first path segment.
func ResolveTenant(info RequestInfo) Resolution {
	if info.CookieTenant != "" {
		return Resolution{TenantID: info.CookieTenant, Source: SourceCookie}
	}
	if sub := subdomainOf(info.Host); sub != "" {
		return Resolution{TenantID: sub, Source: SourceSubdomain}
	}
	if seg := firstSegment(info.Path); seg != "" {
		return Resolution{TenantID: seg, Source: SourcePath}
	}
	return Resolution{}
}

func subdomainOf(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return ""
	}

	labels := strings.Split(host, ".")
	if len(labels) <= 2 || labels[0] == "" || labels[0] == "www" {
		return ""
	}
	return labels[0]
}

func firstSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
