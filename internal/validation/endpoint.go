package validation

import (
	"net"
	"net/url"
	"strings"
)

// ValidateEndpointURL checks an overridden discovery or status URL. It must be
// absolute http(s), carry a host and must not target a cloud metadata
// endpoint.
func ValidateEndpointURL(rawURL string) error {
	if rawURL == "" {
		return argErr("url", nil, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return argErr("url", rawURL, "invalid URL format: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return argErr("url", rawURL, "only http and https are allowed, got %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return argErr("url", rawURL, "missing hostname")
	}
	if isCloudMetadata(u.Hostname()) {
		return argErr("url", rawURL, "cloud metadata endpoints are not allowed")
	}
	return nil
}

// ValidateDomain checks a host returned by service discovery. It must be a
// bare host with an optional port.
func ValidateDomain(domain string) error {
	if strings.TrimSpace(domain) == "" {
		return argErr("domain", nil, "must not be empty")
	}
	if strings.ContainsAny(domain, "/?#@ ") || strings.Contains(domain, "://") {
		return argErr("domain", domain, "must be a bare host name")
	}
	host := domain
	if h, _, err := net.SplitHostPort(domain); err == nil {
		host = h
	}
	if isCloudMetadata(host) {
		return argErr("domain", domain, "cloud metadata endpoints are not allowed")
	}
	return nil
}

func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(strings.Trim(hostname, "[]"))
	switch lowercase {
	case "169.254.169.254", // AWS, Azure, GCP, DigitalOcean
		"metadata.google.internal",
		"metadata",
		"instance-data",
		"fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}
