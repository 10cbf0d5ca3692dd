package api

import (
	"context"

	"github.com/cwsops/liveperson-cli/internal/urlbuilder"
)

// endpoint describes a resource path below a resolved domain.
type endpoint struct {
	service string
	action  string
	context string
	version string
	params  []param
}

type param struct {
	key   string
	value any
}

// PathResolver turns a logical service into a concrete resource URL.
//
// Services depend on this interface rather than *Client so URL composition
// can be tested without discovery traffic.
type PathResolver interface {
	// resolveDomain looks up the host serving the logical service.
	resolveDomain(ctx context.Context, service string) (string, error)

	// resourceURL builds a FormatStandard URL for ep on domain.
	// Example: resourceURL("va.example.net", {service: "operations", action: "queuehealth"})
	// -> "https://va.example.net/operations/api/account/123/queuehealth?v=1"
	resourceURL(domain string, ep endpoint) string
}

// HTTPExecutor sends requests and records the outcome in a Result.
type HTTPExecutor interface {
	executeSigned(ctx context.Context, method, url string, payload any) Result
	executeBearer(ctx context.Context, method, url string, payload any, headers map[string]string) Result
}

// Requester combines PathResolver and HTTPExecutor to provide the complete
// request surface used by the service helpers.
type Requester interface {
	PathResolver
	HTTPExecutor
}

// callSigned resolves domainKey, builds the URL and performs a signed call.
// A failed lookup is recorded in the Result.
func callSigned(ctx context.Context, r Requester, domainKey, method string, ep endpoint, payload any) Result {
	domain, err := r.resolveDomain(ctx, domainKey)
	if err != nil {
		return failed(err)
	}
	return r.executeSigned(ctx, method, r.resourceURL(domain, ep), payload)
}

// callBearer is callSigned for bearer-authenticated services.
func callBearer(ctx context.Context, r Requester, domainKey, method string, ep endpoint, payload any) Result {
	domain, err := r.resolveDomain(ctx, domainKey)
	if err != nil {
		return failed(err)
	}
	return r.executeBearer(ctx, method, r.resourceURL(domain, ep), payload, nil)
}

func buildResourceURL(secure bool, domain, account string, ep endpoint) string {
	d := urlbuilder.New(secure).
		Format(urlbuilder.FormatStandard).
		Domain(domain).
		Service(ep.service).
		Account(account).
		Action(ep.action).
		ActionContext(ep.context).
		Query(len(ep.params) > 0)
	if ep.version != "" {
		d = d.Version(ep.version)
	}
	for _, p := range ep.params {
		d = d.Param(p.key, p.value)
	}
	return d.Build().String()
}
