package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

// Logical service names understood by the discovery endpoint.
const (
	DomainAgentVep            = "agentVep"
	DomainEngagementHistory   = "engHistDomain"
	DomainMessagingHistory    = "msgHist"
	DomainDataReporting       = "leDataReporting"
	DomainVisitorMonitoring   = "smt"
	DomainAccountConfigRead   = "accountConfigReadOnly"
	DomainAccountConfigWrite  = "accountConfigReadWrite"
	DomainAgentActivity       = "agentActivityDomain"
	DomainMessagingOperations = "asyncMessagingEnt"
)

// KnownServices lists the logical service names accepted by the CLI.
var KnownServices = []string{
	DomainAgentVep,
	DomainEngagementHistory,
	DomainMessagingHistory,
	DomainDataReporting,
	DomainVisitorMonitoring,
	DomainAccountConfigRead,
	DomainAccountConfigWrite,
	DomainAgentActivity,
	DomainMessagingOperations,
}

// DomainResolver maps a logical service name to the host serving it for one
// account. Each lookup is a signed GET; retries are the executor's.
type DomainResolver struct {
	exec      *Executor
	discovery string
	account   string
}

type baseURIResponse struct {
	// encoding/json matches "baseUri" here as well.
	BaseURI string `json:"baseURI"`
}

// DiscoveryURL returns the lookup URL for service.
func (d *DomainResolver) DiscoveryURL(service string) string {
	return fmt.Sprintf("%s/api/account/%s/service/%s/baseURI.json?version=1.0",
		d.discovery, url.PathEscape(d.account), url.PathEscape(service))
}

// Resolve returns the domain for service, e.g. "va.agentvep.liveperson.net".
// A blank service name is an argument error; lookup failures are
// *DomainError values.
func (d *DomainResolver) Resolve(ctx context.Context, service string) (string, error) {
	service = strings.TrimSpace(service)
	if err := validation.ValidateRequired("service", service); err != nil {
		return "", err
	}

	res := d.exec.ExecuteSigned(ctx, http.MethodGet, d.DiscoveryURL(service), nil)
	if res.Err != nil {
		return "", &DomainError{Service: service, Err: res.Err}
	}

	var body baseURIResponse
	if err := res.Decode(&body); err != nil {
		return "", &DomainError{Service: service, Err: err}
	}
	domain := strings.TrimSpace(body.BaseURI)
	if domain == "" {
		return "", &DomainError{Service: service, Err: ErrNoBaseURI}
	}
	if err := validation.ValidateDomain(domain); err != nil {
		return "", &DomainError{Service: service, Err: err}
	}
	return domain, nil
}
