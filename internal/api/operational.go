package api

import (
	"context"
	"net/http"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

// AgentActivityPostThreshold is the agent count from which agent activity is
// requested with a POST body instead of query parameters.
const AgentActivityPostThreshold = 3

type agentActivityRequest struct {
	Timeframe int    `json:"timeframe"`
	AgentIDs  string `json:"agentIds"`
	Interval  *int   `json:"interval,omitempty"`
}

// QueueHealth returns queue metrics for the window, optionally limited to
// skills.
func (s OperationalService) QueueHealth(ctx context.Context, q MetricsQuery) (Result, error) {
	return queueHealth(ctx, s, q)
}

func queueHealth(ctx context.Context, r Requester, q MetricsQuery) (Result, error) {
	if err := validation.ValidateTimeWindow(q.Timeframe, q.Interval); err != nil {
		return Result{}, err
	}
	params := []param{{"timeframe", q.Timeframe}}
	if len(q.SkillIDs) > 0 {
		params = append(params, param{"skillIds", joinIDs(q.SkillIDs, "")})
	}
	params = append(params, param{"interval", q.Interval})

	ep := endpoint{service: operationsService, action: "queuehealth", params: params}
	return callSigned(ctx, r, DomainDataReporting, http.MethodGet, ep, nil), nil
}

// EngagementActivity returns engagement metrics for the window, optionally
// limited to agents and skills.
func (s OperationalService) EngagementActivity(ctx context.Context, q MetricsQuery) (Result, error) {
	return engagementActivity(ctx, s, q)
}

func engagementActivity(ctx context.Context, r Requester, q MetricsQuery) (Result, error) {
	if err := validation.ValidateTimeWindow(q.Timeframe, q.Interval); err != nil {
		return Result{}, err
	}
	params := []param{{"timeframe", q.Timeframe}}
	if len(q.AgentIDs) > 0 {
		params = append(params, param{"agentIds", joinIDs(q.AgentIDs, "")})
	}
	if len(q.SkillIDs) > 0 {
		params = append(params, param{"skillIds", joinIDs(q.SkillIDs, "")})
	}
	params = append(params, param{"interval", q.Interval})

	ep := endpoint{service: operationsService, action: "engactivity", params: params}
	return callSigned(ctx, r, DomainDataReporting, http.MethodGet, ep, nil), nil
}

// AgentActivity returns agent metrics for the window. With fewer than
// AgentActivityPostThreshold agents the filter travels in the query string
// ("all" when empty); longer lists are sent as a POST body.
func (s OperationalService) AgentActivity(ctx context.Context, q MetricsQuery) (Result, error) {
	return agentActivity(ctx, s, q)
}

func agentActivity(ctx context.Context, r Requester, q MetricsQuery) (Result, error) {
	if err := validation.ValidateTimeWindow(q.Timeframe, q.Interval); err != nil {
		return Result{}, err
	}

	ep := endpoint{service: operationsService, action: "agentactivity"}
	if len(q.AgentIDs) < AgentActivityPostThreshold {
		ep.params = []param{
			{"timeframe", q.Timeframe},
			{"agentIds", joinIDs(q.AgentIDs, "all")},
			{"interval", q.Interval},
		}
		return callSigned(ctx, r, DomainDataReporting, http.MethodGet, ep, nil), nil
	}

	body := agentActivityRequest{
		Timeframe: q.Timeframe,
		AgentIDs:  joinIDs(q.AgentIDs, ""),
		Interval:  q.Interval,
	}
	return callSigned(ctx, r, DomainDataReporting, http.MethodPost, ep, body), nil
}

// CurrentQueueState returns the live queue state, optionally limited to
// skills.
func (s OperationalService) CurrentQueueState(ctx context.Context, skillIDs []string) (Result, error) {
	return currentQueueState(ctx, s, skillIDs)
}

func currentQueueState(ctx context.Context, r Requester, skillIDs []string) (Result, error) {
	ep := endpoint{service: operationsService, action: "queuestate"}
	if len(skillIDs) > 0 {
		ep.params = []param{{"skillIds", joinIDs(skillIDs, "")}}
	}
	return callSigned(ctx, r, DomainDataReporting, http.MethodGet, ep, nil), nil
}
