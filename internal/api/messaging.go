package api

import (
	"context"
	"net/http"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

const operationsService = "operations"

// Conversation returns messaging conversation metrics for the window.
// Empty agent or skill filters are sent as "all".
func (s MessagingService) Conversation(ctx context.Context, q MetricsQuery) (Result, error) {
	return messagingConversation(ctx, s, q)
}

func messagingConversation(ctx context.Context, r Requester, q MetricsQuery) (Result, error) {
	if err := validation.ValidateTimeWindow(q.Timeframe, q.Interval); err != nil {
		return Result{}, err
	}
	ep := endpoint{
		service: operationsService,
		action:  "msgconversation",
		params: []param{
			{"timeframe", q.Timeframe},
			{"agentIds", joinIDs(q.AgentIDs, "all")},
			{"skillIds", joinIDs(q.SkillIDs, "all")},
			{"interval", q.Interval},
		},
	}
	return callSigned(ctx, r, DomainDataReporting, http.MethodGet, ep, nil), nil
}
