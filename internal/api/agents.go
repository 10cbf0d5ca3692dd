package api

import (
	"context"
	"net/http"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

const (
	messagingHistoryService = "messaging_history"
	agentViewAction         = "agent-view"
)

type agentStatusRequest struct {
	Status        []AgentState `json:"status"`
	AgentGroupIDs []string     `json:"agentGroupIds"`
}

type agentSummaryRequest struct {
	AgentGroupIDs []string `json:"agentGroupIds"`
}

// Status returns agent states for the given groups. An empty States list
// asks for every state.
func (s AgentsService) Status(ctx context.Context, q AgentStatusQuery) (Result, error) {
	return agentStatus(ctx, s, q)
}

func agentStatus(ctx context.Context, r Requester, q AgentStatusQuery) (Result, error) {
	states := q.States
	if len(states) == 0 {
		states = AllAgentStates
	}
	for _, st := range states {
		if _, ok := ParseAgentState(string(st)); !ok {
			return Result{}, &validation.ArgumentError{Field: "status", Value: st, Reason: "must be one of ONLINE, AWAY, BACK_SOON, OFFLINE"}
		}
	}
	ep := endpoint{service: messagingHistoryService, action: agentViewAction, context: "status"}
	body := agentStatusRequest{Status: states, AgentGroupIDs: nonNil(q.GroupIDs)}
	return callSigned(ctx, r, DomainMessagingHistory, http.MethodPost, ep, body), nil
}

// Summary returns aggregated agent state counts for the given groups.
func (s AgentsService) Summary(ctx context.Context, groupIDs []string) (Result, error) {
	return agentSummary(ctx, s, groupIDs)
}

func agentSummary(ctx context.Context, r Requester, groupIDs []string) (Result, error) {
	ep := endpoint{service: messagingHistoryService, action: agentViewAction, context: "summary"}
	return callSigned(ctx, r, DomainMessagingHistory, http.MethodPost, ep, agentSummaryRequest{AgentGroupIDs: nonNil(groupIDs)}), nil
}
