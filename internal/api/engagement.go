package api

import (
	"context"
	"net/http"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

const interactionHistoryService = "interaction_history"

type interactionSearchRequest struct {
	Interactive bool      `json:"interactive"`
	Ended       bool      `json:"ended"`
	Start       timeRange `json:"start"`
	SkillIDs    []string  `json:"skillIds"`
}

// InteractionHistory searches engagement records started within [From, To].
// Limit must lie in [0, 100] and Offset must not be negative.
func (s EngagementService) InteractionHistory(ctx context.Context, q InteractionQuery) (Result, error) {
	return interactionHistory(ctx, s, q)
}

func interactionHistory(ctx context.Context, r Requester, q InteractionQuery) (Result, error) {
	if err := validation.ValidateTimeRange(q.From, q.To); err != nil {
		return Result{}, err
	}
	if err := validation.ValidateLimit(q.Limit); err != nil {
		return Result{}, err
	}
	if err := validation.ValidateOffset(q.Offset); err != nil {
		return Result{}, err
	}

	ep := endpoint{
		service: interactionHistoryService,
		action:  "interactions/search",
		params: []param{
			{"limit", q.Limit},
			{"offset", q.Offset},
		},
	}
	body := interactionSearchRequest{
		Start:    newTimeRange(q.From, q.To),
		SkillIDs: nonNil(q.SkillIDs),
	}
	return callSigned(ctx, r, DomainEngagementHistory, http.MethodPost, ep, body), nil
}
