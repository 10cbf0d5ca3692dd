package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

type conversationSearchRequest struct {
	Status   []string  `json:"status"`
	Start    timeRange `json:"start"`
	SkillIDs []string  `json:"skillIds"`
}

// SearchConversations searches messaging conversations started within
// [From, To]. The conversationHistoryRecords array of a successful response
// is returned under "records".
func (s HistoryService) SearchConversations(ctx context.Context, q HistoryQuery) (Result, error) {
	return searchConversations(ctx, s, q)
}

func searchConversations(ctx context.Context, r Requester, q HistoryQuery) (Result, error) {
	if err := validation.ValidateTimeRange(q.From, q.To); err != nil {
		return Result{}, err
	}

	status := []string{ConversationOpen, ConversationClose}
	if q.Ended {
		status = []string{ConversationClose}
	}
	ep := endpoint{service: messagingHistoryService, action: "conversations/search"}
	body := conversationSearchRequest{
		Status:   status,
		Start:    newTimeRange(q.From, q.To),
		SkillIDs: nonNil(q.SkillIDs),
	}

	res := callSigned(ctx, r, DomainMessagingHistory, http.MethodPost, ep, body)
	if res.OK() {
		res.Body = renameRecords(res.Body)
	}
	return res, nil
}

// renameRecords moves conversationHistoryRecords to records. Bodies that are
// not objects are returned unchanged.
func renameRecords(body json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return body
	}
	records, ok := obj["conversationHistoryRecords"]
	if !ok {
		return body
	}
	delete(obj, "conversationHistoryRecords")
	obj["records"] = records
	out, err := json.Marshal(obj)
	if err != nil {
		return body
	}
	return out
}
