package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AgentState is an agent availability state accepted by the agent view.
type AgentState string

const (
	AgentOnline   AgentState = "ONLINE"
	AgentAway     AgentState = "AWAY"
	AgentBackSoon AgentState = "BACK_SOON"
	AgentOffline  AgentState = "OFFLINE"
)

// AllAgentStates is used when a status query names no state.
var AllAgentStates = []AgentState{AgentOnline, AgentAway, AgentBackSoon, AgentOffline}

// ParseAgentState accepts the wire names case-insensitively, plus
// "back-soon".
func ParseAgentState(s string) (AgentState, bool) {
	v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, st := range AllAgentStates {
		if string(st) == v {
			return st, true
		}
	}
	return "", false
}

// AgentStatusQuery filters the agent status view.
type AgentStatusQuery struct {
	States   []AgentState
	GroupIDs []string
}

// Conversation states used by the history search.
const (
	ConversationOpen  = "OPEN"
	ConversationClose = "CLOSE"
)

// InteractionQuery selects engagement history records.
type InteractionQuery struct {
	From     time.Time
	To       time.Time
	SkillIDs []string
	Limit    int
	Offset   int
}

// DefaultInteractionLimit is the page size when none is given.
const DefaultInteractionLimit = 50

// MetricsQuery is the time window and filters shared by the real-time
// metrics endpoints. Timeframe and Interval are minutes; a nil Interval
// omits the breakdown.
type MetricsQuery struct {
	Timeframe int
	Interval  *int
	AgentIDs  []string
	SkillIDs  []string
}

// DefaultTimeframe is the metrics window in minutes when none is given.
const DefaultTimeframe = 60

// HistoryQuery selects messaging conversations. Ended restricts the search
// to closed conversations.
type HistoryQuery struct {
	From     time.Time
	To       time.Time
	SkillIDs []string
	Ended    bool
}

type timeRange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func newTimeRange(from, to time.Time) timeRange {
	if to.IsZero() {
		to = time.Now()
	}
	return timeRange{From: from.UnixMilli(), To: to.UnixMilli()}
}

// User is an account user as returned by the users configuration API.
type User struct {
	ID               FlexString   `json:"id"`
	Deleted          bool         `json:"deleted"`
	LoginName        string       `json:"loginName"`
	FullName         string       `json:"fullName"`
	Nickname         string       `json:"nickname,omitempty"`
	IsEnabled        bool         `json:"isEnabled"`
	MaxChats         FlexInt      `json:"maxChats"`
	Email            string       `json:"email,omitempty"`
	DisabledManually bool         `json:"disabledManually"`
	SkillIDs         []FlexString `json:"skillIds,omitempty"`
	Description      string       `json:"description,omitempty"`
	EmployeeID       string       `json:"employeeId,omitempty"`
	BackgroundImgURI string       `json:"backgndImgUri,omitempty"`
}

// ConversationSearch is the decoded history search response. Records holds
// what the API returns as conversationHistoryRecords.
type ConversationSearch struct {
	Metadata json.RawMessage   `json:"_metadata,omitempty"`
	Records  []json.RawMessage `json:"records"`
}

// FlexInt handles JSON numbers that may come as strings or integers
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*fi = 0
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*fi = FlexInt(i)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexInt", data)
}

// FlexString handles ids that may come as strings or numbers and stores
// them as strings
type FlexString string

func (fs *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*fs = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*fs = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexString", data)
}

func (fs FlexString) String() string {
	return string(fs)
}

// joinIDs renders an id filter, or fallback when ids is empty.
func joinIDs(ids []string, fallback string) string {
	if len(ids) == 0 {
		return fallback
	}
	return strings.Join(ids, ",")
}

// nonNil keeps empty id filters as [] on the wire.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
