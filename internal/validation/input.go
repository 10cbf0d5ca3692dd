package validation

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Metrics time windows are expressed in minutes.
const (
	MinTimeframe = 0
	MaxTimeframe = 1440
)

// Paging and retry bounds.
const (
	MaxLimit       = 100
	MinRetryLimit  = -1
	MaxRetryLimit  = 5
	UnlimitedRetry = -1
	MaxJSONPayload = 1048576 // 1MB
)

// ValidateTimeWindow checks a metrics time window. timeframe must lie in
// [MinTimeframe, MaxTimeframe]. When interval is non-nil it must be positive,
// smaller than timeframe and divide it evenly.
func ValidateTimeWindow(timeframe int, interval *int) error {
	if timeframe < MinTimeframe || timeframe > MaxTimeframe {
		return argErr("timeframe", timeframe, "must be between %d and %d minutes", MinTimeframe, MaxTimeframe)
	}
	if interval == nil {
		return nil
	}
	iv := *interval
	if iv <= 0 {
		return argErr("interval", iv, "must be a positive number of minutes")
	}
	if iv >= timeframe {
		return argErr("interval", iv, "must be smaller than the timeframe (%d)", timeframe)
	}
	if timeframe%iv != 0 {
		return argErr("interval", iv, "must divide the timeframe (%d) evenly", timeframe)
	}
	return nil
}

// ValidateLimit checks a page size in [0, MaxLimit].
func ValidateLimit(limit int) error {
	if limit < 0 || limit > MaxLimit {
		return argErr("limit", limit, "must be between 0 and %d", MaxLimit)
	}
	return nil
}

// ValidateOffset checks a non-negative page offset.
func ValidateOffset(offset int) error {
	if offset < 0 {
		return argErr("offset", offset, "must not be negative")
	}
	return nil
}

// ValidateRetryLimit accepts UnlimitedRetry or a value in [0, MaxRetryLimit].
func ValidateRetryLimit(limit int) error {
	if limit < MinRetryLimit || limit > MaxRetryLimit {
		return argErr("retry limit", limit, "must be -1 (unlimited) or between 0 and %d", MaxRetryLimit)
	}
	return nil
}

// ValidateTimeRange checks that from is set and not after to.
func ValidateTimeRange(from, to time.Time) error {
	if from.IsZero() {
		return argErr("from", nil, "start time is required")
	}
	if !to.IsZero() && from.After(to) {
		return argErr("from", from.Format(time.RFC3339), "must not be after %s", to.Format(time.RFC3339))
	}
	return nil
}

// ValidateRequired rejects blank values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return argErr(field, nil, "must not be empty")
	}
	return nil
}

// ValidateAPIVersion accepts numeric API versions such as "1", "1.3" or
// "2.0.1". A leading "v" is tolerated.
func ValidateAPIVersion(version string) error {
	v := strings.TrimSpace(version)
	if v == "" {
		return argErr("version", nil, "must not be empty")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return argErr("version", version, "must be a numeric version like 1 or 1.3")
	}
	return nil
}

// ValidateJSONPayload checks that payload is a non-empty JSON document within
// MaxJSONPayload bytes.
func ValidateJSONPayload(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return argErr("payload", nil, "JSON payload cannot be empty")
	}
	if len(payload) > MaxJSONPayload {
		return argErr("payload", nil, "exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, len(payload))
	}
	if !json.Valid([]byte(payload)) {
		return argErr("payload", nil, "is not valid JSON")
	}
	return nil
}

// ParseIDList splits a comma separated list of numeric ids. Whitespace and
// empty entries are dropped.
func ParseIDList(s, field string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n <= 0 {
			return nil, argErr(field, part, "must be a positive integer")
		}
		ids = append(ids, part)
	}
	return ids, nil
}
