package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Backend operations, used for messages, logs and metric labels.
const (
	OpUpload    = "upload"
	OpSearch    = "search"
	OpListFiles = "list_files"
	OpHealth    = "health"
)

var genericMessages = map[string]string{
	OpUpload:    "Failed to upload files",
	OpSearch:    "Failed to search events",
	OpListFiles: "Failed to get uploaded files",
	OpHealth:    "Backend is not available",
}

// Error is a transport-level failure: the backend was unreachable, answered
// with a non-2xx status, or sent a payload that could not be decoded.
// Message is always human readable; the underlying cause is only logged.
type Error struct {
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	cause      error
}

func newError(op string, status int, msg string, cause error) *Error {
	if cause == nil && status != 0 {
		cause = fmt.Errorf("backend returned status %d", status)
	}
	return &Error{Op: op, StatusCode: status, Message: msg, cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func genericMessage(op string) string {
	if msg, ok := genericMessages[op]; ok {
		return msg
	}
	return "Backend request failed"
}

// translate extracts a message from an error body. It understands
// {"error": "..."} and field-keyed validation maps such as
// {"time_range": ["Start time must be before end time"]}.
func translate(op string, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return genericMessage(op)
	}

	if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	if msg, ok := payload["detail"].(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		msg := firstMessage(payload[k])
		if msg == "" {
			continue
		}
		if k == "non_field_errors" || k == "error" {
			return msg
		}
		return k + ": " + msg
	}
	return genericMessage(op)
}

func firstMessage(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		for _, item := range val {
			if msg := firstMessage(item); msg != "" {
				return msg
			}
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstMessage(val[k]); msg != "" {
				return msg
			}
		}
	}
	return ""
}
