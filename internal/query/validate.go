package query

import (
	"strconv"
	"strings"
)

// NormalizedQuery is the validated request body sent to POST /search/.
// Optional integers are pointers so that an explicit 0 survives encoding.
type NormalizedQuery struct {
	AccountID  string `json:"account_id,omitempty"`
	InstanceID string `json:"instance_id,omitempty"`
	SrcAddr    string `json:"srcaddr,omitempty"`
	DstAddr    string `json:"dstaddr,omitempty"`
	SrcPort    *int64 `json:"srcport,omitempty"`
	DstPort    *int64 `json:"dstport,omitempty"`
	Protocol   *int64 `json:"protocol,omitempty"`
	Action     string `json:"action,omitempty"`
	LogStatus  string `json:"log_status,omitempty"`
	StartTime  int64  `json:"start_time"`
	EndTime    int64  `json:"end_time"`
}

// Validate checks raw criteria and builds the normalized query.
//
// Checks run in a fixed order: missing time bound, unparseable time bound,
// inverted window, no filter, unparseable numeric filter. Validate has no side
// effects and is safe to call on every input change.
func Validate(c Criteria) (*NormalizedQuery, error) {
	start, hasStart := present(c, FieldStartTime)
	end, hasEnd := present(c, FieldEndTime)
	if !hasStart || !hasEnd {
		return nil, ErrMissingTimeWindow
	}

	startTime, err := parseInt(FieldStartTime, start)
	if err != nil {
		return nil, err
	}
	endTime, err := parseInt(FieldEndTime, end)
	if err != nil {
		return nil, err
	}
	if startTime >= endTime {
		return nil, ErrInvertedTimeWindow
	}

	if !hasFilter(c) {
		return nil, ErrNoFilterSelected
	}

	q := &NormalizedQuery{StartTime: startTime, EndTime: endTime}
	q.AccountID, _ = present(c, FieldAccountID)
	q.InstanceID, _ = present(c, FieldInstanceID)
	q.SrcAddr, _ = present(c, FieldSrcAddr)
	q.DstAddr, _ = present(c, FieldDstAddr)
	q.Action, _ = present(c, FieldAction)
	q.LogStatus, _ = present(c, FieldLogStatus)

	for _, f := range []struct {
		name string
		dst  **int64
	}{
		{FieldSrcPort, &q.SrcPort},
		{FieldDstPort, &q.DstPort},
		{FieldProtocol, &q.Protocol},
	} {
		raw, ok := present(c, f.name)
		if !ok {
			continue
		}
		n, err := parseInt(f.name, raw)
		if err != nil {
			return nil, err
		}
		*f.dst = &n
	}

	return q, nil
}

// CanSearch reports whether the criteria would pass Validate.
func CanSearch(c Criteria) bool {
	_, err := Validate(c)
	return err == nil
}

// Feedback is the live validation state of a search form.
type Feedback struct {
	Err          error
	MissingStart bool
	MissingEnd   bool
}

// Check recomputes form feedback from scratch. The per-field time flags are only
// raised once some other filter is filled, so an empty form is not shown in error.
func Check(c Criteria) Feedback {
	_, err := Validate(c)
	fb := Feedback{Err: err}
	if hasFilter(c) {
		_, hasStart := present(c, FieldStartTime)
		_, hasEnd := present(c, FieldEndTime)
		fb.MissingStart = !hasStart
		fb.MissingEnd = !hasEnd
	}
	return fb
}

// present returns the trimmed value of field and whether it is non-blank.
func present(c Criteria, field string) (string, bool) {
	v := strings.TrimSpace(c[field])
	return v, v != ""
}

func hasFilter(c Criteria) bool {
	for _, f := range FilterFields {
		if _, ok := present(c, f); ok {
			return true
		}
	}
	return false
}

func parseInt(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &InvalidNumberError{Field: field, Value: raw}
	}
	return n, nil
}
