// Package model holds the records exchanged with the flow-log backend.
package model

import "encoding/json"

// EventRecord is one network-flow log entry as returned by the backend.
// Timestamps are kept as json.Number so an unparseable value can still be shown verbatim.
type EventRecord struct {
	ID         int64       `json:"id,omitempty"`
	SerialNo   int64       `json:"serialno"`
	Version    int         `json:"version"`
	AccountID  string      `json:"account_id"`
	InstanceID string      `json:"instance_id"`
	SrcAddr    string      `json:"srcaddr"`
	DstAddr    string      `json:"dstaddr"`
	SrcPort    int         `json:"srcport"`
	DstPort    int         `json:"dstport"`
	Protocol   int         `json:"protocol"`
	Action     string      `json:"action"`
	Packets    int64       `json:"packets"`
	Bytes      int64       `json:"bytes"`
	StartTime  json.Number `json:"starttime"`
	EndTime    json.Number `json:"endtime"`
	LogStatus  string      `json:"log_status"`
	SourceFile string      `json:"source_file"`
}

// SearchResultSet is the backend response to one search.
type SearchResultSet struct {
	Events        []EventRecord `json:"events"`
	TotalCount    int           `json:"total_count"`
	SearchTime    float64       `json:"search_time"`
	FilesSearched []string      `json:"files_searched"`
}

// Empty reports whether the set holds no events.
func (s *SearchResultSet) Empty() bool {
	return s == nil || len(s.Events) == 0
}
