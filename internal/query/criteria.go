// Package query turns raw search form input into a validated, typed backend query.
package query

// Search field names, matching the backend's request keys.
const (
	FieldAccountID  = "account_id"
	FieldInstanceID = "instance_id"
	FieldSrcAddr    = "srcaddr"
	FieldDstAddr    = "dstaddr"
	FieldSrcPort    = "srcport"
	FieldDstPort    = "dstport"
	FieldProtocol   = "protocol"
	FieldAction     = "action"
	FieldLogStatus  = "log_status"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
)

// FilterFields are the searchable fields other than the time window, in form order.
var FilterFields = []string{
	FieldAccountID,
	FieldInstanceID,
	FieldSrcAddr,
	FieldDstAddr,
	FieldSrcPort,
	FieldDstPort,
	FieldProtocol,
	FieldAction,
	FieldLogStatus,
}

// Criteria maps field names to the raw values typed by the operator.
// Keys outside the known field set are ignored.
type Criteria map[string]string

// Set stores a raw value for field and returns the criteria for chaining.
func (c Criteria) Set(field, value string) Criteria {
	c[field] = value
	return c
}

// Clear drops every value, as the form's clear action does.
func (c Criteria) Clear() {
	for k := range c {
		delete(c, k)
	}
}

// Option is a selectable value offered by the search form.
type Option struct {
	Value string
	Label string
}

// ProtocolOptions lists the protocol choices offered by the search form.
var ProtocolOptions = []Option{
	{Value: "1", Label: "ICMP"},
	{Value: "6", Label: "TCP"},
	{Value: "8", Label: "EGP"},
	{Value: "17", Label: "UDP"},
	{Value: "47", Label: "GRE"},
	{Value: "50", Label: "ESP"},
}

// ActionOptions lists the action choices offered by the search form.
var ActionOptions = []Option{
	{Value: "ACCEPT", Label: "ACCEPT"},
	{Value: "REJECT", Label: "REJECT"},
}

// LogStatusOptions lists the log status choices offered by the search form.
var LogStatusOptions = []Option{
	{Value: "OK", Label: "OK"},
	{Value: "NODATA", Label: "NODATA"},
	{Value: "SKIPDATA", Label: "SKIPDATA"},
}
