package results

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/telhawk-systems/flowsearch/internal/model"
)

// Tone classifies a value for highlighting (badge color in a UI, ANSI color in a terminal).
type Tone string

const (
	ToneSuccess   Tone = "success"
	ToneDanger    Tone = "danger"
	ToneWarning   Tone = "warning"
	ToneSecondary Tone = "secondary"
	ToneInfo      Tone = "info"
	TonePlain     Tone = ""
)

var protocolNames = map[int]string{
	1:  "ICMP",
	6:  "TCP",
	8:  "EGP",
	17: "UDP",
	47: "GRE",
	50: "ESP",
}

var actionTones = map[string]Tone{
	"ACCEPT": ToneSuccess,
	"REJECT": ToneDanger,
}

// ProtocolName returns the IANA name of a protocol code, or "Protocol {n}".
func ProtocolName(code int) string {
	if name, ok := protocolNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Protocol %d", code)
}

// ProtocolLabel renders a known code as "TCP (6)" and an unknown one as "Protocol 99".
func ProtocolLabel(code int) string {
	if name, ok := protocolNames[code]; ok {
		return fmt.Sprintf("%s (%d)", name, code)
	}
	return ProtocolName(code)
}

// ActionTone maps ACCEPT and REJECT to success and danger.
func ActionTone(action string) Tone {
	if tone, ok := actionTones[action]; ok {
		return tone
	}
	return ToneSecondary
}

// LogStatusTone maps OK to success and anything else to warning.
func LogStatusTone(status string) Tone {
	if status == "OK" {
		return ToneSuccess
	}
	return ToneWarning
}

// Summary is the one-line view of a record in a result list.
func Summary(e model.EventRecord) string {
	return fmt.Sprintf("Event Found: %s → %s | Action: %s | Log Status: %s",
		e.SrcAddr, e.DstAddr, e.Action, e.LogStatus)
}

// SourceLine is the secondary line under a summary.
func SourceLine(e model.EventRecord, searchTime float64) string {
	return fmt.Sprintf("File: %s | Search Time: %s seconds", e.SourceFile, formatSeconds(searchTime))
}

// FormatTimestamp renders epoch seconds as local time. Anything that cannot be
// formatted is returned exactly as received.
func FormatTimestamp(raw json.Number) string {
	secs, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return string(raw)
	}
	t := time.Unix(secs, 0)
	if t.Year() < 1 || t.Year() > 9999 {
		return string(raw)
	}
	return t.Local().Format("2006-01-02 15:04:05 MST")
}

// Field is one labelled value of the detail view.
type Field struct {
	Label string
	Value string
	Tone  Tone
}

// Detail renders every field of a record in display order.
func Detail(e model.EventRecord) []Field {
	return []Field{
		{Label: "Serial Number", Value: strconv.FormatInt(e.SerialNo, 10)},
		{Label: "Version", Value: strconv.Itoa(e.Version)},
		{Label: "Account ID", Value: e.AccountID},
		{Label: "Instance ID", Value: e.InstanceID},
		{Label: "Source Address", Value: e.SrcAddr},
		{Label: "Source Port", Value: strconv.Itoa(e.SrcPort)},
		{Label: "Destination Address", Value: e.DstAddr},
		{Label: "Destination Port", Value: strconv.Itoa(e.DstPort)},
		{Label: "Protocol", Value: ProtocolLabel(e.Protocol), Tone: ToneInfo},
		{Label: "Action", Value: e.Action, Tone: ActionTone(e.Action)},
		{Label: "Packets", Value: strconv.FormatInt(e.Packets, 10)},
		{Label: "Bytes", Value: humanize.Comma(e.Bytes)},
		{Label: "Start Time", Value: timeWithRaw(e.StartTime)},
		{Label: "End Time", Value: timeWithRaw(e.EndTime)},
		{Label: "Log Status", Value: e.LogStatus, Tone: LogStatusTone(e.LogStatus)},
		{Label: "Source File", Value: e.SourceFile},
	}
}

func timeWithRaw(raw json.Number) string {
	formatted := FormatTimestamp(raw)
	if formatted == string(raw) {
		return formatted
	}
	return fmt.Sprintf("%s (%s)", formatted, raw)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
