package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEndBeforeStart marks a flow whose end_time precedes its start_time.
	ErrEndBeforeStart = errors.New("flow log end_time is before start_time")
	errInvalidTime    = errors.New("unsupported timestamp value")
)

// Action is the policy verdict recorded for a flow.
type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
	ActionPass  Action = "pass"
)

// Known reports whether a is one of the verdicts the collector emits.
func (a Action) Known() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionPass:
		return true
	default:
		return false
	}
}

// FlowLog is a single L3 flow between two workload endpoints. Field names follow
// the flow log documents written by the collector.
type FlowLog struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Action    Action    `json:"action"`

	SourceNamespace string `json:"source_namespace"`
	SourceName      string `json:"source_name"`
	SourceIP        string `json:"source_ip,omitempty"`
	SourcePort      int64  `json:"source_port,omitempty"`

	DestNamespace string `json:"dest_namespace"`
	DestName      string `json:"dest_name"`
	DestIP        string `json:"dest_ip,omitempty"`
	DestPort      int64  `json:"dest_port"`

	Protocol string `json:"protocol"`
	Reporter string `json:"reporter,omitempty"`

	PacketsIn  int64 `json:"packets_in,omitempty"`
	PacketsOut int64 `json:"packets_out,omitempty"`
	BytesIn    int64 `json:"bytes_in,omitempty"`
	BytesOut   int64 `json:"bytes_out,omitempty"`
}

// flowTime accepts RFC 3339 strings and integer unix seconds. Any other value
// decodes to the zero time, which renderers treat as an invalid timestamp.
type flowTime struct {
	time.Time
}

func (t *flowTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			t.Time = time.Time{}
			return nil
		}

		t.Time = parsed

		return nil
	}

	var secs json.Number
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("%w: %s", errInvalidTime, string(data))
	}

	n, err := secs.Int64()
	if err != nil {
		t.Time = time.Time{}
		return nil
	}

	t.Time = time.Unix(n, 0).UTC()

	return nil
}

// UnmarshalJSON decodes both the collector form (proto, unix second
// timestamps) and the API form (protocol, RFC 3339 timestamps).
func (f *FlowLog) UnmarshalJSON(data []byte) error {
	type flowAlias FlowLog

	aux := struct {
		*flowAlias
		StartTime flowTime `json:"start_time"`
		EndTime   flowTime `json:"end_time"`
		Proto     string   `json:"proto"`
	}{flowAlias: (*flowAlias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	f.StartTime = aux.StartTime.Time
	f.EndTime = aux.EndTime.Time

	if f.Protocol == "" {
		f.Protocol = aux.Proto
	}

	f.Action = Action(strings.ToLower(string(f.Action)))

	return nil
}

// Validate reports data-integrity problems that do not prevent display.
func (f *FlowLog) Validate() error {
	if f.StartTime.IsZero() || f.EndTime.IsZero() {
		return nil
	}

	if f.EndTime.Before(f.StartTime) {
		return fmt.Errorf("%w: start=%s end=%s", ErrEndBeforeStart,
			f.StartTime.Format(time.RFC3339), f.EndTime.Format(time.RFC3339))
	}

	return nil
}

// Field projects a record onto a column id. It is the default cell projection
// for columns that do not carry their own renderer.
func (f *FlowLog) Field(id string) (any, bool) {
	if f == nil {
		return nil, false
	}

	switch id {
	case "start_time":
		return f.StartTime, true
	case "end_time":
		return f.EndTime, true
	case "action":
		return f.Action, true
	case "source_namespace":
		return f.SourceNamespace, true
	case "source_name":
		return f.SourceName, true
	case "source_ip":
		return f.SourceIP, true
	case "source_port":
		return f.SourcePort, true
	case "dest_namespace":
		return f.DestNamespace, true
	case "dest_name":
		return f.DestName, true
	case "dest_ip":
		return f.DestIP, true
	case "dest_port":
		return f.DestPort, true
	case "protocol":
		return f.Protocol, true
	case "reporter":
		return f.Reporter, true
	case "packets_in":
		return f.PacketsIn, true
	case "packets_out":
		return f.PacketsOut, true
	case "bytes_in":
		return f.BytesIn, true
	case "bytes_out":
		return f.BytesOut, true
	default:
		return nil, false
	}
}

// DetailFields lists the fields shown when a row is expanded, in display order.
func DetailFields() []string {
	return []string{
		"start_time", "end_time", "action", "reporter", "protocol",
		"source_namespace", "source_name", "source_ip", "source_port",
		"dest_namespace", "dest_name", "dest_ip", "dest_port",
		"packets_in", "packets_out", "bytes_in", "bytes_out",
	}
}
