package events

import "time"

const (
	OperationCompleted = "OPERATION_COMPLETED"
	OperationFailed    = "OPERATION_FAILED"
)

// Event is anything published on the event bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// OperationEvent reports the outcome of one finalized operation.
type OperationEvent struct {
	JobID      string        `json:"job_id"`
	UserID     int64         `json:"user_id"`
	Feature    string        `json:"feature"`
	Inputs     int           `json:"inputs"`
	Outputs    int           `json:"outputs"`
	Options    []string      `json:"options,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`
	Tool       string        `json:"tool,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (e OperationEvent) EventType() string {
	if e.Error != "" {
		return OperationFailed
	}
	return OperationCompleted
}

func (e OperationEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"job_id":      e.JobID,
		"user_id":     e.UserID,
		"feature":     e.Feature,
		"inputs":      e.Inputs,
		"outputs":     e.Outputs,
		"duration_ns": int64(e.Duration),
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if len(e.Options) > 0 {
		p["options"] = e.Options
	}
	if e.Error != "" {
		p["error"] = e.Error
		p["tool"] = e.Tool
	}
	return p
}

func (e OperationEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// OperationEventFrom rebuilds an OperationEvent from a decoded payload.
// Numbers arrive as float64 after a JSON round trip.
func OperationEventFrom(p map[string]interface{}) OperationEvent {
	e := OperationEvent{
		JobID:   str(p["job_id"]),
		UserID:  int64(num(p["user_id"])),
		Feature: str(p["feature"]),
		Inputs:  int(num(p["inputs"])),
		Outputs: int(num(p["outputs"])),
		Error:   str(p["error"]),
		Tool:    str(p["tool"]),
	}
	e.Duration = time.Duration(num(p["duration_ns"]))
	if t, err := time.Parse(time.RFC3339Nano, str(p["occurred_at"])); err == nil {
		e.OccurredAt = t
	}
	if opts, ok := p["options"].([]interface{}); ok {
		for _, o := range opts {
			e.Options = append(e.Options, str(o))
		}
	} else if opts, ok := p["options"].([]string); ok {
		e.Options = opts
	}
	return e
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
