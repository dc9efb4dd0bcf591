package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationEventType(t *testing.T) {
	ok := OperationEvent{Feature: "merge"}
	assert.Equal(t, OperationCompleted, ok.EventType())

	failed := OperationEvent{Feature: "merge", Error: "boom"}
	assert.Equal(t, OperationFailed, failed.EventType())
	assert.Equal(t, "boom", failed.Payload()["error"])
}

func TestOperationEventSurvivesJSON(t *testing.T) {
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	in := OperationEvent{
		JobID:      "job-1",
		UserID:     123456789,
		Feature:    "split",
		Inputs:     1,
		Outputs:    3,
		Options:    []string{"split_mode"},
		Duration:   1500 * time.Millisecond,
		OccurredAt: at,
	}

	data, err := json.Marshal(in.Payload())
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	out := OperationEventFrom(decoded)
	assert.Equal(t, in, out)
}
