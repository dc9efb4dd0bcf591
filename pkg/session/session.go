package session

import (
	"fmt"
	"time"
)

// Phase is the step of a pending operation.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingInput  Phase = "awaiting_input"
	PhaseAwaitingOption Phase = "awaiting_option"
)

// StateIdle is the label of a user with no pending operation.
const StateIdle = "idle"

// Input is one file collected for a pending operation.
type Input struct {
	Path string    `json:"path"`
	Name string    `json:"name"`
	Kind InputKind `json:"kind"`
	Size int64     `json:"size"`
}

// NewInput builds an input whose kind is derived from the file name.
func NewInput(path string) Input {
	return Input{Path: path, Name: path, Kind: DetectKind(path, "")}
}

// Session is the per-user record of an in-progress operation.
// Absence from the store means the user is idle.
type Session struct {
	UserID    int64                 `json:"user_id"`
	Feature   Feature               `json:"feature"`
	Phase     Phase                 `json:"phase"`
	Inputs    []Input               `json:"inputs"`
	Options   map[OptionKind]string `json:"options"`
	StartedAt time.Time             `json:"started_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// State returns the label "<feature>_<phase>", or "idle".
func (s *Session) State() string {
	if s == nil || s.Phase == PhaseIdle || s.Feature == "" {
		return StateIdle
	}
	return fmt.Sprintf("%s_%s", s.Feature, s.Phase)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Inputs = append([]Input(nil), s.Inputs...)
	if s.Options != nil {
		c.Options = make(map[OptionKind]string, len(s.Options))
		for k, v := range s.Options {
			c.Options[k] = v
		}
	}
	return &c
}

// OperationRequest is the finalized bundle handed to the conversion engine.
type OperationRequest struct {
	UserID  int64                 `json:"user_id"`
	Feature Feature               `json:"feature"`
	Inputs  []Input               `json:"inputs"`
	Options map[OptionKind]string `json:"options,omitempty"`
}

// Paths returns the input paths in order.
func (r OperationRequest) Paths() []string {
	out := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		out[i] = in.Path
	}
	return out
}

// Option returns the value chosen for kind, or "".
func (r OperationRequest) Option(kind OptionKind) string {
	return r.Options[kind]
}

// Progress describes the session after a successful tracker call.
type Progress struct {
	Feature Feature
	State   string
	Count   int
	Min     int
	Max     int
	// AwaitingOption is set once inputs are complete and an option is still needed.
	AwaitingOption OptionKind
	// CanFinalize reports that Finalize would succeed now.
	CanFinalize bool
	// Ready reports that the handler should finalize without waiting for a button.
	Ready bool
}
