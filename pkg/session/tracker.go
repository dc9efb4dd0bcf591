package session

import (
	"time"
)

// DiscardFunc receives inputs dropped by Begin or Cancel so their files
// can be removed. It runs after the user's lock is released.
type DiscardFunc func(userID int64, inputs []Input)

// Tracker owns every user's session. All access goes through its
// methods, which serialize per user and never hand out the stored value.
type Tracker struct {
	store     Store
	specs     map[Feature]FeatureSpec
	locks     *keyedMutex
	onDiscard DiscardFunc
	now       func() time.Time
}

type TrackerOption func(*Tracker)

// WithMaxInputs overrides the input cap of a repeated-input feature.
func WithMaxInputs(f Feature, n int) TrackerOption {
	return func(t *Tracker) {
		spec, ok := t.specs[f]
		if !ok || n < spec.MinInputs || spec.AutoFinalize() {
			return
		}
		spec.MaxInputs = n
		t.specs[f] = spec
	}
}

func WithDiscardFunc(fn DiscardFunc) TrackerOption {
	return func(t *Tracker) { t.onDiscard = fn }
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	if store == nil {
		store = NewMapStore()
	}
	t := &Tracker{
		store: store,
		specs: DefaultSpecs(),
		locks: newKeyedMutex(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Spec returns the effective spec of f, including configured limits.
func (t *Tracker) Spec(f Feature) (FeatureSpec, bool) {
	spec, ok := t.specs[f]
	return spec, ok
}

func (t *Tracker) load(userID int64) *Session {
	s, ok := t.store.Get(userID)
	if !ok || s == nil {
		return nil
	}
	return s.Clone()
}

func (t *Tracker) discard(userID int64, inputs []Input) {
	if t.onDiscard != nil && len(inputs) > 0 {
		t.onDiscard(userID, inputs)
	}
}

func (t *Tracker) progress(s *Session) Progress {
	spec := t.specs[s.Feature]
	p := Progress{
		Feature: s.Feature,
		State:   s.State(),
		Count:   len(s.Inputs),
		Min:     spec.MinInputs,
		Max:     spec.MaxInputs,
	}
	if s.Phase == PhaseAwaitingOption {
		if _, set := s.Options[spec.Option]; !set {
			p.AwaitingOption = spec.Option
		}
	}
	p.CanFinalize = p.Count >= spec.MinInputs && p.AwaitingOption == OptionNone &&
		(spec.Option == OptionNone || s.Options[spec.Option] != "")
	p.Ready = p.CanFinalize && (spec.AutoFinalize() || spec.Option != OptionNone)
	return p
}

// Begin starts feature for the user, replacing any pending operation.
func (t *Tracker) Begin(userID int64, feature Feature) (Progress, error) {
	spec, ok := t.specs[feature]
	if !ok {
		return Progress{}, ErrUnknownFeature
	}

	unlock := t.locks.Lock(userID)
	var dropped []Input
	if prev := t.load(userID); prev != nil {
		dropped = prev.Inputs
	}
	now := t.now()
	s := &Session{
		UserID:    userID,
		Feature:   spec.Feature,
		Phase:     PhaseAwaitingInput,
		Options:   map[OptionKind]string{},
		StartedAt: now,
		UpdatedAt: now,
	}
	t.store.Save(s.Clone())
	p := t.progress(s)
	unlock()

	t.discard(userID, dropped)
	return p, nil
}

// Accumulate appends input to the pending operation.
func (t *Tracker) Accumulate(userID int64, input Input) (Progress, error) {
	unlock := t.locks.Lock(userID)
	defer unlock()

	s := t.load(userID)
	if s == nil {
		return Progress{}, &UnexpectedInputError{State: StateIdle, Reason: ReasonNoPendingOperation}
	}
	spec := t.specs[s.Feature]

	switch {
	case s.Phase == PhaseAwaitingOption:
		return Progress{}, &UnexpectedInputError{State: s.State(), Reason: ReasonAwaitingOption, Option: spec.Option}
	case len(s.Inputs) >= spec.MaxInputs:
		return Progress{}, &UnexpectedInputError{State: s.State(), Reason: ReasonTooManyInputs}
	case !spec.Accepts(len(s.Inputs), input.Kind):
		idx := len(s.Inputs)
		if idx >= len(spec.Slots) {
			idx = len(spec.Slots) - 1
		}
		return Progress{}, &UnexpectedInputError{
			State:    s.State(),
			Reason:   ReasonWrongKind,
			Expected: append([]InputKind(nil), spec.Slots[idx]...),
		}
	}

	s.Inputs = append(s.Inputs, input)
	if len(s.Inputs) == spec.MaxInputs && spec.Option != OptionNone {
		s.Phase = PhaseAwaitingOption
	}
	s.UpdatedAt = t.now()
	t.store.Save(s.Clone())
	return t.progress(s), nil
}

// SetOption records the option of a feature waiting for one.
func (t *Tracker) SetOption(userID int64, raw string) (Progress, error) {
	unlock := t.locks.Lock(userID)
	defer unlock()

	s := t.load(userID)
	if s == nil {
		return Progress{}, &UnexpectedInputError{State: StateIdle, Reason: ReasonNoPendingOperation}
	}
	spec := t.specs[s.Feature]
	if s.Phase != PhaseAwaitingOption {
		return Progress{}, &UnexpectedInputError{State: s.State(), Reason: ReasonNotAwaitingOption}
	}
	value, err := ParseOption(spec.Option, raw)
	if err != nil {
		return Progress{}, &UnexpectedInputError{
			State:  s.State(),
			Reason: ReasonInvalidOption,
			Option: spec.Option,
			Cause:  err,
		}
	}
	s.Options[spec.Option] = value
	s.UpdatedAt = t.now()
	t.store.Save(s.Clone())
	return t.progress(s), nil
}

// Finalize closes the pending operation and returns it. On error the
// session is left untouched.
func (t *Tracker) Finalize(userID int64) (OperationRequest, error) {
	unlock := t.locks.Lock(userID)
	defer unlock()

	s := t.load(userID)
	if s == nil {
		return OperationRequest{}, &InsufficientInputError{State: StateIdle, Have: 0, Need: 1}
	}
	spec := t.specs[s.Feature]
	p := t.progress(s)
	if !p.CanFinalize {
		e := &InsufficientInputError{
			State:   s.State(),
			Feature: s.Feature,
			Have:    len(s.Inputs),
			Need:    spec.MinInputs,
		}
		if spec.Option != OptionNone && s.Options[spec.Option] == "" {
			e.MissingOption = spec.Option
		}
		return OperationRequest{}, e
	}

	t.store.Delete(userID)
	req := OperationRequest{
		UserID:  userID,
		Feature: s.Feature,
		Inputs:  s.Inputs,
	}
	if len(s.Options) > 0 {
		req.Options = s.Options
	}
	return req, nil
}

// Cancel drops any pending operation. It returns the discarded inputs.
func (t *Tracker) Cancel(userID int64) []Input {
	unlock := t.locks.Lock(userID)
	var dropped []Input
	if s := t.load(userID); s != nil {
		dropped = s.Inputs
		t.store.Delete(userID)
	}
	unlock()

	t.discard(userID, dropped)
	return dropped
}

// State returns the user's current state label.
func (t *Tracker) State(userID int64) string {
	unlock := t.locks.Lock(userID)
	defer unlock()
	return t.load(userID).State()
}

// Snapshot returns a copy of the user's session, if any.
func (t *Tracker) Snapshot(userID int64) (Session, bool) {
	unlock := t.locks.Lock(userID)
	defer unlock()
	s := t.load(userID)
	if s == nil {
		return Session{}, false
	}
	return *s, true
}

// Progress reports the user's pending operation without changing it.
func (t *Tracker) Progress(userID int64) (Progress, bool) {
	unlock := t.locks.Lock(userID)
	defer unlock()
	s := t.load(userID)
	if s == nil {
		return Progress{State: StateIdle}, false
	}
	return t.progress(s), true
}
