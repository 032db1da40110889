package watch

// StepTracker owns the step and location fields of a TrackingState.
// It is not safe for concurrent use; Session serializes access.
type StepTracker struct {
	state  *TrackingState
	policy StepEqualityPolicy
	filter MovementFilter
}

// NewStepTracker returns a tracker mutating state.
func NewStepTracker(state *TrackingState, policy StepEqualityPolicy, filter MovementFilter) *StepTracker {
	return &StepTracker{state: state, policy: policy, filter: filter}
}

// Accept stores sample as the last location if it is a significant move.
func (t *StepTracker) Accept(sample LocationSample) bool {
	if !t.filter.IsSignificant(t.state.LastLocation, &sample) {
		return false
	}
	t.state.LastLocation = &sample
	return true
}

// Update replaces the current step with candidate when the policy considers
// them different. A replaced step is always un-notified.
func (t *StepTracker) Update(candidate *StepSnapshot) bool {
	if !t.policy.IsDifferent(t.state.CurrentStep, candidate) {
		return false
	}
	t.state.CurrentStep = candidate
	t.state.Notified = false
	return true
}

// Reset clears the tracking state.
func (t *StepTracker) Reset() {
	*t.state = TrackingState{}
}

// State returns the tracked state.
func (t *StepTracker) State() *TrackingState {
	return t.state
}
