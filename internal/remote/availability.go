package remote

import (
	"strings"
	"sync"
)

// State is the operating state of a remote client.
type State int

const (
	// StateAvailable means remote calls are attempted.
	StateAvailable State = iota
	// StateDegraded means remote calls are skipped and local substitutes are served.
	StateDegraded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Reasons recorded when a client enters the degraded state.
const (
	ReasonNotConfigured  = "not configured"
	ReasonCredential     = "credential rejected"
	ReasonOperatorForced = "forced by operator"
)

// Availability tracks whether a client may call its remote API. The
// transition to StateDegraded is sticky: only Reset leaves it.
type Availability struct {
	credential string

	mu     sync.RWMutex
	state  State
	reason string

	onChange func(from, to State, reason string)
}

// NewAvailability returns the availability for a client holding credential.
// Empty and placeholder credentials start degraded.
func NewAvailability(credential string) *Availability {
	a := &Availability{credential: strings.TrimSpace(credential)}
	if !a.Configured() {
		a.state = StateDegraded
		a.reason = ReasonNotConfigured
	}
	return a
}

// OnChange registers a callback invoked after every state transition.
func (a *Availability) OnChange(fn func(from, to State, reason string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Configured reports whether a usable credential is present.
func (a *Availability) Configured() bool {
	return a.credential != "" && !IsPlaceholderCredential(a.credential)
}

// Credential returns the configured credential.
func (a *Availability) Credential() string {
	return a.credential
}

// State returns the current state.
func (a *Availability) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Available reports whether remote calls may be attempted.
func (a *Availability) Available() bool {
	return a.State() == StateAvailable
}

// Reason returns why the client is degraded, or "" when available.
func (a *Availability) Reason() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reason
}

// MarkDegraded moves the client to StateDegraded. It reports whether a
// transition happened.
func (a *Availability) MarkDegraded(reason string) bool {
	return a.transition(StateDegraded, reason)
}

// Reset returns the client to StateAvailable. Without a usable credential
// the client stays degraded and Reset reports false.
func (a *Availability) Reset() bool {
	if !a.Configured() {
		return false
	}
	a.transition(StateAvailable, "")
	return true
}

func (a *Availability) transition(to State, reason string) bool {
	a.mu.Lock()
	from := a.state
	if from == to {
		a.mu.Unlock()
		return false
	}
	a.state = to
	a.reason = reason
	onChange := a.onChange
	a.mu.Unlock()

	if onChange != nil {
		onChange(from, to, reason)
	}
	return true
}

var placeholderPrefixes = []string{"your_", "your-", "<", "xxx"}

var placeholderSuffixes = []string{"api_key_here", "key_here", ">"}

var placeholderValues = map[string]bool{
	"changeme":    true,
	"change_me":   true,
	"placeholder": true,
	"todo":        true,
	"none":        true,
	"null":        true,
}

// IsPlaceholderCredential reports whether credential looks like a template
// value copied from an example config rather than a real key.
func IsPlaceholderCredential(credential string) bool {
	c := strings.ToLower(strings.TrimSpace(credential))
	if c == "" {
		return false
	}
	if placeholderValues[c] {
		return true
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(c, p) {
			return true
		}
	}
	for _, s := range placeholderSuffixes {
		if strings.HasSuffix(c, s) {
			return true
		}
	}
	return false
}
