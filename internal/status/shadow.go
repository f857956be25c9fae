package status

import "sync"

// overrideState is the per-flag shadow machine. A pending override keeps
// masking the raw device bit until the device itself reports the requested
// value, at which point the device becomes authoritative again.
type overrideState uint8

const (
	overrideNone overrideState = iota
	overridePendingSet
	overridePendingClear
)

// Shadow tracks optimistic flag overrides. Commands that change motion or
// sound state take effect on the device before the next status packet
// reflects them; without the shadow a caller could observe the stale bit
// and, for example, decide a move already finished before it started.
type Shadow struct {
	mu     sync.Mutex
	states map[uint32]overrideState
}

func NewShadow() *Shadow {
	return &Shadow{states: make(map[uint32]overrideState)}
}

// RequestSet forces the flag on until the device reports it set.
func (s *Shadow) RequestSet(flag uint32) {
	s.mu.Lock()
	s.states[flag] = overridePendingSet
	s.mu.Unlock()
}

// RequestClear forces the flag off until the device reports it clear.
func (s *Shadow) RequestClear(flag uint32) {
	s.mu.Lock()
	s.states[flag] = overridePendingClear
	s.mu.Unlock()
}

// Cancel drops any pending override, making the device authoritative
// immediately.
func (s *Shadow) Cancel(flag uint32) {
	s.mu.Lock()
	delete(s.states, flag)
	s.mu.Unlock()
}

// PendingClear reports whether the flag has an unconfirmed clear request.
// Motion helpers use this to treat a stop as already effective.
func (s *Shadow) PendingClear(flag uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[flag] == overridePendingClear
}

// Apply folds the pending overrides into a raw flags word. Overrides the
// device has confirmed are retired as a side effect.
func (s *Shadow) Apply(raw uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for flag, state := range s.states {
		switch state {
		case overridePendingSet:
			if raw&flag != 0 {
				delete(s.states, flag)
			} else {
				raw |= flag
			}
		case overridePendingClear:
			if raw&flag == 0 {
				delete(s.states, flag)
			} else {
				raw &^= flag
			}
		}
	}
	return raw
}
