package tool

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State names one position in a tool's screen flow.
type State string

const (
	StateIdle          State = "idle"
	StateLoading       State = "loading"
	StateCameraOpen    State = "camera_open"
	StateCaptured      State = "captured"
	StateAnalyzing     State = "analyzing"
	StateExtracting    State = "extracting_text"
	StateShowingResult State = "showing_result"
	StateError         State = "error"
)

// ErrBusy is returned when an action is attempted while the tool is not in a
// state that allows it; the UI hides such actions, so hitting this means a
// duplicate or out-of-order request.
var ErrBusy = errors.New("tool: action not allowed in current state")

// InputError is a user-input problem caught before any model call: a bad
// URL, empty text, or a denied camera permission.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// machine is the idle/busy/result/error skeleton shared by the three tools.
// Every mutation happens under the lock. The generation counter increments on
// each begin and reset so a completion from a superseded request cannot
// clobber newer state.
type machine[R any] struct {
	mu        sync.Mutex
	state     State
	result    *R
	errMsg    string
	gen       uint64
	startedAt time.Time
	now       func() time.Time
}

func newMachine[R any]() machine[R] {
	return machine[R]{state: StateIdle, now: time.Now}
}

// locked runs fn with the machine lock held, for controller fields that must
// stay consistent with the state.
func (m *machine[R]) locked(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// begin starts an asynchronous operation and returns the generation token the
// eventual completion must present.
func (m *machine[R]) begin(busy State, from ...State) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !stateIn(m.state, from) {
		return 0, fmt.Errorf("%w: %s", ErrBusy, m.state)
	}
	m.gen++
	m.state = busy
	m.errMsg = ""
	m.startedAt = m.now()
	return m.gen, nil
}

// settle applies an operation's outcome if its generation is still current.
// A stale generation means the tool was reset (or restarted) while the
// request was in flight; the outcome is dropped.
func (m *machine[R]) settle(gen uint64, to State, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	if fn != nil {
		fn()
	}
	m.state = to
	return true
}

func (m *machine[R]) complete(gen uint64, result *R) bool {
	return m.settle(gen, StateShowingResult, func() { m.result = result })
}

func (m *machine[R]) fail(gen uint64, message string) bool {
	return m.settle(gen, StateError, func() { m.errMsg = message })
}

// failNow enters the error state synchronously, for problems caught before
// any operation starts.
func (m *machine[R]) failNow(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = StateError
	m.errMsg = message
}

// reset returns to idle, clearing the result and error and invalidating any
// in-flight generation.
func (m *machine[R]) reset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = StateIdle
	m.result = nil
	m.errMsg = ""
	if fn != nil {
		fn()
	}
}

func stateIn(s State, set []State) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
