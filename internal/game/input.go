package game

import "sync"

// Input is one fixed step's worth of player intent.
type Input struct {
	PaddleDir float64 // -1 full left .. +1 full right
	Launch    bool
}

// Source feeds the director one Input per fixed step. tick is the step
// counter, so scripted sources can replay a session deterministically.
type Source interface {
	Poll(tick uint64) Input
}

// LiveInput is a thread-safe source fed by a UI goroutine. Launch presses
// latch until the next poll so a tap between steps is never dropped.
type LiveInput struct {
	mu     sync.Mutex
	dir    float64
	launch bool
}

// NewLiveInput creates an idle live source.
func NewLiveInput() *LiveInput { return &LiveInput{} }

// SetDir sets the held paddle direction.
func (l *LiveInput) SetDir(dir float64) {
	l.mu.Lock()
	l.dir = dir
	l.mu.Unlock()
}

// PressLaunch latches a launch request.
func (l *LiveInput) PressLaunch() {
	l.mu.Lock()
	l.launch = true
	l.mu.Unlock()
}

// Poll returns the current intent and clears the launch latch.
func (l *LiveInput) Poll(uint64) Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	in := Input{PaddleDir: l.dir, Launch: l.launch}
	l.launch = false
	return in
}

// Script is a deterministic source replaying inputs recorded per tick.
// Ticks with no entry are idle.
type Script struct {
	frames map[uint64]Input
	hold   float64 // Paddle direction held between entries
}

// NewScript creates an empty script.
func NewScript() *Script { return &Script{frames: make(map[uint64]Input)} }

// At records the input for one tick.
func (s *Script) At(tick uint64, in Input) *Script {
	s.frames[tick] = in
	return s
}

// LaunchAt records a launch press at tick.
func (s *Script) LaunchAt(tick uint64) *Script {
	return s.At(tick, Input{Launch: true})
}

// HoldDir makes every unscripted tick report dir instead of idle.
func (s *Script) HoldDir(dir float64) *Script {
	s.hold = dir
	return s
}

// Poll replays the script.
func (s *Script) Poll(tick uint64) Input {
	if in, ok := s.frames[tick]; ok {
		return in
	}
	return Input{PaddleDir: s.hold}
}
