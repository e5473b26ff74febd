package vecmath

import (
	"errors"
	"sync"

	"marketReco/pkg/logger"
)

type State int

const (
	Uninitialized State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

var ErrDisabled = errors.New("vector math disabled by configuration")

// Initializer loads a Backend. It runs at most once per Capability unless Recheck is called.
type Initializer func() (Backend, error)

// Capability memoizes the lazy initialization of a vector-math Backend.
// Uninitialized -> Ready | Failed. A failed attempt is cached and logged once.
type Capability struct {
	mu      sync.Mutex
	init    Initializer
	state   State
	backend Backend
	err     error
}

func NewCapability(init Initializer) *Capability {
	return &Capability{init: init}
}

// Backend returns the initialized backend, initializing it on first use.
func (c *Capability) Backend() (Backend, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Uninitialized {
		c.attempt()
	}
	return c.backend, c.state == Ready
}

// Recheck retries a failed initialization. It is a no-op when the capability is
// ready and initializes normally when it was never attempted.
func (c *Capability) Recheck() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Ready {
		c.attempt()
	}
	return c.state
}

func (c *Capability) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the cached initialization error, if any.
func (c *Capability) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// caller holds c.mu
func (c *Capability) attempt() {
	backend, err := c.safeInit()
	if err == nil && backend == nil {
		err = errors.New("initializer returned no backend")
	}
	if err != nil {
		c.state = Failed
		c.backend = nil
		c.err = err
		logger.Warn("vector math unavailable, heuristic scoring will be used", "error", err)
		return
	}

	c.state = Ready
	c.backend = backend
	c.err = nil
	logger.Info("vector math backend ready")
}

func (c *Capability) safeInit() (b Backend, err error) {
	if c.init == nil {
		return nil, errors.New("no initializer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = errors.New("vector math initializer panicked")
		}
	}()
	return c.init()
}

// GonumInitializer builds the gonum backend and verifies it with a self test.
func GonumInitializer() (Backend, error) {
	b := NewGonumBackend()
	if err := selfTest(b); err != nil {
		return nil, err
	}
	return b, nil
}

// DisabledInitializer always fails; used when configuration turns vector math off.
func DisabledInitializer() (Backend, error) {
	return nil, ErrDisabled
}

var (
	defaultMu  sync.Mutex
	defaultCap *Capability
	defaultIni Initializer = GonumInitializer
)

// Default returns the process-wide capability.
func Default() *Capability {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCap == nil {
		defaultCap = NewCapability(defaultIni)
	}
	return defaultCap
}

// SetDefaultInitializer replaces the initializer of the process-wide capability.
// It only has an effect before the first call to Default.
func SetDefaultInitializer(init Initializer) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCap == nil {
		defaultIni = init
	}
}
