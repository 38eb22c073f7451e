package plume

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	DEFAULT_WORKERS      = 1
	DEFAULT_MAX_SUBSTEPS = 8
)

var ErrUnknownBody = errors.New("unknown body")

// World steps a set of independent rigid bodies at a fixed timestep.
// Bodies share no state, so each step updates them in parallel.
type World struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity       mgl64.Vec3
	FixedTimestep float64
	Workers       int
	MaxSubsteps   int
	Logger        Logger

	mu     sync.RWMutex
	bodies map[uuid.UUID]*actor.RigidBody
	order  []uuid.UUID

	stepMu      sync.Mutex
	accumulator float64
	steps       uint64
}

// NewWorld creates an empty world from conf. A nil logger discards output.
func NewWorld(conf Config, logger Logger) (*World, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &World{
		Gravity:       conf.Gravity,
		FixedTimestep: conf.FixedTimestep,
		Workers:       conf.Workers,
		MaxSubsteps:   conf.MaxSubsteps,
		Logger:        logger,
		bodies:        make(map[uuid.UUID]*actor.RigidBody),
	}, nil
}

func (w *World) logger() Logger {
	if w.Logger == nil {
		return NewNopLogger()
	}
	return w.Logger
}

// AddBody registers a rigid body and returns its handle.
func (w *World) AddBody(body *actor.RigidBody) uuid.UUID {
	id := uuid.New()

	w.mu.Lock()
	if w.bodies == nil {
		w.bodies = make(map[uuid.UUID]*actor.RigidBody)
	}
	w.bodies[id] = body
	w.order = append(w.order, id)
	w.mu.Unlock()

	w.logger().Debugf("added body %s (mass %v)", id, body.Mass())
	return id
}

func (w *World) Body(id uuid.UUID) (*actor.RigidBody, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	body, ok := w.bodies[id]
	return body, ok
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[id]; !ok {
		return fmt.Errorf("body %s: %w", id, ErrUnknownBody)
	}
	delete(w.bodies, id)

	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.logger().Debugf("removed body %s", id)
	return nil
}

// Bodies returns the registered bodies in insertion order.
func (w *World) Bodies() []*actor.RigidBody {
	w.mu.RLock()
	defer w.mu.RUnlock()

	bodies := make([]*actor.RigidBody, 0, len(w.order))
	for _, id := range w.order {
		bodies = append(bodies, w.bodies[id])
	}
	return bodies
}

// Step applies gravity to every body and advances it by dt.
func (w *World) Step(dt float64) error {
	if err := actor.ValidateTimestep(dt); err != nil {
		return err
	}

	w.stepMu.Lock()
	defer w.stepMu.Unlock()
	return w.step(dt)
}

// Advance runs as many fixed steps as fit in the time elapsed since the last
// call, keeping the remainder for the next one. At most MaxSubsteps steps run
// per call; whole steps beyond that are dropped so a stalled host does not
// spiral into ever longer catch-ups.
func (w *World) Advance(elapsed float64) (int, error) {
	if err := actor.ValidateTimestep(elapsed); err != nil {
		return 0, err
	}
	if !(w.FixedTimestep > 0) {
		return 0, fmt.Errorf("fixed-timestep %v must be positive: %w", w.FixedTimestep, ErrInvalidConfig)
	}
	maxSubsteps := w.MaxSubsteps
	if maxSubsteps <= 0 {
		maxSubsteps = DEFAULT_MAX_SUBSTEPS
	}

	w.stepMu.Lock()
	defer w.stepMu.Unlock()

	w.accumulator += elapsed
	steps := 0
	for w.accumulator >= w.FixedTimestep {
		if steps == maxSubsteps {
			dropped := math.Floor(w.accumulator / w.FixedTimestep)
			w.accumulator = math.Mod(w.accumulator, w.FixedTimestep)
			w.logger().Warnf("advance of %vs hit max-substeps %d, dropped %v steps", elapsed, maxSubsteps, dropped)
			break
		}
		if err := w.step(w.FixedTimestep); err != nil {
			return steps, err
		}
		w.accumulator -= w.FixedTimestep
		steps++
	}
	return steps, nil
}

func (w *World) step(h float64) error {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	bodies := w.Bodies()
	w.steps++

	logger := w.logger()
	if logger.DebugEnabled() {
		logger.Debugf("step %d: dt=%v bodies=%d workers=%d", w.steps, h, len(bodies), w.Workers)
	}

	var mu sync.Mutex
	var errs []error
	task(w.Workers, bodies, func(body *actor.RigidBody) {
		body.AddForce(w.Gravity.Mul(body.Mass()))
		if err := body.Update(h); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	})

	if err := errors.Join(errs...); err != nil {
		logger.Errorf("step %d of %d bodies failed: %v", w.steps, len(bodies), err)
		return err
	}
	return nil
}
