package actor

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/plume/linalg"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNegativeTimestep = errors.New("negative timestep")
	ErrNegativeMass     = errors.New("negative mass")
	ErrNonFinite        = errors.New("value is NaN or infinite")
)

// ValidateTimestep accepts any finite dt >= 0.
func ValidateTimestep(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("dt %v: %w", dt, ErrNonFinite)
	}
	if dt < 0 {
		return fmt.Errorf("dt %v: %w", dt, ErrNegativeTimestep)
	}
	return nil
}

func isFinite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// RigidBody represents a rigid body in the physics simulation.
//
// The pose is not stored here: it is read from the Pose at the start of each
// step and written back at the end. A single mutex serializes mass changes,
// force accumulation and Update, so a force lands either entirely before or
// entirely after a step.
type RigidBody struct {
	mu sync.Mutex

	pose      Pose
	colliders []*Collider

	mass              float64
	inverseMass       float64
	localCenterOfMass mgl64.Vec3

	inverseInertiaLocal mgl64.Vec3
	inverseInertiaWorld linalg.Matrix3

	// Linear motion
	linearVelocity mgl64.Vec3 // m/s
	linearLock     mgl64.Vec3

	// Angular motion
	angularVelocity mgl64.Vec3 // rad/s
	angularLock     mgl64.Vec3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3
}

// NewRigidBody creates a massless body driven by pose. Call SetMass to give it
// inertia; the colliders are fixed for the lifetime of the body.
func NewRigidBody(pose Pose, colliders ...*Collider) *RigidBody {
	return &RigidBody{
		pose:        pose,
		colliders:   append([]*Collider(nil), colliders...),
		linearLock:  mgl64.Vec3{1, 1, 1},
		angularLock: mgl64.Vec3{1, 1, 1},
	}
}

func (rb *RigidBody) Pose() Pose {
	return rb.pose
}

// Colliders returns a copy of the attached colliders.
func (rb *RigidBody) Colliders() []*Collider {
	return append([]*Collider(nil), rb.colliders...)
}

func (rb *RigidBody) Mass() float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.mass
}

func (rb *RigidBody) InverseMass() float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.inverseMass
}

// SetMass changes the mass and recomputes the local inertia from the
// colliders. A zero mass is valid and makes the body immovable.
// On error the body is left unchanged.
func (rb *RigidBody) SetMass(mass float64) error {
	if !isFinite(mass) {
		return fmt.Errorf("mass %v: %w", mass, ErrNonFinite)
	}
	if mass < 0 {
		return fmt.Errorf("mass %v: %w", mass, ErrNegativeMass)
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	inverseInertia, err := rb.computeInverseInertia(mass, rb.localCenterOfMass)
	if err != nil {
		return err
	}

	rb.mass = mass
	rb.inverseMass = 0
	if !mgl64.FloatEqual(mass, 0) {
		rb.inverseMass = 1 / mass
	}
	rb.inverseInertiaLocal = inverseInertia
	return nil
}

func (rb *RigidBody) LocalCenterOfMass() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.localCenterOfMass
}

// SetLocalCenterOfMass moves the center of mass in body space and recomputes
// the local inertia around it. On error the body is left unchanged.
func (rb *RigidBody) SetLocalCenterOfMass(center mgl64.Vec3) error {
	if !isFinite(center[:]...) {
		return fmt.Errorf("center of mass %v: %w", center, ErrNonFinite)
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	inverseInertia, err := rb.computeInverseInertia(rb.mass, center)
	if err != nil {
		return err
	}

	rb.localCenterOfMass = center
	rb.inverseInertiaLocal = inverseInertia
	return nil
}

func (rb *RigidBody) GlobalCenterOfMass() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.globalCenterOfMass()
}

// LocalInverseInertia returns the inverse principal moments in body axes.
func (rb *RigidBody) LocalInverseInertia() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.inverseInertiaLocal
}

// GlobalInverseInertia returns the world inverse inertia as of the last Update.
func (rb *RigidBody) GlobalInverseInertia() linalg.Matrix3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.inverseInertiaWorld
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.linearVelocity
}

func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3) {
	rb.mu.Lock()
	rb.linearVelocity = velocity
	rb.mu.Unlock()
}

func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.angularVelocity
}

func (rb *RigidBody) SetAngularVelocity(velocity mgl64.Vec3) {
	rb.mu.Lock()
	rb.angularVelocity = velocity
	rb.mu.Unlock()
}

// SetLinearLock sets per-axis factors applied to the velocity change of each
// step: 1 leaves the axis free, 0 freezes it.
func (rb *RigidBody) SetLinearLock(factors mgl64.Vec3) {
	rb.mu.Lock()
	rb.linearLock = factors
	rb.mu.Unlock()
}

func (rb *RigidBody) LinearLock() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.linearLock
}

// SetAngularLock is SetLinearLock for rotations.
func (rb *RigidBody) SetAngularLock(factors mgl64.Vec3) {
	rb.mu.Lock()
	rb.angularLock = factors
	rb.mu.Unlock()
}

func (rb *RigidBody) AngularLock() mgl64.Vec3 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.angularLock
}

// AddForce applies a world force at the center of mass.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForce(force)
	rb.mu.Unlock()
}

// AddForceAtPosition applies a world force at a world point. The part that
// does not go through the center of mass becomes a torque.
func (rb *RigidBody) AddForceAtPosition(force, position mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForceAtPosition(force, position)
	rb.mu.Unlock()
}

// The local variants read the pose under the body lock, since Update writes it.

// AddLocalForce applies a body-space force at the center of mass.
func (rb *RigidBody) AddLocalForce(localForce mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForce(rb.pose.TransformVector(localForce))
	rb.mu.Unlock()
}

// AddForceAtLocalPosition applies a world force at a body-space point.
func (rb *RigidBody) AddForceAtLocalPosition(force, localPosition mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForceAtPosition(force, rb.pose.TransformPoint(localPosition))
	rb.mu.Unlock()
}

// AddLocalForceAtPosition applies a body-space force at a world point.
func (rb *RigidBody) AddLocalForceAtPosition(localForce, position mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForceAtPosition(rb.pose.TransformVector(localForce), position)
	rb.mu.Unlock()
}

// AddLocalForceAtLocalPosition applies a body-space force at a body-space point.
func (rb *RigidBody) AddLocalForceAtLocalPosition(localForce, localPosition mgl64.Vec3) {
	rb.mu.Lock()
	rb.addForceAtPosition(rb.pose.TransformVector(localForce), rb.pose.TransformPoint(localPosition))
	rb.mu.Unlock()
}

// AddTorque applies a world torque.
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	rb.mu.Lock()
	rb.addTorque(torque)
	rb.mu.Unlock()
}

// AddLocalTorque applies a body-space torque.
func (rb *RigidBody) AddLocalTorque(localTorque mgl64.Vec3) {
	rb.mu.Lock()
	rb.addTorque(rb.pose.TransformVector(localTorque))
	rb.mu.Unlock()
}

// ClearForces drops the pending force and torque.
func (rb *RigidBody) ClearForces() {
	rb.mu.Lock()
	rb.clearForces()
	rb.mu.Unlock()
}

// Update advances the body by dt: velocities first, then the pose, which is
// written back to the Pose. Pending forces are consumed.
func (rb *RigidBody) Update(dt float64) error {
	if err := ValidateTimestep(dt); err != nil {
		return err
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	rotation := rb.pose.WorldRotation()
	rb.inverseInertiaWorld = WorldInverseInertia(rotation, rb.inverseInertiaLocal)

	// ========== VELOCITIES ==========
	// v(t+dt) = v(t) + dt * m^-1 * F
	linearDelta := mulElem(rb.accumulatedForce.Mul(rb.inverseMass*dt), rb.linearLock)
	linearVelocity := rb.linearVelocity.Add(linearDelta)

	// w(t+dt) = w(t) + dt * I^-1 * T
	angularDelta := mulElem(rb.inverseInertiaWorld.MulVec(rb.accumulatedTorque).Mul(dt), rb.angularLock)
	angularVelocity := rb.angularVelocity.Add(angularDelta)

	// ========== POSITION & ROTATION ==========
	// x(t+dt) = x(t) + dt * v(t+dt)
	centerOfMass := rb.globalCenterOfMass().Add(linearVelocity.Mul(dt))

	// q(t+dt) = q(t) + dt/2 * w(t+dt) * q(t)
	spin := linalg.NewQuat(0, angularVelocity).Mul(rotation)
	linalg.QuatScale(&spin, 0.5*dt)
	linalg.QuatAdd(&rotation, spin)
	rotation = rotation.Normalize()

	// ========== COMMIT ==========
	rb.linearVelocity = linearVelocity
	rb.angularVelocity = angularVelocity
	rb.pose.SetPositionAndRotation(centerOfMass.Sub(rotation.Rotate(rb.localCenterOfMass)), rotation)

	rb.clearForces()
	return nil
}

func (rb *RigidBody) addForce(force mgl64.Vec3) {
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

func (rb *RigidBody) addForceAtPosition(force, position mgl64.Vec3) {
	rb.addForce(force)
	lever := position.Sub(rb.globalCenterOfMass())
	rb.addTorque(lever.Cross(force))
}

func (rb *RigidBody) addTorque(torque mgl64.Vec3) {
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

func (rb *RigidBody) clearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// globalCenterOfMass uses rotation only, matching the write back in Update,
// so a scaled pose does not drift.
func (rb *RigidBody) globalCenterOfMass() mgl64.Vec3 {
	return rb.pose.WorldPosition().Add(rb.pose.WorldRotation().Rotate(rb.localCenterOfMass))
}

func (rb *RigidBody) computeInverseInertia(mass float64, center mgl64.Vec3) (mgl64.Vec3, error) {
	inertia, err := ComputeLocalInertia(rb.colliders, mass, center)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return InvertDiagonal(inertia), nil
}
