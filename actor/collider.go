package actor

import (
	"github.com/akmonengine/plume/linalg"
	"github.com/go-gl/mathgl/mgl64"
)

type cacheState int

const (
	cacheDirty cacheState = iota
	cacheCached
)

// Collider attaches a Shape to a body. It knows where the shape sits relative
// to the body and how dense it is.
//
// A baked collider promises that its placement relative to the body never
// changes, so the derived values are computed once and cached until one of
// the setters or Invalidate marks them dirty again. An unbaked collider
// recomputes them on every access.
type Collider struct {
	Shape Shape

	density     float64
	localCenter mgl64.Vec3
	body        Pose
	pose        Pose

	baked bool
	state cacheState

	volume         float64
	centerToBody   mgl64.Vec3
	toBodyRotation mgl64.Quat
	unitInertia    mgl64.Vec3
	inertiaErr     error
}

// NewCollider creates a collider of unit density. pose is where the shape
// lives in the world; nil means it shares the body pose.
func NewCollider(body, pose Pose, shape Shape) *Collider {
	if pose == nil {
		pose = body
	}
	return &Collider{
		Shape:   shape,
		density: 1,
		body:    body,
		pose:    pose,
	}
}

// Bake freezes the current placement and caches derived values.
func (c *Collider) Bake() {
	c.baked = true
	c.state = cacheDirty
	c.refresh()
}

// Unbake returns to recomputing on every access.
func (c *Collider) Unbake() {
	c.baked = false
	c.state = cacheDirty
}

func (c *Collider) Baked() bool {
	return c.baked
}

// Invalidate drops the cached values; they are rebuilt on next access.
func (c *Collider) Invalidate() {
	c.state = cacheDirty
}

func (c *Collider) MassDensity() float64 {
	return c.density
}

func (c *Collider) SetDensity(density float64) {
	c.density = density
	c.Invalidate()
}

// LocalCenter is the offset of the shape center from its own pose origin.
func (c *Collider) LocalCenter() mgl64.Vec3 {
	return c.localCenter
}

func (c *Collider) SetLocalCenter(center mgl64.Vec3) {
	c.localCenter = center
	c.Invalidate()
}

func (c *Collider) Volume() float64 {
	if c.baked {
		c.refresh()
		return c.volume
	}
	return c.Shape.Volume()
}

// CenterToBody is the shape center relative to the body origin, in body axes.
func (c *Collider) CenterToBody() mgl64.Vec3 {
	if c.baked {
		c.refresh()
		return c.centerToBody
	}
	return c.computeCenterToBody()
}

// ToBodyRotation is the rotation of the shape relative to the body.
func (c *Collider) ToBodyRotation() mgl64.Quat {
	if c.baked {
		c.refresh()
		return c.toBodyRotation
	}
	return c.computeToBodyRotation()
}

// LocalInertiaTensor returns the principal moments of the shape for mass,
// in the shape's own axes.
func (c *Collider) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	if c.baked {
		c.refresh()
		if c.inertiaErr != nil {
			return mgl64.Vec3{}, c.inertiaErr
		}
		return c.unitInertia.Mul(mass), nil
	}
	return c.Shape.LocalInertiaTensor(mass)
}

func (c *Collider) refresh() {
	if c.state == cacheCached {
		return
	}
	c.volume = c.Shape.Volume()
	c.centerToBody = c.computeCenterToBody()
	c.toBodyRotation = c.computeToBodyRotation()
	c.unitInertia, c.inertiaErr = c.Shape.LocalInertiaTensor(1)
	c.state = cacheCached
}

func (c *Collider) computeToBodyRotation() mgl64.Quat {
	return linalg.Difference(c.body.WorldRotation(), c.pose.WorldRotation())
}

func (c *Collider) computeCenterToBody() mgl64.Vec3 {
	center := c.pose.WorldPosition().Add(c.pose.WorldRotation().Rotate(c.localCenter))
	return c.body.WorldRotation().Inverse().Rotate(center.Sub(c.body.WorldPosition()))
}
