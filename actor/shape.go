package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Thickness2D is the nominal depth given to planar shapes so that their
// volume, and therefore their share of the body mass, stays comparable.
const Thickness2D = 1e-6

// ErrInvalidAxis is returned when a shape is configured with an unknown axis.
var ErrInvalidAxis = errors.New("invalid shape axis")

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeBox ShapeType = iota
	ShapeTypeSphere
	ShapeTypeCapsule
	ShapeTypeBox2D
	ShapeTypeSphere2D
	ShapeTypeCapsule2D
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeBox:
		return "box"
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeCapsule:
		return "capsule"
	case ShapeTypeBox2D:
		return "box2d"
	case ShapeTypeSphere2D:
		return "sphere2d"
	case ShapeTypeCapsule2D:
		return "capsule2d"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// Axis selects one of the three local axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Direction2D is the long axis of a planar capsule.
type Direction2D int

const (
	Vertical Direction2D = iota
	Horizontal
)

// Shape is the closed set of primitives a body can be built from:
// *Box, *Sphere, *Capsule, *Box2D, *Sphere2D and *Capsule2D.
// Dimensions are read on every call, so the host may own and edit them.
type Shape interface {
	Type() ShapeType
	// Volume of the shape. Planar shapes are extruded by Thickness2D.
	Volume() float64
	// LocalInertiaTensor returns the principal moments of inertia in the
	// shape's own axes for the given mass.
	LocalInertiaTensor(mass float64) (mgl64.Vec3, error)

	sealed()
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }
func (b *Box) sealed()         {}

func (b *Box) Volume() float64 {
	// full dimensions are 2*halfExtents
	return 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()
}

func (b *Box) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	// I = (m/3) * (h1² + h2²), written with half extents
	x2 := b.HalfExtents.X() * b.HalfExtents.X()
	y2 := b.HalfExtents.Y() * b.HalfExtents.Y()
	z2 := b.HalfExtents.Z() * b.HalfExtents.Z()
	factor := mass / 3.0

	return mgl64.Vec3{
		factor * (y2 + z2),
		factor * (x2 + z2),
		factor * (x2 + y2),
	}, nil
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }
func (s *Sphere) sealed()         {}

func (s *Sphere) Volume() float64 {
	// Volume of sphere = (4/3) * π * r³
	return (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)
}

func (s *Sphere) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	// I = (2/5) * m * r², same on every axis
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius
	return mgl64.Vec3{i, i, i}, nil
}

// Capsule is a cylinder capped by two hemispheres. Height is the total
// length tip to tip, Direction the axis it extends along.
type Capsule struct {
	Radius    float64
	Height    float64
	Direction Axis
}

func (c *Capsule) Type() ShapeType { return ShapeTypeCapsule }
func (c *Capsule) sealed()         {}

// StraightLength is the length of the cylindrical part, never negative.
func (c *Capsule) StraightLength() float64 {
	return math.Max(0, c.Height-2*c.Radius)
}

func (c *Capsule) Volume() float64 {
	r := c.Radius
	return math.Pi * r * r * (4.0/3.0*r + c.StraightLength())
}

func (c *Capsule) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	r := c.Radius
	h := c.StraightLength()
	r2 := r * r
	h2 := h * h

	var along, cross float64
	if divider := 4*r + 3*h; divider > 0 {
		// mass share of one hemisphere and of the cylinder
		hemisphere := 2 * r / divider
		cylinder := 3 * h / divider

		sphereMoment := 0.4 * 2 * r2
		sphereOffset := 0.75*h*r + 0.5*h2

		cross = hemisphere*(sphereMoment+sphereOffset) + cylinder*(0.25*r2+h2/12.0)
		along = hemisphere*sphereMoment + cylinder*0.5*r2
	}
	along *= mass
	cross *= mass

	switch c.Direction {
	case AxisX:
		return mgl64.Vec3{along, cross, cross}, nil
	case AxisY:
		return mgl64.Vec3{cross, along, cross}, nil
	case AxisZ:
		return mgl64.Vec3{cross, cross, along}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("capsule direction %d: %w", c.Direction, ErrInvalidAxis)
}

// Box2D is a rectangle in the XY plane. A planar body only spins around Z,
// so the in-plane moments are reported as zero.
type Box2D struct {
	HalfExtents mgl64.Vec2
}

func (b *Box2D) Type() ShapeType { return ShapeTypeBox2D }
func (b *Box2D) sealed()         {}

func (b *Box2D) Volume() float64 {
	return 4.0 * b.HalfExtents.X() * b.HalfExtents.Y() * Thickness2D
}

func (b *Box2D) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	x2 := b.HalfExtents.X() * b.HalfExtents.X()
	y2 := b.HalfExtents.Y() * b.HalfExtents.Y()
	return mgl64.Vec3{0, 0, mass / 3.0 * (x2 + y2)}, nil
}

// Sphere2D is a disc in the XY plane.
type Sphere2D struct {
	Radius float64
}

func (s *Sphere2D) Type() ShapeType { return ShapeTypeSphere2D }
func (s *Sphere2D) sealed()         {}

func (s *Sphere2D) Volume() float64 {
	return math.Pi * s.Radius * s.Radius * Thickness2D
}

func (s *Sphere2D) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	return mgl64.Vec3{0, 0, 0.5 * mass * s.Radius * s.Radius}, nil
}

// Capsule2D is a rectangle capped by two half discs in the XY plane.
// Size is the full bounding size; the long side follows Direction.
type Capsule2D struct {
	Size      mgl64.Vec2
	Direction Direction2D
}

func (c *Capsule2D) Type() ShapeType { return ShapeTypeCapsule2D }
func (c *Capsule2D) sealed()         {}

// dimensions returns the cap radius and the half length of the straight part.
func (c *Capsule2D) dimensions() (radius, halfStraight float64, err error) {
	var along, across float64
	switch c.Direction {
	case Vertical:
		along, across = c.Size.Y(), c.Size.X()
	case Horizontal:
		along, across = c.Size.X(), c.Size.Y()
	default:
		return 0, 0, fmt.Errorf("capsule2d direction %d: %w", c.Direction, ErrInvalidAxis)
	}
	radius = across / 2
	return radius, math.Max(0, (along-across)/2), nil
}

func (c *Capsule2D) Volume() float64 {
	r, x, err := c.dimensions()
	if err != nil {
		return 0
	}
	return (4*x*r + math.Pi*r*r) * Thickness2D
}

func (c *Capsule2D) LocalInertiaTensor(mass float64) (mgl64.Vec3, error) {
	r, x, err := c.dimensions()
	if err != nil {
		return mgl64.Vec3{}, err
	}

	divider := 4*x + math.Pi*r
	if divider <= 0 {
		return mgl64.Vec3{}, nil
	}
	box := 4 * x / divider
	discs := math.Pi * r / divider

	x2 := x * x
	r2 := r * r
	boxMoment := (x2 + r2) / 3.0
	discMoment := r2/2 + 8.0/(3.0*math.Pi)*x*r + x2

	return mgl64.Vec3{0, 0, mass * (box*boxMoment + discs*discMoment)}, nil
}
