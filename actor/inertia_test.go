package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func colliderAt(body Pose, position mgl64.Vec3, rotation mgl64.Quat, shape Shape) *Collider {
	return NewCollider(body, &Transform{Position: position, Rotation: rotation}, shape)
}

// =============================================================================
// Collider placement & bake cache
// =============================================================================

func TestCollider_SharesBodyPose(t *testing.T) {
	body := NewTransform()
	body.Position = mgl64.Vec3{4, 5, 6}
	c := NewCollider(body, nil, &Sphere{Radius: 1})
	c.SetLocalCenter(mgl64.Vec3{0, 1, 0})

	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("CenterToBody() = %v, want (0, 1, 0)", got)
	}
	if got := c.ToBodyRotation(); !got.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-12) {
		t.Errorf("ToBodyRotation() = %v, want identity", got)
	}
	if c.MassDensity() != 1 {
		t.Errorf("MassDensity() = %v, want 1", c.MassDensity())
	}
}

func TestCollider_CenterToBodyInBodyAxes(t *testing.T) {
	body := &Transform{Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})}
	c := colliderAt(body, mgl64.Vec3{0, 1, 0}, body.Rotation, &Sphere{Radius: 1})

	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("CenterToBody() = %v, want (1, 0, 0)", got)
	}
	if got := c.ToBodyRotation(); !got.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-12) {
		t.Errorf("ToBodyRotation() = %v, want identity", got)
	}
}

func TestCollider_Unbaked_FollowsPose(t *testing.T) {
	body := NewTransform()
	pose := &Transform{Position: mgl64.Vec3{1, 0, 0}}
	sphere := &Sphere{Radius: 1}
	c := NewCollider(body, pose, sphere)

	pose.Position = mgl64.Vec3{2, 0, 0}
	sphere.Radius = 2

	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("CenterToBody() = %v, want (2, 0, 0)", got)
	}
	if !floatEqual(c.Volume(), sphere.Volume(), 1e-12) {
		t.Errorf("Volume() = %v, want %v", c.Volume(), sphere.Volume())
	}
}

func TestCollider_Baked_CachesUntilInvalidated(t *testing.T) {
	body := NewTransform()
	pose := &Transform{Position: mgl64.Vec3{1, 0, 0}}
	sphere := &Sphere{Radius: 1}
	c := NewCollider(body, pose, sphere)
	c.Bake()

	if !c.Baked() {
		t.Fatal("Baked() = false after Bake()")
	}

	bakedVolume := c.Volume()
	pose.Position = mgl64.Vec3{5, 0, 0}
	pose.Rotation = mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})
	sphere.Radius = 3

	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("baked CenterToBody() = %v, want cached (1, 0, 0)", got)
	}
	if c.Volume() != bakedVolume {
		t.Errorf("baked Volume() = %v, want cached %v", c.Volume(), bakedVolume)
	}
	inertia, _ := c.LocalInertiaTensor(1)
	if !vec3Equal(inertia, mgl64.Vec3{0.4, 0.4, 0.4}, 1e-12) {
		t.Errorf("baked LocalInertiaTensor() = %v, want cached unit sphere", inertia)
	}

	c.Invalidate()
	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{5, 0, 0}, 1e-12) {
		t.Errorf("CenterToBody() after Invalidate = %v, want (5, 0, 0)", got)
	}
	if !floatEqual(c.Volume(), sphere.Volume(), 1e-9) {
		t.Errorf("Volume() after Invalidate = %v, want %v", c.Volume(), sphere.Volume())
	}
}

func TestCollider_SettersInvalidate(t *testing.T) {
	body := NewTransform()
	c := NewCollider(body, nil, &Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	c.Bake()

	c.SetLocalCenter(mgl64.Vec3{0, 0, 3})
	if got := c.CenterToBody(); !vec3Equal(got, mgl64.Vec3{0, 0, 3}, 1e-12) {
		t.Errorf("CenterToBody() = %v, want (0, 0, 3)", got)
	}

	c.SetDensity(2.5)
	if c.MassDensity() != 2.5 {
		t.Errorf("MassDensity() = %v, want 2.5", c.MassDensity())
	}

	c.Unbake()
	if c.Baked() {
		t.Error("Baked() = true after Unbake()")
	}
}

// =============================================================================
// Composite inertia
// =============================================================================

func TestComputeLocalInertia_SingleSphere(t *testing.T) {
	body := NewTransform()
	c := NewCollider(body, nil, &Sphere{Radius: 1})

	got, err := ComputeLocalInertia([]*Collider{c}, 1, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}
	if !vec3Equal(got, mgl64.Vec3{0.4, 0.4, 0.4}, 1e-12) {
		t.Errorf("ComputeLocalInertia() = %v, want (0.4, 0.4, 0.4)", got)
	}
}

func TestComputeLocalInertia_ParallelAxis(t *testing.T) {
	body := NewTransform()
	left := colliderAt(body, mgl64.Vec3{-1, 0, 0}, mgl64.QuatIdent(), &Sphere{Radius: 1})
	right := colliderAt(body, mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), &Sphere{Radius: 1})

	got, err := ComputeLocalInertia([]*Collider{left, right}, 10, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}

	// each sphere gets 5kg: 2/5*5 = 2 about its center, + 5*1² off the X axis
	want := mgl64.Vec3{4, 14, 14}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("ComputeLocalInertia() = %v, want %v", got, want)
	}
}

func TestComputeLocalInertia_OffsetCenterOfMass(t *testing.T) {
	body := NewTransform()
	c := NewCollider(body, nil, &Sphere{Radius: 1})

	got, err := ComputeLocalInertia([]*Collider{c}, 2, mgl64.Vec3{0, 2, 0})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}
	want := mgl64.Vec3{0.8 + 8, 0.8, 0.8 + 8}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("ComputeLocalInertia() = %v, want %v", got, want)
	}
}

func TestComputeLocalInertia_DensityWeighting(t *testing.T) {
	body := NewTransform()
	light := NewCollider(body, nil, &Sphere{Radius: 1})
	heavy := NewCollider(body, nil, &Sphere{Radius: 1})
	heavy.SetDensity(3)

	got, err := ComputeLocalInertia([]*Collider{light, heavy}, 4, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}
	// 1kg + 3kg of unit spheres, both centered
	if !vec3Equal(got, mgl64.Vec3{1.6, 1.6, 1.6}, 1e-9) {
		t.Errorf("ComputeLocalInertia() = %v, want (1.6, 1.6, 1.6)", got)
	}
}

func TestComputeLocalInertia_RotatedShape(t *testing.T) {
	body := NewTransform()
	box := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}
	c := colliderAt(body, mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}), box)

	got, err := ComputeLocalInertia([]*Collider{c}, 3, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}
	// local moments (13, 10, 5); a quarter turn about Z swaps X and Y
	if !vec3Equal(got, mgl64.Vec3{10, 13, 5}, 1e-9) {
		t.Errorf("ComputeLocalInertia() = %v, want (10, 13, 5)", got)
	}
}

func TestComputeLocalInertia_MassIsRedistributed(t *testing.T) {
	body := NewTransform()
	small := NewCollider(body, nil, &Box{HalfExtents: mgl64.Vec3{1, 1, 1}})

	a, _ := ComputeLocalInertia([]*Collider{small}, 1, mgl64.Vec3{})
	small.SetDensity(1000)
	b, _ := ComputeLocalInertia([]*Collider{small}, 1, mgl64.Vec3{})

	if !vec3Equal(a, b, 1e-12) {
		t.Errorf("a single collider always carries the whole body mass: %v vs %v", a, b)
	}
}

func TestComputeLocalInertia_ZeroShapeMass(t *testing.T) {
	body := NewTransform()

	tests := []struct {
		name      string
		colliders []*Collider
	}{
		{name: "no colliders"},
		{name: "zero radius", colliders: []*Collider{NewCollider(body, nil, &Sphere{})}},
		{name: "zero density", colliders: func() []*Collider {
			c := NewCollider(body, nil, &Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
			c.SetDensity(0)
			return []*Collider{c}
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLocalInertia(tt.colliders, 1, mgl64.Vec3{})
			if !errors.Is(err, ErrZeroShapeMass) {
				t.Errorf("error = %v, want ErrZeroShapeMass", err)
			}
			for i := range got {
				if math.IsNaN(got[i]) {
					t.Errorf("moment %d is NaN", i)
				}
			}
		})
	}
}

func TestComputeLocalInertia_InvalidAxis(t *testing.T) {
	body := NewTransform()
	c := NewCollider(body, nil, &Capsule{Radius: 1, Height: 4, Direction: Axis(-1)})

	if _, err := ComputeLocalInertia([]*Collider{c}, 1, mgl64.Vec3{}); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("error = %v, want ErrInvalidAxis", err)
	}
}

func TestComputeLocalInertia_Planar(t *testing.T) {
	body := NewTransform()
	disc := NewCollider(body, nil, &Sphere2D{Radius: 1})
	box := colliderAt(body, mgl64.Vec3{3, 0, 0}, mgl64.QuatIdent(), &Box2D{HalfExtents: mgl64.Vec2{1, 1}})

	got, err := ComputeLocalInertia([]*Collider{disc, box}, 1, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("ComputeLocalInertia() error = %v", err)
	}
	if got.Z() <= 0 {
		t.Errorf("out of plane moment = %v, want > 0", got.Z())
	}
	if got.X() != 0 {
		t.Errorf("moment around the offset axis = %v, want 0", got.X())
	}
}

// =============================================================================
// Inversion & world tensor
// =============================================================================

func TestInvertDiagonal(t *testing.T) {
	got := InvertDiagonal(mgl64.Vec3{2, 0, 4})
	if got != (mgl64.Vec3{0.5, 0, 0.25}) {
		t.Errorf("InvertDiagonal() = %v, want (0.5, 0, 0.25)", got)
	}
}

func TestWorldInverseInertia(t *testing.T) {
	local := mgl64.Vec3{1, 2, 3}

	identity := WorldInverseInertia(mgl64.QuatIdent(), local)
	if identity.Diag() != local {
		t.Errorf("identity rotation diag = %v, want %v", identity.Diag(), local)
	}

	quarter := WorldInverseInertia(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}), local)
	if !vec3Equal(quarter.Diag(), mgl64.Vec3{2, 1, 3}, 1e-12) {
		t.Errorf("quarter turn diag = %v, want (2, 1, 3)", quarter.Diag())
	}
	// the world tensor stays symmetric
	if !quarter.ApproxEqual(quarter.Transpose(), 1e-12) {
		t.Errorf("world tensor is not symmetric: %v", quarter)
	}
}
