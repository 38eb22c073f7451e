package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/plume/linalg"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrZeroShapeMass is returned when the attached colliders carry no mass to
// distribute (no colliders, or only degenerate ones).
var ErrZeroShapeMass = errors.New("colliders have zero total mass")

// ComputeLocalInertia builds the body-local inertia tensor of a body of the
// given mass from its colliders, about localCenterOfMass.
//
// The body mass is split across colliders in proportion to density*volume, so
// the body mass may differ from the sum of the shape masses. Off-diagonal
// terms are dropped: the body axes are assumed to be principal axes.
func ComputeLocalInertia(colliders []*Collider, mass float64, localCenterOfMass mgl64.Vec3) (mgl64.Vec3, error) {
	totalMass := 0.0
	for _, c := range colliders {
		totalMass += c.MassDensity() * c.Volume()
	}
	if !(totalMass > 0) || math.IsInf(totalMass, 0) {
		return mgl64.Vec3{}, fmt.Errorf("%d colliders, theoretical mass %v: %w", len(colliders), totalMass, ErrZeroShapeMass)
	}

	var tensor linalg.Matrix3
	for i, c := range colliders {
		realMass := c.Volume() * c.MassDensity() * mass / totalMass

		local, err := c.LocalInertiaTensor(realMass)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("collider %d (%s): %w", i, c.Shape.Type(), err)
		}

		// I = R * D * R^T, the shape tensor in body axes
		tensor.Add(rotateDiagonal(linalg.QuatToMatrix(c.ToBodyRotation()), local))

		// Parallel axis theorem: m * (|d|² * Id - d ⊗ d)
		offset := c.CenterToBody().Sub(localCenterOfMass)
		sqrOffset := offset.LenSqr()
		shift := linalg.Diagonal3(mgl64.Vec3{sqrOffset, sqrOffset, sqrOffset})
		for row := 0; row < 3; row++ {
			_ = shift.AddToRow(row, offset.Mul(-offset[row]))
		}
		shift.Increase(realMass)

		tensor.Add(shift)
	}

	return tensor.Diag(), nil
}

// InvertDiagonal inverts each principal moment. A zero moment stays zero,
// which makes the body immovable around that axis instead of infinitely light.
func InvertDiagonal(moments mgl64.Vec3) mgl64.Vec3 {
	var inverse mgl64.Vec3
	for i, m := range moments {
		if !mgl64.FloatEqual(m, 0) {
			inverse[i] = 1 / m
		}
	}
	return inverse
}

// WorldInverseInertia rotates a diagonal local inverse inertia into world
// axes: R * diag(inverseLocal) * R^T.
func WorldInverseInertia(rotation mgl64.Quat, inverseLocal mgl64.Vec3) linalg.Matrix3 {
	return rotateDiagonal(linalg.QuatToMatrix(rotation), inverseLocal)
}

func rotateDiagonal(rotation linalg.Matrix3, diagonal mgl64.Vec3) linalg.Matrix3 {
	scaled := rotation.Transpose()
	for axis := 0; axis < 3; axis++ {
		_ = scaled.MultiplyRow(axis, diagonal[axis])
	}
	return rotation.Mul(scaled)
}
