package linalg

import (
	"github.com/go-gl/mathgl/mgl64"
)

// QuatAdd adds o to q componentwise. The result is not normalized.
func QuatAdd(q *mgl64.Quat, o mgl64.Quat) {
	q.W += o.W
	q.V = q.V.Add(o.V)
}

// QuatScale multiplies every component of q by k. The result is not normalized.
func QuatScale(q *mgl64.Quat, k float64) {
	q.W *= k
	q.V = q.V.Mul(k)
}

// NewQuat builds a quaternion from its scalar part and vector part.
// With w = 0 it lifts an angular velocity into quaternion space.
func NewQuat(w float64, v mgl64.Vec3) mgl64.Quat {
	return mgl64.Quat{W: w, V: v}
}

// QuatToMatrix returns the rotation matrix of q, normalizing on the fly.
// A zero quaternion produces a scale factor of 0 and therefore the identity
// matrix instead of dividing by zero.
func QuatToMatrix(q mgl64.Quat) Matrix3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	n := x*x + y*y + z*z + w*w
	s := 0.0
	if n > 0 {
		s = 2 / n
	}

	xs, ys, zs := x*s, y*s, z*s
	wxs, wys, wzs := w*xs, w*ys, w*zs
	xxs, xys, xzs := x*xs, x*ys, x*zs
	yys, yzs, zzs := y*ys, y*zs, z*zs

	return NewMatrix3FromRows(
		1-yys-zzs, xys-wzs, xzs+wys,
		xys+wzs, 1-xxs-zzs, yzs-wxs,
		xzs-wys, yzs+wxs, 1-xxs-yys,
	)
}

// Difference returns the rotation d such that d * from = to.
func Difference(from, to mgl64.Quat) mgl64.Quat {
	return to.Mul(from.Inverse())
}

// RestoreFromDifference undoes Difference: for d = Difference(a, b),
// RestoreFromDifference(b, d) yields a again.
func RestoreFromDifference(to, difference mgl64.Quat) mgl64.Quat {
	return difference.Inverse().Mul(to)
}

// QuatApproximately compares all four components of a and b within eps.
func QuatApproximately(a, b mgl64.Quat, eps float64) bool {
	eq := Within(eps)
	return eq(a.W, b.W) && a.V.ApproxFuncEqual(b.V, eq)
}
