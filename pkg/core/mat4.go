package core

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrSingularMatrix is returned when a matrix has no inverse
var ErrSingularMatrix = errors.New("matrix is singular")

// Mat4 is a column-major 4x4 float32 matrix
type Mat4 = mgl32.Mat4

// Identity returns the 4x4 identity matrix
func Identity() Mat4 {
	return mgl32.Ident4()
}

// Radians converts degrees to radians
func Radians(degrees float32) float32 {
	return mgl32.DegToRad(degrees)
}

// Perspective builds a right-handed OpenGL-style projection matrix.
// fov is the vertical field of view in radians.
func Perspective(fov, aspect, near, far float32) Mat4 {
	return mgl32.Perspective(fov, aspect, near, far)
}

// LookAt builds a world-to-camera view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	return mgl32.LookAtV(toMgl(eye), toMgl(center), toMgl(up))
}

// Translation builds a matrix translating by offset
func Translation(offset Vec3) Mat4 {
	return mgl32.Translate3D(offset.X, offset.Y, offset.Z)
}

// Inverse returns the true 4x4 inverse of m. A zero or non-finite
// determinant, or an inverse with non-finite entries, yields ErrSingularMatrix.
func Inverse(m Mat4) (Mat4, error) {
	det := m.Det()
	if det == 0 || !isFinite(det) {
		return Mat4{}, ErrSingularMatrix
	}
	inv := m.Inv()
	for _, e := range inv {
		if math32.IsNaN(e) || math32.IsInf(e, 0) {
			return Mat4{}, ErrSingularMatrix
		}
	}
	return inv, nil
}

// Transform multiplies m by the column vector v. The w component of the
// result is returned as-is, without a perspective divide.
func Transform(m Mat4, v Vec4) Vec4 {
	r := m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, v.W})
	return Vec4{r[0], r[1], r[2], r[3]}
}

// ApproxEqual reports whether two matrices match element-wise within eps
func ApproxEqual(a, b Mat4, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func toMgl(v Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
