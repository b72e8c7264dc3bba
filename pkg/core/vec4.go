package core

import "github.com/chewxy/math32"

// Vec4 represents a 4-component vector. It is used for homogeneous
// coordinates and for RGBA radiance values.
type Vec4 struct {
	X, Y, Z, W float32
}

// NewVec4 creates a new Vec4
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Add returns the component-wise sum of two vectors
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Subtract returns the component-wise difference of two vectors
func (v Vec4) Subtract(other Vec4) Vec4 {
	return Vec4{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Multiply returns the vector scaled by a scalar
func (v Vec4) Multiply(scalar float32) Vec4 {
	return Vec4{v.X * scalar, v.Y * scalar, v.Z * scalar, v.W * scalar}
}

// Divide returns the vector divided by a scalar
func (v Vec4) Divide(scalar float32) Vec4 {
	return Vec4{v.X / scalar, v.Y / scalar, v.Z / scalar, v.W / scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec4) MultiplyVec(other Vec4) Vec4 {
	return Vec4{v.X * other.X, v.Y * other.Y, v.Z * other.Z, v.W * other.W}
}

// Magnitude returns the Euclidean norm over all four components
func (v Vec4) Magnitude() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

// Normalize returns a unit-length copy of v, or the zero vector
func (v Vec4) Normalize() Vec4 {
	m := v.Magnitude()
	if m == 0 {
		return Vec4{}
	}
	return v.Divide(m)
}

// XYZ drops the w component
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// IsFinite reports whether every component is neither NaN nor infinite
func (v Vec4) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z) && isFinite(v.W)
}
