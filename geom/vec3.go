package geom

import (
	"fmt"
	"math"
)

// Vec3 is a point in world units.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Scale returns a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// SqrMagnitude returns the squared length.
func (a Vec3) SqrMagnitude() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Magnitude returns the length.
func (a Vec3) Magnitude() float64 {
	return math.Sqrt(a.SqrMagnitude())
}

// Int3 rounds the point onto the integer lattice.
func (a Vec3) Int3() Int3 {
	return Int3{
		X: int32(math.Round(a.X * FloatPrecision)),
		Y: int32(math.Round(a.Y * FloatPrecision)),
		Z: int32(math.Round(a.Z * FloatPrecision)),
	}
}

func (a Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", a.X, a.Y, a.Z)
}
