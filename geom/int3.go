package geom

import (
	"fmt"
	"math"
)

// Precision is the number of integer units per world unit.
const Precision = 1000

// FloatPrecision is Precision as a float64.
const FloatPrecision = float64(Precision)

// Int3 is an integer position on the node lattice.
type Int3 struct {
	X, Y, Z int32
}

// Sub returns a - b.
func (a Int3) Sub(b Int3) Int3 {
	return Int3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

// Add returns a + b.
func (a Int3) Add(b Int3) Int3 {
	return Int3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// SqrMagnitude returns the squared length of the vector.
func (a Int3) SqrMagnitude() int64 {
	x, y, z := int64(a.X), int64(a.Y), int64(a.Z)
	return x*x + y*y + z*z
}

// Magnitude returns the exact length of the vector.
func (a Int3) Magnitude() float64 {
	return math.Sqrt(float64(a.SqrMagnitude()))
}

// CostMagnitude returns the length rounded to the nearest integer unit.
// It is the distance measure used for edge costs and heuristics.
func (a Int3) CostMagnitude() uint32 {
	return uint32(math.Round(a.Magnitude()))
}

// Vec3 converts the position to world units.
func (a Int3) Vec3() Vec3 {
	return Vec3{
		X: float64(a.X) / FloatPrecision,
		Y: float64(a.Y) / FloatPrecision,
		Z: float64(a.Z) / FloatPrecision,
	}
}

func (a Int3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", a.X, a.Y, a.Z)
}
