package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt3CostMagnitude(t *testing.T) {
	assert.Equal(t, uint32(1000), Int3{X: 1000}.CostMagnitude())
	assert.Equal(t, uint32(1414), Int3{X: 1000, Z: 1000}.CostMagnitude())
	assert.Equal(t, uint32(5000), Int3{X: 3000, Y: 4000}.CostMagnitude())
	assert.Equal(t, uint32(0), Int3{}.CostMagnitude())
}

func TestVec3RoundTrip(t *testing.T) {
	v := V3(1.5, 0, -2.25)
	i := v.Int3()

	assert.Equal(t, Int3{X: 1500, Y: 0, Z: -2250}, i)
	assert.InDelta(t, v.X, i.Vec3().X, 1e-9)
	assert.InDelta(t, v.Z, i.Vec3().Z, 1e-9)
}

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(0.5, 0.5, 0.5)

	assert.Equal(t, V3(0.5, 1.5, 2.5), a.Sub(b))
	assert.Equal(t, V3(1.5, 2.5, 3.5), a.Add(b))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
	assert.InDelta(t, 5.0, V3(3, 4, 0).Magnitude(), 1e-12)
}
