package core

import (
	"math/rand"
)

// RandomInUnitSphere generates a random point inside the unit sphere
// using rejection sampling
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float64() - 1,
			Y: 2*random.Float64() - 1,
			Z: 2*random.Float64() - 1,
		}
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniformly distributed unit direction
func RandomUnitVector(random *rand.Rand) Vec3 {
	return RandomInUnitSphere(random).Normalize()
}

// RandomInUnitDisk generates a random point in the unit disk on the
// z=0 plane, used for defocus blur lens sampling
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float64() - 1,
			Y: 2*random.Float64() - 1,
		}
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomVec3 returns a vector with each component uniform in [0,1)
func RandomVec3(random *rand.Rand) Vec3 {
	return Vec3{X: random.Float64(), Y: random.Float64(), Z: random.Float64()}
}

// RandomVec3InRange returns a vector with each component uniform in [min,max)
func RandomVec3InRange(min, max float64, random *rand.Rand) Vec3 {
	span := max - min
	return Vec3{
		X: min + span*random.Float64(),
		Y: min + span*random.Float64(),
		Z: min + span*random.Float64(),
	}
}
