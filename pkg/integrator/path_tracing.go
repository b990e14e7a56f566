package integrator

import (
	"math"
	"math/rand"

	"github.com/lumiray/lumiray/pkg/core"
)

// shadowAcneEpsilon is the lower hit bound that skips self-intersection
// of a scattered ray with the surface it just left.
const shadowAcneEpsilon = 0.001

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	RayColor(ray core.Ray, world core.Shape, random *rand.Rand, depth int) core.Vec3
}

// Background supplies the radiance for rays that escape the scene
type Background struct {
	TopColor    core.Vec3 // Color straight up
	BottomColor core.Vec3 // Color at the horizon and below
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Gradient interpolates the background by the ray direction's
// y-component, mapped from [-1,1] to [0,1]
func (b Background) Gradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.BottomColor.Lerp(b.TopColor, t)
}

// PathTracingIntegrator computes radiance by recursively scattering
// rays off materials until they escape, are absorbed, or run out of
// bounces
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{background: background}
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Shape, random *rand.Rand, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, shadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.background.Gradient(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, random)
	if !didScatter {
		// Material absorbed the ray
		return core.Vec3{}
	}

	incomingLight := pt.RayColor(scatter.Scattered, world, random, depth-1)
	return scatter.Attenuation.MultiplyVec(incomingLight)
}
