package geometry

import (
	"fmt"
	"math"

	"github.com/lumiray/lumiray/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

// NewSphere creates a new sphere. Negative radii are allowed and flip
// the surface normal inward, which models hollow glass shells.
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Validate rejects degenerate spheres
func (s *Sphere) Validate() error {
	if s.Radius == 0 {
		return fmt.Errorf("sphere radius must be non-zero")
	}
	if s.Material == nil {
		return fmt.Errorf("sphere requires a material")
	}
	return nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	// Find the nearest root strictly inside (tMin, tMax)
	sqrtD := math.Sqrt(discriminant)
	tRange := core.NewInterval(tMin, tMax)

	root := (-halfB - sqrtD) / a
	if !tRange.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !tRange.Surrounds(root) {
			return nil, false
		}
	}

	hitRecord := &core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Dividing by the signed radius flips the normal for hollow shells
	outwardNormal := hitRecord.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
