package core

import (
	"fmt"
	"math/rand"
)

// Shape interface for objects that rays can intersect
type Shape interface {
	// Hit returns the nearest intersection with t strictly inside
	// (tMin, tMax), or false if the ray misses
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter either re-emits the incoming ray with a color
	// attenuation or absorbs it (returns false)
	Scatter(rayIn Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Surface normal, unit length, always opposes the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether the ray hit the front face
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Merge returns the config with non-zero fields of other applied on top
func (c SamplingConfig) Merge(other SamplingConfig) SamplingConfig {
	merged := c
	if other.SamplesPerPixel > 0 {
		merged.SamplesPerPixel = other.SamplesPerPixel
	}
	if other.MaxDepth > 0 {
		merged.MaxDepth = other.MaxDepth
	}
	return merged
}

// Validate rejects configurations that would produce garbage output
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// Logger interface for renderer progress output
type Logger interface {
	Printf(format string, args ...interface{})
}
