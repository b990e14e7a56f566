package renderer

import (
	"math"
	"math/rand"

	"github.com/lumiray/lumiray/pkg/core"
)

// CameraConfig contains the parameters a camera is derived from
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // View-up direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 = pinhole
	FocusDistance float64   // 0 = auto (distance from Center to LookAt)
}

// MergeCameraConfig returns base with the non-zero fields of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.Width > 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio > 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture > 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance > 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// Camera maps normalized image-plane coordinates to world-space rays.
// All fields are derived once at construction and never mutated.
type Camera struct {
	config          CameraConfig
	width, height   int
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal camera basis
	lensRadius      float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2.0 * halfHeight
	viewportWidth := config.AspectRatio * viewportHeight

	// Right-handed basis: w points from LookAt back toward the camera
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	origin := config.Center
	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		width:           config.Width,
		height:          height,
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// GetCameraForward returns the direction the camera looks along
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Multiply(-1)
}

// GetRay generates a ray through pixel (i, j), jittered within the
// pixel for anti-aliasing. Pixel (0, 0) is the top-left corner. An
// axis with a single pixel maps to the viewport center.
func (c *Camera) GetRay(i, j int, random *rand.Rand) core.Ray {
	s := 0.5
	if c.width > 1 {
		s = (float64(i) + random.Float64()) / float64(c.width-1)
	}
	t := 0.5
	if c.height > 1 {
		t = 1.0 - (float64(j)+random.Float64())/float64(c.height-1)
	}
	return c.RayForUV(s, t, random)
}

// RayForUV generates a ray for normalized viewport coordinates
// s, t in [0, 1]. With a non-zero aperture the ray origin is offset
// within the lens disk to produce defocus blur.
func (c *Camera) RayForUV(s, t float64, random *rand.Rand) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}
