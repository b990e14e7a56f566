package scene

import (
	"math/rand"

	"github.com/lumiray/lumiray/pkg/core"
	"github.com/lumiray/lumiray/pkg/geometry"
	"github.com/lumiray/lumiray/pkg/material"
	"github.com/lumiray/lumiray/pkg/renderer"
)

// NewRandomWorldScene creates the randomly generated final scene: a
// muted ground sphere, a 22x22 grid of small spheres with jittered
// positions and randomly drawn materials, and three large signature
// spheres. The same seed always produces the same world.
func NewRandomWorldScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	random := rand.New(rand.NewSource(seed))
	world := geometry.NewHittableList()

	groundMaterial := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, groundMaterial))

	// Glass spheres share one material instance; albedo lookups are
	// read-only so sharing is safe
	glass := material.NewDielectric(1.5)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			// Keep clear of the large metal signature sphere
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			chooseMat := random.Float64()
			var sphereMaterial core.Material
			switch {
			case chooseMat < 0.8:
				// Diffuse: squaring the random albedo biases toward
				// the darker, more natural tones
				albedo := core.RandomVec3(random).MultiplyVec(core.RandomVec3(random))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3InRange(0.5, 1.0, random)
				fuzz := 0.5 * random.Float64()
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default:
				sphereMaterial = glass
			}

			world.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	// The three signature spheres
	world.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return &Scene{
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		World:        world,
		TopColor:     core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:  core.NewVec3(1.0, 1.0, 1.0),
		SamplingConfig: core.SamplingConfig{
			SamplesPerPixel: 200,
			MaxDepth:        50,
		},
	}
}
