package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/lumiray/lumiray/pkg/core"
	"github.com/lumiray/lumiray/pkg/integrator"
)

// colorRange clamps channel values just below 1.0 so the byte
// conversion never overflows to 256
var colorRange = core.NewInterval(0.0, 0.999)

// Scene interface to avoid circular imports with the scene package
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Shape
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetSamplingConfig() core.SamplingConfig
}

// Raytracer renders a scene by sampling camera rays per pixel,
// averaging and gamma-correcting the result
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     core.SamplingConfig
	integrator integrator.Integrator
	random     *rand.Rand
}

// NewRaytracer creates a new raytracer for the given scene and image size
func NewRaytracer(scene Scene, width, height int) (*Raytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
	}

	// Degenerate shapes surface here rather than as render artifacts
	if v, ok := scene.GetWorld().(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid world: %v", err)
		}
	}

	top, bottom := scene.GetBackgroundColors()
	background := integrator.Background{TopColor: top, BottomColor: bottom}

	config := core.DefaultSamplingConfig().Merge(scene.GetSamplingConfig())
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(background),
		random:     rand.New(rand.NewSource(42)), // Deterministic for testing
	}, nil
}

// MergeSamplingConfig applies non-zero fields on top of the current config
func (rt *Raytracer) MergeSamplingConfig(config core.SamplingConfig) {
	rt.config = rt.config.Merge(config)
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() core.SamplingConfig {
	return rt.config
}

// SetSeed reseeds the raytracer's own random generator
func (rt *Raytracer) SetSeed(seed int64) {
	rt.random = rand.New(rand.NewSource(seed))
}

// RenderBounds renders the pixels within bounds into the shared pixel
// stats array, taking samples until each pixel reaches targetSamples.
// Bounds of concurrent calls must not overlap.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) RenderStats {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			for ps.SampleCount < targetSamples {
				ray := camera.GetRay(i, j, random)
				color := rt.integrator.RayColor(ray, world, random, rt.config.MaxDepth)
				ps.AddSample(color)
				stats.TotalSamples++
			}
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// RenderPass renders the full image in a single pass on the calling
// goroutine and returns the assembled image
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	bounds := image.Rect(0, 0, rt.width, rt.height)
	stats := rt.RenderBounds(bounds, pixelStats, rt.random, rt.config.SamplesPerPixel)

	img := image.NewRGBA(bounds)
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, rt.vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}

	return img, stats
}

// vec3ToColor converts an averaged linear color to a display byte
// triple. Gamma correction happens here, after sample averaging and
// before clamping to the byte range.
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)

	return color.RGBA{
		R: uint8(256 * colorRange.Clamp(colorVec.X)),
		G: uint8(256 * colorRange.Clamp(colorVec.Y)),
		B: uint8(256 * colorRange.Clamp(colorVec.Z)),
		A: 255,
	}
}
